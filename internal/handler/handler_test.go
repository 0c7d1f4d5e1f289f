package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/model"
)

func TestUserHandler_Me(t *testing.T) {
	svc := new(MockAccountService)
	h := NewUserHandler(svc, newMedia(t))
	e := newTestEcho()
	account := alice()
	account.FirstName = "Alice"
	account.LastName = "Liddell"
	account.Balance = decimal.RequireFromString("12.5")
	e.GET("/api/user", h.Me, authenticatedAs(account))
	svc.On("Get", mock.Anything, account.ID).Return(account, nil)

	rec := doJSON(e, http.MethodGet, "/api/user", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, account.ID, body.ID)
	assert.Equal(t, "Alice Liddell", body.FullName)
	assert.Equal(t, "12.50", body.Balance)
	assert.True(t, account.CreatedAt.Equal(body.DateJoined))
}

func TestSkillHandler_List(t *testing.T) {
	svc := new(MockSkillService)
	h := NewSkillHandler(svc)
	e := newTestEcho()
	e.GET("/api/skills", h.List, authenticatedAs(alice()))
	svc.On("List", mock.Anything).Return([]model.Skill{{ID: 1, Name: "Docker"}, {ID: 2, Name: "Go"}}, nil)

	rec := doJSON(e, http.MethodGet, "/api/skills", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Docker"},{"id":2,"name":"Go"}]`, rec.Body.String())
}

func TestHTTPErrorHandler(t *testing.T) {
	e := newTestEcho()
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("dial tcp 10.0.0.5:3306: connection refused")
	})
	e.GET("/wrapped", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large")
	})
	e.GET("/validation", func(c echo.Context) error {
		return apperrors.FieldError("title", "This field is required.")
	})

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "internal error is hidden", target: "/boom", wantStatus: http.StatusInternalServerError, wantBody: `{"error":"internal server error","code":"INTERNAL_ERROR"}`},
		{name: "unknown route", target: "/missing", wantStatus: http.StatusNotFound, wantBody: `{"error":"Not Found","code":"NOT_FOUND"}`},
		{name: "echo error", target: "/wrapped", wantStatus: http.StatusRequestEntityTooLarge, wantBody: `{"error":"Request Entity Too Large","code":"PAYLOAD_TOO_LARGE"}`},
		{name: "validation", target: "/validation", wantStatus: http.StatusBadRequest, wantBody: `{"error":"validation failed","code":"VALIDATION_ERROR","fields":{"title":["This field is required."]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestCustomValidator_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&RefreshRequest{})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"This field is required."}, verr.Fields["refresh_token"])

	assert.NoError(t, v.Validate(&LoginRequest{Email: "alice@example.com", Password: "x"}))
}

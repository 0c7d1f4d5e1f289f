package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/model"
	"freelancehub/internal/service"
)

func TestTaskHandler_Create_AuthorIsCaller(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, newMedia(t))
	e := newTestEcho()
	account := alice()
	account.FirstName, account.LastName = "Alice", "Liddell"
	e.POST("/api/tasks", h.Create, authenticatedAs(account))

	created := &model.Task{
		ID:          1,
		Title:       "Build a logo",
		Description: "Vector logo",
		Budget:      decimal.RequireFromString("150"),
		Deadline:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Skills:      []string{"design"},
		AuthorID:    account.ID,
		Author:      account,
	}
	svc.On("Create", mock.Anything, account.ID, mock.MatchedBy(func(in service.TaskInput) bool {
		return *in.Title == "Build a logo" && in.Budget.Equal(decimal.NewFromInt(150)) && *in.Deadline == "2025-01-01"
	})).Return(created, nil)

	rec := doJSON(e, http.MethodPost, "/api/tasks",
		`{"title":"Build a logo","description":"Vector logo","budget":"150.00","deadline":"2025-01-01","skills":["design"],"author_id":"someone-else"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "150.00", body.Budget)
	assert.Equal(t, "2025-01-01", body.Deadline)
	assert.Equal(t, []string{"design"}, body.Skills)
	require.NotNil(t, body.Author)
	assert.Equal(t, "alice", body.Author.Username)
	assert.Equal(t, "Alice Liddell", body.Author.FullName)
	// author_name is the username, not the display name
	assert.Equal(t, "alice", body.AuthorName)
	svc.AssertExpectations(t)
}

func TestTaskHandler_List(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, newMedia(t))
	e := newTestEcho()
	e.GET("/api/tasks", h.List, authenticatedAs(alice()))

	svc.On("List", mock.Anything, service.TaskQuery{Author: "alice", Limit: 10, Offset: 5}).
		Return([]model.Task{{ID: 2, Title: "Newer"}, {ID: 1, Title: "Older"}}, nil)

	rec := doJSON(e, http.MethodGet, "/api/tasks?author=alice&limit=10&offset=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, uint(2), body[0].ID)
	assert.Nil(t, body[0].Author)

	rec = doJSON(e, http.MethodGet, "/api/tasks?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"limit"`)
}

func TestTaskHandler_OwnerOnlyMutations(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, newMedia(t))
	e := newTestEcho()
	stranger := alice()
	stranger.Username = "mallory"
	e.PUT("/api/tasks/:id", h.Update, authenticatedAs(stranger))
	e.DELETE("/api/tasks/:id", h.Delete, authenticatedAs(stranger))

	svc.On("Update", mock.Anything, stranger.ID, uint(5), mock.Anything).Return(nil, apperrors.ErrForbidden)
	svc.On("Delete", mock.Anything, stranger.ID, uint(5)).Return(apperrors.ErrForbidden)
	svc.On("Delete", mock.Anything, stranger.ID, uint(6)).Return(apperrors.ErrTaskNotFound)

	rec := doJSON(e, http.MethodPut, "/api/tasks/5", `{"title":"mine now"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/tasks/5", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")

	rec = doJSON(e, http.MethodDelete, "/api/tasks/6", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/tasks/not-a-number", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandler_Delete(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc, newMedia(t))
	e := newTestEcho()
	owner := alice()
	e.DELETE("/api/tasks/:id", h.Delete, authenticatedAs(owner))
	svc.On("Delete", mock.Anything, owner.ID, uint(5)).Return(nil)

	rec := doJSON(e, http.MethodDelete, "/api/tasks/5", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

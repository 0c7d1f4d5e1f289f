package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/model"
	"freelancehub/internal/service"
)

func TestProfileHandler_Get_DefaultProfile(t *testing.T) {
	svc := new(MockProfileService)
	h := NewProfileHandler(svc, newMedia(t))
	e := newTestEcho()
	account := alice()
	e.GET("/api/profile", h.Get, authenticatedAs(account))

	profile := model.NewProfile(account.ID)
	profile.Account = account
	svc.On("GetOwn", mock.Anything, account.ID).Return(profile, nil)

	rec := doJSON(e, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body.User.Username)
	assert.Equal(t, "alice@example.com", body.User.Email)
	assert.Equal(t, "alice", body.FullName)
	assert.Equal(t, "beginner", body.ExperienceLevel)
	assert.True(t, body.AvailableForHire)
	assert.Equal(t, "0.00", body.Rating)
	assert.Nil(t, body.HourlyRate)
	assert.Nil(t, body.Avatar)
	assert.Empty(t, body.Skills)
	assert.Equal(t, []string{}, body.Languages)
}

func TestProfileHandler_GetByUsername_HidesEmailAndResolvesAvatar(t *testing.T) {
	svc := new(MockProfileService)
	h := NewProfileHandler(svc, newMedia(t))
	e := newTestEcho()
	e.GET("/api/profile/:username", h.GetByUsername, authenticatedAs(alice()))

	bob := alice()
	bob.Username = "bob"
	bob.FirstName = "Bob"
	bob.LastName = "Builder"
	key := "avatars/" + bob.ID.String() + ".jpg"
	bob.Avatar = &key
	profile := model.NewProfile(bob.ID)
	profile.Account = bob
	rate := decimal.RequireFromString("30")
	profile.HourlyRate = &rate
	profile.Skills = []model.Skill{{ID: 4, Name: "Go"}}
	svc.On("GetByUsername", mock.Anything, "bob").Return(profile, nil)
	svc.On("GetByUsername", mock.Anything, "nobody").Return(nil, apperrors.ErrProfileNotFound)

	rec := doJSON(e, http.MethodGet, "/api/profile/bob", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.User.Email)
	assert.Equal(t, "Bob Builder", body.FullName)
	require.NotNil(t, body.Avatar)
	assert.Equal(t, "http://example.com/media/"+key, *body.Avatar)
	require.NotNil(t, body.HourlyRate)
	assert.Equal(t, "30.00", *body.HourlyRate)
	assert.Equal(t, []SkillResponse{{ID: 4, Name: "Go"}}, body.Skills)

	rec = doJSON(e, http.MethodGet, "/api/profile/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "PROFILE_NOT_FOUND")
}

func TestProfileHandler_Update_AcceptsAliases(t *testing.T) {
	svc := new(MockProfileService)
	h := NewProfileHandler(svc, newMedia(t))
	e := newTestEcho()
	account := alice()
	e.PATCH("/api/profile", h.Update, authenticatedAs(account))

	profile := model.NewProfile(account.ID)
	profile.Account = account
	svc.On("Update", mock.Anything, account.ID, mock.MatchedBy(func(in service.ProfileUpdate) bool {
		return in.FullName != nil && *in.FullName == "Ada Lovelace" &&
			in.HourlyRate != nil && in.HourlyRate.Equal(decimal.NewFromInt(40)) &&
			in.SkillIDs != nil && len(*in.SkillIDs) == 2 &&
			in.Description == nil
	})).Return(profile, nil)

	rec := doJSON(e, http.MethodPatch, "/api/profile", `{"fullName":"Ada Lovelace","hourlyRate":"40","skills":[1,2]}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestProfileHandler_UploadAvatar_NoFile(t *testing.T) {
	svc := new(MockProfileService)
	h := NewProfileHandler(svc, newMedia(t))
	e := newTestEcho()
	e.POST("/api/upload-avatar", h.UploadAvatar, authenticatedAs(alice()))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "no file here"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_FILE_PROVIDED")
	svc.AssertNotCalled(t, "UploadAvatar", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileHandler_UploadAvatar(t *testing.T) {
	svc := new(MockProfileService)
	h := NewProfileHandler(svc, newMedia(t))
	e := newTestEcho()
	account := alice()
	e.POST("/api/upload-avatar", h.UploadAvatar, authenticatedAs(account))

	stored := *account
	key := "avatars/" + account.ID.String() + ".jpg"
	stored.Avatar = &key
	svc.On("UploadAvatar", mock.Anything, account.ID, mock.Anything, int64(4)).Return(&stored, nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"avatar":"http://example.com/media/`+key+`"}`, rec.Body.String())
}

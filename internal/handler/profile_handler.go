package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"freelancehub/internal/auth"
	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/service"
)

// ProfileHandler handles profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
	media          *MediaResolver
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService, media *MediaResolver) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, media: media}
}

// UpdateProfileRequest is a partial profile update. Omitted fields keep their
// value. fullName, hourlyRate and skills are accepted as aliases.
type UpdateProfileRequest struct {
	FirstName          *string          `json:"first_name"`
	LastName           *string          `json:"last_name"`
	FullName           *string          `json:"full_name"`
	FullNameAlias      *string          `json:"fullName" swaggerignore:"true"`
	Description        *string          `json:"description"`
	Specialization     *string          `json:"specialization"`
	ExperienceLevel    *string          `json:"experience_level" enums:"beginner,intermediate,expert"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate" swaggertype:"string" example:"45.00"`
	HourlyRateAlias    *decimal.Decimal `json:"hourlyRate" swaggerignore:"true"`
	PortfolioURL       *string          `json:"portfolio_url"`
	GithubURL          *string          `json:"github_url"`
	LinkedinURL        *string          `json:"linkedin_url"`
	Location           *string          `json:"location"`
	Languages          *[]string        `json:"languages"`
	Education          *[]string        `json:"education"`
	Certificates       *[]string        `json:"certificates"`
	PreferredWorkHours *string          `json:"preferred_work_hours"`
	AvailableForHire   *bool            `json:"available_for_hire"`
	SkillIDs           *[]uint          `json:"skill_ids"`
	SkillsAlias        *[]uint          `json:"skills" swaggerignore:"true"`
}

func (r *UpdateProfileRequest) toInput() service.ProfileUpdate {
	in := service.ProfileUpdate{
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		FullName:           r.FullName,
		Description:        r.Description,
		Specialization:     r.Specialization,
		ExperienceLevel:    r.ExperienceLevel,
		HourlyRate:         r.HourlyRate,
		PortfolioURL:       r.PortfolioURL,
		GithubURL:          r.GithubURL,
		LinkedinURL:        r.LinkedinURL,
		Location:           r.Location,
		Languages:          r.Languages,
		Education:          r.Education,
		Certificates:       r.Certificates,
		PreferredWorkHours: r.PreferredWorkHours,
		AvailableForHire:   r.AvailableForHire,
		SkillIDs:           r.SkillIDs,
	}
	if in.FullName == nil {
		in.FullName = r.FullNameAlias
	}
	if in.HourlyRate == nil {
		in.HourlyRate = r.HourlyRateAlias
	}
	if in.SkillIDs == nil {
		in.SkillIDs = r.SkillsAlias
	}
	return in
}

// AvatarResponse carries the resolved avatar URL.
type AvatarResponse struct {
	Avatar *string `json:"avatar"`
}

// Get godoc
// @Summary Own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	caller, err := auth.CurrentCaller(c)
	if err != nil {
		return err
	}

	profile, err := h.profileService.GetOwn(c.Request().Context(), caller.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.media.profile(c, profile, true))
}

// Update godoc
// @Summary Update own profile
// @Description Partial update for both PUT and PATCH. skill_ids replaces the whole skill set.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile [put]
// @Router /profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	caller, err := auth.CurrentCaller(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	profile, err := h.profileService.Update(c.Request().Context(), caller.AccountID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.media.profile(c, profile, true))
}

// GetByUsername godoc
// @Summary Public profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile/{username} [get]
func (h *ProfileHandler) GetByUsername(c echo.Context) error {
	profile, err := h.profileService.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.media.profile(c, profile, false))
}

// UploadAvatar godoc
// @Summary Upload avatar
// @Description Accepts a JPEG, PNG or GIF image; it is resized to fit 512x512 and stored as JPEG.
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} AvatarResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /upload-avatar [post]
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	caller, err := auth.CurrentCaller(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return apperrors.ErrNoFileProvided
	}
	file, err := fh.Open()
	if err != nil {
		return apperrors.ErrNoFileProvided
	}
	defer file.Close()

	account, err := h.profileService.UploadAvatar(c.Request().Context(), caller.AccountID, file, fh.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AvatarResponse{Avatar: h.media.AvatarURL(c, account.AvatarKey())})
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"freelancehub/internal/auth"
	"freelancehub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	media       *MediaResolver
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, media *MediaResolver) *AuthHandler {
	return &AuthHandler{authService: authService, media: media}
}

// RegisterRequest represents a registration request. password2 is accepted as
// an alias of password_confirm.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Password2       string `json:"password2" swaggerignore:"true"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// LoginRequest represents a login request. username may also hold an email address.
type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest represents a logout request.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	User                 UserResponse `json:"user"`
	AccessToken          string       `json:"access_token"`
	RefreshToken         string       `json:"refresh_token"`
	TokenType            string       `json:"token_type" example:"Bearer"`
	AccessTokenExpiresAt time.Time    `json:"access_token_expires_at"`
}

// AccessTokenResponse represents a refreshed access token.
type AccessTokenResponse struct {
	AccessToken          string    `json:"access_token"`
	TokenType            string    `json:"token_type" example:"Bearer"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
}

func (h *AuthHandler) authResponse(c echo.Context, res *service.AuthResult) AuthResponse {
	return AuthResponse{
		User:                 h.media.user(c, res.Account),
		AccessToken:          res.AccessToken.Token,
		RefreshToken:         res.RefreshToken.Token,
		TokenType:            "Bearer",
		AccessTokenExpiresAt: res.AccessToken.ExpiresAt,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Creates the account and its empty profile, then logs it in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	if req.PasswordConfirm == "" {
		req.PasswordConfirm = req.Password2
	}

	res, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.authResponse(c, res))
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	res, err := h.authService.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.authResponse(c, res))
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} AccessTokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /token/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AccessTokenResponse{
		AccessToken:          token.Token,
		TokenType:            "Bearer",
		AccessTokenExpiresAt: token.ExpiresAt,
	})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the presented access token and, when supplied, the refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LogoutRequest false "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	caller, err := auth.CurrentCaller(c)
	if err != nil {
		return err
	}

	// the body is optional
	var req LogoutRequest
	_ = c.Bind(&req)

	if err := h.authService.Logout(c.Request().Context(), caller, req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logout successful",
	})
}

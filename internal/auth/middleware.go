package auth

import (
	"time"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "freelancehub/internal/errors"
)

// ContextKey is where the validated access token claims are stored on the echo context.
const ContextKey = "claims"

// Caller is the authenticated identity handed to handlers and services.
type Caller struct {
	AccountID uuid.UUID
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// Middleware authenticates requests with a bearer access token.
// Refresh tokens and blacklisted access tokens are rejected.
func Middleware(jwtService *JWTService, tokenStore TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				return nil, err
			}
			revoked, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil || revoked {
				return nil, apperrors.ErrInvalidToken
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return apperrors.ErrUnauthorized
			}
			return apperrors.ErrInvalidToken
		},
	})
}

// CurrentCaller returns the identity established by Middleware.
func CurrentCaller(c echo.Context) (Caller, error) {
	claims, ok := c.Get(ContextKey).(*Claims)
	if !ok || claims == nil {
		return Caller{}, apperrors.ErrUnauthorized
	}
	accountID, err := claims.AccountUUID()
	if err != nil {
		return Caller{}, apperrors.ErrInvalidToken
	}
	caller := Caller{
		AccountID: accountID,
		Username:  claims.Username,
		TokenID:   claims.ID,
	}
	if claims.ExpiresAt != nil {
		caller.ExpiresAt = claims.ExpiresAt.Time
	}
	return caller, nil
}

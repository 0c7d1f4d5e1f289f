package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/tracking"
)

var errInvalidBody = apperrors.NewHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")

// NewHTTPErrorHandler renders every error as an ErrorResponse. Server errors
// are logged and reported to the tracker; their details never reach the client.
func NewHTTPErrorHandler(tracker *tracking.Tracker) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := toHTTPError(err)
		if httpErr.StatusCode >= http.StatusInternalServerError {
			req := c.Request()
			slog.ErrorContext(req.Context(), "request failed",
				"method", req.Method,
				"path", c.Path(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"error", err,
			)
			tracker.CaptureException(err, map[string]string{
				"method": req.Method,
				"route":  c.Path(),
			})
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.StatusCode)
		} else {
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if writeErr != nil {
			slog.Warn("write error response", "error", writeErr)
		}
	}
}

// toHTTPError maps echo's own errors (routing, body limit, binding) and domain errors.
func toHTTPError(err error) *apperrors.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return apperrors.MapErrorToHTTP(err)
		}
		return apperrors.NewHTTPError(he.Code, messageOf(he), codeFor(he.Code))
	}
	return apperrors.MapErrorToHTTP(err)
}

func messageOf(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok {
		return s
	}
	if e, ok := he.Message.(error); ok {
		return e.Error()
	}
	return fmt.Sprint(he.Message)
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		return "HTTP_ERROR"
	}
}

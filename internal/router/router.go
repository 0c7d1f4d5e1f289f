package router

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"freelancehub/internal/config"
	"freelancehub/internal/handler"
	"freelancehub/internal/tracking"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Profile *handler.ProfileHandler
	Skill   *handler.SkillHandler
	Task    *handler.TaskHandler
	Health  *handler.HealthHandler
}

// Register wires routes and middleware. requireAuth guards every route except
// registration, login, token refresh, health, docs and media.
func Register(e *echo.Echo, cfg *config.Config, h Handlers, requireAuth echo.MiddlewareFunc, tracker *tracking.Tracker) {
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(tracker)
	e.Validator = handler.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(bodyLimit(cfg.MaxAvatarBytes)))

	e.GET("/healthz", h.Health.Check)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if cfg.StorageBackend != "minio" {
		e.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	api := e.Group("/api")

	// Public routes
	api.GET("/healthz", h.Health.Check)
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.POST("/token/refresh", h.Auth.Refresh)

	// Secured routes (require a bearer access token)
	secured := api.Group("", requireAuth)

	secured.POST("/logout", h.Auth.Logout)
	secured.GET("/user", h.User.Me)

	secured.GET("/profile", h.Profile.Get)
	secured.PUT("/profile", h.Profile.Update)
	secured.PATCH("/profile", h.Profile.Update)
	secured.GET("/profile/:username", h.Profile.GetByUsername)
	secured.POST("/upload-avatar", h.Profile.UploadAvatar)

	secured.GET("/skills", h.Skill.List)

	secured.GET("/tasks", h.Task.List)
	secured.POST("/tasks", h.Task.Create)
	secured.GET("/tasks/:id", h.Task.Get)
	secured.PUT("/tasks/:id", h.Task.Update)
	secured.PATCH("/tasks/:id", h.Task.Update)
	secured.DELETE("/tasks/:id", h.Task.Delete)
}

// bodyLimit leaves room for multipart overhead on top of the avatar limit.
func bodyLimit(maxAvatarBytes int64) string {
	const overhead = 1 << 20
	if maxAvatarBytes <= 0 {
		maxAvatarBytes = 5 << 20
	}
	return strconv.FormatInt((maxAvatarBytes+overhead)/1024, 10) + "K"
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			switch {
			case v.Status >= 500:
				level = slog.LevelError
			case v.Status >= 400:
				level = slog.LevelWarn
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			slog.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}

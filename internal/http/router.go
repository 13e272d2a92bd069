package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartrecipe/auth-service/internal/auth"
	"github.com/smartrecipe/auth-service/internal/config"
	"github.com/smartrecipe/auth-service/internal/http/features/account"
	"github.com/smartrecipe/auth-service/internal/http/features/password"
	"github.com/smartrecipe/auth-service/internal/http/features/session"
	"github.com/smartrecipe/auth-service/internal/http/features/status"
	"github.com/smartrecipe/auth-service/internal/http/features/thirdparty"
	"github.com/smartrecipe/auth-service/internal/http/features/verification"
	"github.com/smartrecipe/auth-service/internal/http/middleware"
	"github.com/smartrecipe/auth-service/internal/httputil"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	Service         *auth.Service
	Tokens          *auth.TokenService
	RateLimit       config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimit, cfg.Logger)
	authed := middleware.Auth(cfg.Tokens)

	accountHandler := account.NewHandler(cfg.Logger, cfg.Service)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Post("/v1/auth/register", accountHandler.Register)
		r.Post("/v1/auth/login", accountHandler.Login)
	})
	r.With(rateLimiters["code"]).Post("/v1/auth/send-register-code", accountHandler.SendRegisterCode)
	r.With(authed).Post("/v1/auth/deactivate", accountHandler.Deactivate)

	passwordHandler := password.NewHandler(cfg.Logger, cfg.Service)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["reset"])
		r.Post("/v1/auth/forgot-password", passwordHandler.ForgotPassword)
		r.Post("/v1/auth/reset-password", passwordHandler.ResetPassword)
	})
	r.With(authed).Post("/v1/auth/change-password", passwordHandler.ChangePassword)

	sessionHandler := session.NewHandler(cfg.Logger, cfg.Service)
	r.With(rateLimiters["refresh"]).Post("/v1/auth/refresh-token", sessionHandler.Refresh)
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Post("/v1/auth/logout", sessionHandler.Logout)
		r.Get("/v1/auth/sessions", sessionHandler.List)
	})

	verificationHandler := verification.NewHandler(cfg.Logger, cfg.Service)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["code"])
		r.Post("/v1/auth/send-verification-code", verificationHandler.SendCode)
		r.Post("/v1/auth/verify-code", verificationHandler.VerifyCode)
	})

	thirdPartyHandler := thirdparty.NewHandler(cfg.Logger, cfg.Service)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Post("/v1/auth/third-party/login", thirdPartyHandler.Login)
		r.Post("/v1/auth/third-party/bind", thirdPartyHandler.Bind)
	})
	r.With(authed).Post("/v1/auth/third-party/unbind", thirdPartyHandler.Unbind)

	statusHandler := status.NewHandler(cfg.Logger, cfg.Service)
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Get("/v1/auth/verification-status", statusHandler.VerificationStatus)
		r.Get("/v1/auth/account-status", statusHandler.AccountStatus)
	})

	return r
}

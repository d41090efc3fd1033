package transport

import (
	"errors"
	"net/http"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/middleware"
	"catalog-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SignInResponse is returned by POST /admin/signin
type SignInResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UID     string `json:"uid"`
	Token   string `json:"token"`
	Expired int64  `json:"expired"`
}

// CheckResponse is returned by the token check endpoints
type CheckResponse struct {
	Success bool   `json:"success"`
	UID     string `json:"uid"`
}

// AuthHandler serves sign-in and token checks
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers sign-in and check routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/admin/signin", h.SignIn)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/api/user/check", h.Check)
		r.Post("/api/{path}/user/check", h.Check)
	})
}

// SignIn handles admin authentication
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sign in validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, expires, err := h.authService.SignIn(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Debug("Sign in rejected", zap.String("username", req.Username))
			middleware.RespondWithError(w, http.StatusBadRequest, "登入失敗")
			return
		}

		h.logger.Error("Sign in failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		h.logger.Error("Issued token does not validate", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	h.logger.Info("Admin signed in", zap.String("uid", claims.Subject))
	middleware.RespondWithJSON(w, http.StatusOK, SignInResponse{
		Success: true,
		Message: "登入成功",
		UID:     claims.Subject,
		Token:   token,
		Expired: expires.UnixMilli(),
	})
}

// Check confirms the token in the Authorization header is still valid
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetAdminID(r.Context())
	if !ok {
		h.logger.Error("Admin ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CheckResponse{Success: true, UID: uid})
}

package controller

import (
	"net/http"

	"github.com/cassiomorais/fintrack/internal/infrastructure/observability"
	"github.com/cassiomorais/fintrack/internal/service"
)

type AuthController struct {
	authService *service.AuthService
	metrics     *observability.Metrics
}

func NewAuthController(authService *service.AuthService, metrics *observability.Metrics) *AuthController {
	return &AuthController{
		authService: authService,
		metrics:     metrics,
	}
}

func (h *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, token, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.recordAttempt("register", "error")
		writeError(w, err)
		return
	}

	h.recordAttempt("register", "ok")
	writeJSON(w, http.StatusCreated, AuthResponse{User: FromUser(u), Token: token})
}

func (h *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.recordAttempt("login", "error")
		writeError(w, err)
		return
	}

	h.recordAttempt("login", "ok")
	writeJSON(w, http.StatusOK, AuthResponse{User: FromUser(u), Token: token})
}

func (h *AuthController) recordAttempt(operation, outcome string) {
	if h.metrics != nil {
		h.metrics.AuthAttempts.WithLabelValues(operation, outcome).Inc()
	}
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/service"
)

type AuthHandler struct {
	base
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		base:        newBase(logger),
		authService: authService,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), identityFrom(r), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Profile(r.Context(), identityFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context(), identityFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, orEmpty(users))
}

func (h *AuthHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "user")
	if !ok {
		return
	}

	var req dto.UpdateUserStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateUserStatus(r.Context(), identityFrom(r), id, *req.IsActive)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	message := "User deactivated"
	if user.IsActive {
		message = "User activated"
	}
	h.respondJSON(w, http.StatusOK, dto.UserStatusResponse{Message: message, User: user})
}

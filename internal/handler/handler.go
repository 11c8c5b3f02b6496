package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// base содержит общие для всех обработчиков кодирование ответов и разбор запросов
type base struct {
	validator *validator.Validate
	logger    *slog.Logger
}

func newBase(logger *slog.Logger) base {
	return base{
		validator: validator.New(),
		logger:    logger,
	}
}

// decode читает JSON тело запроса и проверяет его по тегам validate.
// При ошибке ответ уже отправлен и возвращается false.
func (h *base) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return h.validate(w, dst)
}

// decodeOptional работает как decode, но допускает пустое тело
func (h *base) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return h.validate(w, dst)
}

func (h *base) validate(w http.ResponseWriter, dst any) bool {
	if err := h.validator.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return false
	}
	return true
}

// pathID извлекает положительный идентификатор из параметра маршрута
func (h *base) pathID(w http.ResponseWriter, r *http.Request, entity string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err == nil && id <= 0 {
		err = errors.New("id must be positive")
	}
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s id", entity), err.Error())
		return 0, false
	}
	return id, true
}

func identityFrom(r *http.Request) domain.Identity {
	identity, _ := middleware.IdentityFrom(r.Context())
	return identity
}

func scopeFrom(r *http.Request) domain.Scope {
	return middleware.ScopeFrom(r.Context())
}

func (h *base) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, "invalid credentials", "")
	case errors.Is(err, domain.ErrForbidden):
		h.respondError(w, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, domain.ErrNotFound):
		h.respondError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicateKey):
		h.respondError(w, http.StatusConflict, err.Error(), "")
	case errors.Is(err, domain.ErrTransient):
		h.logger.Warn("store unavailable",
			slog.String("request_id", middleware.RequestIDFrom(r.Context())),
			slog.Any("error", err),
		)
		h.respondError(w, http.StatusServiceUnavailable, "service temporarily unavailable", "retry the request")
	default:
		h.logger.Error("internal error",
			slog.String("request_id", middleware.RequestIDFrom(r.Context())),
			slog.Any("error", err),
		)
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h *base) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *base) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}

// orEmpty заменяет nil на пустой срез, чтобы списки кодировались как []
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

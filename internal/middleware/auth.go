package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/farm-operations-api/internal/auth"
	"github.com/farm-operations-api/internal/domain"
)

// TokenParser проверяет токен сессии и возвращает его содержимое
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate требует действительный Bearer-токен и кладёт пользователя в контекст
func Authenticate(tokens TokenParser, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "authentication required")
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				logger.Debug("rejected session token",
					slog.String("request_id", RequestIDFrom(r.Context())),
					slog.Any("error", err),
				)
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := WithIdentity(r.Context(), claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity сохраняет пользователя в контексте запроса
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom возвращает пользователя из контекста запроса
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// ScopeFrom вычисляет область видимости пользователя из контекста.
// Без пользователя в контексте доступ запрещён.
func ScopeFrom(ctx context.Context) domain.Scope {
	identity, ok := IdentityFrom(ctx)
	if !ok {
		return domain.Denied()
	}
	return domain.ResolveScope(identity)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// Package middlewarectx содержит HTTP middleware сервиса: идентичность посетителя,
// CSRF защиту форм и ограничение частоты отправки форм.
package middlewarectx

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/bozo-bus/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Identity — ключ идентичности посетителя в контексте.
const Identity Key = "identity"

// IdentityLoader читает идентичность из запроса.
type IdentityLoader interface {
	Load(r *http.Request) models.Identity
}

// SessionMiddleware кладёт идентичность посетителя в контекст запроса.
// Запрос без идентичности не отклоняется: страница сама покажет форму входа.
func SessionMiddleware(store IdentityLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithIdentity(r.Context(), store.Load(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity возвращает контекст с идентичностью.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, Identity, identity)
}

// IdentityFromContext достаёт идентичность; пустую, если middleware не отработал.
func IdentityFromContext(ctx context.Context) models.Identity {
	identity, _ := ctx.Value(Identity).(models.Identity)
	return identity
}

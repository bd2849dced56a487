// Package logout удаляет идентичность посетителя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/bozo-bus/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bozo-bus/internal/services/events"
)

// SessionClearer удаляет идентичность.
type SessionClearer interface {
	Clear(w http.ResponseWriter)
}

// Emitter публикует события воронки.
type Emitter interface {
	Emit(ctx context.Context, name, email, requestID string)
}

// Handler обрабатывает POST /bus/logout.
type Handler struct {
	log      *slog.Logger
	sessions SessionClearer
	events   Emitter
}

// New создает новый Handler.
func New(log *slog.Logger, sessions SessionClearer, emitter Emitter) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		events:   emitter,
	}
}

// ServeHTTP очищает идентичность независимо от прежнего состояния и возвращает на /bus,
// где посетитель увидит форму входа.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bus.logout"
	requestID := middleware.GetReqID(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", requestID),
	)

	h.sessions.Clear(w)

	if identity := middlewarectx.IdentityFromContext(r.Context()); identity.Present() {
		h.events.Emit(r.Context(), events.LoggedOut, identity.Email, requestID)
	}

	log.Info("identity cleared")
	http.Redirect(w, r, "/bus", http.StatusSeeOther)
}

// Package portal открывает портал управления подпиской.
package portal

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/page"
	"github.com/magabrotheeeer/bozo-bus/internal/http/response"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
	"github.com/magabrotheeeer/bozo-bus/internal/services/events"
	"github.com/magabrotheeeer/bozo-bus/internal/state"
	"github.com/magabrotheeeer/bozo-bus/internal/view"
)

// ErrPortal — сообщение посетителю при ошибке открытия портала.
const ErrPortal = "Error opening portal"

// PortalCreator создаёт ссылку на портал.
type PortalCreator interface {
	CreatePortal(ctx context.Context, email string) (string, error)
}

// Emitter публикует события воронки.
type Emitter interface {
	Emit(ctx context.Context, name, email, requestID string)
}

// Handler обрабатывает POST /bus/portal.
type Handler struct {
	log        *slog.Logger
	router     page.Resolver
	oracle     PortalCreator
	conditions page.ConditionsGetter
	events     Emitter
	renderer   response.Renderer
}

// New создает новый Handler.
func New(
	log *slog.Logger,
	router page.Resolver,
	oracle PortalCreator,
	conditions page.ConditionsGetter,
	emitter Emitter,
	renderer response.Renderer,
) *Handler {
	return &Handler{
		log:        log,
		router:     router,
		oracle:     oracle,
		conditions: conditions,
		events:     emitter,
		renderer:   renderer,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bus.portal"
	requestID := middleware.GetReqID(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", requestID),
	)

	// портал доступен только с панели подписчика
	decision, ok := page.Require(w, r, log, h.router, h.renderer, state.ViewDashboard)
	if !ok {
		return
	}
	identity := decision.Identity

	portalURL, err := h.oracle.CreatePortal(r.Context(), identity.Email)
	if err != nil {
		log.Error("failed to create portal", sl.Err(err), sl.Email(identity.Email))
		response.Page(w, r, log, h.renderer, http.StatusBadGateway, view.PageData{
			Page:         view.PageBus,
			View:         state.ViewDashboard,
			Email:        identity.Email,
			AccountError: ErrPortal,
			Conditions:   page.LoadConditions(r.Context(), log, h.conditions),
		})
		return
	}

	h.events.Emit(r.Context(), events.PortalOpened, identity.Email, requestID)
	http.Redirect(w, r, portalURL, http.StatusSeeOther)
}

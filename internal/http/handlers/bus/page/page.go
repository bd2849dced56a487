// Package page рисует страницу автобуса: одно из четырёх представлений,
// выбранное по идентичности посетителя и статусу его подписки.
package page

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/bozo-bus/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bozo-bus/internal/http/response"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
	"github.com/magabrotheeeer/bozo-bus/internal/models"
	"github.com/magabrotheeeer/bozo-bus/internal/state"
	"github.com/magabrotheeeer/bozo-bus/internal/view"
)

// ErrUnverified — сообщение посетителю, если статус подписки получить не удалось.
const ErrUnverified = "Could not verify subscription. Please try again."

// Resolver выбирает представление по идентичности.
type Resolver interface {
	Resolve(ctx context.Context, identity models.Identity) (state.Decision, error)
}

// ConditionsGetter отдаёт сегодняшние условия.
type ConditionsGetter interface {
	GetConditions(ctx context.Context) (*models.Conditions, error)
}

// Handler обрабатывает GET /bus.
type Handler struct {
	log        *slog.Logger
	router     Resolver
	conditions ConditionsGetter
	renderer   response.Renderer
}

// New создает новый Handler.
func New(log *slog.Logger, router Resolver, conditions ConditionsGetter, renderer response.Renderer) *Handler {
	return &Handler{
		log:        log,
		router:     router,
		conditions: conditions,
		renderer:   renderer,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bus.page"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity := middlewarectx.IdentityFromContext(r.Context())

	// ссылка «Get on the bus» с формы входа
	if !identity.Present() && r.URL.Query().Get("view") == "subscribe" {
		response.Page(w, r, log, h.renderer, http.StatusOK, view.PageData{
			Page: view.PageBus,
			View: state.ViewSubscribe,
		})
		return
	}

	decision, err := h.router.Resolve(r.Context(), identity)
	if err != nil {
		log.Error("failed to resolve view", sl.Err(err), sl.Email(identity.Email))
		unverified(w, r, log, h.renderer, identity.Email)
		return
	}

	data := view.PageData{
		Page:  view.PageBus,
		View:  decision.View,
		Email: decision.Identity.Email,
	}
	if decision.View == state.ViewDashboard {
		data.Conditions = LoadConditions(r.Context(), log, h.conditions)
	}

	log.Debug("view selected", slog.String("view", decision.View.String()))
	response.Page(w, r, log, h.renderer, http.StatusOK, data)
}

// LoadConditions получает условия для панели подписчика.
// Ошибка только логируется: панель рисуется и без условий.
func LoadConditions(ctx context.Context, log *slog.Logger, getter ConditionsGetter) *models.Conditions {
	c, err := getter.GetConditions(ctx)
	if err != nil {
		log.Warn("failed to load conditions", sl.Err(err))
		return nil
	}
	return c
}

// Require пускает действие дальше, только если текущее представление
// посетителя равно want. Иначе посетитель возвращается на /bus, а при
// недоступном статусе подписки рисуется страница с ErrUnverified.
func Require(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	router Resolver,
	renderer response.Renderer,
	want state.View,
) (state.Decision, bool) {
	identity := middlewarectx.IdentityFromContext(r.Context())

	decision, err := router.Resolve(r.Context(), identity)
	if err != nil {
		log.Error("failed to resolve view", sl.Err(err), sl.Email(identity.Email))
		unverified(w, r, log, renderer, identity.Email)
		return state.Decision{}, false
	}
	if decision.View != want {
		log.Info("action not allowed in current view",
			slog.String("view", decision.View.String()),
			slog.String("want", want.String()),
		)
		http.Redirect(w, r, "/bus", http.StatusSeeOther)
		return decision, false
	}
	return decision, true
}

func unverified(w http.ResponseWriter, r *http.Request, log *slog.Logger, renderer response.Renderer, email string) {
	response.Page(w, r, log, renderer, http.StatusBadGateway, view.PageData{
		Page:        view.PageBus,
		Email:       email,
		Error:       ErrUnverified,
		Unavailable: true,
	})
}

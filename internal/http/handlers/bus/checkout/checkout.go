// Package checkout начинает оформление подписки во внешнем платёжном провайдере.
//
// При успехе email становится идентичностью посетителя, а браузер уходит
// на страницу оплаты. Завершение оплаты видно только при следующей загрузке /bus.
package checkout

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bozo-bus/internal/http/response"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
	"github.com/magabrotheeeer/bozo-bus/internal/services/events"
	"github.com/magabrotheeeer/bozo-bus/internal/state"
	"github.com/magabrotheeeer/bozo-bus/internal/view"
)

// ErrCheckout — сообщение посетителю при ошибке создания оплаты.
const ErrCheckout = "Could not create checkout."

// Request — форма подписки.
type Request struct {
	Email string `validate:"required,email"`
}

// CheckoutCreator создаёт сессию оплаты.
type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, email string) (string, error)
}

// SessionSaver сохраняет идентичность.
type SessionSaver interface {
	Save(w http.ResponseWriter, email string) error
}

// Emitter публикует события воронки.
type Emitter interface {
	Emit(ctx context.Context, name, email, requestID string)
}

// Handler обрабатывает POST /bus/checkout.
type Handler struct {
	log      *slog.Logger
	oracle   CheckoutCreator
	sessions SessionSaver
	events   Emitter
	renderer response.Renderer
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, oracle CheckoutCreator, sessions SessionSaver, emitter Emitter, renderer response.Renderer) *Handler {
	return &Handler{
		log:      log,
		oracle:   oracle,
		sessions: sessions,
		events:   emitter,
		renderer: renderer,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bus.checkout"
	requestID := middleware.GetReqID(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", requestID),
	)

	req := Request{Email: strings.TrimSpace(r.PostFormValue("email"))}
	data := view.PageData{
		Page:  view.PageBus,
		View:  state.ViewSubscribe,
		Email: req.Email,
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		data.Error = response.ValidationMessage(err.(validator.ValidationErrors))
		response.Page(w, r, log, h.renderer, http.StatusUnprocessableEntity, data)
		return
	}

	checkoutURL, err := h.oracle.CreateCheckout(r.Context(), req.Email)
	if err != nil {
		log.Error("failed to create checkout", sl.Err(err), sl.Email(req.Email))
		data.Error = ErrCheckout
		response.Page(w, r, log, h.renderer, http.StatusBadGateway, data)
		return
	}

	// после возврата от провайдера /bus узнаёт посетителя по этой cookie
	if err := h.sessions.Save(w, req.Email); err != nil {
		log.Error("failed to save identity", sl.Err(err))
		data.Error = ErrCheckout
		response.Page(w, r, log, h.renderer, http.StatusInternalServerError, data)
		return
	}

	h.events.Emit(r.Context(), events.CheckoutStarted, req.Email, requestID)
	log.Info("redirecting to checkout", sl.Email(req.Email))
	http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
}

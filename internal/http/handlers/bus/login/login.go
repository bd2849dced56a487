// Package login сохраняет email посетителя как его идентичность.
//
// Реальность адреса не проверяется: достаточно синтаксически верного email.
package login

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

// Request — форма входа.
type Request struct {
	Email string `validate:"required,email"`
}

// SessionSaver сохраняет идентичность.
type SessionSaver interface {
	Save(w http.ResponseWriter, email string) error
}

// Emitter публикует события воронки.
type Emitter interface {
	Emit(ctx context.Context, name, email, requestID string)
}

// Handler обрабатывает POST /bus/login.
type Handler struct {
	log      *slog.Logger
	sessions SessionSaver
	events   Emitter
	renderer response.Renderer
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, sessions SessionSaver, emitter Emitter, renderer response.Renderer) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		events:   emitter,
		renderer: renderer,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bus.login"
	requestID := middleware.GetReqID(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", requestID),
	)

	req := Request{Email: strings.TrimSpace(r.PostFormValue("email"))}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Page(w, r, log, h.renderer, http.StatusUnprocessableEntity, view.PageData{
			Page:  view.PageBus,
			View:  state.ViewLogin,
			Error: response.ValidationMessage(err.(validator.ValidationErrors)),
		})
		return
	}

	if err := h.sessions.Save(w, req.Email); err != nil {
		log.Error("failed to save identity", sl.Err(err))
		response.Page(w, r, log, h.renderer, http.StatusInternalServerError, view.PageData{
			Page:  view.PageBus,
			View:  state.ViewLogin,
			Error: "Could not log in. Please try again.",
		})
		return
	}

	h.events.Emit(r.Context(), events.LoggedIn, req.Email, requestID)
	log.Info("identity stored", sl.Email(req.Email))
	http.Redirect(w, r, "/bus", http.StatusSeeOther)
}

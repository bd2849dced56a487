// Package reading отдаёт чтение подписчику на панели.
package reading

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/page"
	"github.com/magabrotheeeer/bozo-bus/internal/http/response"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
	"github.com/magabrotheeeer/bozo-bus/internal/models"
	"github.com/magabrotheeeer/bozo-bus/internal/state"
	"github.com/magabrotheeeer/bozo-bus/internal/view"
)

// ErrReading — сообщение подписчику при ошибке получения чтения.
const ErrReading = "Error getting reading."

// Request — вопрос с панели подписчика.
type Request struct {
	Question string `validate:"max=2000"`
}

// ReadingGetter получает чтение по вопросу.
type ReadingGetter interface {
	GetReading(ctx context.Context, question, email string) (*models.Reading, error)
}

// Handler обрабатывает POST /bus/reading.
type Handler struct {
	log      *slog.Logger
	router   page.Resolver
	oracle   ReadingGetter
	renderer response.Renderer
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, router page.Resolver, oracle ReadingGetter, renderer response.Renderer) *Handler {
	return &Handler{
		log:      log,
		router:   router,
		oracle:   oracle,
		renderer: renderer,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bus.reading"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req := Request{Question: strings.TrimSpace(r.PostFormValue("question"))}
	// пустой вопрос в API не отправляется
	if req.Question == "" {
		http.Redirect(w, r, "/bus", http.StatusSeeOther)
		return
	}

	decision, ok := page.Require(w, r, log, h.router, h.renderer, state.ViewDashboard)
	if !ok {
		return
	}
	identity := decision.Identity

	data := view.PageData{
		Page:     view.PageBus,
		View:     state.ViewDashboard,
		Email:    identity.Email,
		Question: req.Question,
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		data.Error = response.ValidationMessage(err.(validator.ValidationErrors))
		response.Page(w, r, log, h.renderer, http.StatusUnprocessableEntity, data)
		return
	}

	reading, err := h.oracle.GetReading(r.Context(), req.Question, identity.Email)
	if err != nil {
		log.Error("failed to get reading", sl.Err(err), sl.Email(identity.Email))
		data.Error = ErrReading
		response.Page(w, r, log, h.renderer, http.StatusBadGateway, data)
		return
	}

	data.Reading = reading
	response.Page(w, r, log, h.renderer, http.StatusOK, data)
}

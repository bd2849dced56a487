// Package ask реализует страницу анонимного вопроса.
//
// GET рисует пустую форму. POST отправляет вопрос в API без email и рисует
// карточку чтения. Пустой вопрос в API не уходит.
package ask

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bozo-bus/internal/http/response"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
	"github.com/magabrotheeeer/bozo-bus/internal/models"
	"github.com/magabrotheeeer/bozo-bus/internal/view"
)

// ErrBump — сообщение посетителю при любой ошибке получения чтения.
const ErrBump = "The bus hit a bump. Please try again."

// ReadingGetter получает чтение по вопросу.
type ReadingGetter interface {
	GetReading(ctx context.Context, question, email string) (*models.Reading, error)
}

type askForm struct {
	Question string `validate:"max=2000"`
}

// Handler обрабатывает GET и POST /ask.
type Handler struct {
	log      *slog.Logger
	oracle   ReadingGetter
	renderer response.Renderer
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, oracle ReadingGetter, renderer response.Renderer) *Handler {
	return &Handler{
		log:      log,
		oracle:   oracle,
		renderer: renderer,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ask"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	data := view.PageData{Page: view.PageAsk}
	if r.Method != http.MethodPost {
		response.Page(w, r, log, h.renderer, http.StatusOK, data)
		return
	}

	form := askForm{Question: strings.TrimSpace(r.PostFormValue("question"))}
	data.Question = form.Question
	if form.Question == "" {
		response.Page(w, r, log, h.renderer, http.StatusOK, data)
		return
	}
	if err := h.validate.Struct(form); err != nil {
		log.Info("validation failed", sl.Err(err))
		data.Error = response.ValidationMessage(err.(validator.ValidationErrors))
		response.Page(w, r, log, h.renderer, http.StatusUnprocessableEntity, data)
		return
	}

	reading, err := h.oracle.GetReading(r.Context(), form.Question, "")
	if err != nil {
		log.Error("failed to get reading", sl.Err(err))
		data.Error = ErrBump
		response.Page(w, r, log, h.renderer, http.StatusBadGateway, data)
		return
	}

	log.Info("reading delivered")
	data.Reading = reading
	response.Page(w, r, log, h.renderer, http.StatusOK, data)
}

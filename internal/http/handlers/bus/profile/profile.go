// Package profile сохраняет данные рождения подписчика.
//
// Место рождения спрашивается, но в API не уходит: координаты берутся из конфигурации.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/page"
	"github.com/magabrotheeeer/bozo-bus/internal/http/response"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/hours"
	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
	"github.com/magabrotheeeer/bozo-bus/internal/models"
	"github.com/magabrotheeeer/bozo-bus/internal/oracle"
	"github.com/magabrotheeeer/bozo-bus/internal/services/events"
	"github.com/magabrotheeeer/bozo-bus/internal/state"
	"github.com/magabrotheeeer/bozo-bus/internal/view"
)

// ErrSave — сообщение посетителю при ошибке сохранения анкеты.
const ErrSave = "Error saving data."

// ErrBirthTime — сообщение посетителю, если время рождения не разобрано.
const ErrBirthTime = "field BirthTime must be a time like 14:30"

// Request — анкета рождения из формы.
type Request struct {
	Name          string `validate:"max=100"`
	BirthYear     int    `validate:"required,min=1900,max=2100"`
	BirthMonth    int    `validate:"required,min=1,max=12"`
	BirthDay      int    `validate:"required,min=1,max=31"`
	BirthTime     string `validate:"required"`
	BirthLocation string `validate:"required"`
}

// Coordinates — координаты, которые уходят в API вместо места рождения.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// UserUpdater сохраняет анкету в API.
type UserUpdater interface {
	UpdateUser(ctx context.Context, profile models.Profile) (*models.Profile, error)
}

// Emitter публикует события воронки.
type Emitter interface {
	Emit(ctx context.Context, name, email, requestID string)
}

// Handler обрабатывает POST /bus/profile.
type Handler struct {
	log      *slog.Logger
	router   page.Resolver
	oracle   UserUpdater
	events   Emitter
	renderer response.Renderer
	origin   Coordinates
	validate *validator.Validate
}

// New создает новый Handler.
func New(
	log *slog.Logger,
	router page.Resolver,
	oracle UserUpdater,
	emitter Emitter,
	renderer response.Renderer,
	origin Coordinates,
) *Handler {
	return &Handler{
		log:      log,
		router:   router,
		oracle:   oracle,
		events:   emitter,
		renderer: renderer,
		origin:   origin,
		validate: validator.New(),
	}
}

func formInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue(key)))
	if err != nil {
		return 0
	}
	return n
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bus.profile"
	requestID := middleware.GetReqID(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", requestID),
	)

	// анкета принимается только от подписчика, у которого её ещё нет
	decision, ok := page.Require(w, r, log, h.router, h.renderer, state.ViewBirthData)
	if !ok {
		return
	}
	identity := decision.Identity

	data := view.PageData{
		Page:  view.PageBus,
		View:  state.ViewBirthData,
		Email: identity.Email,
		Birth: view.BirthForm{
			Name:     r.PostFormValue("name"),
			Year:     r.PostFormValue("birth_year"),
			Month:    r.PostFormValue("birth_month"),
			Day:      r.PostFormValue("birth_day"),
			Time:     r.PostFormValue("birth_time"),
			Location: r.PostFormValue("birth_location"),
		},
	}

	req := Request{
		Name:          strings.TrimSpace(r.PostFormValue("name")),
		BirthYear:     formInt(r, "birth_year"),
		BirthMonth:    formInt(r, "birth_month"),
		BirthDay:      formInt(r, "birth_day"),
		BirthTime:     strings.TrimSpace(r.PostFormValue("birth_time")),
		BirthLocation: strings.TrimSpace(r.PostFormValue("birth_location")),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		data.Error = response.ValidationMessage(err.(validator.ValidationErrors))
		response.Page(w, r, log, h.renderer, http.StatusUnprocessableEntity, data)
		return
	}

	birthHour, err := hours.FromClock(req.BirthTime)
	if err != nil {
		log.Info("invalid birth time", sl.Err(err))
		data.Error = ErrBirthTime
		response.Page(w, r, log, h.renderer, http.StatusUnprocessableEntity, data)
		return
	}

	_, err = h.oracle.UpdateUser(r.Context(), models.Profile{
		Email:          identity.Email,
		Name:           req.Name,
		BirthYear:      req.BirthYear,
		BirthMonth:     req.BirthMonth,
		BirthDay:       req.BirthDay,
		BirthHour:      birthHour,
		BirthLatitude:  h.origin.Latitude,
		BirthLongitude: h.origin.Longitude,
	})
	if err != nil {
		attrs := []any{sl.Err(err), sl.Email(identity.Email)}
		var apiErr *oracle.APIError
		if errors.As(err, &apiErr) {
			attrs = append(attrs, slog.Int("status", apiErr.StatusCode), slog.String("detail", apiErr.Detail))
		}
		log.Error("failed to save profile", attrs...)
		data.Error = ErrSave
		response.Page(w, r, log, h.renderer, http.StatusBadGateway, data)
		return
	}

	h.events.Emit(r.Context(), events.ProfileSaved, identity.Email, requestID)
	log.Info("profile saved", sl.Email(identity.Email))
	http.Redirect(w, r, "/bus", http.StatusSeeOther)
}

package response

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/gorilla/csrf"

	"github.com/magabrotheeeer/bozo-bus/internal/lib/sl"
	"github.com/magabrotheeeer/bozo-bus/internal/view"
)

// Renderer рисует страницу по данным.
type Renderer interface {
	Render(w io.Writer, data view.PageData) error
}

// Page рисует страницу целиком в буфер и только потом пишет ответ,
// чтобы ошибка шаблона не оставила клиенту половину страницы.
// CSRF поле подставляется из запроса.
func Page(w http.ResponseWriter, r *http.Request, log *slog.Logger, rnd Renderer, status int, data view.PageData) {
	data.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := rnd.Render(&buf, data); err != nil {
		log.Error("failed to render page", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, "internal error")
		return
	}

	render.Status(r, status)
	render.HTML(w, r, buf.String())
}

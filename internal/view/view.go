// Package view рисует HTML страницы сервиса из встроенных шаблонов.
//
// Весь динамический текст проходит через html/template и экранируется по контексту.
// Исключение одно: толкование чтения, которое прогоняется через goldmark без сырого HTML.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/magabrotheeeer/bozo-bus/internal/models"
	"github.com/magabrotheeeer/bozo-bus/internal/state"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page — страница сервиса.
type Page int

const (
	// PageAsk — анонимный вопрос.
	PageAsk Page = iota
	// PageBus — страница подписчика.
	PageBus
)

var pageFiles = map[Page]string{
	PageAsk: "templates/ask.html",
	PageBus: "templates/bus.html",
}

// PageData — всё, что нужно шаблону страницы.
type PageData struct {
	Page     Page
	View     state.View
	Email    string
	Question string
	Error    string

	// Unavailable — статус посетителя неизвестен, страница показывает только Error.
	Unavailable bool

	// AccountError — ошибка действия с подпиской, рисуется рядом со ссылками аккаунта
	// и не заменяет блок результата.
	AccountError string

	// Birth — введённые значения анкеты рождения для повторного показа формы.
	Birth BirthForm

	Reading    *models.Reading
	Conditions *models.Conditions
	CSRFField  template.HTML
}

// BirthForm — значения полей анкеты рождения в том виде, в каком их ввёл посетитель.
type BirthForm struct {
	Name     string
	Year     string
	Month    string
	Day      string
	Time     string
	Location string
}

// сырой HTML в толковании экранируется: WithUnsafe не задан
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func interpretation(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

func percent(similarity float64) int {
	return int(math.Round(similarity * 100))
}

func gain(g float64) string {
	return fmt.Sprintf("%.2fx", g)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"interpretation": interpretation,
		"percent":        percent,
		"gain":           gain,
		"blank":          blank,
	}
}

// Renderer держит разобранные шаблоны всех страниц.
type Renderer struct {
	pages map[Page]*template.Template
}

// New разбирает встроенные шаблоны.
func New() (*Renderer, error) {
	const op = "view.New"

	base, err := template.New("layout").Funcs(funcs()).ParseFS(templatesFS,
		"templates/layout.html", "templates/fragments.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pages := make(map[Page]*template.Template, len(pageFiles))
	for page, file := range pageFiles {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if _, err = t.ParseFS(templatesFS, file); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		pages[page] = t
	}

	return &Renderer{pages: pages}, nil
}

// Render пишет страницу data.Page в w.
func (r *Renderer) Render(w io.Writer, data PageData) error {
	const op = "view.Render"
	t, ok := r.pages[data.Page]
	if !ok {
		return fmt.Errorf("%s: unknown page %d", op, data.Page)
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

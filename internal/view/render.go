// Package view отрисовывает страницы сайта: общий каркас и три страницы
// (главная, бронирование, благодарность).
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"sudaistravel/internal/format"

	"github.com/yosssi/gohtml"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer отрисовывает Page в HTML.
type Renderer struct {
	tmpl   *template.Template
	pretty bool
}

// NewRenderer разбирает встроенные шаблоны. pretty включает форматирование HTML.
func NewRenderer(pretty bool) (*Renderer, error) {
	funcs := template.FuncMap{
		"classNames": format.ClassNames,
		"upper":      strings.ToUpper,
		"join":       strings.Join,
	}
	tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("разбор шаблонов: %w", err)
	}
	return &Renderer{tmpl: tmpl, pretty: pretty}, nil
}

// Render записывает страницу p в w.
func (r *Renderer) Render(w io.Writer, p Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		return fmt.Errorf("отрисовка страницы %s: %w", p.Route, err)
	}
	out := buf.Bytes()
	if r.pretty {
		out = gohtml.FormatBytes(out)
	}
	_, err := w.Write(out)
	return err
}

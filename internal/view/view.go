package view

import (
	"bytes"
	"carlton/internal/markup"
	"carlton/internal/middleware"
	"carlton/internal/parallax"
	"carlton/internal/service"
	"carlton/internal/session"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Reference geometry of a full-bleed hero at the top of the page, used to
// compute its pre-scroll parallax position.
const (
	heroHeight     = 560
	viewportHeight = 800
)

// View represents a collection of parsed HTML templates.
type View struct {
	templates map[string]*template.Template
	sessions  session.Manager
}

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"fmt":       markup.Format,
	"plain":     markup.Plain,
	"lines":     markup.Lines,
	"heroLayer": heroLayer,
	"layerCSS":  func(l parallax.Layer) template.CSS { return template.CSS(l.Style()) },
	"price":     price,
	"pagePath":  service.PagePath,
	"date":      func(t time.Time) string { return t.Format("2 January 2006") },
	"isoDate":   func(t time.Time) string { return t.Format(time.DateOnly) },
}

// New creates a new View by parsing all templates from the given filesystem.
// Flash toasts are read from sessions when it is not nil.
func New(templateFS fs.FS, sessions session.Manager) (*View, error) {
	v := &View{
		templates: make(map[string]*template.Template),
		sessions:  sessions,
	}

	// First, get all the layout files
	layouts, err := fs.Glob(templateFS, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}

	// Then, get all the page files
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	// For each page, parse it with the layout files
	for _, page := range pages {
		files := append(append([]string{}, layouts...), page)
		name := filepath.Base(page)
		ts, err := template.New(name).Funcs(Funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v.templates[name] = ts
	}

	return v, nil
}

// Render executes a specific template by name.
func (v *View) Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error {
	ts, ok := v.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	ctx := r.Context()
	data["ReducedMotion"] = middleware.IsReducedMotion(ctx)
	data["CurrentPath"] = r.URL.Path
	data["Year"] = time.Now().Year()
	if v.sessions != nil {
		if flash := session.PopFlash(v.sessions, ctx); flash != nil {
			data["Flash"] = flash
		}
	}

	// Execute the template into a buffer first to catch any errors
	// before writing to the response writer.
	buf := new(bytes.Buffer)
	if err := ts.Execute(buf, data); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}

func heroLayer(speed float64) parallax.Layer {
	return parallax.Initial(parallax.Geometry{
		Top:            0,
		Height:         heroHeight,
		ViewportHeight: viewportHeight,
	}, speed)
}

// price formats an amount in minor units, dropping zero cents.
func price(minor int64, currency string) string {
	whole := strconv.FormatInt(minor/100, 10)
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	if cents := minor % 100; cents != 0 {
		fmt.Fprintf(&b, ".%02d", cents)
	}
	return b.String() + " " + currency
}

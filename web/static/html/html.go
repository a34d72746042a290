package html

import (
	"embed"
	"html/template"
	"io"
	"path/filepath"
	"time"

	"microblog/pkg/sanitizer"
	"microblog/pkg/utils/markdown"
)

//go:embed *.html
var files embed.FS

var functions = template.FuncMap{
	// text values are escaped before they are stored
	"text": func(s string) template.HTML {
		return template.HTML(sanitizer.Text(s))
	},
	"markdown": func(s string) (template.HTML, error) {
		out, err := markdown.ParseMD(s)
		if err != nil {
			return "", err
		}
		return template.HTML(sanitizer.HTML(out)), nil
	},
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
}

// Renderer executes layout.html around a page template.
type Renderer struct {
	dir string // read templates from disk when set
}

// New returns a renderer over the embedded templates.
func New() *Renderer {
	return &Renderer{}
}

// NewFromDir reads templates from dir on every render, for live reload.
func NewFromDir(dir string) *Renderer {
	return &Renderer{dir: dir}
}

func (r *Renderer) parse(view string) (*template.Template, error) {
	file := view + ".html"
	t := template.New("layout.html").Funcs(functions)
	if r.dir != "" {
		return t.ParseFiles(filepath.Join(r.dir, "layout.html"), filepath.Join(r.dir, file))
	}
	return t.ParseFS(files, "layout.html", file)
}

func (r *Renderer) Render(w io.Writer, view string, data map[string]any) error {
	t, err := r.parse(view)
	if err != nil {
		return err
	}
	return t.Execute(w, data)
}

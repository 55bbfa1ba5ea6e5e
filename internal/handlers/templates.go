package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/iposhala-portal/internal/normalize"
)

// templateFuncs are available to every page and partial.
var templateFuncs = template.FuncMap{
	"fmt2":  normalize.Fmt2,
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"pct": func(v float64) string {
		return fmt.Sprintf("%.2f%%", v)
	},
	"dict": func(pairs ...any) (map[string]any, error) {
		if len(pairs)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
	// json renders v for a data-* attribute; html/template escapes it there.
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	},
}

// loadTemplates parses pages/*.html and pages/partials/*.html.
func loadTemplates() *template.Template {
	pagesDir := FindPagesDir()

	templates := template.Must(template.New("").Funcs(templateFuncs).ParseGlob(filepath.Join(pagesDir, "*.html")))
	template.Must(templates.ParseGlob(filepath.Join(pagesDir, "partials", "*.html")))
	return templates
}

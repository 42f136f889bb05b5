package notify

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/Harikrish-25/period-care/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// TemplateCache holds parsed message templates keyed by file name without
// extension. Each file defines a "body" template and, for email, a "subject".
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"inr":    formatINR,
			"addons": formatAddOns,
			"inc":    func(i int) int { return i + 1 },
			"site":   func() string { return "" },
		},
	}
}

func (tc *TemplateCache) AddFunc(name string, fn any) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses every *.tmpl file at the root of fsys.
func (tc *TemplateCache) Load(fsys fs.FS) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	files, err := fs.Glob(fsys, "*.tmpl")
	if err != nil {
		return err
	}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".tmpl")
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

// LoadDefault parses the embedded message templates.
func (tc *TemplateCache) LoadDefault() error {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return err
	}
	return tc.Load(sub)
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// Render executes the named block ("subject" or "body") of a template.
func (tc *TemplateCache) Render(name, block string, data any) (string, error) {
	tmpl := tc.Get(name)
	if tmpl == nil {
		return "", fmt.Errorf("template %q not loaded", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return "", fmt.Errorf("render %s/%s: %w", name, block, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func formatINR(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAddOns(items []models.AddOn) string {
	if len(items) == 0 {
		return "None"
	}
	parts := make([]string, 0, len(items))
	for _, a := range items {
		label := a.Name
		if a.EmojiIcon != "" {
			label = a.EmojiIcon + " " + label
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", label, formatINR(a.Price)))
	}
	return strings.Join(parts, ", ")
}

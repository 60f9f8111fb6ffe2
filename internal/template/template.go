// Package template renders operator broadcast templates and acknowledgement strings.
package template

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrTemplateNotFound is returned when a template name is not registered.
var ErrTemplateNotFound = errors.New("template not found")

// Template is a named message format with {placeholder} tokens.
type Template struct {
	Title  string `toml:"title" json:"title"`
	Format string `toml:"format" json:"format"`
}

// Render replaces every {key} in tpl.Format with the string form of data[key].
// Tokens without a matching key are left as they are.
func Render(tpl Template, data map[string]any) string {
	return RenderString(tpl.Format, data)
}

// RenderString is Render for a bare format string.
func RenderString(format string, data map[string]any) string {
	if len(data) == 0 || !strings.Contains(format, "{") {
		return format
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := format
	for _, k := range keys {
		out = strings.ReplaceAll(out, "{"+k+"}", stringify(data[k]))
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Registry holds templates keyed by name. It is not modified after construction.
type Registry struct {
	templates map[string]Template
}

// NewRegistry copies the given templates into a registry.
func NewRegistry(templates map[string]Template) *Registry {
	m := make(map[string]Template, len(templates))
	for name, tpl := range templates {
		m[name] = tpl
	}
	return &Registry{templates: m}
}

// Get looks up a template by name.
func (r *Registry) Get(name string) (Template, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return tpl, nil
}

// Render looks up name and renders it with data.
func (r *Registry) Render(name string, data map[string]any) (string, error) {
	tpl, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return Render(tpl, data), nil
}

// Names returns the registered template names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package prompts

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-z_]+)\s*\}\}`)

// Render fills the {{name}} placeholders of the latest version of prompt id.
// Every placeholder must have a value.
func (r *Registry) Render(id string, vars map[string]string) (string, error) {
	p, err := r.Latest(id)
	if err != nil {
		return "", err
	}

	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(p.Content, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		v, ok := vars[key]
		if !ok {
			missing = append(missing, key)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s: missing values for %s", id, strings.Join(missing, ", "))
	}
	return out, nil
}

// Render renders a prompt from the default registry.
func Render(id string, vars map[string]string) (string, error) {
	return DefaultRegistry().Render(id, vars)
}

// MustRender is Render for built-in prompts whose variables are fixed at
// compile time. It panics on error.
func MustRender(id string, vars map[string]string) string {
	s, err := Render(id, vars)
	if err != nil {
		panic(err)
	}
	return s
}

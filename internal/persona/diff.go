package persona

import (
	"fmt"

	"github.com/aymanbagabas/go-udiff"
	"gopkg.in/yaml.v3"
)

// YAML renders p the way it is shown in the diff preview.
func YAML(p Persona) (string, error) {
	out, err := yaml.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal persona: %w", err)
	}
	return string(out), nil
}

// Diff returns a unified diff between two personas, or "" when they render
// identically.
func Diff(before, after Persona) (string, error) {
	a, err := YAML(before)
	if err != nil {
		return "", err
	}
	b, err := YAML(after)
	if err != nil {
		return "", err
	}
	if a == b {
		return "", nil
	}
	return udiff.Unified("before", "after", a, b), nil
}

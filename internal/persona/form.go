package persona

import (
	"fmt"
	"slices"

	"github.com/mark3labs/stratagem/internal/upload"
)

// WithField returns a copy of p with field set to value.
func WithField(p Persona, field Field, value string) (Persona, error) {
	next := p.Clone()
	ptr := next.fieldPtr(field)
	if ptr == nil {
		return p, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	*ptr = value
	return next, nil
}

// ToggleGoal adds goal if absent, removes it if present. Order of the
// remaining goals is kept; a new goal goes last.
func ToggleGoal(p Persona, goal string) Persona {
	next := p.Clone()
	next.Goals = toggle(next.Goals, goal)
	return next
}

// ToggleMotivation is ToggleGoal for motivations.
func ToggleMotivation(p Persona, motivation string) Persona {
	next := p.Clone()
	next.Motivations = toggle(next.Motivations, motivation)
	return next
}

// WithDocuments replaces the persona's document list.
func WithDocuments(p Persona, docs []upload.File) Persona {
	next := p.Clone()
	next.Documents = slices.Clone(docs)
	return next
}

func toggle(list []string, item string) []string {
	if i := slices.Index(list, item); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return append(list, item)
}

package persona

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sahilm/fuzzy"
)

// ErrNotFound is returned when a roster operation names an unknown persona.
var ErrNotFound = errors.New("persona not found")

// Entry is a roster row: a persona and whether it is selected as a target
// audience for the campaign.
type Entry struct {
	Persona  Persona
	Selected bool
}

// Roster is the ordered list of audiences offered in the dropdown.
type Roster struct {
	entries []Entry
}

// NewRoster builds an unselected roster.
func NewRoster(personas ...Persona) Roster {
	r := Roster{entries: make([]Entry, 0, len(personas))}
	for _, p := range personas {
		r.entries = append(r.entries, Entry{Persona: p.Clone()})
	}
	return r
}

// Entries returns a copy of the roster rows.
func (r Roster) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = Entry{Persona: e.Persona.Clone(), Selected: e.Selected}
	}
	return out
}

// Len returns the number of personas.
func (r Roster) Len() int {
	return len(r.entries)
}

// Get returns the persona with id.
func (r Roster) Get(id string) (Persona, bool) {
	i := r.index(id)
	if i < 0 {
		return Persona{}, false
	}
	return r.entries[i].Persona.Clone(), true
}

// IsSelected reports whether id is selected.
func (r Roster) IsSelected(id string) bool {
	i := r.index(id)
	return i >= 0 && r.entries[i].Selected
}

// Toggle flips the selection of id.
func (r Roster) Toggle(id string) (Roster, error) {
	i := r.index(id)
	if i < 0 {
		return r, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := r.clone()
	next.entries[i].Selected = !next.entries[i].Selected
	return next, nil
}

// Selected returns the selected personas in roster order.
func (r Roster) Selected() []Persona {
	var out []Persona
	for _, e := range r.entries {
		if e.Selected {
			out = append(out, e.Persona.Clone())
		}
	}
	return out
}

// SelectedCount returns how many personas are selected.
func (r Roster) SelectedCount() int {
	n := 0
	for _, e := range r.entries {
		if e.Selected {
			n++
		}
	}
	return n
}

// Summary is the dropdown trigger label.
func (r Roster) Summary() string {
	switch n := r.SelectedCount(); n {
	case 0:
		return "Select Target Audience"
	case 1:
		return "1 audience selected"
	default:
		return fmt.Sprintf("%d audiences selected", n)
	}
}

// Upsert saves p. A persona without an ID is new: it gets a fresh ID and is
// appended unselected. A known ID replaces the stored persona in place and
// keeps its selection. A blank category falls back to a slug of the name.
// The stored persona is returned.
func (r Roster) Upsert(p Persona) (Roster, Persona, error) {
	if err := p.Validate(); err != nil {
		return r, p, err
	}

	saved := p.Clone()
	saved.Name = strings.TrimSpace(saved.Name)
	if strings.TrimSpace(saved.Category) == "" {
		saved.Category = slug.Make(saved.Name)
	}

	next := r.clone()
	if saved.ID != "" {
		if i := next.index(saved.ID); i >= 0 {
			next.entries[i].Persona = saved
			return next, saved.Clone(), nil
		}
	} else {
		saved.ID = uuid.NewString()
	}
	next.entries = append(next.entries, Entry{Persona: saved})
	return next, saved.Clone(), nil
}

// Remove drops the persona with id.
func (r Roster) Remove(id string) (Roster, error) {
	i := r.index(id)
	if i < 0 {
		return r, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := r.clone()
	next.entries = slices.Delete(next.entries, i, i+1)
	return next, nil
}

// Filter returns entries whose name fuzzy-matches query, best match first.
// An empty query returns every entry in roster order.
func (r Roster) Filter(query string) []Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.Entries()
	}
	matches := fuzzy.FindFrom(query, rosterNames(r.entries))
	out := make([]Entry, 0, len(matches))
	for _, m := range matches {
		e := r.entries[m.Index]
		out = append(out, Entry{Persona: e.Persona.Clone(), Selected: e.Selected})
	}
	return out
}

func (r Roster) index(id string) int {
	return slices.IndexFunc(r.entries, func(e Entry) bool { return e.Persona.ID == id })
}

func (r Roster) clone() Roster {
	return Roster{entries: r.Entries()}
}

// rosterNames adapts entries to fuzzy.Source.
type rosterNames []Entry

func (n rosterNames) String(i int) string { return n[i].Persona.Name }
func (n rosterNames) Len() int            { return len(n) }

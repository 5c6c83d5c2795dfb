package persona

import "slices"

// Template is the fixed configuration the dialog starts from.
type Template struct {
	Blank       Persona
	Goals       []string
	Motivations []string
	Roster      []Persona
}

// DefaultTemplate returns the built-in options and starter audiences.
func DefaultTemplate() Template {
	return Template{
		Blank: Persona{
			Goals:       []string{},
			Motivations: []string{},
		},
		Goals: []string{
			"Expand professional network",
			"Stay updated with latest trends",
			"Achieve career growth and leadership roles",
			"Develop new skills and expertise",
		},
		Motivations: []string{
			"Growing career and achieving recognition",
			"Building strong professional connections",
			"Staying ahead of industry trends",
			"Personal development and self-improvement",
		},
		Roster: []Persona{
			{ID: "1", Name: "Solo Living", Category: "Solo Living"},
			{ID: "2", Name: "Entrepreneur", Category: "Entrepreneur"},
			{ID: "3", Name: "Designer", Category: "Designer"},
			{ID: "4", Name: "Developer", Category: "Developer"},
			{ID: "5", Name: "Marketer", Category: "Marketer"},
		},
	}
}

// NewPersona returns a fresh copy of the blank persona.
func (t Template) NewPersona() Persona {
	return t.Blank.Clone()
}

// GoalOptions returns the template goals followed by any extra goals p
// carries, so an edited persona never hides a selection.
func (t Template) GoalOptions(p Persona) []string {
	return mergeOptions(t.Goals, p.Goals)
}

// MotivationOptions is GoalOptions for motivations.
func (t Template) MotivationOptions(p Persona) []string {
	return mergeOptions(t.Motivations, p.Motivations)
}

// NewRoster builds the starter roster from the template.
func (t Template) NewRoster() Roster {
	return NewRoster(t.Roster...)
}

func mergeOptions(base, selected []string) []string {
	out := slices.Clone(base)
	for _, s := range selected {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

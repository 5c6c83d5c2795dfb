// Package navigation tracks where the user is in the campaign wizard and how
// much of it they have completed.
//
// The wizard is a fixed, ordered sequence of sections grouped into steps.
// Layout holds that structure; Tracker applies Back/Next/jump transitions to
// a State value and derives step numbers and progress from it. All
// operations are pure: every transition returns a fresh State.
package navigation

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SectionKey identifies one addressable sub-step of the wizard
// (e.g. "campaign-basics").
type SectionKey string

// StepID is the 1-based number of a top-level wizard phase.
type StepID int

// Section is one entry of a step.
type Section struct {
	Key   SectionKey `yaml:"key"`
	Label string     `yaml:"label,omitempty"`
}

// Step groups an ordered set of sections under a title.
type Step struct {
	ID          StepID    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	Sections    []Section `yaml:"sections"`
}

// Section keys of the default campaign layout.
const (
	CampaignBasics        SectionKey = "campaign-basics"
	MarketIntelligence    SectionKey = "market-intelligence"
	StrategicObjectives   SectionKey = "strategic-objectives"
	StrategySelection     SectionKey = "strategy-selection"
	StrategyCustomization SectionKey = "strategy-customization"
	StrategyValidation    SectionKey = "strategy-validation"
	ConceptGeneration     SectionKey = "concept-generation"
	ConceptRefinement     SectionKey = "concept-refinement"
	ConceptFinalization   SectionKey = "concept-finalization"
	ExecutionPlanning     SectionKey = "execution-planning"
	ResourceAllocation    SectionKey = "resource-allocation"
	TimelineManagement    SectionKey = "timeline-management"
)

// ErrInvalidLayout is returned when a layout definition is unusable.
var ErrInvalidLayout = errors.New("invalid layout")

var titleCaser = cases.Title(language.English)

// Layout is the immutable, ordered structure of the wizard.
type Layout struct {
	steps  []Step
	order  []SectionKey
	index  map[SectionKey]int
	stepOf map[SectionKey]StepID
	labels map[SectionKey]string
}

// NewLayout validates steps and builds a Layout.
// Step IDs must run 1..n in order, every step needs at least one section,
// and section keys must be unique across the layout. Missing labels are
// derived from the key ("market-intelligence" → "Market Intelligence").
func NewLayout(steps []Step) (*Layout, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidLayout)
	}

	l := &Layout{
		steps:  make([]Step, 0, len(steps)),
		index:  make(map[SectionKey]int),
		stepOf: make(map[SectionKey]StepID),
		labels: make(map[SectionKey]string),
	}

	for i, step := range steps {
		if step.ID != StepID(i+1) {
			return nil, fmt.Errorf("%w: step %q has id %d, want %d", ErrInvalidLayout, step.Title, step.ID, i+1)
		}
		if len(step.Sections) == 0 {
			return nil, fmt.Errorf("%w: step %d has no sections", ErrInvalidLayout, step.ID)
		}

		sections := make([]Section, 0, len(step.Sections))
		for _, sec := range step.Sections {
			if sec.Key == "" {
				return nil, fmt.Errorf("%w: step %d has a section without a key", ErrInvalidLayout, step.ID)
			}
			if _, dup := l.index[sec.Key]; dup {
				return nil, fmt.Errorf("%w: duplicate section %q", ErrInvalidLayout, sec.Key)
			}
			if sec.Label == "" {
				sec.Label = labelFromKey(sec.Key)
			}
			l.index[sec.Key] = len(l.order)
			l.order = append(l.order, sec.Key)
			l.stepOf[sec.Key] = step.ID
			l.labels[sec.Key] = sec.Label
			sections = append(sections, sec)
		}

		step.Sections = sections
		l.steps = append(l.steps, step)
	}

	return l, nil
}

// MustLayout is NewLayout for static definitions known to be valid.
func MustLayout(steps []Step) *Layout {
	l, err := NewLayout(steps)
	if err != nil {
		panic(err)
	}
	return l
}

// DefaultSteps returns the four-step, twelve-section campaign structure.
func DefaultSteps() []Step {
	return []Step{
		{
			ID:          1,
			Title:       "Brief",
			Description: "The more details you provide, the more accurate your generated strategy will be.",
			Sections: []Section{
				{Key: CampaignBasics},
				{Key: MarketIntelligence},
				{Key: StrategicObjectives},
			},
		},
		{
			ID:          2,
			Title:       "Strategy",
			Description: "We've designed strategies aligned with your objectives. Pick the one that feels right.",
			Sections: []Section{
				{Key: StrategySelection},
				{Key: StrategyCustomization},
				{Key: StrategyValidation},
			},
		},
		{
			ID:          3,
			Title:       "Concept",
			Description: "Concepts for your selected strategy",
			Sections: []Section{
				{Key: ConceptGeneration},
				{Key: ConceptRefinement},
				{Key: ConceptFinalization},
			},
		},
		{
			ID:          4,
			Title:       "Execution",
			Description: "Bring your strategy to life with detailed execution plans",
			Sections: []Section{
				{Key: ExecutionPlanning},
				{Key: ResourceAllocation},
				{Key: TimelineManagement},
			},
		},
	}
}

// DefaultLayout returns the standard campaign layout.
func DefaultLayout() *Layout {
	return MustLayout(DefaultSteps())
}

// Steps returns a copy of the layout's steps.
func (l *Layout) Steps() []Step {
	out := make([]Step, len(l.steps))
	for i, s := range l.steps {
		s.Sections = append([]Section(nil), s.Sections...)
		out[i] = s
	}
	return out
}

// Step returns the step with the given id.
func (l *Layout) Step(id StepID) (Step, bool) {
	if id < 1 || int(id) > len(l.steps) {
		return Step{}, false
	}
	s := l.steps[id-1]
	s.Sections = append([]Section(nil), s.Sections...)
	return s, true
}

// StepCount returns the number of steps.
func (l *Layout) StepCount() int {
	return len(l.steps)
}

// LastStep returns the id of the final step.
func (l *Layout) LastStep() StepID {
	return StepID(len(l.steps))
}

// Sections returns every section key in wizard order.
func (l *Layout) Sections() []SectionKey {
	return append([]SectionKey(nil), l.order...)
}

// Len returns the total number of sections.
func (l *Layout) Len() int {
	return len(l.order)
}

// First returns the first section of the wizard.
func (l *Layout) First() SectionKey {
	return l.order[0]
}

// Last returns the final section of the wizard.
func (l *Layout) Last() SectionKey {
	return l.order[len(l.order)-1]
}

// Contains reports whether key is part of the layout.
func (l *Layout) Contains(key SectionKey) bool {
	_, ok := l.index[key]
	return ok
}

// Label returns the display label of a section, or "Section" if unknown.
func (l *Layout) Label(key SectionKey) string {
	if label, ok := l.labels[key]; ok {
		return label
	}
	return "Section"
}

func labelFromKey(key SectionKey) string {
	return titleCaser.String(strings.ReplaceAll(string(key), "-", " "))
}

package navigation

import (
	"errors"
	"fmt"

	"github.com/mark3labs/stratagem/internal/logger"
)

// ErrInvalidSection is matched by errors.Is for any *InvalidSectionError.
var ErrInvalidSection = errors.New("invalid section")

// InvalidSectionError reports a section key that is not part of the layout.
type InvalidSectionError struct {
	Section SectionKey
}

func (e *InvalidSectionError) Error() string {
	return fmt.Sprintf("invalid section %q", string(e.Section))
}

// Is makes errors.Is(err, ErrInvalidSection) succeed.
func (e *InvalidSectionError) Is(target error) bool {
	return target == ErrInvalidSection
}

// Completion is a set of completed sections. The zero value is empty and
// ready to use. It is never modified in place: With returns a copy.
type Completion struct {
	keys map[SectionKey]struct{}
}

// NewCompletion builds a set from keys. Duplicates collapse.
func NewCompletion(keys ...SectionKey) Completion {
	c := Completion{keys: make(map[SectionKey]struct{}, len(keys))}
	for _, k := range keys {
		c.keys[k] = struct{}{}
	}
	return c
}

// Has reports membership.
func (c Completion) Has(key SectionKey) bool {
	_, ok := c.keys[key]
	return ok
}

// Len returns the number of members.
func (c Completion) Len() int {
	return len(c.keys)
}

// With returns a set that also contains key. If key is already a member the
// receiver is returned as is.
func (c Completion) With(key SectionKey) Completion {
	if c.Has(key) {
		return c
	}
	next := Completion{keys: make(map[SectionKey]struct{}, len(c.keys)+1)}
	for k := range c.keys {
		next.keys[k] = struct{}{}
	}
	next.keys[key] = struct{}{}
	return next
}

// State is the wizard position: the section on screen plus the sections the
// user has advanced past.
type State struct {
	Active    SectionKey
	Completed Completion
}

// StepStatus is the badge shown next to a step in the sidebar.
type StepStatus struct {
	Current   bool // Step contains the active section
	Completed bool // Step is behind the active one, or is final with everything done
}

// Tracker applies navigation transitions against a Layout.
type Tracker struct {
	layout *Layout
}

// NewTracker creates a tracker for layout.
func NewTracker(layout *Layout) *Tracker {
	return &Tracker{layout: layout}
}

// Layout returns the tracker's layout.
func (t *Tracker) Layout() *Layout {
	return t.layout
}

// Start returns the initial state: first section active, nothing completed.
func (t *Tracker) Start() State {
	return State{Active: t.layout.First()}
}

// StepOf returns the step containing section.
func (t *Tracker) StepOf(section SectionKey) (StepID, error) {
	step, ok := t.layout.stepOf[section]
	if !ok {
		return 0, &InvalidSectionError{Section: section}
	}
	return step, nil
}

// StepOrDefault is StepOf with the first step as fallback. Unknown sections
// are logged since they indicate a caller bug.
func (t *Tracker) StepOrDefault(section SectionKey) StepID {
	step, err := t.StepOf(section)
	if err != nil {
		logger.Warn("step lookup fell back to step 1: %v", err)
		return 1
	}
	return step
}

// IsCompleted reports whether section is in the state's completed set.
func (t *Tracker) IsCompleted(state State, section SectionKey) bool {
	return state.Completed.Has(section)
}

// ProgressPercent returns 100*completed/total, clamped to [0, 100].
// A non-positive total yields 0.
func ProgressPercent(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return 100 * float64(completed) / float64(total)
}

// Progress returns the completion percentage of state over the layout.
func (t *Tracker) Progress(state State) float64 {
	return ProgressPercent(t.completedCount(state.Completed), t.layout.Len())
}

// Advance marks the active section completed and moves to the next one.
// At the last section the position stays put.
func (t *Tracker) Advance(state State) State {
	i, ok := t.layout.index[state.Active]
	if !ok {
		logger.Warn("advance ignored: %v", &InvalidSectionError{Section: state.Active})
		return state
	}
	next := State{
		Active:    state.Active,
		Completed: state.Completed.With(state.Active),
	}
	if i < t.layout.Len()-1 {
		next.Active = t.layout.order[i+1]
	}
	logger.Debug("advance: %s -> %s (%d/%d complete)", state.Active, next.Active, next.Completed.Len(), t.layout.Len())
	return next
}

// Retreat moves to the previous section. At the first section the position
// stays put. The completed set is untouched.
func (t *Tracker) Retreat(state State) State {
	next := state
	if i, ok := t.layout.index[state.Active]; ok && i > 0 {
		next.Active = t.layout.order[i-1]
	}
	logger.Debug("retreat: %s -> %s", state.Active, next.Active)
	return next
}

// JumpTo makes target the active section. Unknown targets fail with
// *InvalidSectionError and the input state is returned unchanged.
func (t *Tracker) JumpTo(state State, target SectionKey) (State, error) {
	if !t.layout.Contains(target) {
		return state, &InvalidSectionError{Section: target}
	}
	next := state
	next.Active = target
	logger.Debug("jump: %s -> %s", state.Active, target)
	return next, nil
}

// NextSection returns the section after key, if any.
func (t *Tracker) NextSection(key SectionKey) (SectionKey, bool) {
	i, ok := t.layout.index[key]
	if !ok || i >= t.layout.Len()-1 {
		return "", false
	}
	return t.layout.order[i+1], true
}

// PrevSection returns the section before key, if any.
func (t *Tracker) PrevSection(key SectionKey) (SectionKey, bool) {
	i, ok := t.layout.index[key]
	if !ok || i == 0 {
		return "", false
	}
	return t.layout.order[i-1], true
}

// CanRetreat reports whether Back would move the position.
func (t *Tracker) CanRetreat(state State) bool {
	i, ok := t.layout.index[state.Active]
	return ok && i > 0
}

// CanAdvance reports whether Next would move the position. Next is still
// meaningful on the last section since it marks it completed.
func (t *Tracker) CanAdvance(state State) bool {
	i, ok := t.layout.index[state.Active]
	return ok && i < t.layout.Len()-1
}

// IsStepComplete reports whether every section of step is completed. The
// final step is only complete once every section of the layout is.
func (t *Tracker) IsStepComplete(step StepID, completed Completion) bool {
	s, ok := t.layout.Step(step)
	if !ok {
		return false
	}
	if step == t.layout.LastStep() {
		return t.completedCount(completed) == t.layout.Len()
	}
	for _, sec := range s.Sections {
		if !completed.Has(sec.Key) {
			return false
		}
	}
	return true
}

// StepStatus derives the sidebar badge for step from state.
func (t *Tracker) StepStatus(state State, step StepID) StepStatus {
	current := t.StepOrDefault(state.Active)
	allDone := t.completedCount(state.Completed) == t.layout.Len()
	return StepStatus{
		Current:   step == current,
		Completed: step < current || (step == t.layout.LastStep() && allDone),
	}
}

// CompletedSections lists the completed sections in layout order.
func (t *Tracker) CompletedSections(state State) []SectionKey {
	var out []SectionKey
	for _, k := range t.layout.order {
		if state.Completed.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// completedCount counts only members that belong to the layout.
func (t *Tracker) completedCount(c Completion) int {
	n := 0
	for k := range c.keys {
		if t.layout.Contains(k) {
			n++
		}
	}
	return n
}

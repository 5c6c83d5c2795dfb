package hooks

// Config is the top-level configuration for hooks loaded from .stratagem.hooks.yml.
type Config struct {
	Version int         `yaml:"version"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig contains all hook configurations.
type HooksConfig struct {
	// SectionComplete runs each time a section is first marked complete.
	SectionComplete []*HookConfig `yaml:"section_complete"`
	// WizardComplete runs once when the last open section is completed.
	WizardComplete []*HookConfig `yaml:"wizard_complete"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command    string `yaml:"command"`
	Timeout    int    `yaml:"timeout"`     // seconds, default 30
	PipeOutput bool   `yaml:"pipe_output"` // show stdout in the wizard
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30

// Event names a hook trigger.
type Event string

const (
	EventSectionComplete Event = "section_complete"
	EventWizardComplete  Event = "wizard_complete"
)

// For returns the hooks registered for event. A nil config has none.
func (c *Config) For(event Event) []*HookConfig {
	if c == nil {
		return nil
	}
	switch event {
	case EventSectionComplete:
		return c.Hooks.SectionComplete
	case EventWizardComplete:
		return c.Hooks.WizardComplete
	}
	return nil
}

// Package content supplies the copy rendered for each wizard section and
// the summary cards shown for completed steps.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/stratagem/internal/logger"
	"github.com/mark3labs/stratagem/internal/navigation"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Fallback copy for sections the catalog does not describe.
const (
	FallbackTitle       = "Section"
	FallbackDescription = "Complete this section to move forward."
)

// Widget names an interactive panel embedded in a section.
type Widget string

const (
	WidgetUpload   Widget = "upload"
	WidgetAudience Widget = "audience"
)

// Block is one card of a section: a heading over markdown, or over a widget.
type Block struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body,omitempty"`
	Widget  Widget `yaml:"widget,omitempty"`
}

// Descriptor is everything the main panel needs to draw a section.
type Descriptor struct {
	Key         navigation.SectionKey `yaml:"-"`
	Title       string                `yaml:"title"`
	Description string                `yaml:"description"`
	Blocks      []Block               `yaml:"blocks"`
	Actions     []string              `yaml:"actions,omitempty"`
	Widgets     []Widget              `yaml:"-"`
}

// HasWidget reports whether the section embeds w.
func (d Descriptor) HasWidget(w Widget) bool {
	for _, have := range d.Widgets {
		if have == w {
			return true
		}
	}
	return false
}

// PreviewField is a label/value pair on a summary card.
type PreviewField struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Preview is the summary card of a completed step.
type Preview struct {
	Heading string         `yaml:"heading,omitempty"`
	Title   string         `yaml:"title,omitempty"`
	Summary string         `yaml:"summary,omitempty"`
	Action  string         `yaml:"action,omitempty"`
	Fields  []PreviewField `yaml:"fields,omitempty"`
}

// file is the on-disk shape of a catalog.
type file struct {
	Campaign string                                `yaml:"campaign"`
	SmartTip string                                `yaml:"smart_tip"`
	Sections map[navigation.SectionKey]Descriptor `yaml:"sections"`
	Previews map[navigation.StepID]Preview         `yaml:"previews"`
}

// Catalog maps sections to descriptors.
type Catalog struct {
	campaign string
	smartTip string
	sections map[navigation.SectionKey]Descriptor
	previews map[navigation.StepID]Preview
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load returns the embedded catalog with overridePath merged on top. Sections
// and previews present in the override replace the embedded ones wholesale;
// an empty path returns the embedded catalog.
func Load(overridePath string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	if overridePath == "" {
		return c, nil
	}

	data, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content file %s: %w", overridePath, err)
	}

	c.merge(override)
	logger.Debug("content catalog: merged %d section(s) from %s", len(override.sections), overridePath)
	return c, nil
}

// Parse decodes a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	c := &Catalog{
		campaign: f.Campaign,
		smartTip: f.SmartTip,
		sections: make(map[navigation.SectionKey]Descriptor, len(f.Sections)),
		previews: make(map[navigation.StepID]Preview, len(f.Previews)),
	}
	for key, d := range f.Sections {
		d.Key = key
		d.Widgets = nil
		for _, b := range d.Blocks {
			if b.Widget != "" {
				d.Widgets = append(d.Widgets, b.Widget)
			}
		}
		c.sections[key] = d
	}
	for step, p := range f.Previews {
		c.previews[step] = p
	}
	return c, nil
}

func (c *Catalog) merge(o *Catalog) {
	if o.campaign != "" {
		c.campaign = o.campaign
	}
	if o.smartTip != "" {
		c.smartTip = o.smartTip
	}
	for k, d := range o.sections {
		c.sections[k] = d
	}
	for k, p := range o.previews {
		c.previews[k] = p
	}
}

// Campaign returns the campaign name shown in the header.
func (c *Catalog) Campaign() string {
	return c.campaign
}

// SmartTip returns the sidebar tip text.
func (c *Catalog) SmartTip() string {
	return c.smartTip
}

// Section returns the descriptor for key. Unknown sections get the generic
// fallback title and description with no blocks.
func (c *Catalog) Section(key navigation.SectionKey) Descriptor {
	if d, ok := c.sections[key]; ok {
		if d.Title == "" {
			d.Title = FallbackTitle
		}
		if d.Description == "" {
			d.Description = FallbackDescription
		}
		return d
	}
	return Descriptor{Key: key, Title: FallbackTitle, Description: FallbackDescription}
}

// StepPreview returns the summary card for step.
func (c *Catalog) StepPreview(step navigation.StepID) (Preview, bool) {
	p, ok := c.previews[step]
	return p, ok
}

// Missing lists the layout sections the catalog has no copy for.
func (c *Catalog) Missing(layout *navigation.Layout) []navigation.SectionKey {
	var out []navigation.SectionKey
	for _, k := range layout.Sections() {
		if _, ok := c.sections[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// Markdown renders the non-interactive parts of d as a markdown document.
// Widget blocks keep their heading and take their body from widgetText, which
// may be nil.
func (d Descriptor) Markdown(widgetText func(Widget) string) string {
	var sb strings.Builder
	for i, b := range d.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", b.Heading)
		body := b.Body
		if b.Widget != "" && widgetText != nil {
			body = widgetText(b.Widget)
		}
		if body != "" {
			sb.WriteString(strings.TrimSpace(body))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

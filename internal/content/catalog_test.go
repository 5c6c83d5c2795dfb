package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stratagem/internal/navigation"
)

func TestDefault_CoversLayout(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	layout := navigation.DefaultLayout()
	assert.Empty(t, c.Missing(layout))

	for _, key := range layout.Sections() {
		d := c.Section(key)
		assert.Equal(t, key, d.Key)
		assert.Equal(t, layout.Label(key), d.Title, "title of %s should match the sidebar label", key)
		assert.NotEmpty(t, d.Description)
		assert.NotEmpty(t, d.Blocks)
	}

	assert.Equal(t, "Nike Concept 1st Try", c.Campaign())
	assert.Contains(t, c.SmartTip(), "Clear objectives")
}

func TestDefault_Widgets(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	basics := c.Section(navigation.CampaignBasics)
	assert.Equal(t, []Widget{WidgetUpload}, basics.Widgets)
	assert.Equal(t, []string{"Import Brief"}, basics.Actions)

	market := c.Section(navigation.MarketIntelligence)
	assert.True(t, market.HasWidget(WidgetAudience))
	assert.False(t, market.HasWidget(WidgetUpload))

	assert.Empty(t, c.Section(navigation.StrategySelection).Actions)
}

func TestSection_Fallback(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	d := c.Section("unknown-section")
	assert.Equal(t, FallbackTitle, d.Title)
	assert.Equal(t, FallbackDescription, d.Description)
	assert.Empty(t, d.Blocks)
}

func TestStepPreview(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	brief, ok := c.StepPreview(1)
	require.True(t, ok)
	require.Len(t, brief.Fields, 4)
	assert.Equal(t, "Client", brief.Fields[0].Label)
	assert.Equal(t, "$2M", brief.Fields[1].Value)

	strategy, ok := c.StepPreview(2)
	require.True(t, ok)
	assert.Equal(t, "Change Strategy", strategy.Action)

	_, ok = c.StepPreview(9)
	assert.False(t, ok)
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yml")
	override := `
campaign: Spring Launch
sections:
  strategy-selection:
    title: Strategy Selection
    blocks:
      - heading: Shortlist
        body: Only one option this time.
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Spring Launch", c.Campaign())
	assert.Contains(t, c.SmartTip(), "Clear objectives", "unset keys keep embedded values")

	d := c.Section(navigation.StrategySelection)
	require.Len(t, d.Blocks, 1)
	assert.Equal(t, "Shortlist", d.Blocks[0].Heading)
	assert.Equal(t, FallbackDescription, d.Description)

	// Untouched sections come from the embedded catalog.
	assert.Equal(t, "Campaign Basics", c.Section(navigation.CampaignBasics).Title)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "failed to read content file")

	bad := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("sections: [not, a, map]"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "failed to parse content file")
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, c.Missing(navigation.DefaultLayout()))
}

func TestDescriptor_Markdown(t *testing.T) {
	d := Descriptor{
		Blocks: []Block{
			{Heading: "Intro", Body: "Hello."},
			{Heading: "Files", Widget: WidgetUpload},
		},
	}

	md := d.Markdown(nil)
	assert.Equal(t, "## Intro\n\nHello.\n\n## Files\n\n", md)

	md = d.Markdown(func(w Widget) string {
		if w == WidgetUpload {
			return "2 files attached"
		}
		return ""
	})
	assert.True(t, strings.HasSuffix(md, "## Files\n\n2 files attached\n"))
}

func TestRender(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	out := Render(c.Section(navigation.MarketIntelligence), 80, nil)
	assert.Contains(t, out, "Competitors")
	assert.Contains(t, out, "UiPath")

	fallback := Render(c.Section("nope"), 80, nil)
	assert.Equal(t, FallbackDescription, fallback)
}

func TestPlainText(t *testing.T) {
	out := PlainText("one two three four", 9)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 9)
	}
}

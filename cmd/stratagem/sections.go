package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mark3labs/stratagem/internal/content"
	"github.com/mark3labs/stratagem/internal/navigation"
)

var sectionsFlags struct {
	content string
	show    string
	width   int
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the wizard steps and sections",
	Long: `List the wizard steps with their sections in navigation order.

Use --show <key> to print a single section's content the way the main
panel renders it.`,
	RunE: runSections,
}

func init() {
	sectionsCmd.Flags().StringVar(&sectionsFlags.content, "content", "", "YAML file overriding the built-in section content")
	sectionsCmd.Flags().StringVar(&sectionsFlags.show, "show", "", "Render the content of one section")
	sectionsCmd.Flags().IntVarP(&sectionsFlags.width, "width", "w", 80, "Render width for --show")
}

func runSections(cmd *cobra.Command, args []string) error {
	catalog, err := content.Load(sectionsFlags.content)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	layout := navigation.DefaultLayout()
	out := cmd.OutOrStdout()

	if sectionsFlags.show != "" {
		key := navigation.SectionKey(sectionsFlags.show)
		if !layout.Contains(key) {
			return &navigation.InvalidSectionError{Section: key}
		}
		d := catalog.Section(key)
		_, _ = fmt.Fprintf(out, "%s\n%s\n\n", d.Title, d.Description)
		_, _ = fmt.Fprintln(out, content.Render(d, sectionsFlags.width, widgetPlaceholder))
		return nil
	}

	for _, step := range layout.Steps() {
		_, _ = fmt.Fprintf(out, "%d. %s\n", step.ID, step.Title)
		for _, s := range step.Sections {
			title := catalog.Section(s.Key).Title
			_, _ = fmt.Fprintf(out, "   %-24s %s  (%s)\n", s.Key, layout.Label(s.Key), title)
		}
	}
	return nil
}

// widgetPlaceholder stands in for interactive widgets outside the TUI.
func widgetPlaceholder(w content.Widget) string {
	return fmt.Sprintf("_[%s widget: available in the wizard]_", w)
}

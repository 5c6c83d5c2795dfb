package main

import (
	"context"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mark3labs/stratagem/internal/logger"
	"github.com/mark3labs/stratagem/internal/tui/theme"
)

const (
	logoText1 = "█▀▀ ▀█▀ █▀█ ▄▀█ ▀█▀ ▄▀█ █▀▀ █▀▀ █▀▄▀█"
	logoText2 = "▄▄█  █  █▀▄ █▀█  █  █▀█ █▄█ ██▄ █ ▀ █"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stratagem",
	Short: "Terminal wizard for building a campaign strategy",
	RunE:  runWizard,
}

// applyGradient colors each rune of text along a gradient from a to b.
func applyGradient(text, a, b string) string {
	runes := []rune(text)
	colors := theme.Gradient(a, b, len(runes))
	var sb strings.Builder
	for i, r := range runes {
		if r == ' ' {
			sb.WriteRune(r)
			continue
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Render(string(r)))
	}
	return sb.String()
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := applyGradient(logoText1, t.Primary, t.Secondary)
	line2 := applyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

stratagem walks you through a four-step campaign strategy: campaign basics,
market intelligence, strategy and review. Upload briefing documents, pick a
target audience from a persona roster and track progress in the sidebar.

Wizard events are journaled to an in-process NATS JetStream stream and can be
inspected by agents through an optional MCP server (--mcp).`

	registerWizardFlags(rootCmd)

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(sectionsCmd)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/mark3labs/stratagem/internal/config"
	"github.com/mark3labs/stratagem/internal/content"
	"github.com/mark3labs/stratagem/internal/hooks"
	"github.com/mark3labs/stratagem/internal/logger"
	"github.com/mark3labs/stratagem/internal/mcpserver"
	"github.com/mark3labs/stratagem/internal/nats"
	"github.com/mark3labs/stratagem/internal/navigation"
	"github.com/mark3labs/stratagem/internal/persona"
	"github.com/mark3labs/stratagem/internal/session"
	"github.com/mark3labs/stratagem/internal/tui"
)

var wizardFlags struct {
	campaign  string
	dataDir   string
	content   string
	mcp       bool
	mcpPort   int
	logLevel  string
	logFile   string
	noColor   bool
	noJournal bool
}

func registerWizardFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&wizardFlags.campaign, "campaign", "c", "", "Campaign name (default: name from the content file)")
	f.StringVar(&wizardFlags.dataDir, "data-dir", "", "Directory for UI preferences (default: .stratagem)")
	f.StringVar(&wizardFlags.content, "content", "", "YAML file overriding the built-in section content")
	f.BoolVar(&wizardFlags.mcp, "mcp", false, "Serve the read-only MCP tools while the wizard runs")
	f.IntVar(&wizardFlags.mcpPort, "mcp-port", 0, "Port for the MCP server, 0 picks a free one")
	f.StringVar(&wizardFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&wizardFlags.logFile, "log-file", "", "Write logs to this file (rotated)")
	f.BoolVar(&wizardFlags.noColor, "no-color", false, "Render without colors")
	f.BoolVar(&wizardFlags.noJournal, "no-journal", false, "Run without the event journal")
}

// loadConfig resolves the config file layers and applies any flags the user
// set explicitly on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	f := cmd.Flags()
	if f.Changed("campaign") {
		cfg.Campaign = wizardFlags.campaign
	}
	if f.Changed("data-dir") {
		cfg.DataDir = wizardFlags.dataDir
	}
	if f.Changed("content") {
		cfg.ContentFile = wizardFlags.content
	}
	if f.Changed("mcp") {
		cfg.MCP = wizardFlags.mcp
	}
	if f.Changed("mcp-port") {
		cfg.MCPPort = wizardFlags.mcpPort
	}
	if f.Changed("log-level") {
		cfg.LogLevel = wizardFlags.logLevel
	}
	if f.Changed("log-file") {
		cfg.LogFile = wizardFlags.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runWizard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	catalog, err := content.Load(cfg.ContentFile)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	layout := navigation.DefaultLayout()
	for _, key := range catalog.Missing(layout) {
		logger.Warn("no content for section %s, using the generic fallback", key)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	hookCfg, err := hooks.LoadConfig(workDir)
	if err != nil {
		return err
	}

	campaign := cfg.Campaign
	if campaign == "" {
		campaign = catalog.Campaign()
	}

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *session.Store
	if !wizardFlags.noJournal {
		bus, err := nats.StartBus(ctx)
		if err != nil {
			// The wizard still works; only the journal and MCP tools are lost.
			logger.Warn("event journal unavailable: %v", err)
		} else {
			defer func() {
				if err := bus.Close(); err != nil {
					logger.Warn("error during bus shutdown: %v", err)
				}
			}()
			store = session.NewStore(bus.JS, bus.Stream)
		}
	}

	if cfg.MCP {
		if store == nil {
			return fmt.Errorf("--mcp needs the event journal")
		}
		srv := mcpserver.New(store, campaign, navigation.NewTracker(layout), cfg.Rules())
		port, err := srv.Start(ctx, cfg.MCPPort)
		if err != nil {
			return fmt.Errorf("failed to start MCP server: %w", err)
		}
		defer func() {
			if err := srv.Stop(); err != nil {
				logger.Warn("error stopping MCP server: %v", err)
			}
		}()
		logger.Info("MCP server listening on port %d (%s)", port, srv.URL())
		announceMCP(cmd.ErrOrStderr(), srv.URL())
	}

	app := tui.NewApp(ctx, tui.Options{
		Layout:   layout,
		Catalog:  catalog,
		Rules:    cfg.Rules(),
		Template: persona.DefaultTemplate(),
		Store:    store,
		Campaign: campaign,
		DataDir:  cfg.DataDir,
		Hooks:    hookCfg,
		WorkDir:  workDir,
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if wizardFlags.noColor {
		opts = append(opts, tea.WithColorProfile(colorprofile.Ascii))
	}
	_, runErr := tea.NewProgram(app, opts...).Run()

	flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := app.FlushJournal(flushCtx); err != nil && ctx.Err() == nil {
		logger.Warn("journal writes still pending at exit: %v", err)
	}

	if runErr != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("wizard failed: %w", runErr)
	}
	return nil
}

// flushTimeout bounds how long exit waits for queued journal writes.
const flushTimeout = 3 * time.Second

// announceMCP prints the MCP endpoint where the user can see it. Log output
// goes to a file or nowhere, and the TUI owns stdout once it starts.
func announceMCP(w io.Writer, url string) {
	fmt.Fprintf(w, "MCP server: %s\n", url)
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mark3labs/stratagem/internal/config"
	"github.com/mark3labs/stratagem/internal/upload"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate files against the upload rules without starting the wizard",
	Long: `Check reads each file, detects its content type and reports whether the
wizard would accept it. A batch is accepted only when every file passes,
exactly as in the upload panel.

Exits non-zero when any file is rejected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	rules := cfg.Rules()

	files, err := upload.FromPaths(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result := upload.Check(files, rules)
	for _, f := range result.Accepted {
		_, _ = fmt.Fprintf(out, "ok   %s (%s, %s)\n", f.Name, f.ContentType, upload.HumanSize(f.Size))
	}
	for _, r := range result.Rejected {
		_, _ = fmt.Fprintf(out, "fail %s\n", r.Message())
	}

	if _, err := upload.ValidateBatch(files, nil, rules); err != nil {
		var batch *upload.BatchError
		if errors.As(err, &batch) {
			return fmt.Errorf("batch rejected: %d of %d file(s) failed", len(result.Rejected), len(files))
		}
		return err
	}
	_, _ = fmt.Fprintf(out, "\n%d file(s) accepted, %s total (limit %s each)\n",
		len(files), upload.HumanSize(upload.TotalSize(files)), rules.LimitLabel())
	return nil
}

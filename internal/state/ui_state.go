package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/stratagem/internal/logger"
)

const fileName = "ui-state.json"

// UIState holds persistent UI preferences that carry across sessions.
// Campaign data is never stored here.
type UIState struct {
	Sidebar  SidebarState  `json:"sidebar"`
	SmartTip SmartTipState `json:"smart_tip"`
}

// SidebarState holds sidebar visibility preference.
type SidebarState struct {
	Visible bool `json:"visible"`
}

// SmartTipState records whether the sidebar tip was dismissed.
type SmartTipState struct {
	Dismissed bool `json:"dismissed"`
}

// DefaultUIState returns the default UI state with sensible defaults.
func DefaultUIState() *UIState {
	return &UIState{
		Sidebar: SidebarState{
			Visible: true,
		},
	}
}

// Load reads the UI state from <dataDir>/ui-state.json.
// Returns default state if the file doesn't exist or on error.
func Load(dataDir string) *UIState {
	path := filepath.Join(dataDir, fileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultUIState()
	}
	if err != nil {
		logger.Warn("failed to read UI state %s: %v", path, err)
		return DefaultUIState()
	}

	// Start from defaults so fields missing from older files keep them
	state := DefaultUIState()
	if err := json.Unmarshal(data, state); err != nil {
		logger.Warn("ignoring corrupt UI state %s: %v", path, err)
		return DefaultUIState()
	}

	return state
}

// Save writes the UI state to <dataDir>/ui-state.json.
// Creates the data directory if it doesn't exist.
func Save(dataDir string, state *UIState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, fileName)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file behind.
	tmp, err := os.CreateTemp(dataDir, fileName+".*")
	if err != nil {
		return fmt.Errorf("creating temp UI state file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing UI state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("closing UI state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}

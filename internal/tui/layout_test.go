package tui

import (
	"testing"
)

// TestCalculateLayout_Minimum tests layout at 80x24 (minimum terminal size)
func TestCalculateLayout_Minimum(t *testing.T) {
	width, height := 80, 24
	layout := CalculateLayout(width, height, false)

	if layout.Mode != LayoutCompact {
		t.Errorf("Expected LayoutCompact mode at %dx%d, got %v", width, height, layout.Mode)
	}
	if layout.Area.Dx() != width || layout.Area.Dy() != height {
		t.Errorf("Area size mismatch: got %dx%d, want %dx%d",
			layout.Area.Dx(), layout.Area.Dy(), width, height)
	}
	if layout.Status.Dy() != StatusHeight {
		t.Errorf("Status height mismatch: got %d, want %d", layout.Status.Dy(), StatusHeight)
	}
	if layout.Buttons.Dy() != ButtonBarHeight {
		t.Errorf("Button row height mismatch: got %d, want %d", layout.Buttons.Dy(), ButtonBarHeight)
	}

	// No sidebar area in compact mode
	if layout.Sidebar.Dx() > 0 || layout.Sidebar.Dy() > 0 {
		t.Errorf("Sidebar should be empty in compact mode, got %dx%d",
			layout.Sidebar.Dx(), layout.Sidebar.Dy())
	}
	if layout.Main.Dx() != width {
		t.Errorf("Main width should equal total width in compact mode: got %d, want %d",
			layout.Main.Dx(), width)
	}
}

// TestCalculateLayout_Standard tests layout at 120x40 (standard terminal size)
func TestCalculateLayout_Standard(t *testing.T) {
	width, height := 120, 40
	layout := CalculateLayout(width, height, false)

	if layout.Mode != LayoutDesktop {
		t.Errorf("Expected LayoutDesktop mode at %dx%d, got %v", width, height, layout.Mode)
	}
	if layout.Sidebar.Dx() <= 0 {
		t.Error("Sidebar should have width > 0 in desktop mode")
	}
	if layout.Sidebar.Dx() > SidebarWidthDesktop {
		t.Errorf("Sidebar width %d exceeds maximum %d", layout.Sidebar.Dx(), SidebarWidthDesktop)
	}

	// Sidebar sits on the left
	if layout.Sidebar.Min.X != 0 {
		t.Errorf("Sidebar should start at x=0, got %d", layout.Sidebar.Min.X)
	}
	if layout.Main.Min.X != layout.Sidebar.Max.X+1 {
		t.Errorf("Main should start one cell right of the sidebar: got %d, want %d",
			layout.Main.Min.X, layout.Sidebar.Max.X+1)
	}

	// Sidebar + gap + main span the width
	if total := layout.Sidebar.Dx() + 1 + layout.Main.Dx(); total != width {
		t.Errorf("Sidebar + gap + Main width (%d) doesn't equal width (%d)", total, width)
	}

	// Buttons line up with the main panel
	if layout.Buttons.Min.X != layout.Main.Min.X {
		t.Errorf("Buttons should align with main: got x=%d, want x=%d",
			layout.Buttons.Min.X, layout.Main.Min.X)
	}
	if layout.Sidebar.Dy() != layout.Main.Dy() {
		t.Errorf("Sidebar height (%d) doesn't match main height (%d)",
			layout.Sidebar.Dy(), layout.Main.Dy())
	}
}

// TestCalculateLayout_Large tests layout at 200x60 (large terminal size)
func TestCalculateLayout_Large(t *testing.T) {
	width, height := 200, 60
	layout := CalculateLayout(width, height, false)

	if layout.Sidebar.Dx() != SidebarWidthDesktop {
		t.Errorf("Sidebar width mismatch: got %d, want %d", layout.Sidebar.Dx(), SidebarWidthDesktop)
	}

	// Vertical sections add up to the total height
	if total := layout.Main.Dy() + layout.Buttons.Dy() + layout.Status.Dy(); total != height {
		t.Errorf("Vertical sections don't add up: got %d, want %d", total, height)
	}
	if layout.Status.Max.Y != height {
		t.Errorf("Status should be the last row: got max y=%d, want %d", layout.Status.Max.Y, height)
	}
}

func TestCalculateLayout_SidebarHidden(t *testing.T) {
	layout := CalculateLayout(160, 40, true)

	if layout.Mode != LayoutCompact {
		t.Errorf("Expected LayoutCompact when the sidebar is hidden, got %v", layout.Mode)
	}
	if layout.Main.Dx() != 160 {
		t.Errorf("Main should take the full width: got %d", layout.Main.Dx())
	}
	if !layout.IsCompact() {
		t.Error("IsCompact() should be true")
	}
}

// TestCalculateLayout_CompactModeTransition tests transition at the breakpoint
func TestCalculateLayout_CompactModeTransition(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		wantMode LayoutMode
	}{
		{"just below width breakpoint", CompactWidthBreakpoint - 1, LayoutCompact},
		{"just at width breakpoint", CompactWidthBreakpoint, LayoutDesktop},
		{"well above breakpoint", CompactWidthBreakpoint + 50, LayoutDesktop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := CalculateLayout(tt.width, 40, false)
			if layout.Mode != tt.wantMode {
				t.Errorf("CalculateLayout(%d, 40) mode = %v, want %v", tt.width, layout.Mode, tt.wantMode)
			}
		})
	}
}

func TestCalculateLayout_ZeroSize(t *testing.T) {
	layout := CalculateLayout(0, 0, false)

	if layout.Main.Dx() != 0 || layout.Main.Dy() != 0 {
		t.Errorf("Expected empty main area, got %dx%d", layout.Main.Dx(), layout.Main.Dy())
	}
}

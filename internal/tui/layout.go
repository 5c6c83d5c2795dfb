package tui

import uv "github.com/charmbracelet/ultraviolet"

// Layout breakpoints and dimensions
const (
	// CompactWidthBreakpoint is the minimum width for the sidebar to show
	CompactWidthBreakpoint = 90
	// SidebarWidthDesktop is the width of the sidebar in desktop mode
	SidebarWidthDesktop = 42
	// ButtonBarHeight is the height of the Back/Next row
	ButtonBarHeight = 1
	// StatusHeight is the height of the status bar in rows
	StatusHeight = 1
)

// LayoutMode represents the layout mode based on terminal size
type LayoutMode int

const (
	// LayoutDesktop is the full layout with sidebar
	LayoutDesktop LayoutMode = iota
	// LayoutCompact is the compact layout without sidebar
	LayoutCompact
)

// Layout defines the rectangular regions for all UI components
type Layout struct {
	Mode    LayoutMode
	Area    uv.Rectangle
	Sidebar uv.Rectangle
	Main    uv.Rectangle
	Buttons uv.Rectangle
	Status  uv.Rectangle
}

// IsCompact returns true if the layout is in compact mode
func (l Layout) IsCompact() bool {
	return l.Mode == LayoutCompact
}

// CalculateLayout computes the layout rectangles. The sidebar sits left of
// the main panel and is dropped when hidden or when the terminal is narrow.
func CalculateLayout(width, height int, sidebarHidden bool) Layout {
	mode := LayoutDesktop
	if width < CompactWidthBreakpoint || sidebarHidden {
		mode = LayoutCompact
	}

	area := uv.Rect(0, 0, width, height)

	// Split vertically: content | buttons+status
	contentRect, bottom := uv.SplitVertical(area, uv.Fixed(max(area.Dy()-ButtonBarHeight-StatusHeight, 0)))
	buttonsRect, statusRect := uv.SplitVertical(bottom, uv.Fixed(ButtonBarHeight))

	var sidebarRect, mainRect uv.Rectangle
	if mode == LayoutDesktop {
		sidebarWidth := SidebarWidthDesktop
		if contentRect.Dx()/3 < sidebarWidth {
			sidebarWidth = contentRect.Dx() / 3
		}
		sidebarRect, mainRect = uv.SplitHorizontal(contentRect, uv.Fixed(sidebarWidth))
		mainRect.Min.X += 1 // 1-char gap between sidebar and main
	} else {
		mainRect = contentRect
	}

	// The button row lines up with the main panel
	buttonsRect.Min.X = mainRect.Min.X

	return Layout{
		Mode:    mode,
		Area:    area,
		Sidebar: sidebarRect,
		Main:    mainRect,
		Buttons: buttonsRect,
		Status:  statusRect,
	}
}

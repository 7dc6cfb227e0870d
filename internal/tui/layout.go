package tui

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed panel geometry for a given terminal size.
type Layout struct {
	Header, Footer        Rect
	Calibration, Hardware Rect
	Quality, Events       Rect
	TooSmall              bool // true when terminal is below the minimum 80×24
}

// Calculate computes the panel layout for a terminal of the given dimensions.
// Returns a Layout with TooSmall=true if width < 80 or height < 24.
//
// Algorithm:
//   - Header: full width, 1 row at top
//   - Footer: full width, 1 row at bottom
//   - Sidebar: 25% of width, clamped to [24, 35]
//   - Calibration: sidebar width × 45% of body height (top of sidebar)
//   - Hardware: sidebar width × remaining body height (bottom of sidebar)
//   - Quality: remaining width × 55% of body height (top-right)
//   - Events: remaining width × remaining body height (bottom-right)
func Calculate(width, height int) Layout {
	if width < 80 || height < 24 {
		return Layout{TooSmall: true}
	}

	bodyH := height - 2 // subtract header + footer rows

	sidebarW := width * 25 / 100
	if sidebarW < 24 {
		sidebarW = 24
	}
	if sidebarW > 35 {
		sidebarW = 35
	}
	rightW := width - sidebarW

	calH := bodyH * 45 / 100
	hwH := bodyH - calH

	qualH := bodyH * 55 / 100
	evH := bodyH - qualH

	return Layout{
		Header:      Rect{X: 0, Y: 0, Width: width, Height: 1},
		Footer:      Rect{X: 0, Y: height - 1, Width: width, Height: 1},
		Calibration: Rect{X: 0, Y: 1, Width: sidebarW, Height: calH},
		Hardware:    Rect{X: 0, Y: 1 + calH, Width: sidebarW, Height: hwH},
		Quality:     Rect{X: sidebarW, Y: 1, Width: rightW, Height: qualH},
		Events:      Rect{X: sidebarW, Y: 1 + qualH, Width: rightW, Height: evH},
		TooSmall:    false,
	}
}

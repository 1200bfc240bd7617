package highlight

import (
	"fmt"
	"image/color"

	"github.com/samcharles93/promptlens/internal/profile"
)

// Color is an opaque RGB color shared by every presentation adapter.
type Color struct{ R, G, B uint8 }

// Hex returns the color as #rrggbb.
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

var (
	Background = Color{0x1e, 0x1e, 0x1e}
	Foreground = Color{0xd4, 0xd4, 0xd4}
)

var palette = map[profile.Category]Color{
	profile.Boundary:     {0xc5, 0x86, 0xc0},
	profile.Role:         {0xce, 0x91, 0x78},
	profile.Reasoning:    {0xd1, 0x6d, 0x9e},
	profile.ToolArgument: {0x56, 0x9c, 0xd6},
	profile.Tool:         {0x6a, 0x99, 0x55},
}

// ColorFor returns the foreground color for cat.
func ColorFor(cat profile.Category) Color {
	if c, ok := palette[cat]; ok {
		return c
	}
	return Foreground
}

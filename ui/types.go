// Package ui draws the window host's overlays: the HUD, the key legend and the
// tuning panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	AccentColor    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	SliderHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 15, G: 16, B: 32, A: 220},
		PanelBorder:    rl.Color{R: 93, G: 95, B: 239, A: 160},
		SectionHeader:  rl.Color{R: 165, G: 167, B: 255, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		AccentColor:    rl.Color{R: 93, G: 95, B: 239, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		SliderHeight:   16,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

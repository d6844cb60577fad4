package qr

import (
	"image/color"
	"strings"
)

// Color is a named fill color offered for generated codes.
type Color struct {
	Name string
	RGB  color.RGBA
}

// DefaultColor is used for unknown names and for batch renders.
var DefaultColor = Color{Name: "black", RGB: color.RGBA{0, 0, 0, 255}}

var palette = []Color{
	DefaultColor,
	{Name: "blue", RGB: color.RGBA{0, 0, 255, 255}},
	{Name: "red", RGB: color.RGBA{255, 0, 0, 255}},
	{Name: "green", RGB: color.RGBA{0, 128, 0, 255}},
	{Name: "purple", RGB: color.RGBA{128, 0, 128, 255}},
}

// Palette returns the selectable colors in display order.
func Palette() []Color {
	return append([]Color(nil), palette...)
}

// LookupColor resolves a color by name, falling back to black.
func LookupColor(name string) Color {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range palette {
		if c.Name == name {
			return c
		}
	}
	return DefaultColor
}

// KnownColor reports whether name is part of the palette.
func KnownColor(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range palette {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Title returns the capitalized color name used in captions.
func (c Color) Title() string {
	if c.Name == "" {
		return ""
	}
	return strings.ToUpper(c.Name[:1]) + c.Name[1:]
}

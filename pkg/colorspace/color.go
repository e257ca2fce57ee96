package colorspace

import (
	"fmt"
	"strconv"
	"strings"
)

// Space identifies a color space.
type Space int

const (
	// RGB holds 8-bit sRGB components in 0-255. Conversions may leave
	// components outside that range; see [Color.Hex] for clamping.
	RGB Space = iota
	// XYZ holds CIE 1931 tristimulus values relative to D65 white.
	XYZ
	// Lab holds CIE L*a*b* components relative to D65 white.
	Lab
)

func (s Space) String() string {
	switch s {
	case RGB:
		return "rgb"
	case XYZ:
		return "xyz"
	case Lab:
		return "lab"
	}
	return fmt.Sprintf("space(%d)", int(s))
}

// Color is a tagged color value: a space and three native components. The
// zero value is RGB black.
type Color struct {
	space Space
	c     [3]float64
}

// NewRGB builds an RGB color from 8-bit components.
func NewRGB(r, g, b int) Color {
	return Color{space: RGB, c: [3]float64{float64(r), float64(g), float64(b)}}
}

// NewXYZ builds an XYZ color.
func NewXYZ(x, y, z float64) Color {
	return Color{space: XYZ, c: [3]float64{x, y, z}}
}

// NewLab builds a Lab color.
func NewLab(l, a, b float64) Color {
	return Color{space: Lab, c: [3]float64{l, a, b}}
}

// Space returns the color's native space.
func (c Color) Space() Space { return c.space }

// Components returns the three native components.
func (c Color) Components() (float64, float64, float64) {
	return c.c[0], c.c[1], c.c[2]
}

// Convert returns the color expressed in the target space.
func (c Color) Convert(to Space) Color {
	return Color{space: to, c: converters[c.space][to](c.c)}
}

// Hex formats the color as "#rrggbb", converting to RGB first. Components
// are clamped to 0-255 at this formatting boundary only.
func (c Color) Hex() string {
	rgb := c.Convert(RGB).c
	return fmt.Sprintf("#%02x%02x%02x", clampByte(rgb[0]), clampByte(rgb[1]), clampByte(rgb[2]))
}

func (c Color) String() string {
	return fmt.Sprintf("%s(%g, %g, %g)", c.space, c.c[0], c.c[1], c.c[2])
}

func clampByte(v float64) int {
	return int(max(0, min(255, v)))
}

// ParseHex parses "#rrggbb" or "rrggbb" into an RGB color.
func ParseHex(s string) (Color, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 {
		return Color{}, fmt.Errorf("hex color %q: want six digits", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("hex color %q: %w", s, err)
	}
	return NewRGB(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)), nil
}

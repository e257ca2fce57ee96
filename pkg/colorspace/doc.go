// Package colorspace converts colors between sRGB, CIE XYZ, and CIE Lab,
// and blends them along Lab-space gradients.
//
// # Overview
//
// A [Color] is a tagged value in one of three spaces. Conversions dispatch
// through a fixed (source, target) table; RGB and Lab compose through XYZ.
// The conversion constants are deliberate: RGB values are treated as
// already linear (no gamma step), and XYZ to RGB truncates toward zero
// without clamping, so out-of-gamut blends survive round trips unchanged.
//
// # Gradients
//
// [Interpolator] blends two colors along a straight line in Lab space,
// which keeps perceived lightness even where RGB blending would turn
// muddy. [RectInterpolator] extends this to a four-corner [Palette]
// addressed by normalized (x, y), the scheme used to color flame graphs:
//
//	ri := colorspace.NewRectInterpolator(colorspace.DefaultPalette())
//	c, err := ri.At(0.25, 0.8)
//
// [RandomPalette] draws the four corners from a seeded generator so
// randomized renders stay reproducible.
package colorspace

package colorspace

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInterpRange is returned by [Interpolator.At] and
// [RectInterpolator.At] when a parameter falls outside [0, 1]. Layout
// coordinates are normalized before coloring, so this signals a caller
// bug rather than bad input data.
var ErrInterpRange = errors.New("interpolation parameter outside [0, 1]")

// Interpolator blends two colors along a straight line in Lab space. Both
// endpoints are converted once at construction.
type Interpolator struct {
	from, to [3]float64
}

// NewInterpolator builds a gradient from one color to another. The
// endpoints may be in any space.
func NewInterpolator(from, to Color) Interpolator {
	return Interpolator{from: from.Convert(Lab).c, to: to.Convert(Lab).c}
}

// At returns the blend at t: 0 is the first endpoint, 1 the second.
func (ip Interpolator) At(t float64) (Color, error) {
	if t < 0 || t > 1 {
		return Color{}, fmt.Errorf("at %v: %w", t, ErrInterpRange)
	}
	return Color{space: Lab, c: lerp3(ip.from, ip.to, t)}, nil
}

func lerp3(a, b [3]float64, t float64) [3]float64 {
	return [3]float64{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// Palette holds the four corner colors of a flame graph gradient: x runs
// left to right, y runs from the root row upward.
type Palette struct {
	LeftBottom  Color
	LeftTop     Color
	RightBottom Color
	RightTop    Color
}

// DefaultPalette returns the stock scheme: warm yellow-to-red on the left,
// pale yellow-to-green on the right.
func DefaultPalette() Palette {
	return Palette{
		LeftBottom:  mustHex("#ffeda0"),
		LeftTop:     mustHex("#f03b20"),
		RightBottom: mustHex("#f7fcb9"),
		RightTop:    mustHex("#31a354"),
	}
}

func mustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RandomPalette draws every corner channel uniformly from [1, 255], the
// widest spread centered on mid-gray. Pass a seeded generator for
// reproducible palettes.
func RandomPalette(rng *rand.Rand) Palette {
	return Palette{
		LeftBottom:  randomColor(rng),
		LeftTop:     randomColor(rng),
		RightBottom: randomColor(rng),
		RightTop:    randomColor(rng),
	}
}

func randomColor(rng *rand.Rand) Color {
	const base, dev = 128, 127
	channel := func() int { return base - dev + rng.IntN(2*dev+1) }
	return NewRGB(channel(), channel(), channel())
}

// RectInterpolator blends over the palette rectangle: each vertical edge
// is interpolated by y, then the two edge colors by x, all in Lab space.
type RectInterpolator struct {
	left, right Interpolator
}

// NewRectInterpolator builds the bilinear gradient for a palette.
func NewRectInterpolator(p Palette) RectInterpolator {
	return RectInterpolator{
		left:  NewInterpolator(p.LeftBottom, p.LeftTop),
		right: NewInterpolator(p.RightBottom, p.RightTop),
	}
}

// At returns the palette color at normalized (x, y).
func (ri RectInterpolator) At(x, y float64) (Color, error) {
	l, err := ri.left.At(y)
	if err != nil {
		return Color{}, err
	}
	r, err := ri.right.At(y)
	if err != nil {
		return Color{}, err
	}
	return NewInterpolator(l, r).At(x)
}

package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/flamedump/flamedump/pkg/colorspace"
	"github.com/flamedump/flamedump/pkg/flame"
)

// PNGOption configures PNG rendering via [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	palette    colorspace.Palette
	inverted   bool
	background string
	scale      float64
}

// WithPNGPalette replaces the default four-corner palette.
func WithPNGPalette(p colorspace.Palette) PNGOption {
	return func(r *pngRenderer) { r.palette = p }
}

// WithPNGInverted draws an icicle graph with the root row at the top.
func WithPNGInverted() PNGOption {
	return func(r *pngRenderer) { r.inverted = true }
}

// WithPNGBackground fills the canvas with a solid color ("#rrggbb"). The
// default leaves it transparent.
func WithPNGBackground(hex string) PNGOption {
	return func(r *pngRenderer) { r.background = hex }
}

// WithPNGScale scales the raster relative to layout units (default 1.0,
// one pixel per unit).
func WithPNGScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes the layout. Frames are plain color rectangles;
// labels are not drawn.
func RenderPNG(l *flame.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{palette: colorspace.DefaultPalette(), scale: 1.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("png scale %v: must be positive", r.scale)
	}
	ri := colorspace.NewRectInterpolator(r.palette)

	height := l.TotalHeight()
	dc := gg.NewContext(int(math.Ceil(l.TotalWidth*r.scale)), int(math.Ceil(height*r.scale)))
	dc.Scale(r.scale, r.scale)
	if r.background != "" {
		dc.SetHexColor(r.background)
		dc.Clear()
	}

	var walkErr error
	l.Walk(func(b flame.Block) bool {
		c, err := ri.At(b.XNorm, b.YNorm)
		if err != nil {
			walkErr = fmt.Errorf("frame %q: %w", b.Label, err)
			return false
		}
		y := b.Y
		if !r.inverted {
			y = height - b.Y - b.H
		}
		dc.SetHexColor(c.Hex())
		dc.DrawRectangle(b.X, y, b.W, b.H)
		dc.Fill()
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

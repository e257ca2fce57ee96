package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/flamedump/flamedump/pkg/colorspace"
	"github.com/flamedump/flamedump/pkg/flame"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette    colorspace.Palette
	inverted   bool
	background string
}

// WithPalette replaces the default four-corner palette.
func WithPalette(p colorspace.Palette) SVGOption {
	return func(r *svgRenderer) { r.palette = p }
}

// WithInverted draws an icicle graph: the root row at the top, callees
// growing downward. The default grows upward from the bottom.
func WithInverted() SVGOption {
	return func(r *svgRenderer) { r.inverted = true }
}

// WithBackground fills the canvas with a solid color ("#rrggbb") before
// drawing. The default leaves the canvas transparent.
func WithBackground(hex string) SVGOption {
	return func(r *svgRenderer) { r.background = hex }
}

// RenderSVG renders the layout as a standalone SVG document. Every frame
// becomes one rect with a tooltip title carrying the label and sample
// count.
func RenderSVG(l *flame.Layout, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{palette: colorspace.DefaultPalette()}
	for _, opt := range opts {
		opt(&r)
	}
	ri := colorspace.NewRectInterpolator(r.palette)

	width := l.TotalWidth
	height := l.TotalHeight()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			width, height, r.background)
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
		fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s">`+"\n",
			b.X, y, b.W, b.H, c.Hex())
		fmt.Fprintf(&buf, "    <title>%s (%d samples)</title>\n", escapeXML(b.Label), b.Samples)
		buf.WriteString("  </rect>\n")
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeXML protects frame labels, which regularly carry template brackets
// and mangled symbols.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

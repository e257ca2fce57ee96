package render

import (
	"bytes"
	"fmt"

	"github.com/flamedump/flamedump/pkg/colorspace"
	"github.com/flamedump/flamedump/pkg/flame"
)

// DefaultExtrusionDepth is how far frame boxes extend along the z axis.
const DefaultExtrusionDepth = 200.0

// OBJOption configures OBJ rendering via [RenderOBJ].
type OBJOption func(*objRenderer)

type objRenderer struct {
	palette colorspace.Palette
	depth   float64
	mtlName string
}

// WithOBJPalette replaces the default four-corner palette.
func WithOBJPalette(p colorspace.Palette) OBJOption {
	return func(r *objRenderer) { r.palette = p }
}

// WithOBJDepth sets the box extrusion depth (default
// [DefaultExtrusionDepth]).
func WithOBJDepth(d float64) OBJOption {
	return func(r *objRenderer) { r.depth = d }
}

// WithOBJMaterialLib sets the material library file name written into the
// OBJ's mtllib line. Write the MTL bytes under the same name next to the
// OBJ file.
func WithOBJMaterialLib(name string) OBJOption {
	return func(r *objRenderer) { r.mtlName = name }
}

// OBJArtifact pairs the geometry with its material library. The OBJ
// references the MTL by MTLName, so both files belong in one directory.
type OBJArtifact struct {
	OBJ     []byte
	MTL     []byte
	MTLName string
}

// face windings for an axis-aligned box, outward normals, over the vertex
// order (x0,y0,z0) (x1,y0,z0) (x1,y1,z0) (x0,y1,z0) and the same four at
// z1.
var boxFaces = [6][4]int{
	{0, 3, 2, 1},
	{4, 5, 6, 7},
	{0, 1, 5, 4},
	{1, 2, 6, 5},
	{2, 3, 7, 6},
	{3, 0, 4, 7},
}

// RenderOBJ renders the layout as a Wavefront OBJ of one extruded box per
// frame. Each box is its own object named frame_<n> in pre-order, carries
// its label in a comment, and references a same-named material whose
// diffuse color comes from the palette.
func RenderOBJ(l *flame.Layout, opts ...OBJOption) (OBJArtifact, error) {
	r := objRenderer{
		palette: colorspace.DefaultPalette(),
		depth:   DefaultExtrusionDepth,
		mtlName: "flamegraph.mtl",
	}
	for _, opt := range opts {
		opt(&r)
	}
	ri := colorspace.NewRectInterpolator(r.palette)

	var obj, mtl bytes.Buffer
	fmt.Fprintf(&obj, "# flame graph: %s\n", l.Thread.Description)
	fmt.Fprintf(&obj, "mtllib %s\n\n", r.mtlName)
	fmt.Fprintf(&mtl, "# materials for: %s\n\n", l.Thread.Description)

	idx := 0
	vbase := 1
	var walkErr error
	l.Walk(func(b flame.Block) bool {
		c, err := ri.At(b.XNorm, b.YNorm)
		if err != nil {
			walkErr = fmt.Errorf("frame %q: %w", b.Label, err)
			return false
		}

		name := fmt.Sprintf("frame_%d", idx)
		fmt.Fprintf(&obj, "o %s\n", name)
		fmt.Fprintf(&obj, "# label: %s (%d samples)\n", b.Label, b.Samples)
		fmt.Fprintf(&obj, "usemtl %s\n", name)

		x0, x1 := b.X, b.X+b.W
		y0, y1 := b.Y, b.Y+b.H
		for _, z := range []float64{0, r.depth} {
			fmt.Fprintf(&obj, "v %.3f %.3f %.3f\n", x0, y0, z)
			fmt.Fprintf(&obj, "v %.3f %.3f %.3f\n", x1, y0, z)
			fmt.Fprintf(&obj, "v %.3f %.3f %.3f\n", x1, y1, z)
			fmt.Fprintf(&obj, "v %.3f %.3f %.3f\n", x0, y1, z)
		}
		for _, f := range boxFaces {
			fmt.Fprintf(&obj, "f %d %d %d %d\n", vbase+f[0], vbase+f[1], vbase+f[2], vbase+f[3])
		}
		obj.WriteByte('\n')
		vbase += 8

		kr, kg, kb := diffuse(c)
		fmt.Fprintf(&mtl, "newmtl %s\nKd %.4f %.4f %.4f\n\n", name, kr, kg, kb)

		idx++
		return true
	})
	if walkErr != nil {
		return OBJArtifact{}, walkErr
	}

	return OBJArtifact{OBJ: obj.Bytes(), MTL: mtl.Bytes(), MTLName: r.mtlName}, nil
}

// diffuse converts to unit-range RGB, clamping out-of-gamut blends at the
// file boundary.
func diffuse(c colorspace.Color) (float64, float64, float64) {
	r, g, b := c.Convert(colorspace.RGB).Components()
	unit := func(v float64) float64 { return max(0, min(255, v)) / 255 }
	return unit(r), unit(g), unit(b)
}

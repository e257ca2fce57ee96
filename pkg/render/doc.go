// Package render turns flame layouts into output artifacts.
//
// # Overview
//
// Every sink takes a [flame.Layout] plus functional options and returns
// bytes ready to write:
//
//   - [RenderSVG]: scalable vector output with per-frame tooltips
//   - [RenderPNG]: raster output drawn with fogleman/gg
//   - [RenderOBJ]: Wavefront OBJ/MTL pair of extruded 3D boxes
//   - [RenderJSON]: pretty-printed interchange document for a whole report
//   - [ToDOT], [RenderDOTSVG], [RenderDOTPNG]: call-tree node-link diagrams
//     via Graphviz
//
// Frames are colored by bilinear palette interpolation in Lab space, keyed
// on each block's normalized position; see [colorspace.RectInterpolator].
// Sinks draw rectangles only. Frame labels travel as metadata (SVG titles,
// OBJ object names, JSON fields), never as rendered text.
//
// [colorspace.RectInterpolator]: github.com/flamedump/flamedump/pkg/colorspace
// [flame.Layout]: github.com/flamedump/flamedump/pkg/flame
package render

// Package pkg provides the core libraries for flamedump report visualization.
//
// # Overview
//
// Flamedump turns macOS spindump text reports into flame graphs. The pkg
// directory is organized into five areas:
//
//  1. [spindump] - Report parsing (heavy format → frame trees)
//  2. [flame] - Flame graph layout (frame trees → positioned blocks)
//  3. [colorspace] - Color conversion and gradient interpolation
//  4. [render] - Output sinks (SVG, PNG, OBJ, JSON, Graphviz)
//  5. [cache] - Artifact caching for the HTTP server
//
// # Architecture
//
// The typical data flow through flamedump:
//
//	spindump report (heavy format)
//	         ↓
//	    [spindump] package (parse sections + call stacks)
//	         ↓
//	    [flame] package (per-thread block layout)
//	         ↓
//	    [colorspace] package (Lab-space gradient per block)
//	         ↓
//	    [render] package (SVG/PNG/OBJ/JSON/DOT output)
//
// # Quick Start
//
// Parse a report and render the main thread as an SVG flame graph:
//
//	import (
//	    "os"
//	    "github.com/flamedump/flamedump/pkg/spindump"
//	    "github.com/flamedump/flamedump/pkg/flame"
//	    "github.com/flamedump/flamedump/pkg/render"
//	)
//
//	// 1. Parse the report
//	rep, _ := spindump.ParseFile("heavy.txt")
//
//	// 2. Lay out the main thread
//	l, _ := flame.New(rep.Process.Threads[0], flame.Options{})
//
//	// 3. Render to SVG
//	svg, _ := render.RenderSVG(l)
//	os.WriteFile("flame.svg", svg, 0o644)
//
// # Main Packages
//
// [spindump] - Parser for spindump's heavy text format. Splits the report
// into blank-line-separated sections, keeps the ten preamble sections as
// key/value attributes, and turns each thread's indented sample lines
// into a frame tree.
//
// [flame] - Flame graph geometry. A pre-order walk assigns every frame a
// start offset and depth; the layout scales those into drawing units
// where the root spans the full width and each row is one sample height.
//
// [colorspace] - Minimal color engine: sRGB, XYZ, and CIE Lab
// conversions, hex parsing and formatting, linear and bilinear gradient
// interpolation in Lab space, and palette generation.
//
// [render] - Output sinks over a layout: SVG and PNG flame graphs,
// extruded OBJ/MTL geometry for 3D tooling, a JSON interchange document
// for external viewers, and Graphviz call trees via DOT.
//
// [cache] - Byte cache keyed by report content and render settings, with
// file, redis, and no-op backends. Used by the serve command so repeated
// artifact requests skip rendering.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/spindump/...   # Specific package
//	go test -run Example         # Examples only
//
// [spindump]: https://pkg.go.dev/github.com/flamedump/flamedump/pkg/spindump
// [flame]: https://pkg.go.dev/github.com/flamedump/flamedump/pkg/flame
// [colorspace]: https://pkg.go.dev/github.com/flamedump/flamedump/pkg/colorspace
// [render]: https://pkg.go.dev/github.com/flamedump/flamedump/pkg/render
// [cache]: https://pkg.go.dev/github.com/flamedump/flamedump/pkg/cache
// [buildinfo]: https://pkg.go.dev/github.com/flamedump/flamedump/pkg/buildinfo
package pkg

package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/flamedump/flamedump/pkg/spindump"
)

// ToDOT converts a thread's frame tree to Graphviz DOT for call-tree
// visualization. Nodes carry the frame label and sample count; edges run
// caller to callee. Render the result with [RenderDOTSVG] or
// [RenderDOTPNG].
func ToDOT(t spindump.ThreadTrace) string {
	var buf bytes.Buffer
	buf.WriteString("digraph calltree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if t.Root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	// Pre-order indices double as stable node IDs.
	ids := make(map[*spindump.FrameSample]int)
	t.Root.Visit(func(f *spindump.FrameSample) {
		ids[f] = len(ids)
	})

	t.Root.Visit(func(f *spindump.FrameSample) {
		label := fmt.Sprintf("%s\n%d samples", f.Label, f.Samples)
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", ids[f], label)
	})

	buf.WriteString("\n")
	var emit func(f *spindump.FrameSample)
	emit = func(f *spindump.FrameSample) {
		for _, c := range f.Children {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", ids[f], ids[c])
			emit(c)
		}
	}
	emit(t.Root)

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderDOT(dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderDOTPNG renders a DOT graph to PNG using Graphviz.
func RenderDOTPNG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderDOT(dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderDOT(dot string, format graphviz.Format, buf *bytes.Buffer) error {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz svg element so the document
// scales from origin instead of carrying translated point units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// Package dot renders computed layouts as Graphviz documents and images.
//
// Positions computed by the layout engine are pinned in the DOT output
// (pos="x,y!"), so Graphviz acts purely as a rasterizer via the neato
// engine and never re-layouts the graph. The generated DOT source can also
// be saved as-is and processed with external Graphviz tools.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no graphviz binary is required.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/specmap/specmap/pkg/graph"
	"github.com/specmap/specmap/pkg/graphio"
)

// dotScale converts engine units to Graphviz points. Engine coordinates are
// in the hundreds; neato's pinned positions are in inches at 72dpi, so the
// raw values are divided down to keep output dimensions sane.
const dotScale = 72.0

// Options configures DOT generation.
type Options struct {
	// Detailed includes the symbol type in node labels.
	// When false, only the display name is shown.
	Detailed bool

	// Highlight marks the given node IDs (typically an impact chain) with
	// accent styling, and the Selected node with its own style.
	Highlight map[string]bool
	Selected  string
}

// ToDOT converts a positioned layout to Graphviz DOT format with pinned
// node positions. Y is negated because engine coordinates grow downward
// while Graphviz coordinates grow upward.
func ToDOT(g *graph.Graph, lay graphio.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, pn := range lay.Nodes {
		label := fmtLabel(pn, opts.Detailed)
		attrs := fmtAttrs(pn, label, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", pn.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.Source, e.Target, edgeAttrs(e))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(pn graphio.PlacedNode, detailed bool) string {
	if !detailed {
		return pn.Label
	}
	return fmt.Sprintf("%s\n%s", pn.Label, pn.Symbol)
}

func fmtAttrs(pn graphio.PlacedNode, label string, opts Options) []string {
	cx := (pn.X + pn.Width/2) / dotScale
	cy := -(pn.Y + pn.Height/2) / dotScale

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf(`pos="%.3f,%.3f!"`, cx, cy),
	}

	switch {
	case pn.ID == opts.Selected:
		attrs = append(attrs, `fillcolor="#f9d71c"`, "penwidth=2")
	case opts.Highlight[pn.ID]:
		attrs = append(attrs, `fillcolor="#cce5ff"`)
	case graph.SymbolType(pn.Symbol).IsConfigDomain():
		attrs = append(attrs, `fillcolor="#e8e8e8"`)
	case graph.SymbolType(pn.Symbol).IsSet():
		attrs = append(attrs, `style="rounded,filled,dashed"`)
	}
	return attrs
}

func edgeAttrs(e graph.Edge) string {
	if e.Relation.IsHierarchy() {
		return ""
	}
	return fmt.Sprintf(" [style=dashed, label=%q, fontsize=9]", string(e.Relation))
}

// RenderSVG renders a DOT document to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT document to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG, nil)
}

func render(dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out := buf.Bytes()
	if post != nil {
		out = post(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element to a zero-origin viewBox
// with explicit pixel dimensions, which embeds more predictably in webviews.
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

package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/railroad"
	"github.com/matzehuels/railroad/pkg/svg"
)

// StructureOptions configures the structure view.
type StructureOptions struct {
	// Detailed adds each node's width, height and entry height to its label.
	Detailed bool
}

// ToDOT describes the node tree of n in Graphviz DOT format, one box per
// node with edges from each composite to its children in order.
func ToDOT(n railroad.Node, opts StructureOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Go Mono\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	// Ids follow the walk order; a node shared by two parents appears twice.
	var edges []string
	var parents []int
	next := 0
	railroad.Walk(n, func(node railroad.Node, depth int) bool {
		id := next
		next++
		parents = append(parents[:depth], id)
		if depth > 0 {
			edges = append(edges, fmt.Sprintf("  n%d -> n%d;\n", parents[depth-1], id))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, strings.Join(fmtAttrs(node, opts.Detailed), ", "))
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n railroad.Node, detailed bool) string {
	label := railroad.Kind(n)
	if l, ok := n.(interface{ Label() string }); ok {
		label += " " + strconv.Quote(l.Label())
	}
	if detailed {
		label += fmt.Sprintf("\nw=%s h=%s eh=%s", svg.Num(n.Width()), svg.Num(n.Height()), svg.Num(n.EntryHeight()))
	}
	return label
}

func fmtAttrs(n railroad.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch n.(type) {
	case *railroad.Terminal:
		attrs = append(attrs, "fillcolor=\"#f1f7d4\"")
	case *railroad.NonTerminal:
		attrs = append(attrs, "style=filled", "fillcolor=\"#f1f7d4\"")
	case *railroad.Comment, *railroad.Empty:
		attrs = append(attrs, "style=\"rounded,dashed\"", "fontcolor=grey30")
	case *railroad.Start, *railroad.End, *railroad.SimpleStart, *railroad.SimpleEnd:
		attrs = append(attrs, "shape=circle", "fontsize=10")
	}
	return attrs
}

// Structure renders the node tree of n as an SVG graph, for inspecting
// large descriptions.
func Structure(ctx context.Context, n railroad.Node, opts StructureOptions) ([]byte, error) {
	if n == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "structure: nil node")
	}
	return RenderDOT(ctx, ToDOT(n, opts))
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// that scales from its viewBox.
func normalizeViewBox(out []byte) []byte {
	match := viewBoxRe.FindSubmatch(out)
	if match == nil {
		return out
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return out
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(out, []byte(tag))
}

// Package treeviz renders the adjacency tree of a plan with Graphviz.
//
// Every volume and opening is a node; an edge runs from each entity to the
// entities placed against it, starting at the root. Openings are drawn
// dashed and unresolved entities red, labelled with the reason they were
// left out.
package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/chazu/roomplan/pkg/graph"
	"github.com/chazu/roomplan/pkg/layout"
)

// Options configures tree rendering.
type Options struct {
	// Detailed adds dimensions and positions to node labels.
	Detailed bool
}

// ToDOT converts a layout result to Graphviz DOT. Edges follow plan order,
// so siblings appear in the order they were declared.
func ToDOT(res *layout.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph plan {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	if res == nil || res.Plan == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	hasStart := false
	for _, e := range res.Plan.Entities() {
		if e.AdjacentTo() == graph.Start {
			hasStart = true
			break
		}
	}
	if hasStart {
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.15];\n", graph.Start)
	}

	for _, e := range res.Plan.Entities() {
		if e.Kind() == graph.KindConstant {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", e.EntityName(), strings.Join(nodeAttrs(res, e, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range res.Plan.Entities() {
		if e.Kind() == graph.KindConstant {
			continue
		}
		from := e.AdjacentTo()
		if !drawn(res.Plan, from) {
			continue
		}
		attrs := ""
		if e.Kind() == graph.KindOpening {
			attrs = " [style=dashed]"
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", from, e.EntityName(), attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// drawn reports whether name has a node in the DOT output.
func drawn(p *graph.Plan, name string) bool {
	if name == graph.Start {
		return true
	}
	e := p.Lookup(name)
	return e != nil && e.Kind() != graph.KindConstant
}

func nodeAttrs(res *layout.Result, e graph.Entity, opts Options) []string {
	label := e.EntityName()
	if opts.Detailed {
		switch v := e.(type) {
		case *graph.Volume:
			label += fmt.Sprintf("\n%s %s\nat %s", v.VolumeKind, v.Dimensions, v.Position)
		case *graph.Opening:
			label += fmt.Sprintf("\n%s on %s wall", v.OpeningKind, v.Wall)
		}
	}
	if reason, ok := res.Unresolved[e.EntityName()]; ok {
		label += fmt.Sprintf("\n(%s)", reason)
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if e.Kind() == graph.KindOpening {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	if _, ok := res.Unresolved[e.EntityName()]; ok {
		attrs = append(attrs, "color=red", "fontcolor=red")
	}
	if e.EntityName() == res.Root {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sdkorder/pkg/packages"
)

// Options configures requirement graph rendering.
type Options struct {
	// Detailed adds the package id and per-kind object counts to node labels.
	// When false, only the unique package name is shown.
	Detailed bool
	// Params includes function-parameter requirements as dotted edges.
	Params bool
}

// Edge colors per artifact kind.
var edgeColors = map[packages.Kind]string{
	packages.KindStructs: "steelblue",
	packages.KindClasses: "firebrick",
	packages.KindParams:  "gray50",
}

// ToDOT converts an initialized registry to Graphviz DOT format. Every package
// is a node labeled with its unique name; every requirement is an edge from
// the requiring package to the required one, colored by the artifact that
// needs it and labeled with the kinds it needs.
//
// Packages that emit nothing are drawn with dashed outlines and grey fill.
// Output is deterministic: nodes and edges follow ascending package id.
func ToDOT(r *packages.Registry, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := r.Packages()
	for _, id := range ids {
		info, _ := r.Info(id)
		attrs := fmtAttrs(info, fmtLabel(info, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(id), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	kinds := []packages.Kind{packages.KindStructs, packages.KindClasses}
	if opts.Params {
		kinds = append(kinds, packages.KindParams)
	}
	for _, id := range ids {
		info, _ := r.Info(id)
		deps := info.Dependencies()
		for _, kind := range kinds {
			for _, req := range deps.Of(kind).All() {
				fmt.Fprintf(&buf, "  %q -> %q [%s];\n",
					nodeID(id), nodeID(req.Package), strings.Join(edgeAttrs(kind, req), ", "))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id packages.ID) string {
	return "p" + strconv.Itoa(int(id))
}

func fmtLabel(info packages.Info, detailed bool) string {
	if !detailed {
		return info.UniqueName()
	}
	parts := []string{
		fmt.Sprintf("id: %d", info.ID()),
		fmt.Sprintf("structs: %d", info.SortedStructs().Len()),
		fmt.Sprintf("classes: %d", info.SortedClasses().Len()),
		fmt.Sprintf("enums: %d", len(info.Enums())),
		fmt.Sprintf("functions: %d", len(info.Functions())),
	}
	return info.UniqueName() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(info packages.Info, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if info.IsEmpty() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func edgeAttrs(kind packages.Kind, req packages.Requirement) []string {
	attrs := []string{"color=" + edgeColors[kind]}
	if kind == packages.KindParams {
		attrs = append(attrs, "style=dotted")
	}
	if label := needs(req); label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	return attrs
}

func needs(req packages.Requirement) string {
	switch {
	case req.Structs && req.Classes:
		return "structs+classes"
	case req.Structs:
		return "structs"
	case req.Classes:
		return "classes"
	}
	return ""
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox moves the graph origin to 0,0 and pins width and height
// to the viewBox so browsers scale the drawing consistently.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

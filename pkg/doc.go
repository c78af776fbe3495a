// Package pkg holds the libraries behind sdkorder, which computes the order
// in which an SDK generator must emit per-package headers.
//
// # Overview
//
// A reflected process is a set of packages, each owning structs, classes,
// enums and functions. The generator writes one structs header and one
// classes header per package (plus a parameters header for functions), and
// every header may only include headers that were written before it.
//
// The libraries are layered:
//
//  1. [reflection] - in-memory snapshot of packages and objects
//  2. [names] and [localsort] - name interning and intra-package order
//  3. [packages] - requirement graph, emission order and cycle detection
//  4. [io] - manifest import (JSON, TOML, YAML) and report export
//  5. [pipeline] - load, build, order and report, with [cache] support
//  6. [render/nodelink] - DOT and SVG diagrams of the requirement graph
//
// # Data Flow
//
//	manifest (.json/.toml/.yaml)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [packages] package (Initialize: requirements, names, local orders)
//	         ↓
//	    IterateDependencies / FindCycle
//	         ↓
//	    [pipeline] report (steps, cycles, collisions) → text/JSON/YAML/TOML
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Manifest: "sdk.yaml"})
//	if err != nil {
//	    return err
//	}
//	for _, step := range res.Report.Steps {
//	    fmt.Println(step.File)
//	}
//
// Errors carry codes from [errors]; lifecycle hooks live in [observability].
//
// [reflection]: github.com/matzehuels/sdkorder/pkg/reflection
// [names]: github.com/matzehuels/sdkorder/pkg/names
// [localsort]: github.com/matzehuels/sdkorder/pkg/localsort
// [packages]: github.com/matzehuels/sdkorder/pkg/packages
// [io]: github.com/matzehuels/sdkorder/pkg/io
// [pipeline]: github.com/matzehuels/sdkorder/pkg/pipeline
// [cache]: github.com/matzehuels/sdkorder/pkg/cache
// [render/nodelink]: github.com/matzehuels/sdkorder/pkg/render/nodelink
// [errors]: github.com/matzehuels/sdkorder/pkg/errors
// [observability]: github.com/matzehuels/sdkorder/pkg/observability
package pkg

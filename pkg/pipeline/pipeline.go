// Package pipeline drives one ordering run: load a manifest, build the
// package registry, compute the emission order and cycle report.
//
// This is the layer the CLI (and any embedding generator) talks to. It owns
// caching, logging and hooks so the registry itself stays a pure engine.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Manifest: "sdk.json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, step := range result.Report.Steps {
//	    fmt.Println(step.Package, step.Kind)
//	}
//
// Stages can also be run on their own:
//
//	snap, hash, err := runner.Load(ctx, "sdk.json")
//	reg, err := runner.Build(ctx, opts)
//	report := pipeline.NewReport(reg, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sdkorder/pkg/cache"
	"github.com/matzehuels/sdkorder/pkg/errors"
	"github.com/matzehuels/sdkorder/pkg/packages"
)

// Options configures a pipeline run.
type Options struct {
	// Manifest is the path of the reflection manifest (.json, .toml, .yaml).
	Manifest string `json:"manifest"`

	// StopAtFirstCycle ends cycle detection after the first report.
	StopAtFirstCycle bool `json:"stop_at_first_cycle,omitempty"`

	// Detailed adds the intra-package struct and class orders to the report.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh ignores cached reports (the fresh report is still cached).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Manifest == "" {
		return errors.New(errors.ErrCodeInvalidInput, "manifest is required")
	}
	if err := errors.ValidateManifestPath(o.Manifest); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.Logger
}

// KeyOpts returns the cache key options for the report.
func (o *Options) KeyOpts() cache.ReportKeyOpts {
	return cache.ReportKeyOpts{
		StopAtFirstCycle: o.StopAtFirstCycle,
		Detailed:         o.Detailed,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Report is the computed (or cached) ordering report.
	Report *Report

	// Registry is the initialized registry. It is nil when the report came
	// from the cache.
	Registry *packages.Registry

	// CacheHit reports whether Report was served from the cache.
	CacheHit bool
}

// Stats contains run statistics.
type Stats struct {
	Packages     int           `json:"packages" toml:"packages" yaml:"packages"`
	Requirements int           `json:"requirements" toml:"requirements" yaml:"requirements"`
	Steps        int           `json:"steps" toml:"steps" yaml:"steps"`
	Cycles       int           `json:"cycles" toml:"cycles" yaml:"cycles"`
	LoadTime     time.Duration `json:"load_time" toml:"load_time" yaml:"load_time"`
	OrderTime    time.Duration `json:"order_time" toml:"order_time" yaml:"order_time"`
}

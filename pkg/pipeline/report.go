package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/sdkorder/pkg/names"
	"github.com/matzehuels/sdkorder/pkg/packages"
)

// Report is the outcome of one ordering run.
type Report struct {
	RunID        string          `json:"run_id" toml:"run_id" yaml:"run_id"`
	ManifestHash string          `json:"manifest_hash" toml:"manifest_hash" yaml:"manifest_hash"`
	Packages     []PackageReport `json:"packages" toml:"packages" yaml:"packages"`
	Steps        []Step          `json:"steps" toml:"steps" yaml:"steps"`
	Cycles       []Cycle         `json:"cycles,omitempty" toml:"cycles,omitempty" yaml:"cycles,omitempty"`
	Collisions   []Collision     `json:"collisions,omitempty" toml:"collisions,omitempty" yaml:"collisions,omitempty"`
	Stats        Stats           `json:"stats" toml:"stats" yaml:"stats"`
}

// PackageReport describes one package and what it requires.
type PackageReport struct {
	ID         int32  `json:"id" toml:"id" yaml:"id"`
	Name       string `json:"name" toml:"name" yaml:"name"`
	UniqueName string `json:"unique_name" toml:"unique_name" yaml:"unique_name"`
	Empty      bool   `json:"empty,omitempty" toml:"empty,omitempty" yaml:"empty,omitempty"`

	// Requirement lists hold unique package names in insertion order.
	StructsRequire []string `json:"structs_require,omitempty" toml:"structs_require,omitempty" yaml:"structs_require,omitempty"`
	ClassesRequire []string `json:"classes_require,omitempty" toml:"classes_require,omitempty" yaml:"classes_require,omitempty"`

	// ParamIncludes lists the headers the parameters file must include.
	ParamIncludes []string `json:"param_includes,omitempty" toml:"param_includes,omitempty" yaml:"param_includes,omitempty"`

	// Local orders, only with Options.Detailed.
	Structs   []int `json:"structs,omitempty" toml:"structs,omitempty" yaml:"structs,omitempty"`
	Classes   []int `json:"classes,omitempty" toml:"classes,omitempty" yaml:"classes,omitempty"`
	BackEdges int   `json:"back_edges,omitempty" toml:"back_edges,omitempty" yaml:"back_edges,omitempty"`
}

// Step is one entry of the emission order.
type Step struct {
	Package string `json:"package" toml:"package" yaml:"package"`
	ID      int32  `json:"id" toml:"id" yaml:"id"`
	Kind    string `json:"kind" toml:"kind" yaml:"kind"`
	// File is the header to emit, empty when the package has nothing of
	// this kind.
	File string `json:"file,omitempty" toml:"file,omitempty" yaml:"file,omitempty"`
}

// Cycle is one requirement cycle, as a closed chain of unique names.
type Cycle struct {
	Kind  string   `json:"kind" toml:"kind" yaml:"kind"`
	Chain []string `json:"chain" toml:"chain" yaml:"chain"`
}

// String renders the chain as "A -> B -> A (structs)".
func (c Cycle) String() string {
	return fmt.Sprintf("%s (%s)", strings.Join(c.Chain, " -> "), c.Kind)
}

// Collision is a package name shared by more than one package.
type Collision struct {
	Name  string `json:"name" toml:"name" yaml:"name"`
	Count uint64 `json:"count" toml:"count" yaml:"count"`
}

// FileName returns the header name of a package artifact, for example
// "Engine_1_classes.hpp".
func FileName(info packages.Info, kind packages.Kind) string {
	return fmt.Sprintf("%s_%s.hpp", info.UniqueName(), kind)
}

// NewReport computes the emission order and cycle list of an initialized
// registry. Run id, manifest hash and load time are left for the caller.
func NewReport(r *packages.Registry, opts Options) *Report {
	start := time.Now()
	rep := &Report{}

	requirements := 0
	for _, id := range r.Packages() {
		info, _ := r.Info(id)
		rep.Packages = append(rep.Packages, packageReport(r, info, opts.Detailed))
		requirements += info.Dependencies().Len()
	}

	r.IterateDependencies(func(_, cur packages.Frame, kind packages.Kind) {
		info, _ := r.Info(cur.Package)
		step := Step{Package: info.UniqueName(), ID: int32(cur.Package), Kind: kind.String()}
		if emits(info, kind) {
			step.File = FileName(info, kind)
		}
		rep.Steps = append(rep.Steps, step)
	})

	r.FindCycle(func(ancestor, closing packages.Frame, kind packages.Kind) bool {
		chain := packages.CycleChain(ancestor, closing)
		c := Cycle{Kind: kind.String(), Chain: make([]string, len(chain))}
		for i, id := range chain {
			info, _ := r.Info(id)
			c.Chain[i] = info.UniqueName()
		}
		rep.Cycles = append(rep.Cycles, c)
		opts.logger().Warn("requirement cycle", "kind", c.Kind, "chain", c.Chain)
		return !opts.StopAtFirstCycle
	})

	rep.Collisions = Collisions(r.Names())

	rep.Stats = Stats{
		Packages:     r.Len(),
		Requirements: requirements,
		Steps:        len(rep.Steps),
		Cycles:       len(rep.Cycles),
		OrderTime:    time.Since(start),
	}
	return rep
}

func emits(info packages.Info, kind packages.Kind) bool {
	if kind == packages.KindClasses {
		return info.HasClasses()
	}
	return info.HasStructs() || info.HasEnums()
}

func packageReport(r *packages.Registry, info packages.Info, detailed bool) PackageReport {
	deps := info.Dependencies()
	p := PackageReport{
		ID:             int32(info.ID()),
		Name:           info.Name(),
		UniqueName:     info.UniqueName(),
		Empty:          info.IsEmpty(),
		StructsRequire: uniqueNames(r, deps.Structs),
		ClassesRequire: uniqueNames(r, deps.Classes),
	}

	if info.HasParams() {
		if emits(info, packages.KindStructs) {
			p.ParamIncludes = append(p.ParamIncludes, FileName(info, packages.KindStructs))
		}
		if info.HasClasses() {
			p.ParamIncludes = append(p.ParamIncludes, FileName(info, packages.KindClasses))
		}
		for _, req := range deps.Params.All() {
			dep, _ := r.Info(req.Package)
			if req.Structs {
				p.ParamIncludes = append(p.ParamIncludes, FileName(dep, packages.KindStructs))
			}
			if req.Classes {
				p.ParamIncludes = append(p.ParamIncludes, FileName(dep, packages.KindClasses))
			}
		}
	}

	if detailed {
		p.Structs = info.SortedStructs().Items()
		p.Classes = info.SortedClasses().Items()
		p.BackEdges = len(info.SortedStructs().BackEdges()) + len(info.SortedClasses().BackEdges())
	}
	return p
}

func uniqueNames(r *packages.Registry, reqs packages.Requirements) []string {
	if reqs.Len() == 0 {
		return nil
	}
	out := make([]string, 0, reqs.Len())
	for _, req := range reqs.All() {
		info, _ := r.Info(req.Package)
		out = append(out, info.UniqueName())
	}
	return out
}

// Collisions converts name table entries into report rows.
func Collisions(entries []names.Entry) []Collision {
	var out []Collision
	for _, e := range entries {
		if !e.IsUnique() {
			out = append(out, Collision{Name: e.Text, Count: e.Count})
		}
	}
	return out
}

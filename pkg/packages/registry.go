package packages

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sdkorder/pkg/errors"
	"github.com/matzehuels/sdkorder/pkg/localsort"
	"github.com/matzehuels/sdkorder/pkg/names"
	"github.com/matzehuels/sdkorder/pkg/observability"
	"github.com/matzehuels/sdkorder/pkg/reflection"
)

// record is the immutable definition of one package, built by Initialize.
type record struct {
	id        ID
	name      names.Handle
	collision uint64
	hasParams bool
	structs   localsort.Order
	classes   localsort.Order
	functions []int
	enums     []int
	deps      Dependencies
}

// bookkeeping is the mutable traversal state. It is kept apart from the
// records so the definition table stays read-only after Initialize.
type bookkeeping struct {
	epoch       uint64
	structsSeen []uint64
	classesSeen []uint64
}

func (b *bookkeeping) reset(n int) {
	b.structsSeen = make([]uint64, n)
	b.classesSeen = make([]uint64, n)
}

// next starts a new pass. Stamps from earlier passes become stale without
// being cleared.
func (b *bookkeeping) next() uint64 {
	b.epoch++
	return b.epoch
}

// stamp marks pos as seen for kind in the current pass and reports whether
// it had already been seen.
func (b *bookkeeping) stamp(pos int, kind Kind) bool {
	seen := b.structsSeen
	if kind == KindClasses {
		seen = b.classesSeen
	}
	if seen[pos] == b.epoch {
		return true
	}
	seen[pos] = b.epoch
	return false
}

// Registry is the authoritative mapping from package id to package record.
//
// A Registry has a two-phase lifecycle: [Registry.Initialize] runs exactly
// once and builds every record, after which the records are read-only and
// only the traversal bookkeeping changes. Traversals called before a
// successful Initialize panic.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	src    reflection.Source
	logger *log.Logger
	hooks  observability.GraphHooks

	names   *names.Table
	records []record
	pos     map[ID]int
	book    bookkeeping

	initCalled  bool
	initialized bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for build and traversal summaries.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithHooks sets the graph hooks. By default the hooks registered with
// observability.SetGraphHooks at construction time are used.
func WithHooks(h observability.GraphHooks) Option {
	return func(r *Registry) {
		if h != nil {
			r.hooks = h
		}
	}
}

// New creates an uninitialized registry reading from src.
func New(src reflection.Source, opts ...Option) *Registry {
	r := &Registry{
		src:    src,
		logger: log.Default(),
		hooks:  observability.Graph(),
		names:  names.New(),
		pos:    make(map[ID]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize scans every package once, builds the requirement lists, interns
// the package names and computes the local orders. It fails with
// ErrCodeAlreadyInitialized on a second call, with ErrCodeSourceUnavailable
// when the registry has no source, and with a reference error code when the
// source is inconsistent. Any error leaves the registry unusable.
func (r *Registry) Initialize() error {
	if r.initCalled {
		return errors.New(errors.ErrCodeAlreadyInitialized, "package registry initialized twice")
	}
	r.initCalled = true

	if r.src == nil {
		return errors.New(errors.ErrCodeSourceUnavailable, "no reflection source")
	}

	start := time.Now()
	err := r.build()
	requirements := 0
	for i := range r.records {
		requirements += r.records[i].deps.Len()
	}
	r.hooks.OnInitialize(len(r.records), requirements, time.Since(start), err)
	if err != nil {
		return err
	}

	r.initialized = true
	r.logger.Debug("initialized package registry",
		"packages", len(r.records),
		"requirements", requirements,
		"names", r.names.Len(),
		"duration", time.Since(start))
	return nil
}

// Initialized reports whether Initialize completed successfully.
func (r *Registry) Initialized() bool { return r.initialized }

// Len returns the number of registered packages.
func (r *Registry) Len() int { return len(r.records) }

// Packages returns all package ids in ascending order.
func (r *Registry) Packages() []ID {
	ids := make([]ID, len(r.records))
	for i := range r.records {
		ids[i] = r.records[i].id
	}
	return ids
}

// Info returns the read-only view of package id.
func (r *Registry) Info(id ID) (Info, bool) {
	p, ok := r.pos[id]
	if !ok || !r.initialized {
		return Info{}, false
	}
	return Info{r: r, rec: &r.records[p]}, true
}

// InfoOf returns the package owning the reflection object at index.
func (r *Registry) InfoOf(index int) (Info, bool) {
	if !r.initialized {
		return Info{}, false
	}
	o, ok := r.src.Object(index)
	if !ok {
		return Info{}, false
	}
	return r.Info(ID(o.Package))
}

// Epoch returns the number of traversal passes started so far.
func (r *Registry) Epoch() uint64 { return r.book.epoch }

// Names returns a copy of the interned name entries in handle order.
func (r *Registry) Names() []names.Entry {
	out := make([]names.Entry, r.names.Len())
	for i := range out {
		out[i] = r.names.Entry(names.Handle(i))
	}
	return out
}

// Info is a read-only handle to one package record.
// The zero value is invalid; check [Info.Valid] before use.
type Info struct {
	r   *Registry
	rec *record
}

// Valid reports whether the handle refers to a package.
func (i Info) Valid() bool { return i.rec != nil }

// ID returns the package id.
func (i Info) ID() ID { return i.rec.id }

// Name returns the raw package name.
func (i Info) Name() string {
	text, _ := i.r.names.Resolve(i.rec.name)
	return text
}

// NameCollision returns the package name and its collision ordinal among all
// packages registered with the same name.
func (i Info) NameCollision() (string, uint64) {
	return i.Name(), i.rec.collision
}

// IsUnique reports whether no other package shares this package's name.
func (i Info) IsUnique() bool {
	_, unique := i.r.names.Resolve(i.rec.name)
	return unique
}

// UniqueName returns the name with its collision ordinal appended when the
// ordinal is non-zero ("Engine", "Engine_1").
func (i Info) UniqueName() string {
	if i.rec.collision == 0 {
		return i.Name()
	}
	return fmt.Sprintf("%s_%d", i.Name(), i.rec.collision)
}

func (i Info) HasStructs() bool   { return i.rec.structs.Len() > 0 }
func (i Info) HasClasses() bool   { return i.rec.classes.Len() > 0 }
func (i Info) HasFunctions() bool { return len(i.rec.functions) > 0 }
func (i Info) HasParams() bool    { return i.rec.hasParams }
func (i Info) HasEnums() bool     { return len(i.rec.enums) > 0 }

// IsEmpty reports whether the package emits nothing at all.
func (i Info) IsEmpty() bool {
	return !i.HasStructs() && !i.HasClasses() && !i.HasEnums() && !i.HasFunctions() && !i.HasParams()
}

// SortedStructs returns the intra-package struct order.
func (i Info) SortedStructs() localsort.Order { return i.rec.structs }

// SortedClasses returns the intra-package class order.
func (i Info) SortedClasses() localsort.Order { return i.rec.classes }

// Functions returns the package's functions in emission order.
func (i Info) Functions() []int { return slices.Clone(i.rec.functions) }

// Enums returns the package's enums in emission order.
func (i Info) Enums() []int { return slices.Clone(i.rec.enums) }

// Dependencies returns a copy of the package's requirement lists.
func (i Info) Dependencies() Dependencies { return i.rec.deps.clone() }

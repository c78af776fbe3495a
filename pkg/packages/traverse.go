package packages

import (
	"slices"
	"time"
)

// Frame describes one requirement edge taken during a traversal: the
// predecessor package, the package being entered, and what is needed from
// it. Root frames have Prev == NoPackage and need both structs and classes.
type Frame struct {
	Prev    ID
	Package ID
	// ViaStructs is true when the edge came from Prev's structs requirements.
	ViaStructs bool
	// NeedsStructs and NeedsClasses are the flags of the requirement entry.
	NeedsStructs bool
	NeedsClasses bool

	path  *path
	depth int
}

// IsRoot reports whether the frame starts a top-level descent.
func (f Frame) IsRoot() bool { return f.Prev == NoPackage }

// Path returns the packages on the active depth-first path, from the root to
// f.Package. It is only available to cycle callbacks and only meaningful
// while the callback runs; it returns nil for frames of ordered visitation.
func (f Frame) Path() []ID {
	if f.path == nil || f.depth > len(f.path.stack) {
		return nil
	}
	ids := make([]ID, 0, f.depth+1)
	for _, fr := range f.path.stack[:f.depth] {
		ids = append(ids, fr.Package)
	}
	return append(ids, f.Package)
}

// CycleChain returns the requirement chain closed by a cycle, starting and
// ending at the repeated package (A, B, C, A).
func CycleChain(ancestor, closing Frame) []ID {
	p := closing.Path()
	if p == nil || ancestor.depth >= len(p) {
		return nil
	}
	return slices.Clone(p[ancestor.depth:])
}

// VisitFunc is called once per package and kind in dependency order. parent
// is the frame that entered the predecessor, current the frame that entered
// the visited package.
type VisitFunc func(parent, current Frame, kind Kind)

// CycleFunc is called for every requirement edge that leads back to an
// ancestor on the active path. ancestor is the frame that first entered the
// repeated package, closing the edge that would re-enter it. Returning false
// stops the whole pass.
type CycleFunc func(ancestor, closing Frame, kind Kind) bool

// pathEntry holds the per-call hit counters of one package. A counter equal
// to the current top-level call id means the package is on the active path
// for that kind.
type pathEntry struct {
	structsHit, classesHit uint64
	structsAt, classesAt   int
}

// path is the path-local visited list of a single cycle-detection pass.
type path struct {
	call    uint64
	entries []pathEntry
	stack   []Frame
}

func (p *path) onPath(pos int, kind Kind) (int, bool) {
	e := &p.entries[pos]
	if kind == KindClasses {
		return e.classesAt, e.classesHit == p.call
	}
	return e.structsAt, e.structsHit == p.call
}

func (p *path) push(pos int, kind Kind, f Frame) {
	e := &p.entries[pos]
	at := len(p.stack)
	if kind == KindClasses {
		e.classesHit, e.classesAt = p.call, at
	} else {
		e.structsHit, e.structsAt = p.call, at
	}
	f.depth = at
	p.stack = append(p.stack, f)
}

func (p *path) pop(pos int, kind Kind) {
	e := &p.entries[pos]
	if kind == KindClasses {
		e.classesHit = 0
	} else {
		e.structsHit = 0
	}
	p.stack = p.stack[:len(p.stack)-1]
}

// traversal is the one depth-first core behind both entry points. Ordered
// visitation sets onVisit; cycle detection sets path and onCycle.
type traversal struct {
	r       *Registry
	path    *path
	onVisit VisitFunc
	onCycle CycleFunc

	stopped bool
	visits  int
	cycles  int
}

// enter visits the kinds f needs from f.Package. A package's structs are
// always settled before its classes, so a classes requirement implies the
// structs of the same package.
func (t *traversal) enter(parent, f Frame) {
	pos := t.r.pos[f.Package]
	if f.NeedsStructs || f.NeedsClasses {
		t.visit(parent, f, pos, KindStructs)
	}
	if f.NeedsClasses && !t.stopped {
		t.visit(parent, f, pos, KindClasses)
	}
}

func (t *traversal) visit(parent, f Frame, pos int, kind Kind) {
	if t.stopped || t.r.book.stamp(pos, kind) {
		return
	}
	if t.path != nil {
		t.path.push(pos, kind, f)
		defer t.path.pop(pos, kind)
		f = t.path.stack[len(t.path.stack)-1]
	}

	for _, req := range t.r.records[pos].deps.of(kind).list {
		next := Frame{
			Prev:         f.Package,
			Package:      req.Package,
			ViaStructs:   kind == KindStructs,
			NeedsStructs: req.Structs,
			NeedsClasses: req.Classes && kind == KindClasses,
			path:         t.path,
		}
		if t.path != nil {
			next.depth = len(t.path.stack)
			next = t.checkCycle(next)
			if t.stopped {
				return
			}
		}
		if next.NeedsStructs || next.NeedsClasses {
			t.enter(f, next)
			if t.stopped {
				return
			}
		}
	}

	t.visits++
	if t.onVisit != nil {
		t.onVisit(parent, f, kind)
	}
}

// checkCycle reports every kind of next that would re-enter an ancestor and
// returns next with those kinds cleared, so the edge is not descended for
// them.
func (t *traversal) checkCycle(next Frame) Frame {
	pos := t.r.pos[next.Package]
	closing := next

	if next.NeedsClasses {
		if at, ok := t.path.onPath(pos, KindClasses); ok {
			next.NeedsClasses = false
			t.reportCycle(at, closing, KindClasses)
		}
	}
	// A classes requirement also enters the structs of the same package.
	if (next.NeedsStructs || next.NeedsClasses) && !t.stopped {
		if at, ok := t.path.onPath(pos, KindStructs); ok {
			next.NeedsStructs = false
			next.NeedsClasses = false
			t.reportCycle(at, closing, KindStructs)
		}
	}
	return next
}

func (t *traversal) reportCycle(at int, closing Frame, kind Kind) {
	t.cycles++
	if t.onCycle != nil && !t.onCycle(t.path.stack[at], closing, kind) {
		t.stopped = true
	}
}

// run starts a new epoch and enters every package not yet settled in it,
// in ascending id order.
func (t *traversal) run(mode string) {
	if !t.r.initialized {
		panic("packages: traversal before successful Initialize")
	}
	start := time.Now()
	epoch := t.r.book.next()

	root := Frame{Prev: NoPackage, Package: NoPackage, path: t.path}
	for i := range t.r.records {
		if t.stopped {
			break
		}
		if t.path != nil {
			t.path.call++
		}
		f := Frame{
			Prev:         NoPackage,
			Package:      t.r.records[i].id,
			NeedsStructs: true,
			NeedsClasses: true,
			path:         t.path,
		}
		t.enter(root, f)
	}

	d := time.Since(start)
	t.r.hooks.OnPass(mode, epoch, t.visits, t.cycles, d)
	t.r.logger.Debug("traversal pass complete",
		"mode", mode,
		"epoch", epoch,
		"visits", t.visits,
		"cycles", t.cycles,
		"duration", d)
}

// IterateDependencies walks the whole requirement graph once and calls fn for
// every package and kind after all of that kind's requirements have been
// visited. Every package is visited exactly once per kind and pass, structs
// before classes. On cyclic graphs the pass terminates; the edge closing a
// cycle is simply not descended again.
//
// It panics if Initialize has not completed successfully.
func (r *Registry) IterateDependencies(fn VisitFunc) {
	t := &traversal{r: r, onVisit: fn}
	t.run("iterate")
}

// FindCycle walks the whole requirement graph once and calls fn for every
// requirement edge that leads back to an ancestor on the active path. All
// cycles reachable in the pass are reported unless fn returns false. The
// returned count is the number of cycle edges reported.
//
// It panics if Initialize has not completed successfully.
func (r *Registry) FindCycle(fn CycleFunc) int {
	t := &traversal{
		r:       r,
		onCycle: fn,
		path:    &path{entries: make([]pathEntry, len(r.records))},
	}
	t.run("cycles")
	return t.cycles
}

package packages

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sdkorder/pkg/observability"
	"github.com/matzehuels/sdkorder/pkg/reflection"
)

// fixture builds reflection snapshots for tests. Packages get ids in the
// order they are named; object indices are assigned sequentially.
type fixture struct {
	t    *testing.T
	snap *reflection.Snapshot
	next int
}

func newFixture(t *testing.T, pkgs ...string) *fixture {
	t.Helper()
	f := &fixture{t: t, snap: reflection.NewSnapshot()}
	for i, name := range pkgs {
		if _, err := f.snap.AddPackage(i, name); err != nil {
			t.Fatalf("AddPackage(%d, %q) error = %v", i, name, err)
		}
	}
	return f
}

func (f *fixture) add(o reflection.Object) int {
	f.t.Helper()
	o.Index = f.next
	f.next++
	if err := f.snap.AddObject(o); err != nil {
		f.t.Fatalf("AddObject(%q) error = %v", o.Name, err)
	}
	return o.Index
}

func val(target int) reflection.TypeRef { return reflection.TypeRef{Name: "m", Target: target} }
func ptr(target int) reflection.TypeRef { return reflection.TypeRef{Name: "p", Target: target, Pointer: true} }

func (f *fixture) structIn(pkg int, name string, members ...reflection.TypeRef) int {
	return f.add(reflection.Object{Kind: reflection.KindStruct, Name: name, Package: pkg, Super: reflection.NoObject, Members: members})
}

func (f *fixture) structExtends(pkg int, name string, super int) int {
	return f.add(reflection.Object{Kind: reflection.KindStruct, Name: name, Package: pkg, Super: super})
}

func (f *fixture) classIn(pkg int, name string, super int, members ...reflection.TypeRef) int {
	return f.add(reflection.Object{Kind: reflection.KindClass, Name: name, Package: pkg, Super: super, Members: members})
}

func (f *fixture) enumIn(pkg int, name string) int {
	return f.add(reflection.Object{Kind: reflection.KindEnum, Name: name, Package: pkg, Super: reflection.NoObject})
}

func (f *fixture) funcIn(pkg int, name string, params ...reflection.TypeRef) int {
	return f.add(reflection.Object{Kind: reflection.KindFunction, Name: name, Package: pkg, Super: reflection.NoObject, Params: params})
}

// registry builds and initializes a registry over the fixture's snapshot.
func (f *fixture) registry(opts ...Option) *Registry {
	f.t.Helper()
	if err := f.snap.Validate(); err != nil {
		f.t.Fatalf("Validate() error = %v", err)
	}
	opts = append([]Option{WithLogger(quietLogger()), WithHooks(observability.NoopGraphHooks{})}, opts...)
	r := New(f.snap, opts...)
	if err := r.Initialize(); err != nil {
		f.t.Fatalf("Initialize() error = %v", err)
	}
	return r
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// chain builds the structs chain pkgs[0] -> pkgs[1] -> ... where each
// package's single struct holds the next package's struct by value. It
// returns the struct index of every package.
func chain(t *testing.T, pkgs ...string) (*fixture, []int) {
	t.Helper()
	f := newFixture(t, pkgs...)
	idx := make([]int, len(pkgs))
	for i := len(pkgs) - 1; i >= 0; i-- {
		if i == len(pkgs)-1 {
			idx[i] = f.structIn(i, "F"+pkgs[i])
			continue
		}
		idx[i] = f.structIn(i, "F"+pkgs[i], val(idx[i+1]))
	}
	return f, idx
}

type visit struct {
	Package ID
	Kind    Kind
}

// collect runs one ordered pass and returns the visit sequence.
func collect(r *Registry) []visit {
	var out []visit
	r.IterateDependencies(func(_, cur Frame, kind Kind) {
		out = append(out, visit{cur.Package, kind})
	})
	return out
}

func indexOf(seq []visit, v visit) int {
	for i, s := range seq {
		if s == v {
			return i
		}
	}
	return -1
}

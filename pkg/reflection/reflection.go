// Package reflection models the reflection data an SDK generator reads from
// a running process: packages and the structs, classes, enums and functions
// they own.
//
// The generator core never talks to a live process. It consumes a [Source],
// and [Snapshot] is the in-memory implementation used by the CLI and tests.
// Snapshots are normally decoded from a manifest file by package io.
//
// Every object has a process-wide Index. Type references inside members and
// parameters point at another object's Index; a reference marked Pointer can
// be satisfied by a forward declaration and therefore never creates an
// ordering requirement.
package reflection

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/sdkorder/pkg/errors"
)

// NoObject marks an absent supertype or an unresolved reference.
const NoObject = -1

// Kind is the category of a reflected object.
type Kind int

const (
	KindStruct Kind = iota
	KindClass
	KindEnum
	KindFunction
)

var kindNames = [...]string{"struct", "class", "enum", "function"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a manifest kind string into a Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// TypeRef is a reference from a member or parameter to another object.
type TypeRef struct {
	Name    string // Member or parameter name
	Target  int    // Index of the referenced object, NoObject for primitives
	Pointer bool   // Reference through a pointer; needs only a forward declaration
}

// Object is a single reflected struct, class, enum or function.
type Object struct {
	Index   int
	Kind    Kind
	Name    string
	Package int
	Size    int
	Flags   uint64

	// Super is the supertype index for structs and classes, NoObject otherwise.
	Super int
	// Members holds the typed fields of structs and classes.
	Members []TypeRef
	// Functions lists the indices of functions declared on a class or struct.
	Functions []int
	// Params holds the parameter list of a function.
	Params []TypeRef
}

// Package is a named grouping of reflected objects.
type Package struct {
	ID        int
	Name      string
	Structs   []int
	Classes   []int
	Enums     []int
	Functions []int
}

// Source is the read side of a reflection data provider.
type Source interface {
	// Packages returns all package ids in ascending order.
	Packages() []int
	// Package returns the package with the given id.
	Package(id int) (*Package, bool)
	// Object returns the object with the given index.
	Object(index int) (*Object, bool)
}

// Snapshot is an immutable-after-build, in-memory Source.
type Snapshot struct {
	packages map[int]*Package
	objects  map[int]*Object
	ids      []int
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		packages: make(map[int]*Package),
		objects:  make(map[int]*Object),
	}
}

// AddPackage registers a package. Ids must be unique; names may repeat.
func (s *Snapshot) AddPackage(id int, name string) (*Package, error) {
	if err := errors.ValidatePackageName(name); err != nil {
		return nil, err
	}
	if _, exists := s.packages[id]; exists {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "duplicate package id %d", id)
	}
	p := &Package{ID: id, Name: name}
	s.packages[id] = p
	s.ids = append(s.ids, id)
	slices.Sort(s.ids)
	return p, nil
}

// AddObject registers an object and appends it to its owning package's list
// for its kind. Objects without a supertype must carry Super == NoObject.
func (s *Snapshot) AddObject(o Object) error {
	if _, exists := s.objects[o.Index]; exists {
		return errors.New(errors.ErrCodeInvalidManifest, "duplicate object index %d", o.Index)
	}
	p, ok := s.packages[o.Package]
	if !ok {
		return errors.New(errors.ErrCodePackageNotFound, "object %q (%d) belongs to unknown package %d", o.Name, o.Index, o.Package)
	}

	switch o.Kind {
	case KindStruct:
		p.Structs = append(p.Structs, o.Index)
	case KindClass:
		p.Classes = append(p.Classes, o.Index)
	case KindEnum:
		p.Enums = append(p.Enums, o.Index)
	case KindFunction:
		p.Functions = append(p.Functions, o.Index)
	default:
		return errors.New(errors.ErrCodeInvalidManifest, "object %q has unknown kind %d", o.Name, int(o.Kind))
	}
	obj := o
	s.objects[o.Index] = &obj
	return nil
}

// Packages implements Source.
func (s *Snapshot) Packages() []int { return slices.Clone(s.ids) }

// Package implements Source.
func (s *Snapshot) Package(id int) (*Package, bool) {
	p, ok := s.packages[id]
	return p, ok
}

// Object implements Source.
func (s *Snapshot) Object(index int) (*Object, bool) {
	o, ok := s.objects[index]
	return o, ok
}

// Len returns the number of objects.
func (s *Snapshot) Len() int { return len(s.objects) }

// Validate checks cross references: every supertype, member, parameter and
// function reference must resolve to an object of a compatible kind.
// Object lists inside packages are sorted by index so scans are
// deterministic regardless of insertion order.
func (s *Snapshot) Validate() error {
	for _, id := range s.ids {
		p := s.packages[id]
		for _, list := range [][]int{p.Structs, p.Classes, p.Enums, p.Functions} {
			slices.Sort(list)
		}
	}

	for _, idx := range slices.Sorted(maps.Keys(s.objects)) {
		o := s.objects[idx]
		if o.Super != NoObject {
			sup, ok := s.objects[o.Super]
			if !ok {
				return errors.New(errors.ErrCodeObjectNotFound, "%s %q: supertype %d not found", o.Kind, o.Name, o.Super)
			}
			if sup.Kind != o.Kind {
				return errors.New(errors.ErrCodeInvalidReference, "%s %q: supertype %q is a %s", o.Kind, o.Name, sup.Name, sup.Kind)
			}
		}
		for _, refs := range [][]TypeRef{o.Members, o.Params} {
			for _, r := range refs {
				if r.Target == NoObject {
					continue
				}
				t, ok := s.objects[r.Target]
				if !ok {
					return errors.New(errors.ErrCodeObjectNotFound, "%s %q: %s references unknown object %d", o.Kind, o.Name, r.Name, r.Target)
				}
				if t.Kind == KindFunction {
					return errors.New(errors.ErrCodeInvalidReference, "%s %q: %s references function %q", o.Kind, o.Name, r.Name, t.Name)
				}
			}
		}
		for _, fn := range o.Functions {
			f, ok := s.objects[fn]
			if !ok || f.Kind != KindFunction {
				return errors.New(errors.ErrCodeInvalidReference, "%s %q: function %d is not a function", o.Kind, o.Name, fn)
			}
		}
	}
	return nil
}

// Ensure Snapshot implements Source.
var _ Source = (*Snapshot)(nil)

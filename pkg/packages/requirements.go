package packages

import (
	"fmt"
	"maps"
	"slices"
)

// ID identifies a package for the lifetime of one generation run.
type ID int32

// NoPackage is the predecessor of every root frame.
const NoPackage ID = -1

// Kind is one of the artifacts a package can emit.
type Kind uint8

const (
	// KindStructs is the structs (and enums) artifact.
	KindStructs Kind = iota
	// KindClasses is the classes artifact.
	KindClasses
	// KindParams is the function-parameters artifact.
	KindParams
)

func (k Kind) String() string {
	switch k {
	case KindStructs:
		return "structs"
	case KindClasses:
		return "classes"
	case KindParams:
		return "parameters"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Requirement records that an artifact needs another package's structs,
// classes, or both to be emitted first. A requirement with neither flag set
// can exist; it still orders the two packages.
type Requirement struct {
	Package ID
	Structs bool
	Classes bool
}

// Requirements is an insertion-ordered requirement list keyed by package.
// The zero value is an empty list.
type Requirements struct {
	list  []Requirement
	index map[ID]int
}

// add inserts a requirement on pkg or ORs the flags into the existing entry.
func (r *Requirements) add(pkg ID, structs, classes bool) {
	if i, ok := r.index[pkg]; ok {
		r.list[i].Structs = r.list[i].Structs || structs
		r.list[i].Classes = r.list[i].Classes || classes
		return
	}
	if r.index == nil {
		r.index = make(map[ID]int)
	}
	r.index[pkg] = len(r.list)
	r.list = append(r.list, Requirement{Package: pkg, Structs: structs, Classes: classes})
}

// Len returns the number of required packages.
func (r Requirements) Len() int { return len(r.list) }

// Get returns the requirement on pkg.
func (r Requirements) Get(pkg ID) (Requirement, bool) {
	i, ok := r.index[pkg]
	if !ok {
		return Requirement{}, false
	}
	return r.list[i], true
}

// All returns the requirements in insertion order.
func (r Requirements) All() []Requirement { return slices.Clone(r.list) }

func (r Requirements) clone() Requirements {
	return Requirements{list: slices.Clone(r.list), index: maps.Clone(r.index)}
}

// Dependencies holds one requirement list per artifact kind.
type Dependencies struct {
	Structs Requirements
	Classes Requirements
	Params  Requirements
}

// Of returns the requirement list for kind.
func (d Dependencies) Of(kind Kind) Requirements {
	switch kind {
	case KindStructs:
		return d.Structs
	case KindClasses:
		return d.Classes
	default:
		return d.Params
	}
}

func (d *Dependencies) of(kind Kind) *Requirements {
	switch kind {
	case KindStructs:
		return &d.Structs
	case KindClasses:
		return &d.Classes
	default:
		return &d.Params
	}
}

// Len returns the total number of requirement entries across all kinds.
func (d Dependencies) Len() int {
	return d.Structs.Len() + d.Classes.Len() + d.Params.Len()
}

func (d Dependencies) clone() Dependencies {
	return Dependencies{
		Structs: d.Structs.clone(),
		Classes: d.Classes.clone(),
		Params:  d.Params.clone(),
	}
}

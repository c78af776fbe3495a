package io

import (
	"github.com/matzehuels/sdkorder/pkg/errors"
	"github.com/matzehuels/sdkorder/pkg/reflection"
)

type manifest struct {
	Packages []pkgEntry    `json:"packages" toml:"packages" yaml:"packages"`
	Objects  []objectEntry `json:"objects" toml:"objects" yaml:"objects"`
}

type pkgEntry struct {
	ID   int    `json:"id" toml:"id" yaml:"id"`
	Name string `json:"name" toml:"name" yaml:"name"`
}

type objectEntry struct {
	Index     int        `json:"index" toml:"index" yaml:"index"`
	Kind      string     `json:"kind" toml:"kind" yaml:"kind"`
	Name      string     `json:"name" toml:"name" yaml:"name"`
	Package   int        `json:"package" toml:"package" yaml:"package"`
	Size      int        `json:"size,omitempty" toml:"size,omitempty" yaml:"size,omitempty"`
	Flags     uint64     `json:"flags,omitempty" toml:"flags,omitempty" yaml:"flags,omitempty"`
	Super     *int       `json:"super,omitempty" toml:"super,omitempty" yaml:"super,omitempty"`
	Members   []refEntry `json:"members,omitempty" toml:"members,omitempty" yaml:"members,omitempty"`
	Functions []int      `json:"functions,omitempty" toml:"functions,omitempty" yaml:"functions,omitempty"`
	Params    []refEntry `json:"params,omitempty" toml:"params,omitempty" yaml:"params,omitempty"`
}

type refEntry struct {
	Name    string `json:"name" toml:"name" yaml:"name"`
	Type    *int   `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
	Pointer bool   `json:"pointer,omitempty" toml:"pointer,omitempty" yaml:"pointer,omitempty"`
}

// snapshot converts the decoded manifest and validates its references.
func (m *manifest) snapshot() (*reflection.Snapshot, error) {
	if len(m.Packages) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest declares no packages")
	}

	s := reflection.NewSnapshot()
	for _, p := range m.Packages {
		if _, err := s.AddPackage(p.ID, p.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "package %d", p.ID)
		}
	}
	for _, o := range m.Objects {
		kind, ok := reflection.ParseKind(o.Kind)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "object %d (%s): unknown kind %q", o.Index, o.Name, o.Kind)
		}
		obj := reflection.Object{
			Index:     o.Index,
			Kind:      kind,
			Name:      o.Name,
			Package:   o.Package,
			Size:      o.Size,
			Flags:     o.Flags,
			Super:     indexOr(o.Super),
			Members:   refs(o.Members),
			Functions: o.Functions,
			Params:    refs(o.Params),
		}
		if err := s.AddObject(obj); err != nil {
			return nil, err
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func refs(entries []refEntry) []reflection.TypeRef {
	if len(entries) == 0 {
		return nil
	}
	out := make([]reflection.TypeRef, len(entries))
	for i, e := range entries {
		out[i] = reflection.TypeRef{Name: e.Name, Target: indexOr(e.Type), Pointer: e.Pointer}
	}
	return out
}

func indexOr(p *int) int {
	if p == nil {
		return reflection.NoObject
	}
	return *p
}

package packages

import (
	"slices"

	"github.com/matzehuels/sdkorder/pkg/errors"
	"github.com/matzehuels/sdkorder/pkg/localsort"
	"github.com/matzehuels/sdkorder/pkg/reflection"
)

// build creates one record per package, fills the requirement lists, then
// interns names. Both passes run in ascending id order so requirement
// insertion order and collision ordinals are reproducible.
func (r *Registry) build() error {
	ids := slices.Clone(r.src.Packages())
	slices.Sort(ids)

	r.records = make([]record, 0, len(ids))
	for _, id := range ids {
		if _, dup := r.pos[ID(id)]; dup {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate package id %d", id)
		}
		r.pos[ID(id)] = len(r.records)
		r.records = append(r.records, record{id: ID(id)})
	}
	r.book.reset(len(r.records))

	for i := range r.records {
		if err := r.initDependencies(&r.records[i]); err != nil {
			return err
		}
	}
	return r.initNames()
}

func (r *Registry) initNames() error {
	for i := range r.records {
		rec := &r.records[i]
		pkg, ok := r.src.Package(int(rec.id))
		if !ok {
			return errors.New(errors.ErrCodePackageNotFound, "package %d vanished from source", rec.id)
		}
		rec.name, rec.collision = r.names.Register(pkg.Name)
	}
	return nil
}

// initDependencies scans the structs, classes and functions of rec's package.
//
//   - structs artifact: a foreign superstruct or by-value struct/enum member
//     requires the other package's structs.
//   - classes artifact: a foreign superclass requires the other package's
//     classes; by-value struct/enum members require its structs.
//   - parameters artifact: by-value parameters require the other package's
//     structs, or classes for class-typed parameters.
//
// Pointer references never create requirements.
func (r *Registry) initDependencies(rec *record) error {
	pkg, ok := r.src.Package(int(rec.id))
	if !ok {
		return errors.New(errors.ErrCodePackageNotFound, "package %d not found in source", rec.id)
	}

	structItems := make([]localsort.Item, 0, len(pkg.Structs))
	for _, idx := range pkg.Structs {
		obj, err := r.object(idx)
		if err != nil {
			return err
		}
		item := localsort.Item{Index: idx}
		if obj.Super != reflection.NoObject {
			local, err := r.require(rec, KindStructs, obj.Super, true, false)
			if err != nil {
				return err
			}
			if local {
				item.Deps = append(item.Deps, obj.Super)
			}
		}
		for _, m := range obj.Members {
			local, err := r.requireRef(rec, KindStructs, obj, m)
			if err != nil {
				return err
			}
			if local {
				item.Deps = append(item.Deps, m.Target)
			}
		}
		structItems = append(structItems, item)
	}
	rec.structs = localsort.Sort(structItems)

	classItems := make([]localsort.Item, 0, len(pkg.Classes))
	for _, idx := range pkg.Classes {
		obj, err := r.object(idx)
		if err != nil {
			return err
		}
		item := localsort.Item{Index: idx}
		if obj.Super != reflection.NoObject {
			local, err := r.require(rec, KindClasses, obj.Super, false, true)
			if err != nil {
				return err
			}
			if local {
				item.Deps = append(item.Deps, obj.Super)
			}
		}
		for _, m := range obj.Members {
			local, err := r.requireRef(rec, KindClasses, obj, m)
			if err != nil {
				return err
			}
			if local {
				item.Deps = append(item.Deps, m.Target)
			}
		}
		classItems = append(classItems, item)
	}
	rec.classes = localsort.Sort(classItems)

	for _, idx := range pkg.Functions {
		fn, err := r.object(idx)
		if err != nil {
			return err
		}
		if len(fn.Params) > 0 {
			rec.hasParams = true
		}
		for _, p := range fn.Params {
			if _, err := r.requireRef(rec, KindParams, fn, p); err != nil {
				return err
			}
		}
	}

	rec.functions = slices.Clone(pkg.Functions)
	rec.enums = slices.Clone(pkg.Enums)
	return nil
}

// requireRef records the requirement implied by a member or parameter
// reference and reports whether the target lives in rec's own package.
func (r *Registry) requireRef(rec *record, kind Kind, owner *reflection.Object, ref reflection.TypeRef) (bool, error) {
	if ref.Target == reflection.NoObject || ref.Pointer {
		return false, nil
	}
	target, err := r.object(ref.Target)
	if err != nil {
		return false, err
	}
	switch target.Kind {
	case reflection.KindStruct, reflection.KindEnum:
		return r.require(rec, kind, ref.Target, true, false)
	case reflection.KindClass:
		if kind == KindStructs {
			return false, errors.New(errors.ErrCodeInvalidReference,
				"struct %q holds class %q by value in %s", owner.Name, target.Name, ref.Name)
		}
		return r.require(rec, kind, ref.Target, false, true)
	}
	return false, errors.New(errors.ErrCodeInvalidReference,
		"%s %q: %s references %s %q", owner.Kind, owner.Name, ref.Name, target.Kind, target.Name)
}

// require adds a kind requirement from rec on the package owning target.
// It reports true, and records nothing, when target is in rec's own package.
func (r *Registry) require(rec *record, kind Kind, target int, structs, classes bool) (bool, error) {
	obj, err := r.object(target)
	if err != nil {
		return false, err
	}
	owner := ID(obj.Package)
	if _, ok := r.pos[owner]; !ok {
		return false, errors.New(errors.ErrCodePackageNotFound,
			"%s %q belongs to unregistered package %d", obj.Kind, obj.Name, obj.Package)
	}
	if owner == rec.id {
		return true, nil
	}
	rec.deps.of(kind).add(owner, structs, classes)
	return false, nil
}

func (r *Registry) object(index int) (*reflection.Object, error) {
	o, ok := r.src.Object(index)
	if !ok {
		return nil, errors.New(errors.ErrCodeObjectNotFound, "reflection object %d not found", index)
	}
	return o, nil
}

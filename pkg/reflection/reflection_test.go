package reflection

import (
	"slices"
	"testing"

	"github.com/matzehuels/sdkorder/pkg/errors"
)

func TestKind_StringAndParse(t *testing.T) {
	for _, k := range []Kind{KindStruct, KindClass, KindEnum, KindFunction} {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", k.String(), got, ok, k)
		}
	}
	if _, ok := ParseKind("interface"); ok {
		t.Error("ParseKind(interface) should fail")
	}
	if s := Kind(9).String(); s != "kind(9)" {
		t.Errorf("Kind(9).String() = %q", s)
	}
}

func TestSnapshot_AddPackage(t *testing.T) {
	s := NewSnapshot()
	if _, err := s.AddPackage(3, "Engine"); err != nil {
		t.Fatalf("AddPackage error: %v", err)
	}
	if _, err := s.AddPackage(1, "Engine"); err != nil {
		t.Fatalf("AddPackage with repeated name error: %v", err)
	}
	if _, err := s.AddPackage(3, "Game"); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("duplicate id error = %v, want INVALID_MANIFEST", err)
	}
	if _, err := s.AddPackage(4, "../etc"); !errors.Is(err, errors.ErrCodeInvalidPackage) {
		t.Errorf("bad name error = %v, want INVALID_PACKAGE", err)
	}

	if got := s.Packages(); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("Packages() = %v, want [1 3]", got)
	}
	ids := s.Packages()
	ids[0] = 99
	if s.Packages()[0] != 1 {
		t.Error("Packages() must return a copy")
	}
}

func TestSnapshot_AddObject(t *testing.T) {
	s := NewSnapshot()
	if _, err := s.AddPackage(0, "Core"); err != nil {
		t.Fatal(err)
	}

	objs := []Object{
		{Index: 4, Kind: KindClass, Name: "Object", Super: NoObject},
		{Index: 2, Kind: KindStruct, Name: "Vector", Super: NoObject},
		{Index: 7, Kind: KindEnum, Name: "EAxis", Super: NoObject},
		{Index: 1, Kind: KindFunction, Name: "Tick", Super: NoObject},
	}
	for _, o := range objs {
		if err := s.AddObject(o); err != nil {
			t.Fatalf("AddObject(%s) error: %v", o.Name, err)
		}
	}

	p, _ := s.Package(0)
	if !slices.Equal(p.Structs, []int{2}) || !slices.Equal(p.Classes, []int{4}) ||
		!slices.Equal(p.Enums, []int{7}) || !slices.Equal(p.Functions, []int{1}) {
		t.Errorf("package lists = %+v", p)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}

	tests := []struct {
		name string
		obj  Object
		code errors.Code
	}{
		{"duplicate index", Object{Index: 2, Kind: KindStruct, Name: "Dup"}, errors.ErrCodeInvalidManifest},
		{"unknown package", Object{Index: 9, Kind: KindStruct, Name: "X", Package: 5}, errors.ErrCodePackageNotFound},
		{"unknown kind", Object{Index: 10, Kind: Kind(42), Name: "Y"}, errors.ErrCodeInvalidManifest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.AddObject(tt.obj); errors.GetCode(err) != tt.code {
				t.Errorf("AddObject() error = %v, want code %s", err, tt.code)
			}
		})
	}
	if _, ok := s.Object(10); ok {
		t.Error("object with unknown kind must not be stored")
	}
}

func TestSnapshot_Validate(t *testing.T) {
	base := func() *Snapshot {
		s := NewSnapshot()
		s.AddPackage(0, "Core")
		s.AddObject(Object{Index: 0, Kind: KindStruct, Name: "Vector", Super: NoObject})
		s.AddObject(Object{Index: 1, Kind: KindClass, Name: "Object", Super: NoObject})
		s.AddObject(Object{Index: 2, Kind: KindFunction, Name: "Tick", Super: NoObject})
		return s
	}

	tests := []struct {
		name string
		obj  Object
		code errors.Code
	}{
		{"valid", Object{Index: 3, Kind: KindClass, Name: "Actor", Super: 1,
			Members: []TypeRef{{Name: "Loc", Target: 0}, {Name: "Count", Target: NoObject}}, Functions: []int{2}}, ""},
		{"missing super", Object{Index: 3, Kind: KindClass, Name: "Actor", Super: 8}, errors.ErrCodeObjectNotFound},
		{"super kind mismatch", Object{Index: 3, Kind: KindClass, Name: "Actor", Super: 0}, errors.ErrCodeInvalidReference},
		{"missing member", Object{Index: 3, Kind: KindStruct, Name: "S", Super: NoObject,
			Members: []TypeRef{{Name: "x", Target: 8}}}, errors.ErrCodeObjectNotFound},
		{"member is function", Object{Index: 3, Kind: KindStruct, Name: "S", Super: NoObject,
			Members: []TypeRef{{Name: "x", Target: 2}}}, errors.ErrCodeInvalidReference},
		{"param is function", Object{Index: 3, Kind: KindFunction, Name: "F", Super: NoObject,
			Params: []TypeRef{{Name: "cb", Target: 2}}}, errors.ErrCodeInvalidReference},
		{"declared function is struct", Object{Index: 3, Kind: KindClass, Name: "Actor", Super: NoObject,
			Functions: []int{0}}, errors.ErrCodeInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			if err := s.AddObject(tt.obj); err != nil {
				t.Fatal(err)
			}
			err := s.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if errors.GetCode(err) != tt.code {
				t.Errorf("Validate() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSnapshot_ValidateSortsLists(t *testing.T) {
	s := NewSnapshot()
	s.AddPackage(0, "Core")
	for _, idx := range []int{5, 1, 3} {
		s.AddObject(Object{Index: idx, Kind: KindStruct, Name: "S", Super: NoObject})
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	p, _ := s.Package(0)
	if !slices.Equal(p.Structs, []int{1, 3, 5}) {
		t.Errorf("Structs = %v, want [1 3 5]", p.Structs)
	}
}

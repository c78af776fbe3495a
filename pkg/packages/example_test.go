package packages_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sdkorder/pkg/packages"
	"github.com/matzehuels/sdkorder/pkg/reflection"
)

// snapshot builds Game -> Engine -> Core: Game's class derives from Engine's
// class, which embeds a Core struct by value.
func snapshot() *reflection.Snapshot {
	s := reflection.NewSnapshot()
	_, _ = s.AddPackage(0, "Game")
	_, _ = s.AddPackage(1, "Engine")
	_, _ = s.AddPackage(2, "Core")
	_ = s.AddObject(reflection.Object{Index: 0, Kind: reflection.KindStruct, Name: "Vector", Package: 2, Super: reflection.NoObject})
	_ = s.AddObject(reflection.Object{Index: 1, Kind: reflection.KindClass, Name: "Actor", Package: 1, Super: reflection.NoObject,
		Members: []reflection.TypeRef{{Name: "Location", Target: 0}}})
	_ = s.AddObject(reflection.Object{Index: 2, Kind: reflection.KindClass, Name: "GameMode", Package: 0, Super: 1})
	_ = s.Validate()
	return s
}

func ExampleRegistry_IterateDependencies() {
	r := packages.New(snapshot(), packages.WithLogger(log.New(io.Discard)))
	if err := r.Initialize(); err != nil {
		fmt.Println(err)
		return
	}

	r.IterateDependencies(func(_, cur packages.Frame, kind packages.Kind) {
		info, _ := r.Info(cur.Package)
		fmt.Println(info.Name(), kind)
	})
	// Output:
	// Game structs
	// Engine structs
	// Core structs
	// Engine classes
	// Game classes
	// Core classes
}

func ExampleRegistry_FindCycle() {
	s := reflection.NewSnapshot()
	for i, name := range []string{"A", "B", "C"} {
		_, _ = s.AddPackage(i, name)
	}
	// A embeds B, B embeds C, C embeds A.
	for i := range 3 {
		_ = s.AddObject(reflection.Object{Index: i, Kind: reflection.KindStruct, Name: "S", Package: i, Super: reflection.NoObject,
			Members: []reflection.TypeRef{{Name: "Next", Target: (i + 1) % 3}}})
	}

	r := packages.New(s, packages.WithLogger(log.New(io.Discard)))
	_ = r.Initialize()

	r.FindCycle(func(ancestor, closing packages.Frame, kind packages.Kind) bool {
		for i, id := range packages.CycleChain(ancestor, closing) {
			info, _ := r.Info(id)
			if i > 0 {
				fmt.Print(" -> ")
			}
			fmt.Print(info.Name())
		}
		fmt.Println(" via", kind)
		return true
	})
	// Output:
	// A -> B -> C -> A via structs
}

func ExampleInfo_UniqueName() {
	s := reflection.NewSnapshot()
	_, _ = s.AddPackage(0, "Engine")
	_, _ = s.AddPackage(1, "Game")
	_, _ = s.AddPackage(2, "Engine")

	r := packages.New(s, packages.WithLogger(log.New(io.Discard)))
	_ = r.Initialize()
	for _, id := range r.Packages() {
		info, _ := r.Info(id)
		fmt.Println(info.UniqueName())
	}
	// Output:
	// Engine
	// Game
	// Engine_1
}

// Package packages computes the order in which an SDK generator must emit
// the per-package artifacts of a reflected process.
//
// # Overview
//
// Each package produces up to three artifacts: a structs file (structs and
// enums), a classes file and a function-parameters file. An artifact can only
// be compiled once the artifacts it includes exist, so a package that embeds
// a struct from another package by value must come after that package's
// structs, and a class deriving from a foreign class must come after that
// package's classes. These edges are called requirements.
//
// [Registry.Initialize] scans a [reflection.Source] once and records, for
// every package and artifact kind, the list of packages it requires together
// with the kinds needed from each. Requirements on the same package merge
// into one entry. Pointer references never create requirements because they
// can be satisfied by forward declarations.
//
// # Traversal
//
// Both traversals share one depth-first core:
//
//   - [Registry.IterateDependencies] visits every package once per kind, each
//     after everything it requires (post-order), structs before classes.
//   - [Registry.FindCycle] walks the same graph and reports each edge leading
//     back to an ancestor on the active path. [CycleChain] turns a report into
//     the closed chain of package ids (A, B, C, A).
//
// Visited state is tracked with an epoch counter: every pass bumps it, and a
// package counts as visited only if its stamp equals the current epoch. No
// per-package state needs resetting between passes.
//
//	r := packages.New(snapshot, packages.WithLogger(logger))
//	if err := r.Initialize(); err != nil {
//	    return err
//	}
//	r.IterateDependencies(func(_, cur packages.Frame, kind packages.Kind) {
//	    info, _ := r.Info(cur.Package)
//	    emit(info, kind)
//	})
//
// # Names
//
// Package names are interned in a [names.Table]. Packages sharing a name get
// collision ordinals in ascending id order, and [Info.UniqueName] appends the
// ordinal so generated file names never clash ("Engine", "Engine_1").
//
// # Concurrency
//
// A Registry is single-threaded. The definition records are read-only after
// Initialize, but every traversal mutates the shared bookkeeping.
package packages

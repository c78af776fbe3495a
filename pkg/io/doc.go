// Package io reads reflection manifests and encodes generator reports.
//
// # Overview
//
// The generator core consumes a [reflection.Source]. Outside a live process,
// that source is a manifest file: a dump of every package and reflected
// object. This package decodes manifests into a [reflection.Snapshot] and
// validates the cross references before handing it to the registry.
//
// # Manifest Format
//
// A manifest has two top-level lists. The same field names are used in JSON,
// TOML and YAML:
//
//	{
//	  "packages": [
//	    {"id": 0, "name": "Engine"},
//	    {"id": 1, "name": "CoreUObject"}
//	  ],
//	  "objects": [
//	    {"index": 0, "kind": "class", "name": "Object", "package": 1},
//	    {"index": 1, "kind": "struct", "name": "Vector", "package": 1, "size": 12},
//	    {"index": 2, "kind": "class", "name": "Actor", "package": 0, "super": 0,
//	     "members": [{"name": "RootLocation", "type": 1},
//	                 {"name": "Owner", "type": 2, "pointer": true}]}
//	  ]
//	}
//
// Object fields:
//   - index: process-wide object index, unique
//   - kind: "struct", "class", "enum" or "function"
//   - package: id of the owning package
//   - super: supertype index (omit when there is none)
//   - members: typed fields; "type" is omitted for primitive members
//   - functions: indices of functions declared on a struct or class
//   - params: function parameters, same shape as members
//
// # Import
//
// Use [Import] to read a file, picking the decoder from the extension
// (.json, .toml, .yaml, .yml), or [Read] with an explicit [Format] for any
// io.Reader:
//
//	snap, err := io.Import("sdk.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Decoding failures are reported as INVALID_MANIFEST errors, unknown
// extensions as INVALID_FORMAT and missing files as FILE_NOT_FOUND.
//
// # Export
//
// [Write] and [Export] encode any value (typically a pipeline report) in
// one of the same formats, so the CLI can emit machine-readable output in
// whatever format the manifest used.
package io

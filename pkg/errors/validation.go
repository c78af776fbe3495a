package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name read from a manifest.
// Names end up in generated file names (Engine_structs.hpp), so they are
// rejected when they could escape the output directory:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// manifestExts lists the manifest encodings understood by package io.
var manifestExts = map[string]bool{
	".json": true,
	".toml": true,
	".yaml": true,
	".yml":  true,
}

// ValidateManifestPath checks that path names a manifest file with a
// supported extension.
func ValidateManifestPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "manifest path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "manifest path contains invalid characters")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !manifestExts[ext] {
		return New(ErrCodeInvalidFormat, "unsupported manifest extension %q (want .json, .toml, .yaml)", ext)
	}
	return nil
}

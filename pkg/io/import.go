package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sdkorder/pkg/errors"
	"github.com/matzehuels/sdkorder/pkg/reflection"
)

// Format is a manifest or report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a flag value such as "yml" into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (must be one of: json, toml, yaml)", s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	if err := errors.ValidateManifestPath(path); err != nil {
		return "", err
	}
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Read decodes a manifest in the given format from r and returns a
// validated snapshot. Read does not close r.
func Read(r io.Reader, format Format) (*reflection.Snapshot, error) {
	var m manifest
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&m)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&m)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&m)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s manifest", format)
	}
	return m.snapshot()
}

// ReadJSON decodes a JSON manifest.
func ReadJSON(r io.Reader) (*reflection.Snapshot, error) { return Read(r, FormatJSON) }

// ReadTOML decodes a TOML manifest.
func ReadTOML(r io.Reader) (*reflection.Snapshot, error) { return Read(r, FormatTOML) }

// ReadYAML decodes a YAML manifest.
func ReadYAML(r io.Reader) (*reflection.Snapshot, error) { return Read(r, FormatYAML) }

// Import reads the manifest file at path, choosing the decoder from its
// extension.
func Import(path string) (*reflection.Snapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

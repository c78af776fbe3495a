package errors

import (
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Engine", false},
		{"valid with underscore", "Core_UObject", false},
		{"valid with dot", "Engine.Runtime", false},
		{"valid with dash", "my-plugin", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal", "foo..bar", true},
		{"slash", "Script/Engine", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("ValidatePackageName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPackage)
			}
		})
	}
}

func TestValidateManifestPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode Code
	}{
		{"json", "sdk.json", ""},
		{"toml", "dir/sdk.toml", ""},
		{"yaml", "sdk.yaml", ""},
		{"yml upper", "SDK.YML", ""},

		{"empty", "", ErrCodeInvalidPath},
		{"null byte", "sdk\x00.json", ErrCodeInvalidPath},
		{"no extension", "sdk", ErrCodeInvalidFormat},
		{"unsupported", "sdk.xml", ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestPath(tt.input)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateManifestPath(%q) code = %q, want %q", tt.input, got, tt.wantCode)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidPackage,
		ErrCodeInvalidFormat,
		ErrCodeInvalidManifest,
		ErrCodeInvalidReference,
		ErrCodeInvalidPath,
		ErrCodePackageNotFound,
		ErrCodeObjectNotFound,
		ErrCodeFileNotFound,
		ErrCodeAlreadyInitialized,
		ErrCodeSourceUnavailable,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}

package errors

import (
	"strings"
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "serde", false},
		{"dash", "serde-json", false},
		{"underscore", "serde_json", false},
		{"dot inside", "foo.rs", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"traversal", "../evil", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("code = %s, want %s", GetCode(err), ErrCodeInvalidPackage)
			}
		})
	}
}

func TestValidateCratesPackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"lower", "serde", false},
		{"mixed case", "Inflector", false},
		{"single char", "a", false},
		{"dash and underscore", "foo-bar_baz", false},
		{"digits after first", "h2", false},

		{"leading digit", "1abc", true},
		{"leading dash", "-abc", true},
		{"dot", "foo.rs", true},
		{"space", "foo bar", true},
		{"non-ascii", "aéb", true},
		{"non-ascii first", "éa", true},
		{"traversal", "../evil", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCratesPackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCratesPackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

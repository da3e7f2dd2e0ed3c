package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	vendorerrors "github.com/krig/cargo-vendor/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    int
		wantOut string
	}{
		{"success", nil, 0, ""},
		{"interrupted", fmt.Errorf("vendor: %w", context.Canceled), exitInterrupted, ""},
		{"failure", vendorerrors.New(vendorerrors.ErrCodeArchiveNotFound, "no archive for serde 1.0.0"), 1, "error: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := exitCode(tt.err, &buf); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
			if tt.wantOut == "" && buf.Len() != 0 {
				t.Errorf("output = %q, want none", buf.String())
			}
			if tt.wantOut != "" && !strings.HasPrefix(buf.String(), tt.wantOut) {
				t.Errorf("output = %q, want prefix %q", buf.String(), tt.wantOut)
			}
		})
	}
}

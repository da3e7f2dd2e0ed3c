// Package observability provides hooks for progress reporting and metrics.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific backends. Consumers register hooks at startup to
// receive events about vendoring runs.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetVendorHooks(&myVendorHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Vendor().OnPackageStart(ctx, name, version)
//	// ... vendor the package ...
//	observability.Vendor().OnPackageComplete(ctx, name, version, cksum, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Vendor Hooks
// =============================================================================

// VendorHooks receives events from the vendoring engine.
type VendorHooks interface {
	// Run events
	OnRunStart(ctx context.Context, runID string, packages int)
	OnRunComplete(ctx context.Context, runID string, duration time.Duration, err error)

	// Package events
	OnPackageStart(ctx context.Context, name, version string)
	OnPackageComplete(ctx context.Context, name, version, cksum string, duration time.Duration, err error)

	// Commit events
	OnCommit(ctx context.Context, backend, commit string, files int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopVendorHooks is a no-op implementation of VendorHooks.
type NoopVendorHooks struct{}

func (NoopVendorHooks) OnRunStart(context.Context, string, int)                     {}
func (NoopVendorHooks) OnRunComplete(context.Context, string, time.Duration, error) {}
func (NoopVendorHooks) OnPackageStart(context.Context, string, string)              {}
func (NoopVendorHooks) OnCommit(context.Context, string, string, int, error)        {}
func (NoopVendorHooks) OnPackageComplete(context.Context, string, string, string, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	vendorHooks VendorHooks = NoopVendorHooks{}
	hooksMu     sync.RWMutex
)

// SetVendorHooks registers custom vendor hooks.
// This should be called once at application startup before any vendoring.
func SetVendorHooks(h VendorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		vendorHooks = h
	}
}

// Vendor returns the registered vendor hooks.
func Vendor() VendorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return vendorHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	vendorHooks = NoopVendorHooks{}
}

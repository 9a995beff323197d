// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout passes, element realization, cache operations
// and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Layout and realization hooks are called synchronously from the layout pass,
// so implementations must be cheap and must not call back into the layout.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetRealizationHooks(&myRealizationHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnBoundsComputed(itemCount, rowCount, duration)
//	observability.Realization().OnRealize(index)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/ratiogrid/pkg/geom"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout passes.
type LayoutHooks interface {
	// OnBoundsComputed records a rebuild of the bounds table.
	OnBoundsComputed(itemCount, rowCount int, duration time.Duration)

	// OnMeasure records a measure pass and the range it realized.
	OnMeasure(realized geom.Range, duration time.Duration)

	// OnArrange records an arrange pass.
	OnArrange(arranged int, duration time.Duration)
}

// =============================================================================
// Realization Hooks
// =============================================================================

// RealizationHooks receives events from the realized window.
type RealizationHooks interface {
	// OnRealize records an element created for a data index.
	OnRealize(index int)

	// OnRecycle records an element handed back to the pool.
	OnRecycle(index int)

	// OnReconcile records a dataset mutation applied to the window.
	OnReconcile(kind string, before, after geom.Range)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnBoundsComputed(int, int, time.Duration) {}
func (NoopLayoutHooks) OnMeasure(geom.Range, time.Duration)      {}
func (NoopLayoutHooks) OnArrange(int, time.Duration)             {}

// NoopRealizationHooks is a no-op implementation of RealizationHooks.
type NoopRealizationHooks struct{}

func (NoopRealizationHooks) OnRealize(int)                              {}
func (NoopRealizationHooks) OnRecycle(int)                              {}
func (NoopRealizationHooks) OnReconcile(string, geom.Range, geom.Range) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks      LayoutHooks      = NoopLayoutHooks{}
	realizationHooks RealizationHooks = NoopRealizationHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout pass.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetRealizationHooks registers custom realization hooks.
func SetRealizationHooks(h RealizationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		realizationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Realization returns the registered realization hooks.
func Realization() RealizationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return realizationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	realizationHooks = NoopRealizationHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}

package cache

import (
	"context"
	stderrors "errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/ratiogrid/pkg/errors"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "bounds:1"); err != nil || hit {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "bounds:1", []byte(`{"rows":4}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "bounds:1")
	if err != nil || !hit || string(data) != `{"rows":4}` {
		t.Errorf("Get = %q, %v, %v; want stored value", data, hit, err)
	}

	if err := c.Delete(ctx, "bounds:1"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "bounds:1"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "bounds:1"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should hit")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)

	path := fc.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v; want silent miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashRatios(t *testing.T) {
	a := HashRatios([]float64{1, 0.5})
	if a != HashRatios([]float64{1, 0.5}) {
		t.Error("HashRatios should be deterministic")
	}
	if a == HashRatios([]float64{0.5, 1}) {
		t.Error("HashRatios should depend on order")
	}
	if a == HashRatios([]float64{1, 0.5000000001}) {
		t.Error("HashRatios should distinguish close values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	opts := BoundsKeyOpts{Width: 800, MinItemHeight: 100, ColumnSpacing: 10, RowSpacing: 10, DefaultRatio: 1, ItemCount: 50}
	k1 := k.BoundsKey("abc", opts)
	if k1 != k.BoundsKey("abc", opts) {
		t.Error("BoundsKey should be deterministic")
	}
	opts.Width = 801
	if k1 == k.BoundsKey("abc", opts) {
		t.Error("Different BoundsKeyOpts should produce different keys")
	}
	if k1 == k.BoundsKey("abd", BoundsKeyOpts{}) {
		t.Error("Different datasets should produce different keys")
	}
	if got := k.DatasetKey("abc"); got != "dataset:abc" {
		t.Errorf("DatasetKey() = %q, want dataset:abc", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "user:123:")

	if got := scoped.DatasetKey("abc"); got != "user:123:dataset:abc" {
		t.Errorf("ScopedKeyer DatasetKey unexpected: %s", got)
	}
	boundsKey := scoped.BoundsKey("abc", BoundsKeyOpts{})
	if len(boundsKey) < 15 || boundsKey[:9] != "user:123:" {
		t.Errorf("ScopedKeyer BoundsKey should be prefixed: %s", boundsKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.DatasetKey("h"); key != "prefix:dataset:h" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

// fastRetries shortens the backoff for the test.
func fastRetries(t *testing.T) {
	t.Helper()
	prev := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = prev })
}

func TestRetryWithBackoff(t *testing.T) {
	fastRetries(t)
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}

	// Attempts are bounded
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !IsRetryable(err) || calls != retryAttempts {
		t.Errorf("RetryWithBackoff(always failing) = %v after %d calls, want retryable error after %d", err, calls, retryAttempts)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisOptions(t *testing.T) {
	if _, err := redisOptions(RedisConfig{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("redisOptions(empty) error = %v, want INVALID_INPUT", err)
	}

	opts, err := redisOptions(RedisConfig{Addr: "localhost:6380", DB: 2, Password: "pw", DialTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 || opts.Password != "pw" || opts.DialTimeout != time.Second {
		t.Errorf("redisOptions() = %+v", opts)
	}

	opts, err = redisOptions(RedisConfig{Addr: "redis://cache.internal:6379/3"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Addr != "cache.internal:6379" || opts.DB != 3 {
		t.Errorf("redisOptions(url) = addr %q db %d", opts.Addr, opts.DB)
	}
}

func TestClassify(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: stderrors.New("connection refused")}
	tests := []struct {
		name      string
		err       error
		retryable bool
		code      errors.Code
	}{
		{"network", netErr, true, errors.ErrCodeNetwork},
		{"timeout", context.DeadlineExceeded, true, errors.ErrCodeTimeout},
		{"other", stderrors.New("WRONGTYPE"), false, errors.ErrCodeInternal},
	}
	for _, tt := range tests {
		err := classify(tt.err, "get %s", "k")
		if IsRetryable(err) != tt.retryable {
			t.Errorf("%s: IsRetryable() = %v, want %v", tt.name, IsRetryable(err), tt.retryable)
		}
		if !errors.Is(err, tt.code) {
			t.Errorf("%s: error = %v, want %s", tt.name, err, tt.code)
		}
	}
	if err := classify(context.Canceled, "get"); err != context.Canceled {
		t.Errorf("classify(Canceled) = %v, want context.Canceled", err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.(*FileCache).Clear()
	if err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
}

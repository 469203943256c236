package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if n, err := c.Clear(ctx); n != 0 || err != nil {
		t.Errorf("Clear() = %d, %v", n, err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "report:a", []byte(`{"jobA":{}}`), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "report:a")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != `{"jobA":{}}` {
		t.Errorf("Get data = %q", data)
	}

	if err := c.Delete(ctx, "report:a"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "report:a"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "report:a"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("entry should be live before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should expire after ttl")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get(corrupt) = hit %v, err %v; want miss", hit, err)
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
	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() removed %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.ReportKey("https://ci/failures.json"); got != "report:https://ci/failures.json" {
		t.Errorf("ReportKey = %s", got)
	}

	base := ArtifactKeyOpts{Format: "svg", Size: 600, Scale: "sqrt"}
	tests := []struct {
		name string
		opts ArtifactKeyOpts
	}{
		{"format", ArtifactKeyOpts{Format: "png", Size: 600, Scale: "sqrt"}},
		{"size", ArtifactKeyOpts{Format: "svg", Size: 800, Scale: "sqrt"}},
		{"scale", ArtifactKeyOpts{Format: "svg", Size: 600, Scale: "linear"}},
		{"palette", ArtifactKeyOpts{Format: "svg", Size: 600, Scale: "sqrt", Palette: []string{"#000000"}}},
		{"labels", ArtifactKeyOpts{Format: "svg", Size: 600, Scale: "sqrt", Labels: true}},
		{"headline", ArtifactKeyOpts{Format: "svg", Size: 600, Scale: "sqrt", Headline: "CI"}},
		{"description", ArtifactKeyOpts{Format: "svg", Size: 600, Scale: "sqrt", Description: "nightly"}},
		{"png scale", ArtifactKeyOpts{Format: "svg", Size: 600, Scale: "sqrt", PNGScale: 4}},
	}
	ref := k.ArtifactKey("hash123", base)
	if !strings.HasPrefix(ref, "artifact:svg:") {
		t.Errorf("ArtifactKey prefix = %s", ref)
	}
	if ref != k.ArtifactKey("hash123", base) {
		t.Error("ArtifactKey should be deterministic")
	}
	if ref == k.ArtifactKey("hash456", base) {
		t.Error("different report hashes should produce different keys")
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k.ArtifactKey("hash123", tt.opts) == ref {
				t.Errorf("changing %s should change the key", tt.name)
			}
		})
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	base := errors.New("boom")
	err := Retryable(base)
	if !IsRetryable(err) {
		t.Error("IsRetryable should be true for wrapped error")
	}
	if !errors.Is(err, base) {
		t.Error("errors.Is should see through RetryableError")
	}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if IsRetryable(base) {
		t.Error("IsRetryable should be false for plain error")
	}
}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()
	b := Backoff{Attempts: 3, Delay: time.Millisecond}

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"recovers", 2, true, 3, false},
		{"exhausted", 5, true, 3, true},
		{"permanent", 5, false, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Retry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(errors.New("transient"))
					}
					return errors.New("permanent")
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Backoff{Attempts: 3, Delay: time.Hour}.Retry(ctx, func() error {
		calls++
		return Retryable(errors.New("transient"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("SUNBURST_TEST_REDIS")
	if addr == "" {
		t.Skip("SUNBURST_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: "sunburst-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()
	defer c.Clear(ctx)

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	n, err := c.Clear(ctx)
	if err != nil || n != 2 {
		t.Errorf("Clear() = %d, %v; want 2", n, err)
	}
}

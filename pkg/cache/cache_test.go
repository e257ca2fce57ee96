package cache

import (
	"context"
	"io/fs"
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
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

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
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before anything is stored
	_, hit, err := c.Get(ctx, "artifact:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get should miss on an empty cache")
	}

	// Roundtrip
	if err := c.Set(ctx, "artifact:abc", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "artifact:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get should hit after Set")
	}
	if string(data) != "<svg/>" {
		t.Errorf("Get returned %q, want %q", data, "<svg/>")
	}

	// Keys do not collide
	_, hit, _ = c.Get(ctx, "artifact:abd")
	if hit {
		t.Error("Get hit on a different key")
	}

	// Delete
	if err := c.Delete(ctx, "artifact:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "artifact:abc")
	if hit {
		t.Error("Get hit after Delete")
	}

	// Deleting an absent key is fine
	if err := c.Delete(ctx, "artifact:abc"); err != nil {
		t.Errorf("Delete of absent key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get should miss after the entry expired")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Corrupt the stored entry on disk.
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		return os.WriteFile(path, []byte("not json"), 0644)
	})
	if err != nil {
		t.Fatalf("corrupting entry: %v", err)
	}

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get should treat a corrupt entry as a miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	rk := k.ReportKey([]byte("Date/Time: now"))
	if !strings.HasPrefix(rk, "report:") || len(rk) != len("report:")+64 {
		t.Errorf("ReportKey unexpected: %s", rk)
	}

	opts := ArtifactKeyOpts{Kind: "flame-svg", Thread: 0, Width: 5000, SampleHeight: 16}
	ak1 := k.ArtifactKey("hash123", opts)
	ak2 := k.ArtifactKey("hash123", opts)
	if ak1 != ak2 {
		t.Error("Same options should produce the same key")
	}

	// Each option participates in the key
	variants := []ArtifactKeyOpts{
		{Kind: "flame-png", Thread: 0, Width: 5000, SampleHeight: 16},
		{Kind: "flame-svg", Thread: 1, Width: 5000, SampleHeight: 16},
		{Kind: "flame-svg", Thread: 0, Width: 800, SampleHeight: 16},
		{Kind: "flame-svg", Thread: 0, Width: 5000, SampleHeight: 16, Inverted: true},
		{Kind: "flame-svg", Thread: 0, Width: 5000, SampleHeight: 16, Background: "#ffffff"},
		{Kind: "flame-svg", Thread: 0, Width: 5000, SampleHeight: 16, Palette: [4]string{"#000000"}},
	}
	for i, v := range variants {
		if k.ArtifactKey("hash123", v) == ak1 {
			t.Errorf("variant %d should produce a different key", i)
		}
	}

	if k.ArtifactKey("hash456", opts) == ak1 {
		t.Error("Different report hashes should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "flamedump:")

	rk := scoped.ReportKey([]byte("data"))
	if !strings.HasPrefix(rk, "flamedump:report:") {
		t.Errorf("ScopedKeyer ReportKey should be prefixed: %s", rk)
	}

	ak := scoped.ArtifactKey("hash123", ArtifactKeyOpts{Kind: "flame-svg"})
	if !strings.HasPrefix(ak, "flamedump:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", ak)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if got := scoped.ReportKey([]byte("data")); !strings.HasPrefix(got, "prefix:report:") {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestNewRedisCache(t *testing.T) {
	// Construction parses the URL but does not connect.
	c, err := NewRedisCache("redis://localhost:6379/0")
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}

	if _, err := NewRedisCache("://not-a-url"); err == nil {
		t.Error("NewRedisCache should reject an invalid URL")
	}
}

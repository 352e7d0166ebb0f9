package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("missing key: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("data = %q", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("key survived delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("double delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Negative TTL means no expiry.
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("unexpired entry reported as miss")
	}

	if err := c.Set(ctx, "short", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry reported as hit")
	}
}

func TestNullCacheAlwaysMisses(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("null cache hit=%v err=%v", hit, err)
	}
}

func TestDefaultKeyerDistinguishesInputs(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.AssemblyKey("h1", AssemblyKeyOpts{Cap: 40})
	b := k.AssemblyKey("h1", AssemblyKeyOpts{Cap: 10})
	c := k.AssemblyKey("h2", AssemblyKeyOpts{Cap: 40})
	if a == b || a == c {
		t.Errorf("assembly keys collide: %s %s %s", a, b, c)
	}
	if !strings.HasPrefix(a, "assembly:") {
		t.Errorf("assembly key prefix: %s", a)
	}

	t1 := k.TextKey("h", TextKeyOpts{Topic: "coffee", Model: "m"})
	t2 := k.TextKey("h", TextKeyOpts{Topic: "tea", Model: "m"})
	if t1 == t2 {
		t.Error("text keys collide across topics")
	}

	svg := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	pdf := k.ArtifactKey("h", ArtifactKeyOpts{Format: "pdf"})
	if svg == pdf {
		t.Error("artifact keys collide across formats")
	}
}

func TestDefaultKeyerStable(t *testing.T) {
	k := NewDefaultKeyer()
	a := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	b := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	if a != b {
		t.Errorf("keyer unstable: %s vs %s", a, b)
	}
}

func TestScopedKeyerPrefixes(t *testing.T) {
	k := NewScopedKeyer(nil, "user:u1:")
	key := k.AssemblyKey("h", AssemblyKeyOpts{})
	if !strings.HasPrefix(key, "user:u1:assembly:") {
		t.Errorf("scoped key = %s", key)
	}

	unscoped := NewDefaultKeyer().AssemblyKey("h", AssemblyKeyOpts{})
	if key == unscoped {
		t.Error("scope prefix not applied")
	}
}

func TestHashStable(t *testing.T) {
	if Hash([]byte("a")) != Hash([]byte("a")) {
		t.Error("hash unstable")
	}
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("hash collision on trivial inputs")
	}
	if len(Hash([]byte("a"))) != 64 {
		t.Errorf("hash length = %d, want 64", len(Hash([]byte("a"))))
	}
}

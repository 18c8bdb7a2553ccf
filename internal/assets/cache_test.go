package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheServesAndCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(dir, time.Hour)

	got, err := c.Get("logo.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v1" {
		t.Fatalf("want v1, got %q", got)
	}

	// a disk change is invisible until the entry is invalidated
	if err := os.WriteFile(path, []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = c.Get("logo.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v1" {
		t.Fatalf("want cached v1, got %q", got)
	}

	c.Invalidate("logo.png")
	got, err = c.Get("logo.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v2" {
		t.Fatalf("want v2 after invalidate, got %q", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(dir, 10*time.Millisecond)
	if _, err := c.Get("logo.png"); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)

	got, err := c.Get("logo.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v2" {
		t.Fatalf("want reread after expiry, got %q", got)
	}
}

func TestCacheMissingFile(t *testing.T) {
	c := NewCache(t.TempDir(), time.Hour)
	if _, err := c.Get("nope.png"); err == nil {
		t.Fatal("want error for a missing asset")
	}
}

func TestCacheInvalidateAll(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("a1"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(dir, time.Hour)
	if _, err := c.Get("a.png"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("a2"), 0644); err != nil {
		t.Fatal(err)
	}

	c.InvalidateAll()
	got, err := c.Get("a.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "a2" {
		t.Fatalf("want a2 after full invalidation, got %q", got)
	}
}

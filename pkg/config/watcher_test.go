package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestFileWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fabcost.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fw, err := NewFileWatcher([]string{path}, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error: %v", err)
	}
	defer fw.Stop()

	var reloads atomic.Int64
	fw.Watch(func() error {
		reloads.Add(1)
		return nil
	})

	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for reload callback")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "fabcost.yaml")
	other := filepath.Join(dir, "unrelated.yaml")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("x: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	fw, err := NewFileWatcher([]string{watched}, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error: %v", err)
	}
	defer fw.Stop()

	var reloads atomic.Int64
	fw.Watch(func() error {
		reloads.Add(1)
		return nil
	})

	if err := os.WriteFile(other, []byte("x: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)
	if reloads.Load() != 0 {
		t.Errorf("got %d reloads for unwatched file, want 0", reloads.Load())
	}
}

func TestFileWatcher_StopIsIdempotentWithoutWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fabcost.yaml")
	if err := os.WriteFile(path, []byte("x: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fw, err := NewFileWatcher([]string{path}, 0, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error: %v", err)
	}
	fw.Stop() // never started
}

//go:build unix

package lockfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("lock file not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("lock file should contain the holder PID")
	}

	if err := lock.Release(); err != nil {
		t.Errorf("Release() failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lock file should be removed on release")
	}
}

func TestAcquireCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "sync.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	defer lock.Release()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("lock file not created: %v", err)
	}
}

func TestReacquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("first Acquire() failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}

	lock2, err := Acquire(path)
	if err != nil {
		t.Fatalf("re-Acquire() after release failed: %v", err)
	}
	lock2.Release()
}

func TestReleaseNil(t *testing.T) {
	var lock *Lock
	if err := lock.Release(); err != nil {
		t.Errorf("Release() on nil lock should be a no-op, got %v", err)
	}
}

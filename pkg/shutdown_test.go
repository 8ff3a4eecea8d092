package dedupfiles

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestGracefulShutdownBetweenGroups(t *testing.T) {
	root := scanDir(t)
	t.Logf("Test directory path: %s", root)

	// Two duplicate groups of different sizes, resolved in walk order
	for _, name := range []string{"a1", "a2"} {
		if err := createDeterministicFile(filepath.Join(root, name), 4096); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	for _, name := range []string{"b1", "b2"} {
		if err := createDeterministicFile(filepath.Join(root, name), 8192); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}

	shutdown := make(chan struct{})
	var once sync.Once
	var seen []DuplicatePair

	opts := ResolverOptions{
		Workers: 2,
		OnDuplicate: func(pair DuplicatePair) {
			seen = append(seen, pair)
			once.Do(func() { close(shutdown) })
		},
	}

	resolver, err := NewResolver(opts)
	if err != nil {
		t.Fatalf("Failed to create resolver: %v", err)
	}

	_, err = resolver.Resolve([]string{root}, shutdown)
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Expected ErrInterrupted, got %v", err)
	}

	if len(seen) != 1 {
		t.Fatalf("Expected exactly one pair before shutdown, got %d", len(seen))
	}
	if seen[0].Duplicate != filepath.Join(root, "a2") {
		t.Errorf("Expected a2 to be the pair handled before shutdown, got %s", seen[0].Duplicate)
	}

	// Files already deleted stay deleted, the rest are untouched
	if _, err := os.Stat(filepath.Join(root, "a2")); !os.IsNotExist(err) {
		t.Error("Expected a2 to have been removed before shutdown")
	}
	for _, name := range []string{"a1", "b1", "b2"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Errorf("Expected %s to survive the interrupted scan: %v", name, err)
		}
	}

	t.Logf("Shutdown test completed successfully")
}

func TestGracefulShutdownDuringHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large")
	if err := createDeterministicFile(path, 1024*1024); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	alg, err := GetHashAlgorithm("sha256")
	if err != nil {
		t.Fatalf("Failed to get algorithm: %v", err)
	}

	shutdown := make(chan struct{})
	close(shutdown)

	if _, err := HashFileInterruptible(path, alg, 64*1024, shutdown); !errors.Is(err, ErrInterrupted) {
		t.Errorf("Expected ErrInterrupted while hashing, got %v", err)
	}
}

// createDeterministicFile creates a file with deterministic content of the specified size
func createDeterministicFile(path string, size int64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	pattern := []byte("0123456789abcdef")
	written := int64(0)

	for written < size {
		remainingBytes := size - written
		if remainingBytes < int64(len(pattern)) {
			pattern = pattern[:remainingBytes]
		}

		n, err := file.Write(pattern)
		if err != nil {
			return err
		}
		written += int64(n)
	}

	return nil
}

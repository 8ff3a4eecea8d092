package dedupfiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestIsPermissionError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"os.ErrPermission", os.ErrPermission, true},
		{"EACCES", unix.EACCES, true},
		{"EPERM", unix.EPERM, true},
		{"wrapped", fmt.Errorf("remove: %w", &os.PathError{Op: "remove", Path: "/x", Err: unix.EACCES}), true},
		{"ENOENT", unix.ENOENT, false},
		{"EBUSY", unix.EBUSY, false},
		{"plain", errors.New("permission denied"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsPermissionError(tc.err); got != tc.want {
				t.Errorf("IsPermissionError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRemoveDuplicateOutcome(t *testing.T) {
	denied := &recordingRemover{failFor: map[string]error{"f": unix.EACCES}}
	outcome, err := removeDuplicate(denied, "/d/f")
	if err != nil || outcome != removePermissionDenied {
		t.Errorf("Expected permission denial outcome, got %v, %v", outcome, err)
	}

	busy := &recordingRemover{failFor: map[string]error{"f": unix.EBUSY}}
	if _, err := removeDuplicate(busy, "/d/f"); !errors.Is(err, unix.EBUSY) {
		t.Errorf("Expected wrapped EBUSY, got %v", err)
	}

	ok := &recordingRemover{}
	outcome, err = removeDuplicate(ok, "/d/f")
	if err != nil || outcome != removeOK {
		t.Errorf("Expected clean removal, got %v, %v", outcome, err)
	}
}

func TestOSRemover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "victim")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := (OSRemover{}).Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if fileExists(path) {
		t.Error("Expected file to be gone")
	}
	if err := (OSRemover{}).Remove(path); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error on second removal, got %v", err)
	}
}

func TestDryRunRemover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kept")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	remover := &DryRunRemover{}
	if err := remover.Remove(path + "/"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !fileExists(path) {
		t.Error("Expected dry run to leave the file")
	}
	if got := remover.Removed(); len(got) != 1 || got[0] != path {
		t.Errorf("Expected recorded normalised path %s, got %v", path, got)
	}
}

func TestNormalisePath(t *testing.T) {
	testCases := map[string]string{
		"/a/b/../c": "/a/c",
		"/a//b/":    "/a/b",
		"a/./b":     filepath.Join("a", "b"),
	}
	for input, want := range testCases {
		if got := NormalisePath(input); got != want {
			t.Errorf("NormalisePath(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFileIdentity(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(dir, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	dev1, ino1, err := fileIdentity(dir)
	if err != nil {
		t.Fatalf("fileIdentity failed: %v", err)
	}
	dev2, ino2, err := fileIdentity(link)
	if err != nil {
		t.Fatalf("fileIdentity failed: %v", err)
	}
	if dev1 != dev2 || ino1 != ino2 {
		t.Error("Expected a symlink to share its target's identity")
	}

	if _, _, err := fileIdentity(filepath.Join(dir, "absent")); err == nil {
		t.Error("Expected error for missing path")
	}
}

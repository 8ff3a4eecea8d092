package dedupfiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// Remover deletes a confirmed duplicate
type Remover interface {
	Remove(path string) error
}

// OSRemover permanently deletes files
type OSRemover struct{}

// Remove normalises the path for the host and unlinks it
func (OSRemover) Remove(path string) error {
	return os.Remove(NormalisePath(path))
}

// DryRunRemover records the paths it was asked to delete and touches nothing
type DryRunRemover struct {
	mu      sync.Mutex
	removed []string
}

// Remove records path
func (d *DryRunRemover) Remove(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removed = append(d.removed, NormalisePath(path))
	return nil
}

// Removed returns the recorded paths in call order
func (d *DryRunRemover) Removed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.removed...)
}

// NormalisePath converts a path to the host's separator form before any syscall
func NormalisePath(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}

// IsPermissionError reports whether err is a permission denial. EACCES and
// EPERM both match os.ErrPermission.
func IsPermissionError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrPermission)
}

// removeOutcome classifies the result of a removal
type removeOutcome int

const (
	removeOK removeOutcome = iota
	removePermissionDenied
)

// removeDuplicate deletes path and classifies the failure. Only permission
// denials are recovered; every other error is returned.
func removeDuplicate(remover Remover, path string) (removeOutcome, error) {
	err := remover.Remove(path)
	if err == nil {
		return removeOK, nil
	}
	if IsPermissionError(err) {
		return removePermissionDenied, nil
	}
	return removeOK, fmt.Errorf("failed to remove duplicate %s: %w", path, err)
}

// fileIdentity returns the device and inode of path
func fileIdentity(path string) (dev uint64, ino uint64, err error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, 0, err
	}
	return uint64(st.Dev), uint64(st.Ino), nil
}

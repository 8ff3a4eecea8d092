package dedupfiles

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DuplicatePair is one duplicate found at the full-hash stage
type DuplicatePair struct {
	Duplicate string `json:"duplicate" yaml:"duplicate"`
	Kept      string `json:"kept" yaml:"kept"`
	Size      int64  `json:"size" yaml:"size"`
	Digest    string `json:"digest" yaml:"digest"`
	// Roots the two files were discovered under
	DuplicateRoot string `json:"duplicate_root" yaml:"duplicate_root"`
	KeptRoot      string `json:"kept_root" yaml:"kept_root"`
	Removed   bool   `json:"removed" yaml:"removed"`
	Skipped   bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ScanResult summarises one Resolve call.
//
// Removed counts every duplicate whose removal was attempted without a fatal
// error, including permission denials; Skipped counts the permission denials.
// NetRemoved is the number of files actually gone.
type ScanResult struct {
	ID        string        `json:"id" yaml:"id"`
	Roots     []string      `json:"roots" yaml:"roots"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Elapsed   time.Duration `json:"elapsed_ns" yaml:"elapsed_ns"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	Algorithm string        `json:"algorithm" yaml:"algorithm"`

	Removed int `json:"removed" yaml:"removed"`
	Skipped int `json:"skipped" yaml:"skipped"`

	Candidates     int `json:"candidates" yaml:"candidates"`
	PrefixHashed   int `json:"prefix_hashed" yaml:"prefix_hashed"`
	FullHashed     int `json:"full_hashed" yaml:"full_hashed"`
	HashErrors     int `json:"hash_errors" yaml:"hash_errors"`
	StatErrors     int `json:"stat_errors" yaml:"stat_errors"`
	UnreadableDirs int `json:"unreadable_dirs" yaml:"unreadable_dirs"`

	Pairs []DuplicatePair `json:"pairs" yaml:"pairs"`
}

func newScanResult(roots []string, algorithm string, dryRun bool) *ScanResult {
	return &ScanResult{
		ID:        uuid.New().String(),
		Roots:     append([]string(nil), roots...),
		StartedAt: time.Now(),
		DryRun:    dryRun,
		Algorithm: algorithm,
		Pairs:     []DuplicatePair{},
	}
}

// NetRemoved returns the number of files genuinely removed
func (r *ScanResult) NetRemoved() int {
	return r.Removed - r.Skipped
}

// ReclaimedBytes returns the bytes freed by duplicates that are actually gone
func (r *ScanResult) ReclaimedBytes() int64 {
	var total int64
	for _, pair := range r.Pairs {
		if pair.Removed && !pair.Skipped {
			total += pair.Size
		}
	}
	return total
}

// ElapsedSeconds returns the elapsed wall-clock time in fractional seconds
func (r *ScanResult) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// Summary renders the completion message handed to the status sink
func (r *ScanResult) Summary() string {
	if r.DryRun {
		return fmt.Sprintf("Finished dry run - %d files would be removed in %.4f seconds & %d files with permission error",
			r.NetRemoved(), r.ElapsedSeconds(), r.Skipped)
	}
	return fmt.Sprintf("Finished cleaning - %d files removed in %.4f seconds & %d files with permission error",
		r.NetRemoved(), r.ElapsedSeconds(), r.Skipped)
}

func (r *ScanResult) String() string {
	return r.Summary()
}

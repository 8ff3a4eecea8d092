package dedupfiles

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// Candidate is a resolved file discovered during a scan
type Candidate struct {
	Path string // Absolute, symlink-resolved path
	Size int64  // Size in bytes at discovery time
	Root string // Root the candidate was discovered under
}

// candidateRegistry is the ordered set of resolved paths seen in one scan.
// The skiplist context records the root each path was first reached from.
type candidateRegistry struct {
	skiplist *zcsl.ZeroCopySkiplist[Candidate, string, string]
}

// newCandidateRegistry creates an empty registry keyed by resolved path
func newCandidateRegistry(maxLevels int) *candidateRegistry {
	if maxLevels < 8 {
		maxLevels = 16
	}

	getKeyFromItem := func(c *Candidate) string {
		return c.Path
	}

	getItemSize := func(c *Candidate) int {
		return len(c.Path)
	}

	cmpKey := func(a, b string) int {
		return strings.Compare(a, b)
	}

	return &candidateRegistry{
		skiplist: zcsl.MakeZeroCopySkiplist[Candidate, string, string](
			maxLevels,
			getKeyFromItem,
			getItemSize,
			cmpKey,
		),
	}
}

// Register adds a candidate unless its resolved path is already known.
// Returns false for a path seen earlier in the scan.
func (r *candidateRegistry) Register(c Candidate) bool {
	if r.Contains(c.Path) {
		return false
	}
	r.skiplist.Insert(&c, c.Root)
	return true
}

// Contains reports whether a resolved path has been registered
func (r *candidateRegistry) Contains(path string) bool {
	itemPtr, _ := r.skiplist.Find(path)
	return itemPtr != nil
}

// Root returns the root a registered path was discovered under
func (r *candidateRegistry) Root(path string) (string, bool) {
	itemPtr, context := r.skiplist.Find(path)
	if itemPtr == nil {
		return "", false
	}
	return context, true
}

// Length returns the number of registered candidates
func (r *candidateRegistry) Length() int {
	return r.skiplist.Length()
}

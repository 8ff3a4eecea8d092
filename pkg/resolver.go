package dedupfiles

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrInterrupted is returned when the shutdown channel closes mid-scan
var ErrInterrupted = errors.New("scan interrupted by shutdown")

// ResolverOptions configures a Resolver. Zero values select the defaults.
type ResolverOptions struct {
	Algorithm        *HashAlgorithm // Digest used by both hash stages (default sha1)
	PrefixSize       int64          // Bytes hashed by the prefix stage (default 1024)
	ChunkSize        int            // Read size for full hashing (default 1024)
	MinSize          int64          // Smaller files are never candidates
	Workers          int            // Hash workers per group (default 4)
	SymlinkMode      string         // Directory symlink handling (default none)
	DryRun           bool           // Report without deleting
	Ignore           *IgnoreManager // Paths never considered
	Remover          Remover        // Overrides the deletion backend
	ProgressInterval int            // Checks between OnProgress calls

	OnDuplicate func(pair DuplicatePair) // Called for every pair as it is found
	OnProgress  func(checked int)        // Running count of checked candidates
	OnStatus    func(summary string)     // Receives the completion message
}

// Resolver finds duplicate files with a size, prefix-hash, full-hash filter
// and removes every duplicate after the first holder of each full digest.
type Resolver struct {
	opts    ResolverOptions
	remover Remover
}

// prefixKey groups candidates of one size sharing a prefix digest
type prefixKey struct {
	size   int64
	digest string
}

// scanState holds the working sets of one Resolve call. Only the
// coordinating goroutine touches it.
type scanState struct {
	registry     *candidateRegistry
	sizeGroups   map[int64][]Candidate
	sizeOrder    []int64
	prefixGroups map[prefixKey][]Candidate
	prefixOrder  []prefixKey
	fullHashes   map[string]string
	progress     *progressTracker
	result       *ScanResult
	shutdown     <-chan struct{}
}

// hashOutcome is the digest or error for one candidate of a group
type hashOutcome struct {
	digest []byte
	err    error
}

// NewResolver validates options and fills in defaults
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	if opts.Algorithm == nil {
		algorithm, err := GetHashAlgorithm(DefaultHashName)
		if err != nil {
			return nil, err
		}
		opts.Algorithm = algorithm
	}
	if opts.PrefixSize <= 0 {
		opts.PrefixSize = DefaultPrefixSize
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.MinSize < 0 {
		return nil, fmt.Errorf("minimum size must not be negative, got: %d", opts.MinSize)
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if err := ValidateHashWorkers(opts.Workers); err != nil {
		return nil, err
	}
	if opts.SymlinkMode == "" {
		opts.SymlinkMode = DefaultSymlinkMode
	}
	opts.SymlinkMode = strings.ToLower(opts.SymlinkMode)
	if err := ValidateSymlinkMode(opts.SymlinkMode); err != nil {
		return nil, err
	}

	remover := opts.Remover
	if remover == nil {
		if opts.DryRun {
			remover = &DryRunRemover{}
		} else {
			remover = OSRemover{}
		}
	}

	return &Resolver{opts: opts, remover: remover}, nil
}

// Resolve scans rootPaths, deletes duplicates and returns the scan result.
// Per-file I/O errors are counted and skipped. A delete failure other than a
// permission denial aborts the scan. A nil shutdownChan never fires.
func (r *Resolver) Resolve(rootPaths []string, shutdownChan <-chan struct{}) (*ScanResult, error) {
	defer VerboseEnter()()

	result := newScanResult(rootPaths, r.opts.Algorithm.Name, r.opts.DryRun)
	state := &scanState{
		registry:     newCandidateRegistry(16),
		sizeGroups:   make(map[int64][]Candidate),
		prefixGroups: make(map[prefixKey][]Candidate),
		fullHashes:   make(map[string]string),
		progress:     newProgressTracker(r.opts.ProgressInterval, r.opts.OnProgress),
		result:       result,
		shutdown:     shutdownChan,
	}

	roots, err := normaliseRoots(rootPaths)
	if err != nil {
		return nil, err
	}
	roots = deduplicatePaths(roots)

	if err := r.discover(state, roots); err != nil {
		return nil, err
	}
	if err := r.groupByPrefix(state); err != nil {
		return nil, err
	}
	if err := r.resolveFullHashes(state); err != nil {
		return nil, err
	}

	state.progress.flush()
	result.Elapsed = time.Since(result.StartedAt)

	summary := result.Summary()
	VerboseLog(1, "%s", summary)
	if r.opts.OnStatus != nil {
		r.opts.OnStatus(summary)
	}

	return result, nil
}

// discover walks the roots and builds the size groups
func (r *Resolver) discover(state *scanState, roots []string) error {
	defer VerboseEnter()()

	w := newWalker(roots, r.opts, state.shutdown, state.result)
	err := w.walk(func(c Candidate) {
		if !state.registry.Register(c) {
			DebugLog(DebugScan, "%s already registered", c.Path)
			return
		}
		if _, ok := state.sizeGroups[c.Size]; !ok {
			state.sizeOrder = append(state.sizeOrder, c.Size)
		}
		state.sizeGroups[c.Size] = append(state.sizeGroups[c.Size], c)
		state.result.Candidates++
		state.progress.tick()
	})
	if err != nil {
		return err
	}

	VerboseLog(2, "discovered %d candidates in %d size groups", state.registry.Length(), len(state.sizeOrder))
	return nil
}

// groupByPrefix hashes the prefix of every member of a size group with at
// least two members
func (r *Resolver) groupByPrefix(state *scanState) error {
	defer VerboseEnter()()

	prefixHash := func(path string) ([]byte, error) {
		return HashPrefix(path, r.opts.Algorithm, r.opts.PrefixSize)
	}

	for _, size := range state.sizeOrder {
		files := state.sizeGroups[size]
		if len(files) < 2 {
			continue
		}

		outcomes := r.hashGroup(files, prefixHash, state.shutdown)
		for i, outcome := range outcomes {
			if outcome.err != nil {
				if errors.Is(outcome.err, ErrInterrupted) {
					return ErrInterrupted
				}
				state.result.HashErrors++
				VerboseLog(2, "skipping %s: %v", files[i].Path, outcome.err)
				continue
			}

			key := prefixKey{size: size, digest: string(outcome.digest)}
			if _, ok := state.prefixGroups[key]; !ok {
				state.prefixOrder = append(state.prefixOrder, key)
			}
			state.prefixGroups[key] = append(state.prefixGroups[key], files[i])
			state.result.PrefixHashed++
			state.progress.tick()
		}
	}

	VerboseLog(2, "%d prefix groups", len(state.prefixOrder))
	return nil
}

// resolveFullHashes hashes every member of a prefix group with at least two
// members and removes each file whose digest already has a survivor
func (r *Resolver) resolveFullHashes(state *scanState) error {
	defer VerboseEnter()()

	fullHash := func(path string) ([]byte, error) {
		return HashFileInterruptible(path, r.opts.Algorithm, r.opts.ChunkSize, state.shutdown)
	}

	for _, key := range state.prefixOrder {
		files := state.prefixGroups[key]
		if len(files) < 2 {
			continue
		}

		outcomes := r.hashGroup(files, fullHash, state.shutdown)
		for i, outcome := range outcomes {
			if outcome.err != nil {
				if errors.Is(outcome.err, ErrInterrupted) {
					return ErrInterrupted
				}
				state.result.HashErrors++
				VerboseLog(2, "skipping %s: %v", files[i].Path, outcome.err)
				continue
			}
			state.result.FullHashed++

			digest := string(outcome.digest)
			kept, ok := state.fullHashes[digest]
			if !ok {
				state.fullHashes[digest] = files[i].Path
				state.progress.tick()
				continue
			}

			keptRoot, _ := state.registry.Root(kept)
			pair := DuplicatePair{
				Duplicate:     files[i].Path,
				Kept:          kept,
				Size:          files[i].Size,
				Digest:        hex.EncodeToString(outcome.digest),
				DuplicateRoot: files[i].Root,
				KeptRoot:      keptRoot,
			}
			if err := r.removeDuplicate(state, pair); err != nil {
				return err
			}
			state.progress.tick()
		}
	}

	return nil
}

// removeDuplicate deletes the duplicate side of pair, updates the counters
// and reports the pair
func (r *Resolver) removeDuplicate(state *scanState, pair DuplicatePair) error {
	DebugLog(DebugDelete, "removing %s (duplicate of %s)", pair.Duplicate, pair.Kept)

	outcome, err := removeDuplicate(r.remover, pair.Duplicate)
	if err != nil {
		pair.Error = err.Error()
		r.report(state, pair)
		return err
	}

	pair.Removed = true
	state.result.Removed++
	if outcome == removePermissionDenied {
		pair.Skipped = true
		state.result.Skipped++
		VerboseLog(1, "permission denied removing %s", pair.Duplicate)
	}

	r.report(state, pair)
	return nil
}

func (r *Resolver) report(state *scanState, pair DuplicatePair) {
	state.result.Pairs = append(state.result.Pairs, pair)
	if r.opts.OnDuplicate != nil {
		r.opts.OnDuplicate(pair)
	}
}

// hashGroup hashes every file of a group. With more than one worker the files
// are hashed concurrently, but outcomes are returned in input order so callers
// see exactly what a sequential pass would produce.
func (r *Resolver) hashGroup(files []Candidate, hashFn func(string) ([]byte, error), shutdown <-chan struct{}) []hashOutcome {
	outcomes := make([]hashOutcome, len(files))

	hashOne := func(i int) {
		if interrupted(shutdown) {
			outcomes[i] = hashOutcome{err: ErrInterrupted}
			return
		}
		digest, err := hashFn(files[i].Path)
		outcomes[i] = hashOutcome{digest: digest, err: err}
		DebugLog(DebugHash, "%s %x", files[i].Path, digest)
	}

	workers := r.opts.Workers
	if workers > len(files) {
		workers = len(files)
	}
	if workers <= 1 {
		for i := range files {
			hashOne(i)
		}
		return outcomes
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				hashOne(i)
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// interrupted reports whether shutdown has been closed
func interrupted(shutdown <-chan struct{}) bool {
	select {
	case <-shutdown:
		return true
	default:
		return false
	}
}

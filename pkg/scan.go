package dedupfiles

import (
	"os"
	"path/filepath"
	"sort"
)

// dirIdentity identifies a directory independent of the path used to reach it
type dirIdentity struct {
	dev, ino uint64
}

// walker streams candidates from the configured roots
type walker struct {
	roots       []string
	symlinkMode string
	ignore      *IgnoreManager
	minSize     int64
	shutdown    <-chan struct{}
	result      *ScanResult
	visitedDirs map[dirIdentity]bool
}

func newWalker(roots []string, opts ResolverOptions, shutdown <-chan struct{}, result *ScanResult) *walker {
	return &walker{
		roots:       roots,
		symlinkMode: opts.SymlinkMode,
		ignore:      opts.Ignore,
		minSize:     opts.MinSize,
		shutdown:    shutdown,
		result:      result,
		visitedDirs: make(map[dirIdentity]bool),
	}
}

// walk visits every root in order and calls emit for each candidate file
func (w *walker) walk(emit func(Candidate)) error {
	defer VerboseEnter()()
	for _, root := range w.roots {
		DebugLog(DebugScan, "scanning root %s", root)
		if err := w.walkRoot(root, emit); err != nil {
			return err
		}
	}
	return nil
}

// walkRoot walks one root in lexicographic order using a sorted queue.
// Unreadable entries and directories are skipped and the walk continues.
func (w *walker) walkRoot(root string, emit func(Candidate)) error {
	pathQueue := []string{root}

	for len(pathQueue) > 0 {
		if interrupted(w.shutdown) {
			return ErrInterrupted
		}

		currentPath := pathQueue[0]
		pathQueue = pathQueue[1:]
		isRoot := currentPath == root

		info, err := os.Lstat(currentPath)
		if err != nil {
			w.result.StatErrors++
			VerboseLog(2, "skipping %s: %v", currentPath, err)
			continue
		}

		if !isRoot {
			relPath, err := filepath.Rel(root, currentPath)
			if err != nil || w.ignore.ShouldIgnore(relPath) {
				DebugLog(DebugScan, "ignored %s", currentPath)
				continue
			}
		}

		if info.Mode()&os.ModeSymlink != 0 {
			targetInfo, err := os.Stat(currentPath)
			if err != nil {
				DebugLog(DebugScan, "broken symlink %s: %v", currentPath, err)
				continue
			}

			if targetInfo.IsDir() {
				if !isRoot && !w.followDirSymlink(currentPath) {
					DebugLog(DebugScan, "not following directory symlink %s (mode %s)", currentPath, w.symlinkMode)
					continue
				}
				info = targetInfo
			}
		}

		if info.IsDir() {
			if w.alreadyVisited(currentPath) {
				DebugLog(DebugScan, "directory %s already visited", currentPath)
				continue
			}

			entries, err := os.ReadDir(currentPath)
			if err != nil {
				w.result.UnreadableDirs++
				VerboseLog(2, "skipping unreadable directory %s: %v", currentPath, err)
				continue
			}

			newPaths := make([]string, 0, len(entries))
			for _, entry := range entries {
				newPaths = append(newPaths, filepath.Join(currentPath, entry.Name()))
			}
			pathQueue = insertSorted(pathQueue, newPaths)
			continue
		}

		if info.Mode().IsRegular() || info.Mode()&os.ModeSymlink != 0 {
			if candidate, ok := w.resolveCandidate(currentPath, root); ok {
				emit(candidate)
			}
		}
	}

	return nil
}

// resolveCandidate resolves symlinks and reads the size of the final target.
// Any failure drops the path.
func (w *walker) resolveCandidate(path, root string) (Candidate, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		resolved, err = filepath.Abs(resolved)
	}
	if err != nil {
		w.result.StatErrors++
		VerboseLog(2, "skipping %s: cannot resolve: %v", path, err)
		return Candidate{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		w.result.StatErrors++
		VerboseLog(2, "skipping %s: cannot stat: %v", resolved, err)
		return Candidate{}, false
	}
	if !info.Mode().IsRegular() {
		return Candidate{}, false
	}

	if w.symlinkMode == SymlinkModeContained && resolved != path && !w.insideRoots(resolved) {
		DebugLog(DebugScan, "symlink %s points outside the roots (%s)", path, resolved)
		return Candidate{}, false
	}

	if info.Size() < w.minSize {
		return Candidate{}, false
	}

	return Candidate{Path: resolved, Size: info.Size(), Root: root}, true
}

// followDirSymlink applies the symlink mode to a directory symlink
func (w *walker) followDirSymlink(path string) bool {
	switch w.symlinkMode {
	case SymlinkModeAll:
		return true
	case SymlinkModeContained:
		target, err := filepath.EvalSymlinks(path)
		if err != nil {
			return false
		}
		return w.insideRoots(target)
	default:
		return false
	}
}

// alreadyVisited marks a directory by device and inode. Only needed when
// directory symlinks are followed; other modes cannot reach a directory twice
// within one root.
func (w *walker) alreadyVisited(path string) bool {
	if w.symlinkMode == SymlinkModeNone {
		return false
	}
	dev, ino, err := fileIdentity(path)
	if err != nil {
		return false
	}
	id := dirIdentity{dev: dev, ino: ino}
	if w.visitedDirs[id] {
		return true
	}
	w.visitedDirs[id] = true
	return false
}

func (w *walker) insideRoots(target string) bool {
	for _, root := range w.roots {
		if isPathContained(target, root) {
			return true
		}
		// Roots may themselves sit behind a symlink
		if resolvedRoot, err := filepath.EvalSymlinks(root); err == nil && isPathContained(target, resolvedRoot) {
			return true
		}
	}
	return false
}

// insertSorted merges new paths into an existing sorted queue
func insertSorted(existing []string, newPaths []string) []string {
	if len(newPaths) == 0 {
		return existing
	}
	sort.Strings(newPaths)
	if len(existing) == 0 {
		return newPaths
	}

	result := make([]string, 0, len(existing)+len(newPaths))
	i, j := 0, 0
	for i < len(existing) && j < len(newPaths) {
		if existing[i] <= newPaths[j] {
			result = append(result, existing[i])
			i++
		} else {
			result = append(result, newPaths[j])
			j++
		}
	}
	result = append(result, existing[i:]...)
	result = append(result, newPaths[j:]...)

	return result
}

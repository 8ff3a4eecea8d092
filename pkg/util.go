package dedupfiles

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseHumanSize parses sizes like "1024", "4K", "2MB" or "1.5G" into bytes
func ParseHumanSize(sizeStr string) (int64, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	var numPart string
	var suffix string
	for i, char := range sizeStr {
		if char >= '0' && char <= '9' || char == '.' {
			numPart += string(char)
		} else {
			suffix = strings.TrimSpace(sizeStr[i:])
			break
		}
	}

	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier int64
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	case "T", "TB":
		multiplier = 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix %q in %s", suffix, sizeStr)
	}

	return int64(num * float64(multiplier)), nil
}

// FormatHumanSize renders a byte count with a binary unit suffix
func FormatHumanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

// normaliseRoots makes every root absolute and clean, keeping caller order
func normaliseRoots(roots []string) ([]string, error) {
	absRoots := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
		}
		absRoots = append(absRoots, filepath.Clean(abs))
	}
	return absRoots, nil
}

// deduplicatePaths drops roots that are equal to or nested under another root.
// Example: ["/home/user/docs/a", "/home/user/photos", "/home/user/docs"]
//
//	-> ["/home/user/photos", "/home/user/docs"]
//
// The surviving roots keep the order in which they were given.
func deduplicatePaths(paths []string) []string {
	var deduplicated []string
	for i, path := range paths {
		redundant := false
		for j, other := range paths {
			if i == j {
				continue
			}
			if isPathUnder(path, other) || (path == other && j < i) {
				redundant = true
				break
			}
		}
		if !redundant {
			deduplicated = append(deduplicated, path)
		}
	}
	return deduplicated
}

// isPathUnder checks if childPath is strictly under parentPath
func isPathUnder(childPath, parentPath string) bool {
	childPath = filepath.Clean(childPath)
	parentPath = filepath.Clean(parentPath)

	if childPath == parentPath {
		return false
	}

	parentWithSep := parentPath
	if !strings.HasSuffix(parentWithSep, string(filepath.Separator)) {
		parentWithSep += string(filepath.Separator)
	}
	return strings.HasPrefix(childPath, parentWithSep)
}

// isPathContained checks if targetPath is containerPath or lies under it
func isPathContained(targetPath, containerPath string) bool {
	return filepath.Clean(targetPath) == filepath.Clean(containerPath) || isPathUnder(targetPath, containerPath)
}

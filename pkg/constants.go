package dedupfiles

import "strings"

// Hashing constants
const (
	DefaultPrefixSize = 1024 // Bytes hashed by the prefix stage
	DefaultChunkSize  = 1024 // Read size when streaming a full file
	DefaultHashName   = "sha1"
)

// Hash type constants
const (
	HashTypeSHA1   uint16 = 1 // SHA-1 (20 bytes)
	HashTypeSHA256 uint16 = 2 // SHA-256 (32 bytes)
	HashTypeSHA512 uint16 = 3 // SHA-512 (64 bytes)
)

// Hash size constants
const (
	HashSizeSHA1   = 20 // SHA-1 hash size in bytes
	HashSizeSHA256 = 32 // SHA-256 hash size in bytes
	HashSizeSHA512 = 64 // SHA-512 hash size in bytes
)

// HashTypeFromName returns the hash type constant from a name (case-insensitive)
func HashTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "sha1":
		return HashTypeSHA1, true
	case "sha256":
		return HashTypeSHA256, true
	case "sha512":
		return HashTypeSHA512, true
	default:
		return 0, false
	}
}

// Symlink handling modes for directory symlinks
const (
	SymlinkModeNone      = "none"
	SymlinkModeContained = "contained"
	SymlinkModeAll       = "all"
)

// Report formats
const (
	FormatHuman  = "human"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatFdupes = "fdupes"
)

// Defaults used when no config value is present
const (
	DefaultWorkers          = 4
	DefaultProgressInterval = 100
	DefaultSymlinkMode      = SymlinkModeNone
	DefaultFormat           = FormatHuman
)

package dedupfiles

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return &HashAlgorithm{
			Name:    "sha1",
			TypeID:  HashTypeSHA1,
			Size:    HashSizeSHA1,
			NewFunc: func() hash.Hash { return sha1.New() },
		}, nil
	case "sha256":
		return &HashAlgorithm{
			Name:    "sha256",
			TypeID:  HashTypeSHA256,
			Size:    HashSizeSHA256,
			NewFunc: func() hash.Hash { return sha256.New() },
		}, nil
	case "sha512":
		return &HashAlgorithm{
			Name:    "sha512",
			TypeID:  HashTypeSHA512,
			Size:    HashSizeSHA512,
			NewFunc: func() hash.Hash { return sha512.New() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// HashContent computes the digest of a file, either over its first
// DefaultPrefixSize bytes or over the whole content.
func HashContent(filePath string, algorithm *HashAlgorithm, fullContent bool) ([]byte, error) {
	if fullContent {
		return HashFileInterruptible(filePath, algorithm, DefaultChunkSize, nil)
	}
	return HashPrefix(filePath, algorithm, DefaultPrefixSize)
}

// HashPrefix hashes at most the first prefixSize bytes of a file.
// Files shorter than prefixSize are hashed in full.
func HashPrefix(filePath string, algorithm *HashAlgorithm, prefixSize int64) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hasher := algorithm.NewFunc()
	if _, err := io.CopyN(hasher, file, prefixSize); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to hash prefix of %s: %w", filePath, err)
	}

	return hasher.Sum(nil), nil
}

// HashFileInterruptible calculates the hash of a file using a configurable buffer size
// and checks for shutdown signals between buffer reads for graceful interruption.
// A nil shutdownChan never fires.
func HashFileInterruptible(filePath string, algorithm *HashAlgorithm, bufferSize int, shutdownChan <-chan struct{}) ([]byte, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultChunkSize
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hasher := algorithm.NewFunc()
	buffer := make([]byte, bufferSize)

	for {
		select {
		case <-shutdownChan:
			return nil, ErrInterrupted
		default:
		}

		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}
	}

	return hasher.Sum(nil), nil
}

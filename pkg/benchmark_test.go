package dedupfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// BenchmarkConfig defines the parameters for resolver benchmarks
type BenchmarkConfig struct {
	UniqueFiles    int   // Files with content no other file shares
	DuplicateSets  int   // Distinct contents that appear more than once
	CopiesPerSet   int   // Copies of each duplicated content
	FileSize       int64 // Size of every file in bytes
	FilesPerDir    int   // Files written to each directory
	SharedPrefixes bool  // Give every file the same first DefaultPrefixSize bytes
}

var (
	// Small benchmark for development/CI
	SmallBenchConfig = BenchmarkConfig{
		UniqueFiles:   500,
		DuplicateSets: 50,
		CopiesPerSet:  3,
		FileSize:      4 * 1024,
		FilesPerDir:   50,
	}

	// Worst case for the prefix stage: every file reaches the full hash
	PrefixCollisionBenchConfig = BenchmarkConfig{
		UniqueFiles:    200,
		DuplicateSets:  20,
		CopiesPerSet:   2,
		FileSize:       64 * 1024,
		FilesPerDir:    40,
		SharedPrefixes: true,
	}
)

// generateDeterministicData creates deterministic file content based on seed
func generateDeterministicData(size int64, seed int64) []byte {
	data := make([]byte, size)
	for i := int64(0); i < size; i++ {
		seed = (seed*1103515245 + 12345) & 0x7fffffff
		data[i] = byte(seed >> 16)
	}
	return data
}

// createBenchmarkDataset writes the dataset described by config under rootDir
func createBenchmarkDataset(rootDir string, config BenchmarkConfig) error {
	fileNum := 0
	write := func(seed int64) error {
		data := generateDeterministicData(config.FileSize, seed)
		if config.SharedPrefixes {
			copy(data, generateDeterministicData(DefaultPrefixSize, 1))
		}
		dir := filepath.Join(rootDir, fmt.Sprintf("dir%04d", fileNum/config.FilesPerDir))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("file%06d", fileNum))
		fileNum++
		return os.WriteFile(path, data, 0644)
	}

	for i := 0; i < config.UniqueFiles; i++ {
		if err := write(int64(1000 + i)); err != nil {
			return err
		}
	}
	for set := 0; set < config.DuplicateSets; set++ {
		for c := 0; c < config.CopiesPerSet; c++ {
			if err := write(int64(-1 - set)); err != nil {
				return err
			}
		}
	}
	return nil
}

func benchmarkResolve(b *testing.B, config BenchmarkConfig, workers int) {
	rootDir := b.TempDir()
	if err := createBenchmarkDataset(rootDir, config); err != nil {
		b.Fatalf("Failed to create dataset: %v", err)
	}

	resolver, err := NewResolver(ResolverOptions{DryRun: true, Workers: workers})
	if err != nil {
		b.Fatalf("Failed to create resolver: %v", err)
	}

	want := config.DuplicateSets * (config.CopiesPerSet - 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := resolver.Resolve([]string{rootDir}, nil)
		if err != nil {
			b.Fatalf("Resolve failed: %v", err)
		}
		if result.Removed != want {
			b.Fatalf("Expected %d duplicates, got %d", want, result.Removed)
		}
	}
}

func BenchmarkResolveSmall(b *testing.B) {
	benchmarkResolve(b, SmallBenchConfig, 1)
}

func BenchmarkResolveSmallParallel(b *testing.B) {
	benchmarkResolve(b, SmallBenchConfig, DefaultWorkers)
}

func BenchmarkResolvePrefixCollisions(b *testing.B) {
	benchmarkResolve(b, PrefixCollisionBenchConfig, 1)
}

func BenchmarkResolvePrefixCollisionsParallel(b *testing.B) {
	benchmarkResolve(b, PrefixCollisionBenchConfig, DefaultWorkers)
}

// Package dedupfiles finds and removes duplicate files across one or more
// directory trees by comparing content.
//
// # Core API
//
// Files are filtered in three stages so that only likely duplicates are read
// in full: files are grouped by size, same-size files by a digest of their
// first 1024 bytes, and files sharing that prefix digest by a digest of their
// whole content. The first file to reach a full digest is kept; every later
// file with the same digest is deleted.
//
//	resolver, err := dedupfiles.NewResolver(dedupfiles.ResolverOptions{
//		OnDuplicate: func(p dedupfiles.DuplicatePair) { fmt.Print(dedupfiles.FormatPairHuman(p)) },
//		OnStatus:    func(s string) { fmt.Println(s) },
//	})
//	result, err := resolver.Resolve([]string{"/backups", "/downloads"}, nil)
//
// Survivors depend on traversal order. Each root is walked in lexicographic
// order, so a given tree always keeps the same file, but that choice should
// not be relied on once the tree changes.
//
// # Errors
//
// Files that cannot be resolved, stat'ed or read are skipped and counted.
// A permission denial while deleting is counted in ScanResult.Skipped and the
// scan continues. Any other delete failure stops the scan and is returned.
//
// # Configuration
//
// Options can be loaded from an ini file with LoadConfig, adjusted with
// ApplyOverrides or DEDUPFILES_* environment variables, and turned into
// ResolverOptions with Config.ResolverOptions.
//
//	dedupfiles.SetDebugFlags("scan,delete")
//	dedupfiles.SetVerboseLevel(2)
package dedupfiles

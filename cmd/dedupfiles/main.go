package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	dedupfiles "github.com/mattkeenan/dedupfiles/pkg"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func defineOptions() *ParsedOptions {
	options := NewParsedOptions()
	options.DefineOption("help", "h", OptionTypeBool, "false", "Show help message")
	options.DefineOption("version", "", OptionTypeBool, "false", "Show version information")
	options.DefineOption("verbose", "v", OptionTypeInt, "0", "Verbose output (repeat for more: -vv, -vvv)")
	options.DefineOption("debug", "", OptionTypeString, "", "Debug flags (scan,hash,delete)")
	options.DefineOption("dry-run", "n", OptionTypeBool, "false", "Report duplicates without deleting them")
	options.DefineOption("config", "c", OptionTypeString, "", "Config file (default: "+dedupfiles.DefaultConfigPath()+")")
	options.DefineOption("override", "o", OptionTypeList, "", "Config override key:value (repeatable)")
	options.DefineOption("write-config", "", OptionTypeBool, "false", "Save the effective config and exit")
	options.DefineOption("hash", "", OptionTypeString, "", "Hash algorithm (sha1|sha256|sha512)")
	options.DefineOption("workers", "w", OptionTypeInt, "", "Hash workers per group")
	options.DefineOption("symlinks", "", OptionTypeString, "", "Directory symlinks (none|contained|all)")
	options.DefineOption("min-size", "", OptionTypeString, "", "Ignore files smaller than this (e.g. 4K)")
	options.DefineOption("ignore", "i", OptionTypeList, "", "Regexp of root-relative paths to skip (repeatable)")
	options.DefineOption("ignore-file", "", OptionTypeString, "", "File of ignore regexps, one per line")
	options.DefineOption("report", "r", OptionTypeString, "", "Write a report of all duplicates to this file")
	options.DefineOption("format", "f", OptionTypeString, "", "Report format (human|json|yaml|fdupes)")
	options.DefineOption("confirm", "", OptionTypeBool, "false", "Ask before deleting anything")
	options.DefineOption("yes", "y", OptionTypeBool, "false", "Skip confirmation")
	options.DefineOption("quiet", "q", OptionTypeBool, "false", "Suppress progress and per-duplicate output")
	options.DefineOption("no-color", "", OptionTypeBool, "false", "Disable coloured output")
	return options
}

func showHelp(w io.Writer, options *ParsedOptions) {
	fmt.Fprintf(w, "dedupfiles - find and delete duplicate files by content\n\n")
	fmt.Fprintf(w, "Usage: dedupfiles [options] ROOT...\n\n")
	fmt.Fprintf(w, "Files are compared by size, then by a digest of their first bytes, then by a\n")
	fmt.Fprintf(w, "digest of their whole content. The first file found with a given content is\n")
	fmt.Fprintf(w, "kept; every later copy is permanently deleted.\n\n")
	fmt.Fprintf(w, "OPTIONS:\n")
	options.WriteUsage(w)
	fmt.Fprintf(w, "\nEXIT STATUS:\n")
	fmt.Fprintf(w, "  0 success, 1 error, 130 interrupted\n\n")
	fmt.Fprintf(w, "EXAMPLES:\n")
	fmt.Fprintf(w, "  dedupfiles -n ~/Downloads                 # Show what would be deleted\n")
	fmt.Fprintf(w, "  dedupfiles --hash sha256 /backup /media   # Deduplicate across two trees\n")
	fmt.Fprintf(w, "  dedupfiles -r dupes.json -f json ~/Photos # Keep a JSON record\n")
}

// run executes the command and returns the exit status
func run(argv []string, stdout, stderr io.Writer) int {
	options := defineOptions()
	if err := options.Parse(argv); err != nil {
		fmt.Fprintf(stderr, "dedupfiles: %v\n", err)
		fmt.Fprintf(stderr, "Try 'dedupfiles --help' for more information.\n")
		return exitError
	}

	if options.GetBool("version") {
		fmt.Fprintf(stdout, "dedupfiles %s\n", getVersionString())
		return exitOK
	}
	if options.GetBool("help") {
		showHelp(stdout, options)
		return exitOK
	}

	cfg, err := loadConfig(options)
	if err != nil {
		fmt.Fprintf(stderr, "dedupfiles: %v\n", err)
		return exitError
	}

	if options.GetBool("write-config") {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(stderr, "dedupfiles: failed to save config: %v\n", err)
			return exitError
		}
		fmt.Fprintf(stdout, "Config written to %s\n", cfg.Path())
		return exitOK
	}

	roots := options.GetArgs()
	if len(roots) == 0 {
		fmt.Fprintf(stderr, "dedupfiles: no root directories given\n")
		fmt.Fprintf(stderr, "Try 'dedupfiles --help' for more information.\n")
		return exitError
	}

	dedupfiles.SetLogOutput(stderr)
	dedupfiles.InitLogging(cfg, options.GetInt("verbose"), options.GetString("debug"))

	resolverOptions, err := cfg.ResolverOptions()
	if err != nil {
		fmt.Fprintf(stderr, "dedupfiles: %v\n", err)
		return exitError
	}

	ignore, err := buildIgnoreManager(options)
	if err != nil {
		fmt.Fprintf(stderr, "dedupfiles: %v\n", err)
		return exitError
	}
	resolverOptions.Ignore = ignore

	if needsConfirmation(options, cfg, resolverOptions.DryRun) {
		ok, err := confirmDeletion(roots)
		if err != nil {
			fmt.Fprintf(stderr, "dedupfiles: %v\n", err)
			return exitError
		}
		if !ok {
			fmt.Fprintf(stdout, "Nothing deleted.\n")
			return exitOK
		}
	}

	if !resolverOptions.DryRun {
		lock := newRunLock(defaultLockPath())
		if err := lock.acquire(); err != nil {
			fmt.Fprintf(stderr, "dedupfiles: %v\n", err)
			return exitError
		}
		defer func() {
			if err := lock.release(); err != nil {
				dedupfiles.VerboseLog(1, "%v", err)
			}
		}()
	}

	ui := newConsole(stdout, options.GetBool("quiet"), options.GetBool("no-color"))
	resolverOptions.OnProgress = ui.progress
	resolverOptions.OnDuplicate = ui.duplicate
	resolverOptions.OnStatus = ui.status

	resolver, err := dedupfiles.NewResolver(resolverOptions)
	if err != nil {
		fmt.Fprintf(stderr, "dedupfiles: %v\n", err)
		return exitError
	}

	result, err := resolver.Resolve(roots, setupSignalHandler())
	ui.finish()
	if err != nil {
		fmt.Fprintf(stderr, "dedupfiles: %v\n", err)
		if errors.Is(err, dedupfiles.ErrInterrupted) {
			return exitInterrupted
		}
		return exitError
	}

	if err := writeReport(options, cfg, result, stdout); err != nil {
		fmt.Fprintf(stderr, "dedupfiles: %v\n", err)
		return exitError
	}

	return exitOK
}

// loadConfig layers the config file, the environment, -o overrides and the
// dedicated flags, in that order of increasing precedence
func loadConfig(options *ParsedOptions) (*dedupfiles.Config, error) {
	cfg, err := dedupfiles.LoadConfig(options.GetString("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(options.GetList("override")); err != nil {
		return nil, err
	}

	flagKeys := []struct{ option, key string }{
		{"hash", "hash"},
		{"workers", "workers"},
		{"symlinks", "mode"},
		{"min-size", "min_size"},
		{"format", "format"},
	}
	for _, fk := range flagKeys {
		if options.IsSet(fk.option) {
			if err := cfg.Set(fk.key, options.GetString(fk.option)); err != nil {
				return nil, err
			}
		}
	}
	if options.IsSet("dry-run") {
		if err := cfg.Set("dry_run", strconv.FormatBool(options.GetBool("dry-run"))); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// needsConfirmation reports whether a deleting run must be confirmed first.
// --yes wins over both --confirm and [delete] confirm.
func needsConfirmation(options *ParsedOptions, cfg *dedupfiles.Config, dryRun bool) bool {
	if dryRun || options.GetBool("yes") {
		return false
	}
	return options.GetBool("confirm") || cfg.GetDeleteConfig().Confirm
}

func buildIgnoreManager(options *ParsedOptions) (*dedupfiles.IgnoreManager, error) {
	ignore := dedupfiles.NewIgnoreManager()
	if path := options.GetString("ignore-file"); path != "" {
		if err := ignore.LoadIgnoreFile(path); err != nil {
			return nil, err
		}
	}
	for _, pattern := range options.GetList("ignore") {
		if err := ignore.AddPattern(pattern); err != nil {
			return nil, err
		}
	}
	return ignore, nil
}

// writeReport writes the report file, or prints a non-human format to stdout
// when --format was given without --report
func writeReport(options *ParsedOptions, cfg *dedupfiles.Config, result *dedupfiles.ScanResult, stdout io.Writer) error {
	format := cfg.GetOutputConfig().Format

	if path := options.GetString("report"); path != "" {
		if err := dedupfiles.WriteReport(path, format, result); err != nil {
			return err
		}
		dedupfiles.VerboseLog(1, "report written to %s", path)
		return nil
	}

	if options.IsSet("format") && format != dedupfiles.FormatHuman {
		return dedupfiles.RenderReportTo(stdout, format, result)
	}
	return nil
}

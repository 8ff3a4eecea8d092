package dedupfiles

// This file holds the package-level entry points used by the CLI

// Resolve runs a single scan over rootPaths with opts.
// It is equivalent to NewResolver(opts) followed by Resolve(rootPaths, nil).
func Resolve(rootPaths []string, opts ResolverOptions) (*ScanResult, error) {
	resolver, err := NewResolver(opts)
	if err != nil {
		return nil, err
	}
	return resolver.Resolve(rootPaths, nil)
}

// InitLogging applies the verbose level and debug flags from a config.
// Explicit command-line values win when non-zero.
func InitLogging(cfg *Config, verboseOverride int, debugOverride string) {
	verboseConfig := cfg.GetVerboseConfig()

	level := verboseConfig.Level
	if verboseOverride > 0 {
		level = verboseOverride
	}
	SetVerboseLevel(level)

	debug := verboseConfig.Debug
	if debugOverride != "" {
		debug = debugOverride
	}
	SetDebugFlags(debug)

	if level > 0 {
		VerboseLog(1, "verbose level %d, debug flags %q", level, debug)
	}
}

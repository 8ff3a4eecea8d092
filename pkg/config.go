package dedupfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides, e.g. DEDUPFILES_HASH
const EnvPrefix = "dedupfiles"

// Config represents the dedupfiles configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default    string // Hash algorithm name
	PrefixSize int64  // Bytes hashed by the prefix stage
	ChunkSize  int    // Read buffer for full hashing
}

// ScanConfig represents candidate selection and hashing concurrency
type ScanConfig struct {
	MinSize int64 // Files smaller than this are never candidates
	Workers int   // Hash workers per group
}

// SymlinkConfig represents symlink handling configuration
type SymlinkConfig struct {
	Mode string // none, contained, all
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Format           string // human, json, yaml, fdupes
	ProgressInterval int    // Checks between progress callbacks
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // 0=quiet, 1=basic, 2=detailed, 3=trace
	Debug string // Comma-separated debug flags
}

// DeleteConfig represents deletion behaviour
type DeleteConfig struct {
	DryRun  bool
	Confirm bool // Ask before a deleting run
}

// AllConfig represents all configuration options
type AllConfig struct {
	Hash    *HashConfig
	Scan    *ScanConfig
	Symlink *SymlinkConfig
	Output  *OutputConfig
	Verbose *VerboseConfig
	Delete  *DeleteConfig
}

// envOverrides mirrors the overridable keys as DEDUPFILES_* variables.
type envOverrides struct {
	Hash             string `envconfig:"HASH"`
	PrefixSize       string `envconfig:"PREFIX_SIZE"`
	ChunkSize        string `envconfig:"CHUNK_SIZE"`
	MinSize          string `envconfig:"MIN_SIZE"`
	Workers          string `envconfig:"WORKERS"`
	SymlinkMode      string `envconfig:"SYMLINK_MODE"`
	Format           string `envconfig:"FORMAT"`
	ProgressInterval string `envconfig:"PROGRESS"`
	Level            string `envconfig:"VERBOSE"`
	Debug            string `envconfig:"DEBUG"`
	DryRun           string `envconfig:"DRY_RUN"`
	Confirm          string `envconfig:"CONFIRM"`
}

// overrideKeys maps override keys to their ini section and key
var overrideKeys = map[string][2]string{
	"hash":        {"filehash", "default"},
	"prefix_size": {"filehash", "prefix_size"},
	"chunk_size":  {"filehash", "chunk_size"},
	"min_size":    {"scan", "min_size"},
	"workers":     {"scan", "workers"},
	"mode":        {"symlink", "mode"},
	"format":      {"output", "format"},
	"progress":    {"output", "progress_interval"},
	"level":       {"verbose", "level"},
	"debug":       {"verbose", "debug"},
	"dry_run":     {"delete", "dry_run"},
	"confirm":     {"delete", "confirm"},
}

// DefaultConfigPath returns the per-user config file location
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "dedupfiles", "config")
}

// LoadConfig loads configuration from configPath. An empty path means
// DefaultConfigPath(). A missing file yields the defaults; nothing is written.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath()
	}

	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.ini = iniFile

	return cfg, nil
}

// NewDefaultConfig returns an in-memory config holding the defaults
func NewDefaultConfig() *Config {
	cfg := &Config{configPath: DefaultConfigPath(), ini: ini.Empty()}
	// NewSection/NewKey only fail on empty names
	_ = cfg.setDefaults()
	return cfg
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	defaults := []struct {
		section, key, value string
	}{
		{"filehash", "default", DefaultHashName},
		{"filehash", "prefix_size", strconv.Itoa(DefaultPrefixSize)},
		{"filehash", "chunk_size", strconv.Itoa(DefaultChunkSize)},
		{"scan", "min_size", "0"},
		{"scan", "workers", strconv.Itoa(DefaultWorkers)},
		{"symlink", "mode", DefaultSymlinkMode},
		{"output", "format", DefaultFormat},
		{"output", "progress_interval", strconv.Itoa(DefaultProgressInterval)},
		{"verbose", "level", "0"},
		{"verbose", "debug", ""},
		{"delete", "dry_run", "false"},
		{"delete", "confirm", "false"},
	}

	for _, d := range defaults {
		section, err := c.ini.NewSection(d.section)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", d.section, err)
		}
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set default %s.%s: %w", d.section, d.key, err)
		}
	}

	return nil
}

// Path returns the file this config was loaded from or will be saved to
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) value(section, key string) (string, bool) {
	if !c.ini.HasSection(section) {
		return "", false
	}
	s := c.ini.Section(section)
	if !s.HasKey(key) {
		return "", false
	}
	return s.Key(key).String(), true
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default:    DefaultHashName,
		PrefixSize: DefaultPrefixSize,
		ChunkSize:  DefaultChunkSize,
	}

	if v, ok := c.value("filehash", "default"); ok && v != "" {
		hashConfig.Default = v
	}
	if v, ok := c.value("filehash", "prefix_size"); ok {
		if size, err := ParseHumanSize(v); err == nil && size > 0 {
			hashConfig.PrefixSize = size
		}
	}
	if v, ok := c.value("filehash", "chunk_size"); ok {
		if size, err := ParseHumanSize(v); err == nil && size > 0 {
			hashConfig.ChunkSize = int(size)
		}
	}

	return hashConfig
}

// GetScanConfig returns the scan configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{
		MinSize: 0,
		Workers: DefaultWorkers,
	}

	if v, ok := c.value("scan", "min_size"); ok {
		if size, err := ParseHumanSize(v); err == nil {
			scanConfig.MinSize = size
		}
	}
	if c.ini.Section("scan").HasKey("workers") {
		if workers, err := c.ini.Section("scan").Key("workers").Int(); err == nil {
			scanConfig.Workers = workers
		}
	}

	return scanConfig
}

// GetSymlinkConfig returns the symlink configuration
func (c *Config) GetSymlinkConfig() *SymlinkConfig {
	symlinkConfig := &SymlinkConfig{
		Mode: DefaultSymlinkMode,
	}

	if v, ok := c.value("symlink", "mode"); ok && v != "" {
		symlinkConfig.Mode = strings.ToLower(v)
	}

	return symlinkConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format:           DefaultFormat,
		ProgressInterval: DefaultProgressInterval,
	}

	if v, ok := c.value("output", "format"); ok && v != "" {
		outputConfig.Format = strings.ToLower(v)
	}
	if c.ini.Section("output").HasKey("progress_interval") {
		if interval, err := c.ini.Section("output").Key("progress_interval").Int(); err == nil {
			outputConfig.ProgressInterval = interval
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetDeleteConfig returns the deletion configuration
func (c *Config) GetDeleteConfig() *DeleteConfig {
	deleteConfig := &DeleteConfig{}

	if c.ini.HasSection("delete") && c.ini.Section("delete").HasKey("dry_run") {
		if dryRun, err := c.ini.Section("delete").Key("dry_run").Bool(); err == nil {
			deleteConfig.DryRun = dryRun
		}
	}
	if c.ini.HasSection("delete") && c.ini.Section("delete").HasKey("confirm") {
		if confirm, err := c.ini.Section("delete").Key("confirm").Bool(); err == nil {
			deleteConfig.Confirm = confirm
		}
	}

	return deleteConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Hash:    c.GetHashConfig(),
		Scan:    c.GetScanConfig(),
		Symlink: c.GetSymlinkConfig(),
		Output:  c.GetOutputConfig(),
		Verbose: c.GetVerboseConfig(),
		Delete:  c.GetDeleteConfig(),
	}
}

// Set stores a value under an override key such as "hash" or "workers"
func (c *Config) Set(key, value string) error {
	target, ok := overrideKeys[key]
	if !ok {
		return fmt.Errorf("unsupported override key '%s' (supported: %s)", key, supportedOverrideKeys())
	}
	c.ini.Section(target[0]).Key(target[1]).SetValue(value)
	return nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.ini.SaveTo(c.configPath)
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "hash:sha256", "format:json", "level:2", "debug:scan"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		if err := c.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])); err != nil {
			return err
		}
	}

	return nil
}

// ApplyEnv applies DEDUPFILES_* environment variables on top of the file values
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	pairs := []struct{ key, value string }{
		{"hash", env.Hash},
		{"prefix_size", env.PrefixSize},
		{"chunk_size", env.ChunkSize},
		{"min_size", env.MinSize},
		{"workers", env.Workers},
		{"mode", env.SymlinkMode},
		{"format", env.Format},
		{"progress", env.ProgressInterval},
		{"level", env.Level},
		{"debug", env.Debug},
		{"dry_run", env.DryRun},
		{"confirm", env.Confirm},
	}
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		if err := c.Set(p.key, p.value); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks every configured value
func (c *Config) Validate() error {
	// Getters fall back to defaults on unparseable values, so typed keys are
	// checked here first
	if err := c.validateTyped(); err != nil {
		return err
	}

	all := c.GetAllConfig()

	if err := ValidateHashAlgorithm(all.Hash.Default); err != nil {
		return err
	}
	for _, key := range []string{"prefix_size", "chunk_size"} {
		if v, ok := c.value("filehash", key); ok {
			if err := ValidateSize(v, false); err != nil {
				return fmt.Errorf("filehash.%s: %w", key, err)
			}
		}
	}
	if v, ok := c.value("scan", "min_size"); ok {
		if err := ValidateSize(v, true); err != nil {
			return fmt.Errorf("scan.min_size: %w", err)
		}
	}
	if err := ValidateHashWorkers(all.Scan.Workers); err != nil {
		return err
	}
	if err := ValidateSymlinkMode(all.Symlink.Mode); err != nil {
		return err
	}
	if err := ValidateOutputFormat(all.Output.Format); err != nil {
		return err
	}
	if err := ValidateVerboseLevel(all.Verbose.Level); err != nil {
		return err
	}
	return nil
}

// validateTyped rejects boolean and integer keys whose value does not parse
func (c *Config) validateTyped() error {
	for _, key := range [][2]string{{"delete", "dry_run"}, {"delete", "confirm"}} {
		if !c.ini.Section(key[0]).HasKey(key[1]) {
			continue
		}
		if _, err := c.ini.Section(key[0]).Key(key[1]).Bool(); err != nil {
			return fmt.Errorf("%s.%s: invalid boolean value %q", key[0], key[1], c.ini.Section(key[0]).Key(key[1]).String())
		}
	}

	for _, key := range [][2]string{{"scan", "workers"}, {"output", "progress_interval"}, {"verbose", "level"}} {
		if !c.ini.Section(key[0]).HasKey(key[1]) {
			continue
		}
		value, err := c.ini.Section(key[0]).Key(key[1]).Int()
		if err != nil {
			return fmt.Errorf("%s.%s: invalid integer value %q", key[0], key[1], c.ini.Section(key[0]).Key(key[1]).String())
		}
		if key[1] == "progress_interval" && value < 1 {
			return fmt.Errorf("output.progress_interval must be at least 1, got: %d", value)
		}
	}

	return nil
}

// ResolverOptions builds resolver options from the configuration
func (c *Config) ResolverOptions() (ResolverOptions, error) {
	if err := c.Validate(); err != nil {
		return ResolverOptions{}, err
	}
	all := c.GetAllConfig()

	algorithm, err := GetHashAlgorithm(all.Hash.Default)
	if err != nil {
		return ResolverOptions{}, err
	}

	return ResolverOptions{
		Algorithm:        algorithm,
		PrefixSize:       all.Hash.PrefixSize,
		ChunkSize:        all.Hash.ChunkSize,
		MinSize:          all.Scan.MinSize,
		Workers:          all.Scan.Workers,
		SymlinkMode:      all.Symlink.Mode,
		DryRun:           all.Delete.DryRun,
		ProgressInterval: all.Output.ProgressInterval,
	}, nil
}

func supportedOverrideKeys() string {
	return "hash, prefix_size, chunk_size, min_size, workers, mode, format, progress, level, debug, dry_run, confirm"
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, ok := HashTypeFromName(algorithm); !ok {
		return fmt.Errorf("unsupported hash algorithm: %s (supported: sha1, sha256, sha512)", algorithm)
	}
	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatHuman, FormatJSON, FormatYAML, FormatFdupes:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json, yaml, fdupes)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateSymlinkMode validates that a symlink mode is supported
func ValidateSymlinkMode(mode string) error {
	switch strings.ToLower(mode) {
	case SymlinkModeNone, SymlinkModeContained, SymlinkModeAll:
		return nil
	default:
		return fmt.Errorf("unsupported symlink mode: %s (supported: none, contained, all)", mode)
	}
}

// ValidateHashWorkers validates that the hash worker count is reasonable
func ValidateHashWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("hash workers must be at least 1, got: %d", workers)
	}
	if workers > 64 {
		return fmt.Errorf("hash workers should not exceed 64, got: %d", workers)
	}
	return nil
}

// ValidateSize validates a human size string such as "1K" or "4096"
func ValidateSize(sizeStr string, allowZero bool) error {
	size, err := ParseHumanSize(sizeStr)
	if err != nil {
		return err
	}
	if size < 0 || (size == 0 && !allowZero) {
		return fmt.Errorf("size must be positive, got: %s", sizeStr)
	}
	return nil
}

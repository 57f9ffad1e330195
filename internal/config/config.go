package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the monsterid configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the monsterid configuration directory
const ConfigDirName = ".monsterid"

// Config holds all monsterid configuration
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Query   QueryConfig   `yaml:"query"`
	Search  SearchConfig  `yaml:"search"`
	Output  OutputConfig  `yaml:"output"`
}

// CatalogConfig says where the monster and group tables come from
type CatalogConfig struct {
	Source       string `yaml:"source"`        // json, sqlite or dolt
	Dir          string `yaml:"dir"`           // directory holding the JSON files
	MonstersFile string `yaml:"monsters_file"` // relative to Dir
	GroupsFile   string `yaml:"groups_file"`   // relative to Dir
	DBDir        string `yaml:"db_dir"`        // directory for the sqlite or dolt store
}

// QueryConfig holds defaults for parsing encounter input
type QueryConfig struct {
	DefaultPartySize int `yaml:"default_party_size"`
}

// SearchConfig holds identification search options
type SearchConfig struct {
	SplitGroups bool `yaml:"split_groups"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format string `yaml:"format"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .monsterid/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		// No config dir found, return defaults
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .monsterid directory by walking up from startDir.
// Returns the path to the .monsterid directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root, config not found
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .monsterid directory if it doesn't exist.
// Returns the path to the .monsterid directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if !isOneOf(cfg.Catalog.Source, ValidSources) {
		return fmt.Errorf("%w: catalog.source must be one of %v, got %q",
			ErrInvalidConfig, ValidSources, cfg.Catalog.Source)
	}

	if cfg.Catalog.MonstersFile == cfg.Catalog.GroupsFile {
		return fmt.Errorf("%w: catalog.monsters_file and catalog.groups_file must differ, both are %q",
			ErrInvalidConfig, cfg.Catalog.MonstersFile)
	}

	// A party has one to six characters
	if cfg.Query.DefaultPartySize < 1 || cfg.Query.DefaultPartySize > MaxPartySize {
		return fmt.Errorf("%w: query.default_party_size must be between 1 and %d, got %d",
			ErrInvalidConfig, MaxPartySize, cfg.Query.DefaultPartySize)
	}

	if !isOneOf(cfg.Output.Format, ValidFormats) {
		return fmt.Errorf("%w: output.format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.Format)
	}

	return nil
}

// SaveDefault writes the default configuration to .monsterid/config.yaml in
// workDir. Creates the .monsterid directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# monsterid configuration\n# catalog.source: json | sqlite | dolt, output.format: text | yaml | json\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}

// DBPath resolves Catalog.DBDir against workDir.
func (c *Config) DBPath(workDir string) string {
	if filepath.IsAbs(c.Catalog.DBDir) {
		return c.Catalog.DBDir
	}
	return filepath.Join(workDir, c.Catalog.DBDir)
}

package config

// MaxPartySize is the largest party the game allows.
const MaxPartySize = 6

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Source:       "json",
			Dir:          ".",
			MonstersFile: "monsters.json",
			GroupsFile:   "unidentified_groups.json",
			DBDir:        ConfigDirName,
		},
		Query: QueryConfig{
			DefaultPartySize: MaxPartySize,
		},
		Search: SearchConfig{
			SplitGroups: false,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Catalog = mergeCatalogConfig(loaded.Catalog, defaults.Catalog)

	// DefaultPartySize: use loaded if non-zero
	if loaded.Query.DefaultPartySize != 0 {
		result.Query.DefaultPartySize = loaded.Query.DefaultPartySize
	} else {
		result.Query.DefaultPartySize = defaults.Query.DefaultPartySize
	}

	// Bool can't distinguish unset from false, and the default is false
	result.Search.SplitGroups = loaded.Search.SplitGroups

	result.Output.Format = firstNonEmpty(loaded.Output.Format, defaults.Output.Format)

	return result
}

func mergeCatalogConfig(loaded, defaults CatalogConfig) CatalogConfig {
	return CatalogConfig{
		Source:       firstNonEmpty(loaded.Source, defaults.Source),
		Dir:          firstNonEmpty(loaded.Dir, defaults.Dir),
		MonstersFile: firstNonEmpty(loaded.MonstersFile, defaults.MonstersFile),
		GroupsFile:   firstNonEmpty(loaded.GroupsFile, defaults.GroupsFile),
		DBDir:        firstNonEmpty(loaded.DBDir, defaults.DBDir),
	}
}

func firstNonEmpty(loaded, fallback string) string {
	if loaded != "" {
		return loaded
	}
	return fallback
}

// ValidSources lists the valid values for catalog.source
var ValidSources = []string{"json", "sqlite", "dolt"}

// ValidFormats lists the valid values for output.format
var ValidFormats = []string{"text", "yaml", "json"}

func isOneOf(v string, valid []string) bool {
	for _, s := range valid {
		if v == s {
			return true
		}
	}
	return false
}

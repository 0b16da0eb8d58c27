package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// TomlFeed represents feed configuration
type TomlFeed struct {
	Id                 string   `toml:"id"`
	DisplayName        string   `toml:"display_name"`
	Description        string   `toml:"description"`
	Languages          []string `toml:"languages,omitempty"`
	PublicOnly         bool     `toml:"public_only,omitempty"`
	WindowSize         int      `toml:"window_size,omitempty"`
	MaxPerAuthor       int      `toml:"max_per_author,omitempty"`
	MaxSameTypeRun     int      `toml:"max_same_type_run,omitempty"`
	DiscoveryPositions []int    `toml:"discovery_positions,omitempty"`
	InjectDiscovery    bool     `toml:"inject_discovery,omitempty"`
}

// TomlIngest holds ingest pipeline configuration
type TomlIngest struct {
	RunLanguageDetection bool     `toml:"run_language_detection"`
	ConfidenceThreshold  float64  `toml:"confidence_threshold"`
	Languages            []string `toml:"languages,omitempty"`
	MinWords             int      `toml:"min_words,omitempty"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Ingest TomlIngest `toml:"ingest"`
	Feeds  []TomlFeed `toml:"feeds"`
}

func LoadConfig(path string) (*TomlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config TomlConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &config, nil
}

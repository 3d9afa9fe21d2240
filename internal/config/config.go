package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/mediainfo"
)

// DefaultDescriptionTemplate is the upload description used when none is
// configured.
const DefaultDescriptionTemplate = `{title} ({year})

{plot}

Genres : {genres}
Note : {rating}

Source : {source} | Format : {format} | Codec : {codec} | Audio : {audio} | Langue : {lang} | {standard}
Release : {release}`

// Config holds the user settings of rlz-tidy.
type Config struct {
	DescriptionTemplate string `json:"description_template"`
	DictionaryPath      string `json:"dictionary_path"`
	LogRetentionDays    int    `json:"log_retention_days"`
	EnableLogging       bool   `json:"enable_logging"`
	LogLevel            string `json:"log_level"`

	// OMDb integration settings
	OMDBAPIKey       string `json:"omdb_api_key"`
	EnableOMDBLookup bool   `json:"enable_omdb_lookup"`
	OMDBPlot         string `json:"omdb_plot"`

	// Template resolver for dynamic variable resolution
	resolver *TemplateResolver
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DescriptionTemplate: DefaultDescriptionTemplate,
		DictionaryPath:      "",
		LogRetentionDays:    30,
		EnableLogging:       true,
		LogLevel:            "info",
		OMDBAPIKey:          "",
		EnableOMDBLookup:    false,
		OMDBPlot:            "full",
		resolver:            NewTemplateResolver(),
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".rlz-tidy", "config.json"), nil
}

// Load reads the configuration from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in any missing fields with defaults
	defaults := DefaultConfig()
	if cfg.DescriptionTemplate == "" {
		cfg.DescriptionTemplate = defaults.DescriptionTemplate
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.OMDBPlot == "" {
		cfg.OMDBPlot = defaults.OMDBPlot
	}

	// Initialize the template resolver
	cfg.resolver = NewTemplateResolver()

	return &cfg, nil
}

// NeedsMetadata checks if the description template uses variables that only
// an enricher can fill
func (cfg *Config) NeedsMetadata() bool {
	metadataVarPattern := `\{(?:plot|genres|rating|rating_count|poster)\}`
	re := regexp.MustCompile(metadataVarPattern)
	return re.MatchString(cfg.DescriptionTemplate)
}

// Save writes the configuration to disk
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Dictionary returns the MediaInfo dictionary to parse reports with: the
// configured file, or the embedded one.
func (cfg *Config) Dictionary() (*mediainfo.Dictionary, error) {
	if cfg.DictionaryPath == "" {
		return mediainfo.DefaultDictionary(), nil
	}
	return mediainfo.LoadDictionaryFile(cfg.DictionaryPath)
}

// RenderDescription applies the description template to rec.
func (cfg *Config) RenderDescription(rec *media.Record) (string, error) {
	// Ensure resolver is initialized
	if cfg.resolver == nil {
		cfg.resolver = NewTemplateResolver()
	}
	return cfg.resolver.Render(cfg.DescriptionTemplate, rec)
}

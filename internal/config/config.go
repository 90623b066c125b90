package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the workspace configuration file.
const FileName = "settled.yaml"

// Config represents the top-level settled.yaml configuration.
type Config struct {
	Business  BusinessConfig  `yaml:"business"`
	Extractor ExtractorConfig `yaml:"extractor"`
	API       APIConfig       `yaml:"api"`
	Vision    VisionConfig    `yaml:"vision"`
	Git       GitConfig       `yaml:"git"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// BusinessConfig identifies the invoice issuer.
type BusinessConfig struct {
	Name string `yaml:"name"`
	// IssuerAliases are fragments of the issuer's own name that the
	// recipient scan must skip (the letterhead problem).
	IssuerAliases []string `yaml:"issuer_aliases,omitempty"`
}

// ExtractorConfig overrides the built-in extraction heuristics.
type ExtractorConfig struct {
	CompanyKeywords []string `yaml:"company_keywords,omitempty"`
}

// APIConfig points at the invoice-flow service.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// KeyEnv names the environment variable holding the API key; the
	// key itself never lives in the workspace.
	KeyEnv string `yaml:"key_env"`
}

// VisionConfig controls OCR for scanned images.
type VisionConfig struct {
	Enabled bool   `yaml:"enabled"`
	KeyEnv  string `yaml:"key_env"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a settled.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// APIKey resolves the API key from the configured environment variable.
func (c *Config) APIKey() (string, error) {
	if c.API.KeyEnv == "" {
		return "", fmt.Errorf("api.key_env is not configured")
	}
	key := os.Getenv(c.API.KeyEnv)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is empty", c.API.KeyEnv)
	}
	return key, nil
}

// VisionKey resolves the Vision API key, or "" when OCR is disabled.
func (c *Config) VisionKey() string {
	if !c.Vision.Enabled || c.Vision.KeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Vision.KeyEnv)
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
		},
		API: APIConfig{
			KeyEnv: "SETTLED_API_KEY",
		},
		Vision: VisionConfig{
			Enabled: false,
			KeyEnv:  "GOOGLE_CLOUD_API_KEY",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Settled",
			AuthorEmail: "bot@settled.dev",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

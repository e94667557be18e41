package common

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config - main configuration structure
type Config struct {
	Mode        string          `yaml:"mode"`
	URL         string          `yaml:"url"`       // Search engine base URL
	IndexName   string          `yaml:"indexName"` // Instrument index name
	Verbose     bool            `yaml:"verbose"`
	Metrics     bool            `yaml:"metrics"`                // Whether Prometheus metrics are enabled
	MetricsPort int             `yaml:"metrics_port,omitempty"` // Port for metrics (if not specified, 9090 is used)
	Generator   GeneratorConfig `yaml:"generator"`
	Loader      LoaderConfig    `yaml:"loader"`
	Updater     UpdaterConfig   `yaml:"updater"`
	Searcher    SearcherConfig  `yaml:"searcher"`
	Analyzer    AnalyzerConfig  `yaml:"analyzer"`
}

// GeneratorConfig - synthetic data generator configuration
type GeneratorConfig struct {
	InstrumentCount int    `yaml:"instrumentCount"` // Number of instruments to generate
	OutputFile      string `yaml:"outputFile"`      // Instrument CSV destination
}

// LoaderConfig - bulk loader configuration
type LoaderConfig struct {
	InputFile string `yaml:"inputFile"` // Instrument CSV source
	BatchSize int    `yaml:"batchSize"` // Documents per bulk request
}

// UpdaterConfig - price updater loop configuration
type UpdaterConfig struct {
	BatchSize         int    `yaml:"batchSize"`         // Updates per bulk request
	PauseSeconds      int    `yaml:"pauseSeconds"`      // Pause between iterations
	RetryDelaySeconds int    `yaml:"retryDelaySeconds"` // Backoff after an iteration error
	MetricsFile       string `yaml:"metricsFile"`       // Update metrics CSV path
	TimeoutMs         int    `yaml:"timeoutMs"`         // Per-request timeout in milliseconds
}

// SearcherConfig - search workload loop configuration
type SearcherConfig struct {
	PauseSeconds      int    `yaml:"pauseSeconds"`      // Pause between searches
	RetryDelaySeconds int    `yaml:"retryDelaySeconds"` // Backoff after a loop error
	MetricsFile       string `yaml:"metricsFile"`       // Search metrics CSV path
	SampleSize        int    `yaml:"sampleSize"`        // Sample prices kept per search
	TimeoutMs         int    `yaml:"timeoutMs"`         // Per-request timeout in milliseconds
}

// AnalyzerConfig - offline correlation analyzer configuration
type AnalyzerConfig struct {
	UpdateMetricsFile string `yaml:"updateMetricsFile"`
	SearchMetricsFile string `yaml:"searchMetricsFile"`
}

// DefaultConfig returns the configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Mode:        "searcher",
		URL:         "http://localhost:9200",
		IndexName:   "instruments",
		Metrics:     false,
		MetricsPort: 9090,
		Generator: GeneratorConfig{
			InstrumentCount: 50000,
			OutputFile:      "instruments_test_data.csv",
		},
		Loader: LoaderConfig{
			InputFile: "instruments_test_data.csv",
			BatchSize: 1000,
		},
		Updater: UpdaterConfig{
			BatchSize:         1000,
			PauseSeconds:      2,
			RetryDelaySeconds: 5,
			MetricsFile:       "price_update_metrics.csv",
			TimeoutMs:         30000,
		},
		Searcher: SearcherConfig{
			PauseSeconds:      1,
			RetryDelaySeconds: 2,
			MetricsFile:       "search_performance_metrics.csv",
			SampleSize:        5,
			TimeoutMs:         10000,
		},
		Analyzer: AnalyzerConfig{
			UpdateMetricsFile: "price_update_metrics.csv",
			SearchMetricsFile: "search_performance_metrics.csv",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration file: %v", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %v", err)
	}

	// Set default metrics port if not specified
	if config.Metrics && config.MetricsPort == 0 {
		config.MetricsPort = 9090
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing YAML: %v", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("error writing configuration file: %v", err)
	}

	return nil
}

// Pause returns the inter-iteration pause in time.Duration format
func (u *UpdaterConfig) Pause() time.Duration {
	return time.Duration(u.PauseSeconds) * time.Second
}

// RetryDelay returns the error backoff delay in time.Duration format
func (u *UpdaterConfig) RetryDelay() time.Duration {
	return time.Duration(u.RetryDelaySeconds) * time.Second
}

// Timeout returns the per-request timeout in time.Duration format
func (u *UpdaterConfig) Timeout() time.Duration {
	if u.TimeoutMs <= 0 {
		return 30 * time.Second // Default 30 seconds
	}
	return time.Duration(u.TimeoutMs) * time.Millisecond
}

// Pause returns the inter-search pause in time.Duration format
func (s *SearcherConfig) Pause() time.Duration {
	return time.Duration(s.PauseSeconds) * time.Second
}

// RetryDelay returns the error backoff delay in time.Duration format
func (s *SearcherConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// Timeout returns the per-request timeout in time.Duration format
func (s *SearcherConfig) Timeout() time.Duration {
	if s.TimeoutMs <= 0 {
		return 10 * time.Second // Default 10 seconds
	}
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// validateConfig validates the configuration for correctness
func validateConfig(config *Config) error {
	// Validate operation mode
	validModes := map[string]bool{
		"create-index": true,
		"delete-index": true,
		"generate":     true,
		"load":         true,
		"updater":      true,
		"searcher":     true,
		"analyze":      true,
	}
	if config.Mode != "" && !validModes[config.Mode] {
		return fmt.Errorf("invalid mode '%s', must be one of: create-index, delete-index, generate, load, updater, searcher, analyze", config.Mode)
	}

	if config.URL == "" {
		return fmt.Errorf("search engine URL is not specified")
	}
	if config.IndexName == "" {
		return fmt.Errorf("index name is not specified")
	}

	// Validate metrics port
	if config.MetricsPort < 1 || config.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d, must be between 1-65535", config.MetricsPort)
	}

	if err := validateGeneratorConfig(&config.Generator); err != nil {
		return fmt.Errorf("generator config error: %v", err)
	}
	if err := validateLoaderConfig(&config.Loader); err != nil {
		return fmt.Errorf("loader config error: %v", err)
	}
	if err := validateUpdaterConfig(&config.Updater); err != nil {
		return fmt.Errorf("updater config error: %v", err)
	}
	if err := validateSearcherConfig(&config.Searcher); err != nil {
		return fmt.Errorf("searcher config error: %v", err)
	}

	return nil
}

// validateGeneratorConfig validates generator-specific configuration
func validateGeneratorConfig(config *GeneratorConfig) error {
	if config.InstrumentCount <= 0 {
		return fmt.Errorf("instrumentCount must be positive: %d", config.InstrumentCount)
	}
	if config.OutputFile == "" {
		return fmt.Errorf("outputFile is not specified")
	}
	return nil
}

// validateLoaderConfig validates loader-specific configuration
func validateLoaderConfig(config *LoaderConfig) error {
	if config.InputFile == "" {
		return fmt.Errorf("inputFile is not specified")
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batchSize must be positive: %d", config.BatchSize)
	}
	if config.BatchSize > 10000 {
		return fmt.Errorf("batchSize too high: %d, maximum recommended is 10000", config.BatchSize)
	}
	return nil
}

// validateUpdaterConfig validates updater-specific configuration
func validateUpdaterConfig(config *UpdaterConfig) error {
	if config.BatchSize <= 0 {
		return fmt.Errorf("batchSize must be positive: %d", config.BatchSize)
	}
	if config.PauseSeconds < 0 {
		return fmt.Errorf("pauseSeconds cannot be negative: %d", config.PauseSeconds)
	}
	if config.RetryDelaySeconds < 0 {
		return fmt.Errorf("retryDelaySeconds cannot be negative: %d", config.RetryDelaySeconds)
	}
	if config.MetricsFile == "" {
		return fmt.Errorf("metricsFile is not specified")
	}
	return nil
}

// validateSearcherConfig validates searcher-specific configuration
func validateSearcherConfig(config *SearcherConfig) error {
	if config.PauseSeconds < 0 {
		return fmt.Errorf("pauseSeconds cannot be negative: %d", config.PauseSeconds)
	}
	if config.RetryDelaySeconds < 0 {
		return fmt.Errorf("retryDelaySeconds cannot be negative: %d", config.RetryDelaySeconds)
	}
	if config.MetricsFile == "" {
		return fmt.Errorf("metricsFile is not specified")
	}
	if config.SampleSize < 0 {
		return fmt.Errorf("sampleSize cannot be negative: %d", config.SampleSize)
	}
	return nil
}

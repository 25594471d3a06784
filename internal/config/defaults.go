package config

import "time"

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Agent AgentConfig `json:"agent"`
	Tools ToolsConfig `json:"tools"`
}

// AgentConfig bounds the orchestration loop and its provider calls.
type AgentConfig struct {
	Model           string  `json:"model"`             // Default: "gemini-2.5-flash"
	Temperature     float32 `json:"temperature"`       // Default: 0.2
	MaxOutputTokens int32   `json:"max_output_tokens"` // Default: 8192

	MaxIterations int `json:"max_iterations"` // Default: 20

	MaxRetries         int     `json:"max_retries"`           // Default: 3
	RetryBaseDelaySecs float64 `json:"retry_base_delay_secs"` // Default: 1.0

	// Sliding-window admission budgets. Provider and tool budgets are
	// independent so a provider backoff never starves local tool work.
	APIRateMaxCalls    int     `json:"api_rate_max_calls"`    // Default: 10
	APIRatePeriodSecs  float64 `json:"api_rate_period_secs"`  // Default: 60
	ToolRateMaxCalls   int     `json:"tool_rate_max_calls"`   // Default: 30
	ToolRatePeriodSecs float64 `json:"tool_rate_period_secs"` // Default: 60
}

// ToolsConfig bounds every sandboxed tool operation.
type ToolsConfig struct {
	// File Operations
	MaxReadSize      int64 `json:"max_read_size"`      // Default: 100 * 1024 (100KiB)
	MaxWriteSize     int64 `json:"max_write_size"`     // Default: 1024 * 1024 (1MiB)
	DefaultReadChars int   `json:"default_read_chars"` // Default: 10000

	// Search
	MaxSearchFileSize    int64 `json:"max_search_file_size"`   // Default: 1024 * 1024 (1MiB)
	MaxFilesPerSearch    int   `json:"max_files_per_search"`   // Default: 1000
	MaxSearchResults     int   `json:"max_search_results"`     // Default: 100
	DefaultSearchResults int   `json:"default_search_results"` // Default: 50

	// Binary detection
	BinaryDetectionSampleSize int `json:"binary_detection_sample_size"` // Default: 1024

	// Git
	GitTimeoutSecs         int   `json:"git_timeout_secs"`           // Default: 30
	MaxCommitMessageLength int   `json:"max_commit_message_length"`  // Default: 500
	SecretScanMaxFileSize  int64 `json:"secret_scan_max_file_size"`  // Default: 100 * 1024

	// Error folding
	MaxErrorDetailLength int `json:"max_error_detail_length"` // Default: 500
}

// GitTimeout returns the per-subprocess wall clock timeout.
func (c *ToolsConfig) GitTimeout() time.Duration {
	return time.Duration(c.GitTimeoutSecs) * time.Second
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Model:              "gemini-2.5-flash",
			Temperature:        0.2,
			MaxOutputTokens:    8192,
			MaxIterations:      20,
			MaxRetries:         3,
			RetryBaseDelaySecs: 1.0,
			APIRateMaxCalls:    10,
			APIRatePeriodSecs:  60,
			ToolRateMaxCalls:   30,
			ToolRatePeriodSecs: 60,
		},
		Tools: ToolsConfig{
			MaxReadSize:               100 * 1024,
			MaxWriteSize:              1024 * 1024,
			DefaultReadChars:          10000,
			MaxSearchFileSize:         1024 * 1024,
			MaxFilesPerSearch:         1000,
			MaxSearchResults:          100,
			DefaultSearchResults:      50,
			BinaryDetectionSampleSize: 1024,
			GitTimeoutSecs:            30,
			MaxCommitMessageLength:    500,
			SecretScanMaxFileSize:     100 * 1024,
			MaxErrorDetailLength:      500,
		},
	}
}

package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Agent validation
	if c.Agent.Model == "" {
		errs = append(errs, "agent.model must not be empty")
	}
	if c.Agent.MaxOutputTokens < 1 {
		errs = append(errs, "agent.max_output_tokens must be >= 1")
	}
	if c.Agent.MaxIterations < 1 {
		errs = append(errs, "agent.max_iterations must be >= 1")
	}
	if c.Agent.MaxRetries < 1 {
		errs = append(errs, "agent.max_retries must be >= 1")
	}
	if c.Agent.RetryBaseDelaySecs <= 0 {
		errs = append(errs, "agent.retry_base_delay_secs must be > 0")
	}
	if c.Agent.APIRateMaxCalls < 1 {
		errs = append(errs, "agent.api_rate_max_calls must be >= 1")
	}
	if c.Agent.APIRatePeriodSecs <= 0 {
		errs = append(errs, "agent.api_rate_period_secs must be > 0")
	}
	if c.Agent.ToolRateMaxCalls < 1 {
		errs = append(errs, "agent.tool_rate_max_calls must be >= 1")
	}
	if c.Agent.ToolRatePeriodSecs <= 0 {
		errs = append(errs, "agent.tool_rate_period_secs must be > 0")
	}

	// Tools validation
	if c.Tools.MaxReadSize < 1 {
		errs = append(errs, "tools.max_read_size must be >= 1")
	}
	if c.Tools.MaxWriteSize < 1 {
		errs = append(errs, "tools.max_write_size must be >= 1")
	}
	if c.Tools.DefaultReadChars < 1 {
		errs = append(errs, "tools.default_read_chars must be >= 1")
	}
	if c.Tools.MaxSearchFileSize < 1 {
		errs = append(errs, "tools.max_search_file_size must be >= 1")
	}
	if c.Tools.MaxFilesPerSearch < 1 {
		errs = append(errs, "tools.max_files_per_search must be >= 1")
	}
	if c.Tools.MaxSearchResults < 1 {
		errs = append(errs, "tools.max_search_results must be >= 1")
	}
	if c.Tools.DefaultSearchResults < 1 {
		errs = append(errs, "tools.default_search_results must be >= 1")
	}
	if c.Tools.BinaryDetectionSampleSize < 1 {
		errs = append(errs, "tools.binary_detection_sample_size must be >= 1")
	}
	if c.Tools.GitTimeoutSecs < 1 {
		errs = append(errs, "tools.git_timeout_secs must be >= 1")
	}
	if c.Tools.MaxCommitMessageLength < 1 {
		errs = append(errs, "tools.max_commit_message_length must be >= 1")
	}
	if c.Tools.SecretScanMaxFileSize < 1 {
		errs = append(errs, "tools.secret_scan_max_file_size must be >= 1")
	}
	if c.Tools.MaxErrorDetailLength < 1 {
		errs = append(errs, "tools.max_error_detail_length must be >= 1")
	}

	// Semantic validation: Default <= Max constraints
	if c.Tools.DefaultSearchResults > c.Tools.MaxSearchResults {
		errs = append(errs, "tools.default_search_results must be <= tools.max_search_results")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}

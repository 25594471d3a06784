package search

import (
	"strings"

	"github.com/Cyclone1070/devagent/internal/tool/errutil"
)

type SearchFilesRequest struct {
	Pattern        string   `json:"pattern" mapstructure:"pattern"`
	FileExtensions []string `json:"file_extensions,omitempty" mapstructure:"file_extensions"`
	CaseSensitive  bool     `json:"case_sensitive,omitempty" mapstructure:"case_sensitive"`
	MaxResults     int      `json:"max_results,omitempty" mapstructure:"max_results"`
}

func (r *SearchFilesRequest) Validate() error {
	if strings.TrimSpace(r.Pattern) == "" {
		return errutil.New(errutil.CodeInvalidRegex, "Search pattern cannot be empty").
			WithSuggestions("Provide a non-empty search pattern")
	}
	if r.MaxResults < 0 {
		return errutil.New(errutil.CodeInvalidRegex, "max_results must be >= 0").
			WithContext("max_results", r.MaxResults)
	}
	return nil
}

// Match is one matching line, reported workspace-relative.
type Match struct {
	File        string `json:"file"`
	LineNumber  int    `json:"line_number"`
	LineContent string `json:"line_content"`
}

type SearchFilesResponse struct {
	Pattern      string   `json:"pattern"`
	Matches      []Match  `json:"matches"`
	FilesScanned int      `json:"files_scanned"`
	Truncated    bool     `json:"truncated,omitempty"`
	Notes        []string `json:"notes,omitempty"`
}

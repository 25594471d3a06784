package file

import (
	"github.com/Cyclone1070/devagent/internal/tool/errutil"
)

// -- Read File --

type ReadFileRequest struct {
	Path     string `json:"path" mapstructure:"path"`
	MaxChars int    `json:"max_chars,omitempty" mapstructure:"max_chars"`
}

func (r *ReadFileRequest) Validate() error {
	if r.Path == "" {
		return errutil.New(errutil.CodeInvalidPath, "path is required").
			WithSuggestions("Provide a path relative to the workspace root")
	}
	if r.MaxChars < 0 {
		return errutil.New(errutil.CodeInvalidPath, "max_chars must be >= 0").
			WithContext("max_chars", r.MaxChars)
	}
	return nil
}

type ReadFileResponse struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	Size      int64  `json:"size"`
	Truncated bool   `json:"truncated,omitempty"`
}

// -- Write File --

type WriteFileRequest struct {
	Path    string `json:"path" mapstructure:"path"`
	Content string `json:"content" mapstructure:"content"`
}

func (r *WriteFileRequest) Validate() error {
	if r.Path == "" {
		return errutil.New(errutil.CodeInvalidPath, "path is required").
			WithSuggestions("Provide a path relative to the workspace root")
	}
	return nil
}

type WriteFileResponse struct {
	Path         string `json:"path"`
	BytesWritten int    `json:"bytes_written"`
	Message      string `json:"message"`
}

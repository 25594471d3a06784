package directory

import (
	"github.com/Cyclone1070/devagent/internal/tool/errutil"
)

// -- List Files --

type ListFilesRequest struct {
	Directory string `json:"directory,omitempty" mapstructure:"directory"`
}

func (r *ListFilesRequest) Validate() error {
	return nil // empty directory defaults to the workspace root
}

// Entry describes one directory entry.
type Entry struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	IsDir bool   `json:"is_dir"`
}

type ListFilesResponse struct {
	Directory string  `json:"directory"`
	Entries   []Entry `json:"entries"`
}

// -- Create Directory --

type CreateDirectoryRequest struct {
	Path      string `json:"path" mapstructure:"path"`
	Recursive *bool  `json:"recursive,omitempty" mapstructure:"recursive"`
}

func (r *CreateDirectoryRequest) Validate() error {
	if r.Path == "" {
		return errutil.New(errutil.CodeInvalidPath, "path is required").
			WithSuggestions("Provide a path relative to the workspace root")
	}
	return nil
}

// IsRecursive reports the recursive flag, defaulting to true.
func (r *CreateDirectoryRequest) IsRecursive() bool {
	if r.Recursive == nil {
		return true
	}
	return *r.Recursive
}

type CreateDirectoryResponse struct {
	Path          string `json:"path"`
	Created       bool   `json:"created"`
	AlreadyExists bool   `json:"already_exists,omitempty"`
	Message       string `json:"message"`
}

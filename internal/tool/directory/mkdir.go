package directory

import (
	"context"
	"fmt"
	"os"

	"github.com/Cyclone1070/devagent/internal/config"
	"github.com/Cyclone1070/devagent/internal/tool/errutil"
	"github.com/Cyclone1070/devagent/internal/tool/pathutil"
)

// CreateDirectoryTool handles directory creation operations.
type CreateDirectoryTool struct {
	fs            fileSystem
	config        *config.Config
	workspaceRoot string
}

// NewCreateDirectoryTool creates a new CreateDirectoryTool with injected dependencies.
func NewCreateDirectoryTool(fs fileSystem, cfg *config.Config, workspaceRoot string) *CreateDirectoryTool {
	return &CreateDirectoryTool{
		fs:            fs,
		config:        cfg,
		workspaceRoot: workspaceRoot,
	}
}

// Run creates a directory within the workspace. Creating a directory that
// already exists is a no-op success, not an error.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *CreateDirectoryTool) Run(ctx context.Context, req *CreateDirectoryRequest) (*CreateDirectoryResponse, error) {
	abs, rel, err := pathutil.Resolve(t.workspaceRoot, t.fs, req.Path)
	if err != nil {
		return nil, mapResolveError(req.Path, t.workspaceRoot, err)
	}

	if info, err := t.fs.Stat(abs); err == nil {
		if info.IsDir() {
			return &CreateDirectoryResponse{
				Path:          rel,
				Created:       false,
				AlreadyExists: true,
				Message:       fmt.Sprintf("Directory '%s' already exists", req.Path),
			}, nil
		}
		return nil, errutil.New(errutil.CodeInvalidPath,
			fmt.Sprintf("'%s' exists but is not a directory", req.Path)).
			WithContext("path_type", "file")
	}

	if req.IsRecursive() {
		err = t.fs.EnsureDirs(abs)
	} else {
		err = t.fs.Mkdir(abs)
	}
	if err != nil {
		if os.IsPermission(err) {
			return nil, errutil.New(errutil.CodePermissionDenied,
				fmt.Sprintf("Permission denied creating '%s'", req.Path)).
				WithContext("target_path", abs)
		}
		return nil, errutil.New(errutil.CodeInvalidPath,
			fmt.Sprintf("Failed to create directory '%s': %v", req.Path, err)).
			WithSuggestions("Set recursive=true to create missing parents").
			WithContext("target_path", abs)
	}

	return &CreateDirectoryResponse{
		Path:    rel,
		Created: true,
		Message: fmt.Sprintf("Successfully created directory '%s'", req.Path),
	}, nil
}

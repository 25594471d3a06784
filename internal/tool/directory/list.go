// Package directory implements the list_files and create_directory operations
// against the sandboxed workspace.
package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/Cyclone1070/devagent/internal/config"
	"github.com/Cyclone1070/devagent/internal/tool/errutil"
	"github.com/Cyclone1070/devagent/internal/tool/pathutil"
)

// fileSystem defines the minimal filesystem operations needed for directory tools.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
	ListDir(path string) ([]os.FileInfo, error)
	EnsureDirs(path string) error
	Mkdir(path string) error
}

// ListFilesTool handles directory listing operations.
type ListFilesTool struct {
	fs            fileSystem
	config        *config.Config
	workspaceRoot string
}

// NewListFilesTool creates a new ListFilesTool with injected dependencies.
func NewListFilesTool(fs fileSystem, cfg *config.Config, workspaceRoot string) *ListFilesTool {
	return &ListFilesTool{
		fs:            fs,
		config:        cfg,
		workspaceRoot: workspaceRoot,
	}
}

// Run lists the immediate contents of a directory within the workspace,
// sorted by name, with size and kind per entry.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *ListFilesTool) Run(ctx context.Context, req *ListFilesRequest) (*ListFilesResponse, error) {
	dir := req.Directory
	if dir == "" {
		dir = "."
	}

	abs, rel, err := pathutil.Resolve(t.workspaceRoot, t.fs, dir)
	if err != nil {
		return nil, mapResolveError(dir, t.workspaceRoot, err)
	}

	info, err := t.fs.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errutil.New(errutil.CodeFileNotFound,
				fmt.Sprintf("Directory '%s' does not exist", dir)).
				WithSuggestions("Use list_files on a parent directory", "Create it first with create_directory").
				WithContext("requested_path", dir)
		}
		return nil, errutil.New(errutil.CodeInvalidPath,
			fmt.Sprintf("Failed to stat '%s': %v", dir, err)).
			WithContext("requested_path", dir)
	}
	if !info.IsDir() {
		return nil, errutil.New(errutil.CodeInvalidPath,
			fmt.Sprintf("'%s' is not a directory", dir)).
			WithContext("path_type", "file")
	}

	infos, err := t.fs.ListDir(abs)
	if err != nil {
		return nil, errutil.New(errutil.CodeInvalidPath,
			fmt.Sprintf("Failed to list '%s': %v", dir, err)).
			WithContext("requested_path", dir)
	}

	entries := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		entries = append(entries, Entry{
			Name:  fi.Name(),
			Size:  fi.Size(),
			IsDir: fi.IsDir(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	if rel == "" {
		rel = "."
	}
	return &ListFilesResponse{
		Directory: rel,
		Entries:   entries,
	}, nil
}

// mapResolveError converts pathutil failures to the structured taxonomy.
func mapResolveError(requested, root string, err error) *errutil.ToolError {
	if errors.Is(err, pathutil.ErrOutsideWorkspace) {
		return errutil.New(errutil.CodePermissionDenied,
			fmt.Sprintf("Path '%s' is outside workspace", requested)).
			WithSuggestions("Use relative paths within the workspace").
			WithContext("requested_path", requested).
			WithContext("workspace_root", root)
	}
	return errutil.New(errutil.CodeInvalidPath,
		fmt.Sprintf("Cannot resolve path '%s': %v", requested, err)).
		WithContext("requested_path", requested)
}

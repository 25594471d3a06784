package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/devagent/internal/config"
	"github.com/Cyclone1070/devagent/internal/tool/errutil"
	"github.com/Cyclone1070/devagent/internal/tool/pathutil"
)

// dangerousExtensions lists executable-style suffixes that are never written.
var dangerousExtensions = map[string]struct{}{
	".exe": {}, ".bat": {}, ".sh": {}, ".cmd": {}, ".scr": {}, ".com": {},
}

// fileWriter defines the minimal filesystem operations needed for writing files.
type fileWriter interface {
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	EnsureDirs(path string) error
}

// writeRecorder records write facts into the session ledger.
type writeRecorder interface {
	AddFileWritten(path string)
}

// WriteFileTool handles file writing operations.
type WriteFileTool struct {
	fs            fileWriter
	session       writeRecorder
	config        *config.Config
	workspaceRoot string
}

// NewWriteFileTool creates a new WriteFileTool with injected dependencies.
func NewWriteFileTool(
	fs fileWriter,
	session writeRecorder,
	cfg *config.Config,
	workspaceRoot string,
) *WriteFileTool {
	return &WriteFileTool{
		fs:            fs,
		session:       session,
		config:        cfg,
		workspaceRoot: workspaceRoot,
	}
}

// Run writes content to a file in the workspace. Oversized content is
// rejected before any filesystem access so a failed write never leaves a
// partial file; executable-style extensions are refused. The write itself
// uses the temp file + rename pattern.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *WriteFileTool) Run(ctx context.Context, req *WriteFileRequest) (*WriteFileResponse, error) {
	maxWrite := t.config.Tools.MaxWriteSize
	if int64(len(req.Content)) > maxWrite {
		return nil, errutil.New(errutil.CodeFileTooLarge,
			fmt.Sprintf("Content too large (%d chars)", len(req.Content))).
			WithSuggestions(
				"Write smaller files",
				"Split content into multiple files",
			).
			WithContext("content_size", len(req.Content)).
			WithContext("limit", maxWrite)
	}

	abs, rel, err := pathutil.Resolve(t.workspaceRoot, t.fs, req.Path)
	if err != nil {
		return nil, mapResolveError(req.Path, t.workspaceRoot, err)
	}

	ext := strings.ToLower(filepath.Ext(abs))
	if _, ok := dangerousExtensions[ext]; ok {
		return nil, errutil.New(errutil.CodePermissionDenied,
			fmt.Sprintf("Cannot write executable file '%s'", req.Path)).
			WithSuggestions("Write text files only").
			WithContext("file_extension", ext)
	}

	if err := t.fs.EnsureDirs(filepath.Dir(abs)); err != nil {
		return nil, errutil.New(errutil.CodePermissionDenied,
			fmt.Sprintf("Failed to create parent directory for '%s'", req.Path)).
			WithSuggestions("Check file permissions", "Try a different location").
			WithContext("target_path", abs)
	}

	if err := t.fs.WriteFileAtomic(abs, []byte(req.Content), 0o644); err != nil {
		if os.IsPermission(err) {
			return nil, errutil.New(errutil.CodePermissionDenied,
				fmt.Sprintf("Permission denied writing to '%s'", req.Path)).
				WithSuggestions("Check file permissions", "Try a different location").
				WithContext("target_path", abs)
		}
		return nil, errutil.New(errutil.CodeInvalidPath,
			fmt.Sprintf("Failed to write '%s': %v", req.Path, err)).
			WithContext("target_path", abs)
	}

	t.session.AddFileWritten(rel)

	return &WriteFileResponse{
		Path:         rel,
		BytesWritten: len(req.Content),
		Message:      fmt.Sprintf("Successfully wrote %d characters to %s", len(req.Content), req.Path),
	}, nil
}

// Package file implements the read_file and write_file operations against the
// sandboxed workspace.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Cyclone1070/devagent/internal/config"
	"github.com/Cyclone1070/devagent/internal/tool/errutil"
	"github.com/Cyclone1070/devagent/internal/tool/pathutil"
)

// fileReader defines the minimal filesystem operations needed for reading files.
type fileReader interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
	ReadFile(path string) ([]byte, error)
}

// binaryDetector classifies content and paths as text vs binary.
type binaryDetector interface {
	IsBinaryContent(content []byte) bool
	IsTextPath(path string) bool
}

// readRecorder records read facts into the session ledger.
type readRecorder interface {
	AddFileRead(path string)
}

// ReadFileTool handles file reading operations.
type ReadFileTool struct {
	fs            fileReader
	detector      binaryDetector
	session       readRecorder
	config        *config.Config
	workspaceRoot string
}

// NewReadFileTool creates a new ReadFileTool with injected dependencies.
func NewReadFileTool(
	fs fileReader,
	detector binaryDetector,
	session readRecorder,
	cfg *config.Config,
	workspaceRoot string,
) *ReadFileTool {
	return &ReadFileTool{
		fs:            fs,
		detector:      detector,
		session:       session,
		config:        cfg,
		workspaceRoot: workspaceRoot,
	}
}

// Run reads a text file from the workspace. It validates the path is within
// workspace boundaries, rejects binary files, enforces the read size limit,
// and truncates output to max_chars with an explicit marker. A truncated read
// still counts as a read in the session ledger.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *ReadFileTool) Run(ctx context.Context, req *ReadFileRequest) (*ReadFileResponse, error) {
	abs, rel, err := pathutil.Resolve(t.workspaceRoot, t.fs, req.Path)
	if err != nil {
		return nil, mapResolveError(req.Path, t.workspaceRoot, err)
	}

	info, err := t.fs.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errutil.New(errutil.CodeFileNotFound,
				fmt.Sprintf("File '%s' does not exist", req.Path)).
				WithSuggestions(
					"Check the file path spelling",
					"Use list_files to see available files",
					"Create the file first with write_file",
				).
				WithContext("requested_path", req.Path)
		}
		return nil, errutil.New(errutil.CodeInvalidPath,
			fmt.Sprintf("Failed to stat '%s': %v", req.Path, err)).
			WithContext("requested_path", req.Path)
	}

	if info.IsDir() {
		return nil, errutil.New(errutil.CodeInvalidPath,
			fmt.Sprintf("'%s' is not a file", req.Path)).
			WithSuggestions("Use list_files to see file types").
			WithContext("path_type", "directory")
	}
	if !info.Mode().IsRegular() {
		return nil, errutil.New(errutil.CodeInvalidPath,
			fmt.Sprintf("'%s' is not a regular file", req.Path)).
			WithContext("path_type", "special")
	}

	maxRead := t.config.Tools.MaxReadSize
	if info.Size() > maxRead {
		return nil, errutil.New(errutil.CodeFileTooLarge,
			fmt.Sprintf("File '%s' is too large to read (%d bytes)", req.Path, info.Size())).
			WithSuggestions(
				fmt.Sprintf("File exceeds %d byte limit", maxRead),
				"Use search_files to find specific content",
			).
			WithContext("file_size", info.Size()).
			WithContext("limit", maxRead)
	}

	if !t.detector.IsTextPath(abs) {
		return nil, notTextError(req.Path)
	}

	data, err := t.fs.ReadFile(abs)
	if err != nil {
		return nil, errutil.New(errutil.CodeInvalidPath,
			fmt.Sprintf("Failed to read '%s': %v", req.Path, err)).
			WithContext("requested_path", req.Path)
	}

	sample := data
	if len(sample) > t.config.Tools.BinaryDetectionSampleSize {
		sample = sample[:t.config.Tools.BinaryDetectionSampleSize]
	}
	if t.detector.IsBinaryContent(sample) {
		return nil, notTextError(req.Path)
	}

	content := string(data)
	maxChars := req.MaxChars
	if maxChars == 0 {
		maxChars = t.config.Tools.DefaultReadChars
	}
	truncated := false
	if len(content) > maxChars {
		content = content[:maxChars] + fmt.Sprintf("\n[... truncated to %d chars]", maxChars)
		truncated = true
	}

	t.session.AddFileRead(rel)

	return &ReadFileResponse{
		Path:      rel,
		Content:   content,
		Size:      info.Size(),
		Truncated: truncated,
	}, nil
}

func notTextError(path string) *errutil.ToolError {
	return errutil.New(errutil.CodeInvalidPath,
		fmt.Sprintf("File '%s' is not a text file", path)).
		WithSuggestions("Only text files can be read").
		WithContext("file_path", path)
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

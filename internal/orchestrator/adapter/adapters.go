package adapter

import (
	provider "github.com/Cyclone1070/devagent/internal/provider/models"
	"github.com/Cyclone1070/devagent/internal/tool/directory"
	"github.com/Cyclone1070/devagent/internal/tool/file"
	"github.com/Cyclone1070/devagent/internal/tool/git"
	"github.com/Cyclone1070/devagent/internal/tool/search"
)

// This file consolidates all tool adapters using the BaseAdapter pattern.
// Each adapter is a constructor binding a schema to a tool method.

// NewReadFile creates a read_file adapter
func NewReadFile(tool *file.ReadFileTool) Tool {
	return NewBaseAdapter(
		"read_file",
		"Reads a text file from the workspace, truncated to max_chars",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"path": {
					Type:        "string",
					Description: "Path to the file (relative to workspace root)",
				},
				"max_chars": {
					Type:        "integer",
					Description: "Maximum number of characters to return",
					Default:     10000,
				},
			},
			Required: []string{"path"},
		},
		tool.Run,
	)
}

// NewWriteFile creates a write_file adapter
func NewWriteFile(tool *file.WriteFileTool) Tool {
	return NewBaseAdapter(
		"write_file",
		"Creates or overwrites a file in the workspace",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"path": {
					Type:        "string",
					Description: "Path to the file (relative to workspace root)",
				},
				"content": {
					Type:        "string",
					Description: "File content",
				},
			},
			Required: []string{"path", "content"},
		},
		tool.Run,
	)
}

// NewListFiles creates a list_files adapter
func NewListFiles(tool *directory.ListFilesTool) Tool {
	return NewBaseAdapter(
		"list_files",
		"Lists the entries of a workspace directory",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"directory": {
					Type:        "string",
					Description: "Directory path (relative to workspace root)",
					Default:     ".",
				},
			},
			Required: []string{},
		},
		tool.Run,
	)
}

// NewCreateDirectory creates a create_directory adapter
func NewCreateDirectory(tool *directory.CreateDirectoryTool) Tool {
	return NewBaseAdapter(
		"create_directory",
		"Creates a directory in the workspace",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"path": {
					Type:        "string",
					Description: "Directory path (relative to workspace root)",
				},
				"recursive": {
					Type:        "boolean",
					Description: "Create missing parent directories",
					Default:     true,
				},
			},
			Required: []string{"path"},
		},
		tool.Run,
	)
}

// NewSearchFiles creates a search_files adapter
func NewSearchFiles(tool *search.SearchFilesTool) Tool {
	return NewBaseAdapter(
		"search_files",
		"Searches workspace text files for a regular expression",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"pattern": {
					Type:        "string",
					Description: "Regular expression to search for",
				},
				"file_extensions": {
					Type:        "array",
					Description: "Restrict the search to these file extensions (e.g. ['.go', '.md'])",
					Items: &provider.PropertySchema{
						Type: "string",
					},
				},
				"case_sensitive": {
					Type:        "boolean",
					Description: "Match case sensitively",
					Default:     false,
				},
				"max_results": {
					Type:        "integer",
					Description: "Maximum number of matches to return",
					Default:     50,
				},
			},
			Required: []string{"pattern"},
		},
		tool.Run,
	)
}

// NewGitStatus creates a git_status adapter
func NewGitStatus(tool *git.Tool) Tool {
	return NewBaseAdapter(
		"git_status",
		"Shows the current branch, modified files and recent commits",
		&provider.ParameterSchema{
			Type:       "object",
			Properties: map[string]provider.PropertySchema{},
			Required:   []string{},
		},
		tool.Status,
	)
}

// NewGitDiff creates a git_diff adapter
func NewGitDiff(tool *git.Tool) Tool {
	return NewBaseAdapter(
		"git_diff",
		"Shows staged and unstaged changes, optionally for one file",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"file_path": {
					Type:        "string",
					Description: "Limit the diff to this file (relative to workspace root)",
				},
			},
			Required: []string{},
		},
		tool.Diff,
	)
}

// NewGitCommit creates a git_commit adapter
func NewGitCommit(tool *git.Tool) Tool {
	return NewBaseAdapter(
		"git_commit",
		"Commits staged changes, optionally staging all modified files first",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"message": {
					Type:        "string",
					Description: "Commit message",
				},
				"add_all": {
					Type:        "boolean",
					Description: "Stage all modified files before committing",
					Default:     false,
				},
			},
			Required: []string{"message"},
		},
		tool.Commit,
	)
}

// Package git implements the git_status, git_diff, and git_commit
// passthroughs. Every subprocess runs under a fixed wall-clock timeout, and
// add_all commits scan the modified set for sensitive names and secret-shaped
// content before anything is staged.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Cyclone1070/devagent/internal/config"
	"github.com/Cyclone1070/devagent/internal/session"
	"github.com/Cyclone1070/devagent/internal/tool/errutil"
	"github.com/Cyclone1070/devagent/internal/tool/executor"
	"github.com/Cyclone1070/devagent/internal/tool/pathutil"
)

// commandRunner defines the minimal subprocess interface needed by the git tool.
type commandRunner interface {
	Run(ctx context.Context, command []string, dir string, timeout time.Duration) (*executor.Result, error)
}

// fileSystem defines the minimal filesystem operations needed for the commit scan.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
	ReadFile(path string) ([]byte, error)
}

// commandRecorder records subprocess facts into the session ledger.
type commandRecorder interface {
	AddCommandRun(record session.CommandRecord)
}

// Tool handles the git passthrough operations.
type Tool struct {
	runner        commandRunner
	fs            fileSystem
	session       commandRecorder
	config        *config.Config
	workspaceRoot string
}

// NewTool creates a git Tool with injected dependencies.
func NewTool(
	runner commandRunner,
	fs fileSystem,
	session commandRecorder,
	cfg *config.Config,
	workspaceRoot string,
) *Tool {
	return &Tool{
		runner:        runner,
		fs:            fs,
		session:       session,
		config:        cfg,
		workspaceRoot: workspaceRoot,
	}
}

func (t *Tool) resolve(path string) (string, string, error) {
	return pathutil.Resolve(t.workspaceRoot, t.fs, path)
}

// git runs one git subcommand under the configured timeout and records it.
func (t *Tool) git(ctx context.Context, args ...string) (*executor.Result, error) {
	command := append([]string{"git"}, args...)
	result, err := t.runner.Run(ctx, command, t.workspaceRoot, t.config.Tools.GitTimeout())

	exitCode := -1
	if result != nil {
		exitCode = result.ExitCode
	}
	t.session.AddCommandRun(session.CommandRecord{Command: command, ExitCode: exitCode})

	if err != nil {
		if errors.Is(err, executor.ErrTimeout) {
			return nil, errutil.New(errutil.CodeGitError,
				fmt.Sprintf("Timeout running git %s", args[0])).
				WithSuggestions("Check git repository status").
				WithContext("timeout_secs", t.config.Tools.GitTimeoutSecs)
		}
		return nil, errutil.New(errutil.CodeSubprocessError,
			fmt.Sprintf("Failed to run git %s: %v", args[0], err)).
			WithSuggestions("Ensure git is installed and on PATH")
	}
	return result, nil
}

// Status reports the current branch, the modified files, and the most recent
// commits.
func (t *Tool) Status(ctx context.Context, req *StatusRequest) (*StatusResponse, error) {
	if result, err := t.git(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, err
	} else if result.ExitCode != 0 {
		return nil, notARepoError(result.Stderr)
	}

	resp := &StatusResponse{}

	if result, err := t.git(ctx, "branch", "--show-current"); err == nil && result.ExitCode == 0 {
		resp.Branch = strings.TrimSpace(result.Stdout)
	}

	result, err := t.git(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	if result.ExitCode == 0 {
		status := strings.TrimSpace(result.Stdout)
		if status == "" {
			resp.Clean = true
		} else {
			resp.ModifiedFiles = strings.Split(status, "\n")
		}
	}

	if result, err := t.git(ctx, "log", "--oneline", "-5"); err == nil && result.ExitCode == 0 {
		log := strings.TrimSpace(result.Stdout)
		if log != "" {
			resp.RecentCommits = strings.Split(log, "\n")
		}
	}

	return resp, nil
}

// Diff reports staged and unstaged changes, optionally limited to one file.
func (t *Tool) Diff(ctx context.Context, req *DiffRequest) (*DiffResponse, error) {
	args := []string{"diff"}
	if req.FilePath != "" {
		if _, _, err := t.resolve(req.FilePath); err != nil {
			return nil, errutil.New(errutil.CodePermissionDenied,
				fmt.Sprintf("Path '%s' is outside workspace", req.FilePath)).
				WithSuggestions("Use relative paths within the workspace").
				WithContext("requested_path", req.FilePath)
		}
		args = append(args, req.FilePath)
	}

	resp := &DiffResponse{}

	staged, err := t.git(ctx, append(args, "--cached")...)
	if err != nil {
		return nil, err
	}
	if staged.ExitCode == 0 {
		resp.Staged = strings.TrimSpace(staged.Stdout)
	}

	unstaged, err := t.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	if unstaged.ExitCode == 0 {
		resp.Unstaged = strings.TrimSpace(unstaged.Stdout)
	}

	if resp.Staged == "" && resp.Unstaged == "" {
		resp.Message = "No changes found"
	}
	return resp, nil
}

// Commit creates a commit. With add_all set, the modified set is scanned for
// sensitive file names and secret-shaped content first; any hit aborts before
// `git add` runs, so staging is all-or-nothing with respect to the check.
func (t *Tool) Commit(ctx context.Context, req *CommitRequest) (*CommitResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, errutil.New(errutil.CodeGitError, "Commit message cannot be empty").
			WithSuggestions("Provide a descriptive commit message")
	}
	if len(req.Message) > t.config.Tools.MaxCommitMessageLength {
		return nil, errutil.New(errutil.CodeGitError, "Commit message too long").
			WithSuggestions(fmt.Sprintf("Keep commit messages under %d characters",
				t.config.Tools.MaxCommitMessageLength)).
			WithContext("message_length", len(req.Message))
	}

	staged := false
	if req.AddAll {
		if err := t.stageAll(ctx); err != nil {
			return nil, err
		}
		staged = true
	}

	result, err := t.git(ctx, "commit", "-m", req.Message)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, errutil.New(errutil.CodeGitError,
			fmt.Sprintf("Error creating commit: %s", strings.TrimSpace(result.Stderr))).
			WithSuggestions(
				"Ensure there are changes to commit",
				"Check if git repository is properly initialized",
				"Verify git user configuration",
			).
			WithContext("git_error", strings.TrimSpace(result.Stderr))
	}

	return &CommitResponse{
		Staged: staged,
		Commit: strings.TrimSpace(result.Stdout),
	}, nil
}

// stageAll runs the sensitive-content scan over the modified set and then
// stages everything. No `git add` runs if any path fails the scan.
func (t *Tool) stageAll(ctx context.Context) error {
	result, err := t.git(ctx, "status", "--porcelain")
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return errutil.New(errutil.CodeGitError, "Error checking git status").
			WithSuggestions("Check git repository status")
	}

	var dangerous []string
	for _, line := range strings.Split(strings.TrimSpace(result.Stdout), "\n") {
		if len(line) < 4 {
			continue
		}
		// Porcelain format: XY <path>
		filePath := strings.TrimSpace(line[3:])
		if filePath == "" {
			continue
		}
		if isSensitiveName(filePath) {
			dangerous = append(dangerous, filePath)
		} else if t.containsSecrets(filePath) {
			dangerous = append(dangerous, filePath+" (contains potential secrets)")
		}
	}

	if len(dangerous) > 0 {
		return errutil.New(errutil.CodeGitError,
			"Refusing to commit potentially sensitive files").
			WithSuggestions(
				"Review files before committing",
				"Add files individually instead of using add_all",
				"Add sensitive files to .gitignore",
			).
			WithContext("dangerous_files", dangerous)
	}

	result, err = t.git(ctx, "add", ".")
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return errutil.New(errutil.CodeGitError, "Error staging files").
			WithSuggestions("Check git repository status", "Ensure files exist")
	}
	return nil
}

func notARepoError(stderr string) *errutil.ToolError {
	return errutil.New(errutil.CodeGitError, "Not a git repository").
		WithSuggestions("Initialise the repository with `git init` first").
		WithContext("git_error", strings.TrimSpace(stderr))
}

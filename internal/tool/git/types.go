package git

import (
	"strings"

	"github.com/Cyclone1070/devagent/internal/tool/errutil"
)

// -- Git Status --

type StatusRequest struct{}

type StatusResponse struct {
	Branch        string   `json:"branch,omitempty"`
	ModifiedFiles []string `json:"modified_files,omitempty"`
	RecentCommits []string `json:"recent_commits,omitempty"`
	Clean         bool     `json:"clean"`
}

// -- Git Diff --

type DiffRequest struct {
	FilePath string `json:"file_path,omitempty" mapstructure:"file_path"`
}

type DiffResponse struct {
	Staged   string `json:"staged,omitempty"`
	Unstaged string `json:"unstaged,omitempty"`
	Message  string `json:"message,omitempty"`
}

// -- Git Commit --

type CommitRequest struct {
	Message string `json:"message" mapstructure:"message"`
	AddAll  bool   `json:"add_all,omitempty" mapstructure:"add_all"`
}

func (r *CommitRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return errutil.New(errutil.CodeGitError, "Commit message cannot be empty").
			WithSuggestions("Provide a descriptive commit message")
	}
	return nil
}

type CommitResponse struct {
	Staged bool   `json:"staged,omitempty"`
	Commit string `json:"commit"`
}

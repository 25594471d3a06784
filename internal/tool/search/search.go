// Package search implements the search_files operation: a bounded regex scan
// over the text files of the workspace.
package search

import (
	"context"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/Cyclone1070/devagent/internal/config"
	"github.com/Cyclone1070/devagent/internal/session"
	"github.com/Cyclone1070/devagent/internal/tool/errutil"
)

// fileSystem defines the minimal filesystem operations needed for searching.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ListDir(path string) ([]os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// binaryDetector classifies content and paths as text vs binary.
type binaryDetector interface {
	IsBinaryContent(content []byte) bool
	IsTextPath(path string) bool
}

// ignoreMatcher decides whether a workspace-relative path is gitignored.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// searchRecorder records search facts into the session ledger.
type searchRecorder interface {
	AddSearchPerformed(record session.SearchRecord)
}

// SearchFilesTool handles content searching operations.
type SearchFilesTool struct {
	fs            fileSystem
	detector      binaryDetector
	ignore        ignoreMatcher
	session       searchRecorder
	config        *config.Config
	workspaceRoot string
}

// NewSearchFilesTool creates a new SearchFilesTool with injected dependencies.
func NewSearchFilesTool(
	fs fileSystem,
	detector binaryDetector,
	ignore ignoreMatcher,
	session searchRecorder,
	cfg *config.Config,
	workspaceRoot string,
) *SearchFilesTool {
	return &SearchFilesTool{
		fs:            fs,
		detector:      detector,
		ignore:        ignore,
		session:       session,
		config:        cfg,
		workspaceRoot: workspaceRoot,
	}
}

// Run compiles the caller's pattern and scans the workspace tree for matching
// lines. Dot-prefixed path segments and gitignored paths are skipped, as are
// binary files and files over the search size limit. The scan is bounded by
// both a file cap and a match cap; hitting either appends an explicit
// truncation note. The search is recorded in the session ledger even when
// nothing matches.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *SearchFilesTool) Run(ctx context.Context, req *SearchFilesRequest) (*SearchFilesResponse, error) {
	flags := ""
	if !req.CaseSensitive {
		flags = "(?i)"
	}
	re, err := regexp.Compile(flags + req.Pattern)
	if err != nil {
		return nil, errutil.New(errutil.CodeInvalidRegex,
			fmt.Sprintf("Invalid regex pattern '%s': %v", req.Pattern, err)).
			WithSuggestions(
				"Use simpler text search instead of regex",
				`Escape special characters like . * + ? ^ $ { } [ ] \ | ( )`,
			).
			WithContext("pattern", req.Pattern).
			WithContext("regex_error", err.Error())
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = t.config.Tools.DefaultSearchResults
	}
	if maxResults > t.config.Tools.MaxSearchResults {
		maxResults = t.config.Tools.MaxSearchResults
	}

	w := &walker{
		tool:       t,
		re:         re,
		extensions: req.FileExtensions,
		maxResults: maxResults,
	}
	w.walk("")

	t.session.AddSearchPerformed(session.SearchRecord{
		Pattern:      req.Pattern,
		Extensions:   req.FileExtensions,
		Results:      len(w.matches),
		FilesScanned: w.filesScanned,
	})

	return &SearchFilesResponse{
		Pattern:      req.Pattern,
		Matches:      w.matches,
		FilesScanned: w.filesScanned,
		Truncated:    len(w.notes) > 0,
		Notes:        w.notes,
	}, nil
}

// walker carries the scan state across the recursive traversal.
type walker struct {
	tool       *SearchFilesTool
	re         *regexp.Regexp
	extensions []string
	maxResults int

	filesScanned int
	matches      []Match
	notes        []string
	done         bool
}

// walk scans the directory at the workspace-relative path rel.
func (w *walker) walk(rel string) {
	if w.done {
		return
	}

	abs := w.tool.workspaceRoot
	if rel != "" {
		abs = w.tool.workspaceRoot + string(os.PathSeparator) + rel
	}

	infos, err := w.tool.fs.ListDir(abs)
	if err != nil {
		return // unreadable directories are skipped, not fatal
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	for _, fi := range infos {
		if w.done {
			return
		}

		name := fi.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}
		if w.tool.ignore.ShouldIgnore(childRel, fi.IsDir()) {
			continue
		}

		if fi.IsDir() {
			w.walk(childRel)
			continue
		}
		w.scanFile(childRel, fi)
	}
}

// scanFile applies the scan caps and filters, then matches line by line.
func (w *walker) scanFile(rel string, fi os.FileInfo) {
	w.filesScanned++
	if w.filesScanned > w.tool.config.Tools.MaxFilesPerSearch {
		w.notes = append(w.notes,
			fmt.Sprintf("... (stopped after scanning %d files)", w.tool.config.Tools.MaxFilesPerSearch))
		w.done = true
		return
	}

	if len(w.extensions) > 0 && !hasExtension(rel, w.extensions) {
		return
	}
	if fi.Size() > w.tool.config.Tools.MaxSearchFileSize {
		return
	}
	if !w.tool.detector.IsTextPath(rel) {
		return
	}

	abs := w.tool.workspaceRoot + string(os.PathSeparator) + rel
	data, err := w.tool.fs.ReadFile(abs)
	if err != nil {
		return
	}

	sample := data
	if len(sample) > w.tool.config.Tools.BinaryDetectionSampleSize {
		sample = sample[:w.tool.config.Tools.BinaryDetectionSampleSize]
	}
	if w.tool.detector.IsBinaryContent(sample) {
		return
	}

	for lineNum, line := range strings.Split(string(data), "\n") {
		if !w.re.MatchString(line) {
			continue
		}
		w.matches = append(w.matches, Match{
			File:        rel,
			LineNumber:  lineNum + 1,
			LineContent: strings.TrimSpace(line),
		})
		if len(w.matches) >= w.maxResults {
			w.notes = append(w.notes, fmt.Sprintf("... (truncated at %d matches)", w.maxResults))
			w.done = true
			return
		}
	}
}

func hasExtension(rel string, extensions []string) bool {
	ext := path.Ext(rel)
	for _, want := range extensions {
		if ext == want {
			return true
		}
	}
	return false
}

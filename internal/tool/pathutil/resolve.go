// Package pathutil confines all tool paths to the workspace root. Resolution
// is done component by component so that symlinks and ".." segments cannot
// escape the boundary at any intermediate step.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideWorkspace is returned when a path escapes the workspace boundary.
var ErrOutsideWorkspace = fmt.Errorf("path is outside workspace root")

// maxSymlinkHops bounds symlink chain traversal.
const maxSymlinkHops = 64

// FileSystem defines the minimal filesystem interface needed for path resolution.
type FileSystem interface {
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
}

// CanonicaliseRoot canonicalises a workspace root path by making it absolute
// and resolving symlinks. Returns an error if the path doesn't exist or isn't
// a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root symlinks: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("workspace root does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace root is not a directory: %s", resolved)
	}
	return resolved, nil
}

// Resolve normalises a path and ensures it stays within the workspace root.
// Symlinks are followed component-wise and the boundary is re-validated after
// every step, so a link target outside the root fails even when the lexical
// path looks contained. Returns the absolute path, the root-relative path
// (forward slashes, "" for the root itself), and ErrOutsideWorkspace on any
// escape.
func Resolve(workspaceRoot string, fs FileSystem, path string) (abs string, rel string, err error) {
	if workspaceRoot == "" {
		return "", "", fmt.Errorf("workspace root not set")
	}

	root := filepath.Clean(workspaceRoot)

	var absInput string
	if filepath.IsAbs(path) {
		absInput = filepath.Clean(path)
	} else {
		absInput = filepath.Join(root, path)
	}

	relPath, err := filepath.Rel(root, absInput)
	if err != nil {
		return "", "", ErrOutsideWorkspace
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", "", ErrOutsideWorkspace
	}
	if relPath == "." {
		return root, "", nil
	}

	resolvedAbs, err := walkComponents(root, fs, relPath)
	if err != nil {
		return "", "", err
	}

	finalRel, err := filepath.Rel(root, resolvedAbs)
	if err != nil {
		return "", "", ErrOutsideWorkspace
	}
	finalRel = filepath.ToSlash(finalRel)
	if finalRel == "." {
		finalRel = ""
	}

	return resolvedAbs, finalRel, nil
}

// walkComponents resolves relPath one component at a time, following symlink
// chains and validating containment after each step. relPath must already be
// lexically inside the root.
func walkComponents(root string, fs FileSystem, relPath string) (string, error) {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	current := root

	for i, part := range parts {
		if part == "" || part == "." {
			continue
		}

		if part == ".." {
			if current == root {
				return "", ErrOutsideWorkspace
			}
			current = filepath.Dir(current)
			if !within(current, root) {
				return "", ErrOutsideWorkspace
			}
			continue
		}

		next := filepath.Join(current, part)
		resolved, exists, err := followSymlinks(fs, next, root)
		if err != nil {
			return "", err
		}

		if !exists {
			// Remaining components do not exist yet. Join them lexically;
			// mkdir/write callers create them after the boundary check.
			tail := filepath.Join(parts[i:]...)
			candidate := filepath.Join(current, tail)
			if !within(candidate, root) {
				return "", ErrOutsideWorkspace
			}
			return candidate, nil
		}

		current = resolved
		if !within(current, root) {
			return "", ErrOutsideWorkspace
		}
	}

	return current, nil
}

// followSymlinks follows a symlink chain until a non-symlink or a missing
// path. Each target must stay inside the root.
func followSymlinks(fs FileSystem, path, root string) (resolved string, exists bool, err error) {
	visited := make(map[string]struct{})
	current := path

	for hop := 0; hop <= maxSymlinkHops; hop++ {
		if _, seen := visited[current]; seen {
			return "", false, fmt.Errorf("symlink loop detected: %s", current)
		}
		visited[current] = struct{}{}

		info, err := fs.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return current, false, nil
			}
			return "", false, fmt.Errorf("failed to lstat path: %w", err)
		}

		if info.Mode()&os.ModeSymlink == 0 {
			if !within(current, root) {
				return "", false, ErrOutsideWorkspace
			}
			return current, true, nil
		}

		target, err := fs.Readlink(current)
		if err != nil {
			return "", false, fmt.Errorf("failed to read symlink: %w", err)
		}

		var targetAbs string
		if filepath.IsAbs(target) {
			targetAbs = filepath.Clean(target)
		} else {
			targetAbs = filepath.Clean(filepath.Join(filepath.Dir(current), target))
		}

		if !within(targetAbs, root) {
			return "", false, ErrOutsideWorkspace
		}
		current = targetAbs
	}

	return "", false, fmt.Errorf("symlink chain too long (max %d hops)", maxSymlinkHops)
}

// within reports whether path is the root or contained in it.
func within(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

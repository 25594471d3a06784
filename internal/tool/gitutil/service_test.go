package gitutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type mockFS struct {
	files   map[string][]byte
	readErr error
}

func (m *mockFS) Stat(path string) (os.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return mockInfo{name: filepath.Base(path)}, nil
	}
	return nil, os.ErrNotExist
}

func (m *mockFS) ReadFile(path string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if content, ok := m.files[path]; ok {
		return content, nil
	}
	return nil, os.ErrNotExist
}

type mockInfo struct{ name string }

func (m mockInfo) Name() string       { return m.name }
func (m mockInfo) Size() int64        { return 0 }
func (m mockInfo) Mode() os.FileMode  { return 0644 }
func (m mockInfo) ModTime() time.Time { return time.Time{} }
func (m mockInfo) IsDir() bool        { return false }
func (m mockInfo) Sys() any           { return nil }

func TestShouldIgnoreMatchesPatterns(t *testing.T) {
	fs := &mockFS{files: map[string][]byte{
		"/workspace/.gitignore": []byte("node_modules/\n*.log\nbuild\n"),
	}}

	svc, err := NewService("/workspace", fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		path   string
		isDir  bool
		ignore bool
	}{
		{"node_modules", true, true},
		{"src/node_modules", true, true},
		{"debug.log", false, true},
		{"logs/app.log", false, true},
		{"build", true, true},
		{"main.go", false, false},
		{"src/main.go", false, false},
	}
	for _, tt := range tests {
		if got := svc.ShouldIgnore(tt.path, tt.isDir); got != tt.ignore {
			t.Errorf("ShouldIgnore(%q, %v) = %v, want %v", tt.path, tt.isDir, got, tt.ignore)
		}
	}
}

func TestMissingGitignoreNeverIgnores(t *testing.T) {
	svc, err := NewService("/workspace", &mockFS{files: map[string][]byte{}})
	if err != nil {
		t.Fatalf("a missing .gitignore is not an error: %v", err)
	}
	if svc.ShouldIgnore("node_modules", true) {
		t.Error("nothing should be ignored without a .gitignore")
	}
}

func TestUnreadableGitignoreReturnsError(t *testing.T) {
	fs := &mockFS{
		files:   map[string][]byte{"/workspace/.gitignore": []byte("x")},
		readErr: os.ErrPermission,
	}

	_, err := NewService("/workspace", fs)
	var readErr *GitignoreReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected GitignoreReadError, got %v", err)
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("should wrap the cause")
	}
}

func TestNoOpServiceNeverIgnores(t *testing.T) {
	svc := &NoOpService{}
	if svc.ShouldIgnore(".git", true) || svc.ShouldIgnore("a.log", false) {
		t.Error("NoOpService must never ignore")
	}
}

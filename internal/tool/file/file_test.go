package file

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Cyclone1070/devagent/internal/config"
	"github.com/Cyclone1070/devagent/internal/tool/errutil"
	"github.com/Cyclone1070/devagent/internal/tool/fsutil"
)

// mockFS is an in-memory filesystem for file tool tests.
type mockFS struct {
	files    map[string][]byte
	dirs     map[string]bool
	writeErr error
	calls    []string
	written  map[string][]byte
}

func newMockFS() *mockFS {
	return &mockFS{
		files:   make(map[string][]byte),
		dirs:    map[string]bool{"/ws": true},
		written: make(map[string][]byte),
	}
}

func (m *mockFS) Stat(path string) (os.FileInfo, error) {
	m.calls = append(m.calls, "stat")
	if m.dirs[path] {
		return mockInfo{name: path, dir: true}, nil
	}
	if data, ok := m.files[path]; ok {
		return mockInfo{name: path, size: int64(len(data))}, nil
	}
	return nil, os.ErrNotExist
}

func (m *mockFS) Lstat(path string) (os.FileInfo, error) {
	return m.Stat(path)
}

func (m *mockFS) Readlink(path string) (string, error) {
	return "", os.ErrInvalid
}

func (m *mockFS) ReadFile(path string) ([]byte, error) {
	m.calls = append(m.calls, "read")
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

func (m *mockFS) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	m.calls = append(m.calls, "write")
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written[path] = content
	m.files[path] = content
	return nil
}

func (m *mockFS) EnsureDirs(path string) error {
	m.calls = append(m.calls, "ensuredirs")
	m.dirs[path] = true
	return nil
}

type mockInfo struct {
	name string
	size int64
	dir  bool
}

func (i mockInfo) Name() string { return i.name }
func (i mockInfo) Size() int64  { return i.size }
func (i mockInfo) Mode() os.FileMode {
	if i.dir {
		return os.ModeDir
	}
	return 0o644
}
func (i mockInfo) ModTime() time.Time { return time.Time{} }
func (i mockInfo) IsDir() bool        { return i.dir }
func (i mockInfo) Sys() any           { return nil }

type recorder struct {
	reads  []string
	writes []string
}

func (r *recorder) AddFileRead(path string)    { r.reads = append(r.reads, path) }
func (r *recorder) AddFileWritten(path string) { r.writes = append(r.writes, path) }

func toolCode(t *testing.T, err error) errutil.Code {
	t.Helper()
	var toolErr *errutil.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected a structured tool error, got %T: %v", err, err)
	}
	return toolErr.Code
}

func newReadTool(fs *mockFS, cfg *config.Config, rec *recorder) *ReadFileTool {
	detector := fsutil.NewSystemBinaryDetector(cfg.Tools.BinaryDetectionSampleSize)
	return NewReadFileTool(fs, detector, rec, cfg, "/ws")
}

func TestReadFile(t *testing.T) {
	fs := newMockFS()
	fs.files["/ws/main.go"] = []byte("package main\n")
	rec := &recorder{}
	tool := newReadTool(fs, config.DefaultConfig(), rec)

	resp, err := tool.Run(context.Background(), &ReadFileRequest{Path: "main.go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "package main\n" {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if resp.Truncated {
		t.Error("small file should not be truncated")
	}
	if len(rec.reads) != 1 || rec.reads[0] != "main.go" {
		t.Errorf("read not recorded: %v", rec.reads)
	}
}

func TestReadFileTruncation(t *testing.T) {
	fs := newMockFS()
	fs.files["/ws/big.txt"] = []byte(strings.Repeat("a", 100))
	tool := newReadTool(fs, config.DefaultConfig(), &recorder{})

	resp, err := tool.Run(context.Background(), &ReadFileRequest{Path: "big.txt", MaxChars: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Truncated {
		t.Error("expected truncated response")
	}
	if !strings.HasPrefix(resp.Content, strings.Repeat("a", 10)) {
		t.Errorf("unexpected content prefix: %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "truncated to 10 chars") {
		t.Errorf("missing truncation marker: %q", resp.Content)
	}
}

func TestReadFileDefaultMaxChars(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tools.DefaultReadChars = 5
	fs := newMockFS()
	fs.files["/ws/big.txt"] = []byte("0123456789")
	tool := newReadTool(fs, cfg, &recorder{})

	resp, err := tool.Run(context.Background(), &ReadFileRequest{Path: "big.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Truncated || !strings.HasPrefix(resp.Content, "01234") {
		t.Errorf("default max_chars not applied: %+v", resp)
	}
}

func TestReadFileNotFound(t *testing.T) {
	tool := newReadTool(newMockFS(), config.DefaultConfig(), &recorder{})

	_, err := tool.Run(context.Background(), &ReadFileRequest{Path: "missing.go"})
	if code := toolCode(t, err); code != errutil.CodeFileNotFound {
		t.Errorf("expected file_not_found, got %s", code)
	}
	var toolErr *errutil.ToolError
	errors.As(err, &toolErr)
	if len(toolErr.Suggestions) == 0 {
		t.Error("file_not_found should carry suggestions")
	}
}

func TestReadFileEscapeDenied(t *testing.T) {
	tool := newReadTool(newMockFS(), config.DefaultConfig(), &recorder{})

	_, err := tool.Run(context.Background(), &ReadFileRequest{Path: "../../etc/passwd"})
	if code := toolCode(t, err); code != errutil.CodePermissionDenied {
		t.Errorf("expected permission_denied, got %s", code)
	}
}

func TestReadFileDirectory(t *testing.T) {
	fs := newMockFS()
	fs.dirs["/ws/src"] = true
	tool := newReadTool(fs, config.DefaultConfig(), &recorder{})

	_, err := tool.Run(context.Background(), &ReadFileRequest{Path: "src"})
	if code := toolCode(t, err); code != errutil.CodeInvalidPath {
		t.Errorf("expected invalid_path, got %s", code)
	}
}

func TestReadFileTooLarge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tools.MaxReadSize = 4
	fs := newMockFS()
	fs.files["/ws/big.bin.txt"] = []byte("12345")
	tool := newReadTool(fs, cfg, &recorder{})

	_, err := tool.Run(context.Background(), &ReadFileRequest{Path: "big.bin.txt"})
	if code := toolCode(t, err); code != errutil.CodeFileTooLarge {
		t.Errorf("expected file_too_large, got %s", code)
	}
}

func TestReadFileBinaryExtension(t *testing.T) {
	fs := newMockFS()
	fs.files["/ws/logo.png"] = []byte("not really a png")
	tool := newReadTool(fs, config.DefaultConfig(), &recorder{})

	_, err := tool.Run(context.Background(), &ReadFileRequest{Path: "logo.png"})
	if code := toolCode(t, err); code != errutil.CodeInvalidPath {
		t.Errorf("expected invalid_path, got %s", code)
	}
}

func TestReadFileBinaryContent(t *testing.T) {
	fs := newMockFS()
	fs.files["/ws/data.txt"] = []byte{'a', 0x00, 'b'}
	tool := newReadTool(fs, config.DefaultConfig(), &recorder{})

	_, err := tool.Run(context.Background(), &ReadFileRequest{Path: "data.txt"})
	if code := toolCode(t, err); code != errutil.CodeInvalidPath {
		t.Errorf("expected invalid_path, got %s", code)
	}
}

func TestWriteFile(t *testing.T) {
	fs := newMockFS()
	rec := &recorder{}
	tool := NewWriteFileTool(fs, rec, config.DefaultConfig(), "/ws")

	resp, err := tool.Run(context.Background(), &WriteFileRequest{Path: "notes.txt", Content: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.BytesWritten != 5 {
		t.Errorf("unexpected bytes written: %d", resp.BytesWritten)
	}
	if !strings.Contains(resp.Message, "5 characters") {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if string(fs.written["/ws/notes.txt"]) != "hello" {
		t.Errorf("content not written: %v", fs.written)
	}
	if len(rec.writes) != 1 || rec.writes[0] != "notes.txt" {
		t.Errorf("write not recorded: %v", rec.writes)
	}
}

func TestWriteFileTooLargeBeforeAnyIO(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tools.MaxWriteSize = 4
	fs := newMockFS()
	tool := NewWriteFileTool(fs, &recorder{}, cfg, "/ws")

	_, err := tool.Run(context.Background(), &WriteFileRequest{Path: "big.txt", Content: "12345"})
	if code := toolCode(t, err); code != errutil.CodeFileTooLarge {
		t.Errorf("expected file_too_large, got %s", code)
	}
	// Oversized content is rejected before the filesystem is touched.
	if len(fs.calls) != 0 {
		t.Errorf("expected no filesystem calls, got %v", fs.calls)
	}
}

func TestWriteFileDangerousExtension(t *testing.T) {
	fs := newMockFS()
	tool := NewWriteFileTool(fs, &recorder{}, config.DefaultConfig(), "/ws")

	for _, path := range []string{"run.sh", "setup.exe", "job.bat"} {
		_, err := tool.Run(context.Background(), &WriteFileRequest{Path: path, Content: "x"})
		if code := toolCode(t, err); code != errutil.CodePermissionDenied {
			t.Errorf("%s: expected permission_denied, got %s", path, code)
		}
	}
	if len(fs.written) != 0 {
		t.Errorf("dangerous files were written: %v", fs.written)
	}
}

func TestWriteFileEscapeDenied(t *testing.T) {
	tool := NewWriteFileTool(newMockFS(), &recorder{}, config.DefaultConfig(), "/ws")

	_, err := tool.Run(context.Background(), &WriteFileRequest{Path: "/etc/cron.d/job", Content: "x"})
	if code := toolCode(t, err); code != errutil.CodePermissionDenied {
		t.Errorf("expected permission_denied, got %s", code)
	}
}

func TestWriteFilePermissionError(t *testing.T) {
	fs := newMockFS()
	fs.writeErr = os.ErrPermission
	tool := NewWriteFileTool(fs, &recorder{}, config.DefaultConfig(), "/ws")

	_, err := tool.Run(context.Background(), &WriteFileRequest{Path: "notes.txt", Content: "x"})
	if code := toolCode(t, err); code != errutil.CodePermissionDenied {
		t.Errorf("expected permission_denied, got %s", code)
	}
}

func TestRequestValidation(t *testing.T) {
	if err := (&ReadFileRequest{}).Validate(); err == nil {
		t.Error("empty read path should fail validation")
	}
	if err := (&ReadFileRequest{Path: "a", MaxChars: -1}).Validate(); err == nil {
		t.Error("negative max_chars should fail validation")
	}
	if err := (&WriteFileRequest{Content: "x"}).Validate(); err == nil {
		t.Error("empty write path should fail validation")
	}
	if err := (&ReadFileRequest{Path: "a.go"}).Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}

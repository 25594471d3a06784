package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsBinaryContent(t *testing.T) {
	d := NewSystemBinaryDetector(1024)

	tests := []struct {
		name    string
		content []byte
		binary  bool
	}{
		{"plain text", []byte("package main\n"), false},
		{"empty", nil, false},
		{"null byte", []byte{'a', 0x00, 'b'}, true},
		{"utf-16 le bom", []byte{0xFF, 0xFE, 'h', 0x00}, false},
		{"utf-16 be bom", []byte{0xFE, 0xFF, 0x00, 'h'}, false},
		{"utf-32 le bom", []byte{0xFF, 0xFE, 0x00, 0x00, 'h'}, false},
		{"utf-32 be bom", []byte{0x00, 0x00, 0xFE, 0xFF, 'h'}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsBinaryContent(tt.content); got != tt.binary {
				t.Errorf("IsBinaryContent = %v, want %v", got, tt.binary)
			}
		})
	}
}

func TestIsBinaryContentRespectsSampleSize(t *testing.T) {
	d := NewSystemBinaryDetector(4)
	// The null byte sits past the sample window.
	content := []byte{'a', 'b', 'c', 'd', 0x00}
	if d.IsBinaryContent(content) {
		t.Error("null byte outside the sample should not classify as binary")
	}
}

func TestIsTextPath(t *testing.T) {
	d := NewSystemBinaryDetector(1024)

	text := []string{"main.go", "README.md", "config.json", "data.xml", "Makefile", "notes.txt"}
	for _, path := range text {
		if !d.IsTextPath(path) {
			t.Errorf("%s should be a text path", path)
		}
	}

	binary := []string{"logo.png", "archive.zip", "lib.so", "doc.pdf", "font.woff2", "movie.mp4"}
	for _, path := range binary {
		if d.IsTextPath(path) {
			t.Errorf("%s should be a binary path", path)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	fs := NewOSFileSystem()
	target := filepath.Join(dir, "out.txt")

	if err := fs.WriteFileAtomic(target, []byte("hello"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("unexpected content: %q", data)
	}

	// No temp file debris left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	dir := t.TempDir()
	fs := NewOSFileSystem()
	target := filepath.Join(dir, "out.txt")

	if err := fs.WriteFileAtomic(target, []byte("first"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fs.WriteFileAtomic(target, []byte("second"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(target)
	if string(data) != "second" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestReadFilePrefix(t *testing.T) {
	dir := t.TempDir()
	fs := NewOSFileSystem()
	target := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(target, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prefix, err := fs.ReadFilePrefix(target, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(prefix) != "0123" {
		t.Errorf("unexpected prefix: %q", prefix)
	}

	all, err := fs.ReadFilePrefix(target, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(all) != "0123456789" {
		t.Errorf("unexpected content: %q", all)
	}
}

func TestEnsureDirsAndListDir(t *testing.T) {
	dir := t.TempDir()
	fs := NewOSFileSystem()

	nested := filepath.Join(dir, "a", "b", "c")
	if err := fs.EnsureDirs(nested); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(nested, "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	infos, err := fs.ListDir(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 1 || infos[0].Name() != "f.txt" {
		t.Errorf("unexpected listing: %v", infos)
	}
}

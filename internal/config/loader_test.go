package config

import (
	"errors"
	"os"
	"strings"
	"testing"
)

// mockFS serves a config file from memory.
type mockFS struct {
	homeDir string
	homeErr error
	files   map[string][]byte
	readErr error
}

func (m *mockFS) UserHomeDir() (string, error) {
	return m.homeDir, m.homeErr
}

func (m *mockFS) ReadFile(path string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

func TestLoadDefaultsWhenNoDotfile(t *testing.T) {
	loader := NewLoaderWithFS(&mockFS{homeDir: "/home/user"})

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agent.Model != "gemini-2.5-flash" {
		t.Errorf("unexpected default model: %s", cfg.Agent.Model)
	}
	if cfg.Agent.MaxIterations != 20 {
		t.Errorf("unexpected default max iterations: %d", cfg.Agent.MaxIterations)
	}
	if cfg.Tools.MaxReadSize != 100*1024 {
		t.Errorf("unexpected default max read size: %d", cfg.Tools.MaxReadSize)
	}
}

func TestLoadMergesDotfileOverDefaults(t *testing.T) {
	loader := NewLoaderWithFS(&mockFS{
		homeDir: "/home/user",
		files: map[string][]byte{
			"/home/user/.config/devagent/config.json": []byte(
				`{"agent": {"model": "gemini-2.5-pro", "max_iterations": 5}}`),
		},
	})

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agent.Model != "gemini-2.5-pro" {
		t.Errorf("dotfile model not applied: %s", cfg.Agent.Model)
	}
	if cfg.Agent.MaxIterations != 5 {
		t.Errorf("dotfile max_iterations not applied: %d", cfg.Agent.MaxIterations)
	}
	// Keys absent from the dotfile keep their defaults.
	if cfg.Agent.MaxRetries != 3 {
		t.Errorf("untouched default changed: %d", cfg.Agent.MaxRetries)
	}
	if cfg.Tools.MaxWriteSize != 1024*1024 {
		t.Errorf("untouched default changed: %d", cfg.Tools.MaxWriteSize)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	loader := NewLoaderWithFS(&mockFS{
		homeDir: "/home/user",
		files: map[string][]byte{
			"/home/user/.config/devagent/config.json": []byte(`{not json`),
		},
	})

	if _, err := loader.Load(); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestLoadReadPermissionError(t *testing.T) {
	loader := NewLoaderWithFS(&mockFS{
		homeDir: "/home/user",
		readErr: os.ErrPermission,
	})

	if _, err := loader.Load(); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestLoadNoHomeDirFallsBackToDefaults(t *testing.T) {
	loader := NewLoaderWithFS(&mockFS{homeErr: errors.New("no home")})

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agent.MaxIterations != 20 {
		t.Errorf("expected defaults, got max_iterations=%d", cfg.Agent.MaxIterations)
	}
}

func TestLoadInvalidValuesRejected(t *testing.T) {
	loader := NewLoaderWithFS(&mockFS{
		homeDir: "/home/user",
		files: map[string][]byte{
			"/home/user/.config/devagent/config.json": []byte(
				`{"agent": {"max_iterations": 0}}`),
		},
	})

	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "max_iterations") {
		t.Errorf("error should name the offending field: %v", err)
	}
}

func TestValidateSemanticConstraints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tools.DefaultSearchResults = 200
	cfg.Tools.MaxSearchResults = 100

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "default_search_results") {
		t.Errorf("error should name the constraint: %v", err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

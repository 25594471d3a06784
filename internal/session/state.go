// Package session accumulates the facts of one agent run: files read and
// written, commands run, and searches performed. The ledger lives for a
// single run and is never persisted.
package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// CommandRecord describes one external command invocation.
type CommandRecord struct {
	Command  []string
	ExitCode int
}

// SearchRecord describes one search operation.
type SearchRecord struct {
	Pattern      string
	Extensions   []string
	Results      int
	FilesScanned int
}

// State is a concurrency-safe accumulator. All mutations happen under one
// exclusion lock; the lock is never held across I/O. Read accessors return
// copies so callers cannot observe torn state.
type State struct {
	mu                sync.Mutex
	filesRead         map[string]struct{}
	filesWritten      map[string]struct{}
	commandsRun       []CommandRecord
	searchesPerformed []SearchRecord
}

// NewState creates an empty session ledger.
func NewState() *State {
	return &State{
		filesRead:    make(map[string]struct{}),
		filesWritten: make(map[string]struct{}),
	}
}

// AddFileRead records that path was read.
func (s *State) AddFileRead(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filesRead[path] = struct{}{}
}

// AddFileWritten records that path was written.
func (s *State) AddFileWritten(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filesWritten[path] = struct{}{}
}

// AddCommandRun records one external command invocation.
func (s *State) AddCommandRun(record CommandRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commandsRun = append(s.commandsRun, record)
}

// AddSearchPerformed records one search operation.
func (s *State) AddSearchPerformed(record SearchRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchesPerformed = append(s.searchesPerformed, record)
}

// FilesRead returns a sorted snapshot of the paths read so far.
func (s *State) FilesRead() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.filesRead)
}

// FilesWritten returns a sorted snapshot of the paths written so far.
func (s *State) FilesWritten() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.filesWritten)
}

// CommandsRun returns a snapshot of the commands run so far, in order.
func (s *State) CommandsRun() []CommandRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CommandRecord, len(s.commandsRun))
	copy(out, s.commandsRun)
	return out
}

// SearchesPerformed returns a snapshot of the searches run so far, in order.
func (s *State) SearchesPerformed() []SearchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SearchRecord, len(s.searchesPerformed))
	copy(out, s.searchesPerformed)
	return out
}

// Summary renders a human-readable digest of the session.
func (s *State) Summary() string {
	s.mu.Lock()
	read := sortedKeys(s.filesRead)
	written := sortedKeys(s.filesWritten)
	commands := len(s.commandsRun)
	searches := len(s.searchesPerformed)
	s.mu.Unlock()

	var b strings.Builder
	b.WriteString("=== SESSION SUMMARY ===\n")
	fmt.Fprintf(&b, "Files read: %d\n", len(read))
	fmt.Fprintf(&b, "Files written: %d\n", len(written))
	fmt.Fprintf(&b, "Commands run: %d\n", commands)
	fmt.Fprintf(&b, "Searches performed: %d\n", searches)
	fmt.Fprintf(&b, "\nFiles read: %s\n", joinOrNone(read))
	fmt.Fprintf(&b, "Files written: %s", joinOrNone(written))
	return b.String()
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

package session

import (
	"strings"
	"sync"
	"testing"
)

func TestStateRecordsActivity(t *testing.T) {
	s := NewState()

	s.AddFileRead("b.go")
	s.AddFileRead("a.go")
	s.AddFileRead("a.go") // duplicate reads collapse
	s.AddFileWritten("out.txt")
	s.AddCommandRun(CommandRecord{Command: []string{"git", "status"}, ExitCode: 0})
	s.AddSearchPerformed(SearchRecord{Pattern: "func", Results: 3, FilesScanned: 10})

	read := s.FilesRead()
	if len(read) != 2 || read[0] != "a.go" || read[1] != "b.go" {
		t.Errorf("expected sorted unique reads, got %v", read)
	}
	if written := s.FilesWritten(); len(written) != 1 || written[0] != "out.txt" {
		t.Errorf("unexpected writes: %v", written)
	}
	if commands := s.CommandsRun(); len(commands) != 1 || commands[0].Command[0] != "git" {
		t.Errorf("unexpected commands: %v", commands)
	}
	if searches := s.SearchesPerformed(); len(searches) != 1 || searches[0].Pattern != "func" {
		t.Errorf("unexpected searches: %v", searches)
	}
}

func TestStateSnapshotsAreCopies(t *testing.T) {
	s := NewState()
	s.AddCommandRun(CommandRecord{Command: []string{"git", "status"}})

	snapshot := s.CommandsRun()
	snapshot[0].ExitCode = 99

	if s.CommandsRun()[0].ExitCode != 0 {
		t.Error("mutating a snapshot changed the internal state")
	}
}

func TestStateConcurrentMutation(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddFileRead("file.go")
			s.AddSearchPerformed(SearchRecord{Pattern: "x"})
		}()
	}
	wg.Wait()

	if len(s.FilesRead()) != 1 {
		t.Errorf("expected one unique read, got %v", s.FilesRead())
	}
	if len(s.SearchesPerformed()) != 50 {
		t.Errorf("expected 50 searches, got %d", len(s.SearchesPerformed()))
	}
}

func TestSummary(t *testing.T) {
	s := NewState()
	s.AddFileRead("main.go")
	s.AddFileWritten("out.txt")

	summary := s.Summary()
	for _, want := range []string{"SESSION SUMMARY", "Files read: 1", "Files written: 1", "main.go", "out.txt"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestSummaryEmpty(t *testing.T) {
	summary := NewState().Summary()
	if !strings.Contains(summary, "None") {
		t.Errorf("empty summary should report None:\n%s", summary)
	}
}

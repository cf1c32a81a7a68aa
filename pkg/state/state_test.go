package state

import (
	"path/filepath"
	"testing"
)

func TestNewManagerWithMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	snap := mgr.Snapshot()
	if snap.SessionCount != 0 {
		t.Errorf("Expected zero sessions, got %d", snap.SessionCount)
	}
}

func TestRecordSessionStartPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := mgr.RecordSessionStart("session-1"); err != nil {
		t.Fatalf("Failed to record session start: %v", err)
	}
	if err := mgr.RecordSessionEnd("config", "command"); err != nil {
		t.Fatalf("Failed to record session end: %v", err)
	}

	reopened, err := NewManager(path)
	if err != nil {
		t.Fatalf("Failed to reopen manager: %v", err)
	}

	snap := reopened.Snapshot()
	if snap.LastSessionID != "session-1" {
		t.Errorf("Expected last session 'session-1', got %s", snap.LastSessionID)
	}
	if snap.SessionCount != 1 {
		t.Errorf("Expected session count 1, got %d", snap.SessionCount)
	}
	if snap.LastLevel != "config" {
		t.Errorf("Expected last level 'config', got %s", snap.LastLevel)
	}
	if snap.LastMode != "command" {
		t.Errorf("Expected last mode 'command', got %s", snap.LastMode)
	}
	if snap.LastModified.IsZero() {
		t.Error("Expected last modified to be set")
	}
}

func TestSetLastMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := mgr.SetLastMode("command"); err != nil {
		t.Fatalf("Failed to set mode: %v", err)
	}

	reopened, err := NewManager(path)
	if err != nil {
		t.Fatalf("Failed to reopen manager: %v", err)
	}
	if reopened.Snapshot().LastMode != "command" {
		t.Errorf("Expected mode 'command', got %s", reopened.Snapshot().LastMode)
	}
}

func TestSessionCountAccumulates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	for i := 0; i < 3; i++ {
		mgr, err := NewManager(path)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if err := mgr.RecordSessionStart("s"); err != nil {
			t.Fatalf("Failed to record session: %v", err)
		}
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("Failed to reopen manager: %v", err)
	}
	if got := mgr.Snapshot().SessionCount; got != 3 {
		t.Errorf("Expected session count 3, got %d", got)
	}
}

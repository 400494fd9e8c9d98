package compilerenv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/go-dws/internal/compilerenv"
	"github.com/cwbudde/go-dws/internal/ir"
)

func TestFeedbackStoreSaveAndLoadJSON(t *testing.T) {
	store := compilerenv.NewFeedbackStore()
	id := ir.NewIdentifier("x")
	id.SetProgramPoint(7)
	store.Record(id, ir.TypeDouble)

	path := filepath.Join(t.TempDir(), "feedback.json")
	if err := store.SaveJSON(path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	reloaded := compilerenv.NewFeedbackStore()
	if err := reloaded.LoadJSON(path); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}

	kind, ok := reloaded.Get(id)
	if !ok || kind != ir.TypeDouble {
		t.Fatalf("expected reloaded store to report TypeDouble for pp7, got %v %v", kind, ok)
	}
}

func TestFeedbackStoreLoadRejectsNonObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("[1,2,3]"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	store := compilerenv.NewFeedbackStore()
	if err := store.LoadJSON(path); err == nil {
		t.Fatalf("expected LoadJSON to reject a non-object JSON document")
	}
}

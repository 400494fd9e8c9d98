package compilerenv

import (
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/go-dws/internal/ir"
)

// FeedbackStore is the one piece of state meant to survive a single
// Env — and, via SaveJSON/LoadJSON, a single process — so a long-lived
// host can keep de-optimization history warm across re-compiles of the
// same script (spec §4.8/§6). Concurrent Compiler instances share one
// FeedbackStore, hence the RWMutex guarding its map.
type FeedbackStore struct {
	mu   sync.RWMutex
	data map[string]ir.TypeKind
}

// NewFeedbackStore builds an empty store.
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{data: make(map[string]ir.TypeKind)}
}

// feedbackKey identifies a node for persistence purposes by its assigned
// program point (spec §4.7). Two functions can assign the same program
// point to unrelated nodes since the allocator resets per function, so
// this key is only meaningfully unique within one function body — good
// enough for the single-function on-demand recompiles spec §4.8 targets,
// not for a whole-program cache.
func feedbackKey(node ir.Expression) string {
	return fmt.Sprintf("pp%d", node.ProgramPoint())
}

// Record seeds feedback for node, as if a prior execution had observed
// its runtime value's shape.
func (s *FeedbackStore) Record(node ir.Expression, kind ir.TypeKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[feedbackKey(node)] = kind
}

// Get implements optimistic.FeedbackStore.
func (s *FeedbackStore) Get(node ir.Expression) (ir.TypeKind, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kind, ok := s.data[feedbackKey(node)]
	return kind, ok
}

// SaveJSON writes the store to path as a flat JSON object, one
// programPoint-keyed field per recorded observation, built incrementally
// with sjson so the on-disk shape stays a plain object rather than a
// Go-specific encoding.
func (s *FeedbackStore) SaveJSON(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := "{}"
	var err error
	for key, kind := range s.data {
		doc, err = sjson.Set(doc, key, int(kind))
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(doc), 0o644)
}

// LoadJSON replaces the store's contents with the observations recorded
// in the JSON object at path, read field by field with gjson.
func (s *FeedbackStore) LoadJSON(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsObject() {
		return fmt.Errorf("compilerenv: feedback file %s is not a JSON object", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]ir.TypeKind)
	parsed.ForEach(func(key, value gjson.Result) bool {
		s.data[key.String()] = ir.TypeKind(value.Int())
		return true
	})
	return nil
}

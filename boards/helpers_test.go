package boards

import (
	"path/filepath"
	"testing"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()

	store := NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	if err := store.Init(Seed()); err != nil {
		t.Fatal(err)
	}

	return store
}

func newService(t *testing.T, store Store, opts ...ServiceOption) *Service {
	t.Helper()

	w := NewWriter(store, 100)
	w.Start()
	t.Cleanup(w.Stop)

	return NewService(store, w, opts...)
}

// failingStore loads from a wrapped store and fails every save.
type failingStore struct {
	Store
	saveErr error
}

func (s *failingStore) Save(Document) error {
	return s.saveErr
}

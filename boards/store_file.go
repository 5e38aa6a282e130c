package boards

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flow-hydraulics/sticker-board/errors"
	log "github.com/sirupsen/logrus"
)

// FileStore keeps the document as a single JSON file. Saves replace the file
// atomically so readers never observe a partial document.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Init(seed Document) error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return &errors.IOError{Op: "stat", Path: s.path, Err: err}
	}

	log.WithFields(log.Fields{"path": s.path}).Info("Data file not found, creating default")

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &errors.IOError{Op: "mkdir", Path: filepath.Dir(s.path), Err: err}
	}

	return s.Save(seed)
}

func (s *FileStore) Load() (Document, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &errors.IOError{Op: "read", Path: s.path, Err: err}
	}

	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, &errors.ParseError{Path: s.path, Err: err}
	}

	// A literal null decodes to a nil map
	if doc == nil {
		doc = Document{}
	}

	return doc, nil
}

func (s *FileStore) Save(doc Document) error {
	doc.normalize()

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	return writeFileAtomic(s.path, b)
}

// writeFileAtomic writes b to a temp file next to path, syncs it and renames
// it over path.
func writeFileAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return &errors.IOError{Op: "create temp", Path: dir, Err: err}
	}
	tmpName := tmp.Name()

	fail := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &errors.IOError{Op: op, Path: tmpName, Err: err}
	}

	if _, err := tmp.Write(b); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &errors.IOError{Op: "close", Path: tmpName, Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &errors.IOError{Op: "rename", Path: path, Err: err}
	}

	return nil
}

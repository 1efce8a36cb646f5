package store

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/placerlab/placer/pkg/errors"
)

// FileStore keeps one JSON file per record:
// <dir>/documents/<id>.json and <dir>/runs/<document id>/<run id>.json.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "file store needs a directory")
	}
	for _, sub := range []string{"documents", "runs"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0700); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) documentPath(id string) string {
	return filepath.Join(s.dir, "documents", id+".json")
}

func (s *FileStore) runDir(documentID string) string {
	return filepath.Join(s.dir, "runs", documentID)
}

func (s *FileStore) SaveDocument(ctx context.Context, doc *Document) error {
	if doc.ID != "" {
		if err := errors.ValidateSlug(doc.ID); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(doc, time.Now().UTC())
	return writeJSON(s.documentPath(doc.ID), doc)
}

func (s *FileStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	if errors.ValidateSlug(id) != nil {
		return nil, notFound(id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc Document
	if err := readJSON(s.documentPath(id), &doc); err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, err
	}
	return &doc, nil
}

func (s *FileStore) ListDocuments(ctx context.Context) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.dir, "documents"))
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	var docs []*Document
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		var doc Document
		if err := readJSON(filepath.Join(s.dir, "documents", e.Name()), &doc); err != nil {
			continue
		}
		docs = append(docs, &doc)
	}
	slices.SortFunc(docs, func(a, b *Document) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return docs, nil
}

func (s *FileStore) DeleteDocument(ctx context.Context, id string) error {
	if errors.ValidateSlug(id) != nil {
		return notFound(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.documentPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove document: %w", err)
	}
	if err := os.RemoveAll(s.runDir(id)); err != nil {
		return fmt.Errorf("remove runs: %w", err)
	}
	return nil
}

func (s *FileStore) SaveRun(ctx context.Context, run *Run) error {
	if err := errors.ValidateSlug(run.DocumentID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stampRun(run, time.Now().UTC())
	dir := s.runDir(run.DocumentID)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}
	return writeJSON(filepath.Join(dir, run.ID+".json"), run)
}

func (s *FileStore) ListRuns(ctx context.Context, documentID string) ([]*Run, error) {
	if errors.ValidateSlug(documentID) != nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.runDir(documentID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read run dir: %w", err)
	}
	var runs []*Run
	for _, e := range entries {
		var run Run
		if err := readJSON(filepath.Join(s.runDir(documentID), e.Name()), &run); err != nil {
			continue
		}
		runs = append(runs, &run)
	}
	slices.SortFunc(runs, func(a, b *Run) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return runs, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the store root.
func (s *FileStore) Path() string { return s.dir }

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)

// Package store persists layouts and solver runs.
//
// Documents are stored as layout file text, the same bytes "save" would
// write, so any backend can hand a document straight to a solver.
// Backends:
//   - [SQLiteStore]: a single local database file, the CLI default
//   - [MongoStore]: shared storage for the HTTP server
//   - [FileStore]: one JSON file per record, useful for inspection
//
// Use [Open] to pick a backend from configuration:
//
//	st, err := store.Open(ctx, "sqlite", "/home/me/.local/share/placer/placer.db")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
package store

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/placerlab/placer/pkg/errors"
	pkgio "github.com/placerlab/placer/pkg/io"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/solver"
)

// Document is a stored layout.
type Document struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Layout    string       `json:"layout" bson:"layout"`
	Stats     layout.Stats `json:"stats" bson:"stats"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// Run records one solver invocation on a stored document.
type Run struct {
	ID         string         `json:"id" bson:"_id"`
	DocumentID string         `json:"document_id" bson:"document_id"`
	Solver     string         `json:"solver" bson:"solver"`
	Params     solver.Params  `json:"params,omitempty" bson:"params,omitempty"`
	Rows       []solver.Field `json:"rows" bson:"rows"`
	Output     string         `json:"output,omitempty" bson:"output,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}

// Store is implemented by every backend.
type Store interface {
	// SaveDocument inserts doc, or replaces the document with the same ID.
	// An empty ID is filled with a new UUID.
	SaveDocument(ctx context.Context, doc *Document) error

	// GetDocument returns a NOT_FOUND error for unknown ids.
	GetDocument(ctx context.Context, id string) (*Document, error)

	// ListDocuments returns all documents, most recently updated first.
	ListDocuments(ctx context.Context) ([]*Document, error)

	// DeleteDocument removes a document and its runs.
	DeleteDocument(ctx context.Context, id string) error

	SaveRun(ctx context.Context, run *Run) error

	// ListRuns returns the runs of a document, oldest first.
	ListRuns(ctx context.Context, documentID string) ([]*Run, error)

	Close() error
}

// NewDocument serializes doc into a record named name.
func NewDocument(name string, doc *layout.Document) (*Document, error) {
	if err := errors.ValidateSlug(name); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pkgio.Write(doc, &buf); err != nil {
		return nil, err
	}
	return &Document{Name: name, Layout: buf.String(), Stats: doc.Stats()}, nil
}

// Decode parses the stored layout into a new document.
func (d *Document) Decode(opts ...layout.Option) (*layout.Document, error) {
	return pkgio.Read(d.Name, bytes.NewReader([]byte(d.Layout)), opts...)
}

// NewRun records outcome as a run of document documentID.
func NewRun(documentID string, out *solver.Outcome) *Run {
	return &Run{
		ID:         out.RunID.String(),
		DocumentID: documentID,
		Solver:     out.Solver,
		Params:     out.Params,
		Rows:       out.Rows,
		Output:     string(out.Text),
	}
}

// Open returns the backend called kind ("sqlite", "mongo" or "file")
// connected to dsn.
func Open(ctx context.Context, kind, dsn string) (Store, error) {
	switch kind {
	case "sqlite", "":
		return NewSQLiteStore(ctx, dsn)
	case "mongo", "mongodb":
		return NewMongoStore(ctx, dsn, "")
	case "file":
		return NewFileStore(dsn)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", kind)
	}
}

// stamp fills the ID and timestamps of a document about to be saved.
func stamp(doc *Document, now time.Time) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
}

func stampRun(run *Run, now time.Time) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "document %s not found", id)
}

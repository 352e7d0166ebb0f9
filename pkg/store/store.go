// Package store persists layout and module specs.
//
// This package defines a Store interface with implementations for
// different backends:
//   - file: JSON files in a config directory for CLI usage
//   - mongo: MongoDB for the server, where records carry ownership
//
// Records wrap a spec with identity and bookkeeping metadata. The
// [Source] adapter exposes a Store as a spec resolver for the pipeline.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// Record is one persisted spec with its metadata.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Kind      spec.Kind `json:"kind" bson:"kind"`
	Name      string    `json:"name" bson:"name"`
	Owner     string    `json:"owner,omitempty" bson:"owner,omitempty"`
	Spec      spec.Spec `json:"spec" bson:"spec"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewRecord creates a record with a fresh id and timestamps.
func NewRecord(kind spec.Kind, name, owner string, s spec.Spec) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		Name:      name,
		Owner:     owner,
		Spec:      s,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Filter narrows List results. Zero-value fields match everything.
type Filter struct {
	Kind  spec.Kind
	Owner string
}

// Store is the interface for spec storage backends.
type Store interface {
	// Get retrieves a record by id.
	// Returns nil, nil if the record doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores a record, overwriting any existing record with the
	// same id. UpdatedAt is refreshed.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns records matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Source adapts a Store to the pipeline's spec resolver. Lookup
// failures (missing records, backend errors) read as absent specs.
type Source struct {
	ctx   context.Context
	store Store
}

// NewSource creates a resolver bound to the given context.
func NewSource(ctx context.Context, s Store) *Source {
	return &Source{ctx: ctx, store: s}
}

// Lookup resolves a spec by record id.
func (s *Source) Lookup(id string) (spec.Spec, bool) {
	rec, err := s.store.Get(s.ctx, id)
	if err != nil || rec == nil {
		return spec.Spec{}, false
	}
	return rec.Spec, true
}

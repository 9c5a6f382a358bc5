// Package storage is the clip record store: a document store keyed by
// (collection, documentID) with merge-on-write semantics, plus typed helpers
// for the records the bot keeps.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Store is the document-store contract every backend implements.
type Store interface {
	// Read returns the document at (collection, id). ok is false when the
	// document does not exist.
	Read(ctx context.Context, collection, id string) (doc map[string]any, ok bool, err error)
	// Write merges fields into the document at (collection, id), creating it
	// when missing.
	Write(ctx context.Context, collection, id string, fields map[string]any) error
	Close() error
}

const (
	BackendAuto      = "auto"
	BackendFile      = "file"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

var ErrInvalidPath = errors.New("collection and document id must be non-empty")

// Options selects and configures a backend.
type Options struct {
	Backend          string
	FilePath         string
	AutoSaveInterval time.Duration
	Firestore        FirestoreCredentials
}

// Open creates the backend described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	backend := strings.ToLower(opts.Backend)
	if backend == "" || backend == BackendAuto {
		backend = BackendFile
		if opts.Firestore.ProjectID != "" {
			backend = BackendFirestore
		}
	}

	log.Info().Str("backend", backend).Msg("opening clip store")

	switch backend {
	case BackendFile:
		return NewFileStore(opts.FilePath, opts.AutoSaveInterval)
	case BackendFirestore:
		return NewFirestoreStore(ctx, opts.Firestore)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

func checkPath(collection, id string) error {
	if collection == "" || id == "" {
		return ErrInvalidPath
	}
	return nil
}

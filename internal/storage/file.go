package storage

import (
	"context"
	"net/url"
	"time"

	"github.com/keshon/zara-music-bot/datastore"

	"github.com/rs/zerolog/log"
)

// FileStore keeps documents in a local JSON file. With no autosave interval
// every write is flushed to disk before it returns.
type FileStore struct {
	ds           *datastore.DataStore
	writeThrough bool
}

func NewFileStore(path string, autoSave time.Duration) (*FileStore, error) {
	if path == "" {
		path = "datastore.json"
	}
	cfg := datastore.DefaultConfig(path)
	cfg.AutoSaveInterval = autoSave
	cfg.Logger = log.With().Str("component", "datastore").Str("path", path).Logger()

	ds, err := datastore.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &FileStore{ds: ds, writeThrough: autoSave <= 0}, nil
}

func (s *FileStore) Read(_ context.Context, collection, id string) (map[string]any, bool, error) {
	if err := checkPath(collection, id); err != nil {
		return nil, false, err
	}
	doc, ok := s.ds.Get(fileKey(collection, id))
	return doc, ok, nil
}

func (s *FileStore) Write(_ context.Context, collection, id string, fields map[string]any) error {
	if err := checkPath(collection, id); err != nil {
		return err
	}
	if err := s.ds.Merge(fileKey(collection, id), fields); err != nil {
		return err
	}
	if s.writeThrough {
		return s.ds.Flush()
	}
	return nil
}

func (s *FileStore) Close() error {
	return s.ds.Close()
}

// fileKey escapes both parts so "a/b"+"c" and "a"+"b/c" never collide.
func fileKey(collection, id string) string {
	return url.PathEscape(collection) + "/" + url.PathEscape(id)
}

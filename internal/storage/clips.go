package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/keshon/zara-music-bot/internal/clip"

	"github.com/rs/zerolog/log"
)

// Clips reads and writes the bot's typed records on top of a Store.
type Clips struct {
	store Store
}

func NewClips(store Store) *Clips {
	return &Clips{store: store}
}

// Owner returns the record registered by userID, or nil when there is none.
func (c *Clips) Owner(ctx context.Context, userID string) (*clip.OwnerRecord, error) {
	doc, ok, err := c.store.Read(ctx, clip.UsersCollection, userID)
	if err != nil {
		return nil, fmt.Errorf("read owner %s: %w", userID, err)
	}
	if !ok {
		return nil, nil
	}

	var rec clip.OwnerRecord
	if err := decode(doc, &rec); err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("ignoring malformed owner record")
		return nil, nil
	}
	rec.Clip = rec.Clip.Normalized()
	if err := rec.Clip.Validate(); err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("ignoring owner record with invalid clip")
		return nil, nil
	}
	return &rec, nil
}

// SaveOwner upserts the record for userID.
func (c *Clips) SaveOwner(ctx context.Context, userID string, rec clip.OwnerRecord) error {
	if err := rec.Clip.Validate(); err != nil {
		return fmt.Errorf("save owner %s: %w", userID, err)
	}
	fields, err := encode(rec)
	if err != nil {
		return err
	}
	if err := c.store.Write(ctx, clip.UsersCollection, userID, fields); err != nil {
		return fmt.Errorf("write owner %s: %w", userID, err)
	}
	return nil
}

// RoomClip returns the clip stored for (kind, id), or nil when there is none.
func (c *Clips) RoomClip(ctx context.Context, kind, id string) (*clip.RoomClip, error) {
	doc, ok, err := c.store.Read(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("read room clip %s/%s: %w", kind, id, err)
	}
	if !ok {
		return nil, nil
	}

	var rc clip.RoomClip
	if err := decode(doc, &rc); err != nil || rc.URL == "" {
		log.Warn().Err(err).Str("kind", kind).Str("id", id).Msg("ignoring malformed room clip")
		return nil, nil
	}
	return &rc, nil
}

// SaveRoomClip upserts the clip for (kind, id).
func (c *Clips) SaveRoomClip(ctx context.Context, kind, id string, rc clip.RoomClip) error {
	fields, err := encode(rc)
	if err != nil {
		return err
	}
	if err := c.store.Write(ctx, kind, id, fields); err != nil {
		return fmt.Errorf("write room clip %s/%s: %w", kind, id, err)
	}
	return nil
}

func encode(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return fields, nil
}

func decode(doc map[string]any, v any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

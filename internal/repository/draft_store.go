package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stagepass/stagepass/internal/model"
)

// DraftStore carries in-progress booking selections between the
// selection step and the payment step. Drafts are keyed by a generated
// id and expire on their own, so concurrent selections (multi-tab)
// never clobber each other and abandoned drafts need no reclamation
// pass. The interface exists so handler tests can substitute an
// in-memory fake.
type DraftStore interface {
	Put(ctx context.Context, d *model.Draft) error
	Get(ctx context.Context, id string) (*model.Draft, error)
	Delete(ctx context.Context, id string) error
}

// RedisDraftStore stores drafts as JSON values under "draft:<id>" with
// a per-entry TTL.
type RedisDraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDraftStore returns a DraftStore backed by the given Redis
// client. ttl bounds the lifetime of every draft.
func NewRedisDraftStore(rdb *redis.Client, ttl time.Duration) *RedisDraftStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisDraftStore{rdb: rdb, ttl: ttl}
}

// TTL reports the configured draft lifetime.
func (s *RedisDraftStore) TTL() time.Duration { return s.ttl }

func draftKey(id string) string { return "draft:" + id }

// Put writes the draft under its id, overwriting any previous value
// and resetting the expiry clock.
func (s *RedisDraftStore) Put(ctx context.Context, d *model.Draft) error {
	body, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.rdb.SetEx(ctx, draftKey(d.ID), body, s.ttl).Err()
}

// Get returns the draft with the given id, or ErrDraftNotFound when it
// is missing or has expired.
func (s *RedisDraftStore) Get(ctx context.Context, id string) (*model.Draft, error) {
	body, err := s.rdb.Get(ctx, draftKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var d model.Draft
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes the draft. Deleting a missing draft is not an error;
// the operation is idempotent so the payment step can always clear.
func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, draftKey(id)).Err()
}

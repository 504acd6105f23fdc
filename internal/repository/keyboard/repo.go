// Package keyboard persists per-user keyboard mappings as JSON values.
package keyboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/folianet/foliant/internal/db"
	"github.com/folianet/foliant/internal/domain"
)

// store is the consumer interface for keyboard mappings (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/keyboard.Repository.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a keyboard repository. keyPrefix namespaces all keys.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Get returns the stored mapping for a user, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, user string) (domain.KeyboardMapping, error) {
	key := r.key(user)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.KeyboardMapping{}, domain.ErrNotFound
		}
		return domain.KeyboardMapping{}, fmt.Errorf("get %s: %w", key, err)
	}

	var m domain.KeyboardMapping
	if err := json.Unmarshal(raw, &m); err != nil {
		return domain.KeyboardMapping{}, fmt.Errorf("unmarshal mapping %s: %w", key, err)
	}
	return m, nil
}

// Save stores the full mapping record for a user.
func (r *Repo) Save(ctx context.Context, user string, m domain.KeyboardMapping) error {
	key := r.key(user)
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes a user's record. Deleting a missing record is a no-op.
func (r *Repo) Delete(ctx context.Context, user string) error {
	key := r.key(user)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (r *Repo) key(user string) string {
	return r.keyPrefix + "kbd:" + user
}

// Package prefs persists per-user display preferences as a redis hash.
package prefs

import (
	"context"
	"fmt"
	"strconv"

	"github.com/folianet/foliant/internal/domain"
)

// store is the consumer interface for preferences (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/prefs.Repository.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a preferences repository. keyPrefix namespaces all keys.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Get returns the stored preferences for a user. A user with no record
// yields domain.ErrNotFound; fields absent from the record stay zero.
func (r *Repo) Get(ctx context.Context, user string) (domain.Preferences, error) {
	key := r.key(user)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	// HGETALL answers an empty map for a missing key.
	if len(fields) == 0 {
		return domain.Preferences{}, domain.ErrNotFound
	}

	var p domain.Preferences
	p.ResultsPerPage, _ = strconv.Atoi(fields["resultsPerPage"])
	p.SnippetsPerDoc, _ = strconv.Atoi(fields["snippetsPerDoc"])
	p.Language = fields["language"]
	return p, nil
}

// Save stores the full preferences record for a user.
func (r *Repo) Save(ctx context.Context, user string, p domain.Preferences) error {
	key := r.key(user)
	fields := map[string]string{
		"resultsPerPage": strconv.Itoa(p.ResultsPerPage),
		"snippetsPerDoc": strconv.Itoa(p.SnippetsPerDoc),
		"language":       p.Language,
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
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
	return r.keyPrefix + "prefs:" + user
}

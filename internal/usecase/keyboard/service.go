// Package keyboard manages per-user virtual keyboard mappings for
// typing the corpus script.
package keyboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/folianet/foliant/internal/domain"
)

// Service reads and updates keyboard mappings, falling back to the
// configured default layout for users with no stored record.
type Service struct {
	repo     Repository
	defaults domain.KeyboardMapping
}

// New creates a keyboard service.
func New(repo Repository, defaults domain.KeyboardMapping) *Service {
	return &Service{repo: repo, defaults: defaults}
}

// Get returns the user's mapping, or the default layout when no record
// is stored.
func (s *Service) Get(ctx context.Context, user string) (domain.KeyboardMapping, error) {
	stored, err := s.repo.Get(ctx, user)
	if errors.Is(err, domain.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return domain.KeyboardMapping{}, fmt.Errorf("load keyboard mapping: %w", err)
	}
	return stored, nil
}

// Update replaces the user's mapping. from and to are zipped pairwise;
// unmatched tail entries and pairs with an empty key or value are
// dropped.
func (s *Service) Update(ctx context.Context, user string, from, to []string, enabled bool) (domain.KeyboardMapping, error) {
	n := len(from)
	if len(to) < n {
		n = len(to)
	}

	mapping := make(map[string]string, n)
	for i := 0; i < n; i++ {
		if from[i] == "" || to[i] == "" {
			continue
		}
		mapping[from[i]] = to[i]
	}

	m := domain.KeyboardMapping{Mapping: mapping, Enabled: enabled}
	if err := s.repo.Save(ctx, user, m); err != nil {
		return domain.KeyboardMapping{}, fmt.Errorf("save keyboard mapping: %w", err)
	}
	return m, nil
}

// Reset deletes the user's record, returning them to the default
// layout.
func (s *Service) Reset(ctx context.Context, user string) (domain.KeyboardMapping, error) {
	if err := s.repo.Delete(ctx, user); err != nil {
		return domain.KeyboardMapping{}, fmt.Errorf("delete keyboard mapping: %w", err)
	}
	return s.defaults, nil
}

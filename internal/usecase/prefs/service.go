// Package prefs manages per-user display preferences: results per
// page, snippets per document, and interface language.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"github.com/folianet/foliant/internal/domain"
)

// Service reads and updates preferences, overlaying configured
// defaults for users with no stored record.
type Service struct {
	repo     Repository
	defaults domain.Preferences
}

// New creates a preferences service.
func New(repo Repository, defaults domain.Preferences) *Service {
	return &Service{repo: repo, defaults: defaults}
}

// Get returns the user's effective preferences. Missing records and
// missing fields fall back to the configured defaults.
func (s *Service) Get(ctx context.Context, user string) (domain.Preferences, error) {
	stored, err := s.repo.Get(ctx, user)
	if errors.Is(err, domain.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return s.effective(stored), nil
}

// Update applies a partial update on top of the user's effective
// preferences and stores the full result.
func (s *Service) Update(ctx context.Context, user string, patch domain.PreferencesPatch) (domain.Preferences, error) {
	current, err := s.Get(ctx, user)
	if err != nil {
		return domain.Preferences{}, err
	}

	if patch.ResultsPerPage != nil {
		if *patch.ResultsPerPage <= 0 {
			return domain.Preferences{}, fmt.Errorf("results per page %d: %w",
				*patch.ResultsPerPage, domain.ErrInvalidPreference)
		}
		current.ResultsPerPage = *patch.ResultsPerPage
	}
	if patch.SnippetsPerDoc != nil {
		if *patch.SnippetsPerDoc <= 0 {
			return domain.Preferences{}, fmt.Errorf("snippets per doc %d: %w",
				*patch.SnippetsPerDoc, domain.ErrInvalidPreference)
		}
		current.SnippetsPerDoc = *patch.SnippetsPerDoc
	}
	if patch.Language != nil {
		canonical, err := canonicalLanguage(*patch.Language)
		if err != nil {
			return domain.Preferences{}, err
		}
		current.Language = canonical
	}

	if err := s.repo.Save(ctx, user, current); err != nil {
		return domain.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return current, nil
}

// Reset deletes the user's record, returning them to the defaults.
func (s *Service) Reset(ctx context.Context, user string) (domain.Preferences, error) {
	if err := s.repo.Delete(ctx, user); err != nil {
		return domain.Preferences{}, fmt.Errorf("delete preferences: %w", err)
	}
	return s.defaults, nil
}

// effective fills fields absent from a stored record with defaults.
func (s *Service) effective(stored domain.Preferences) domain.Preferences {
	if stored.ResultsPerPage <= 0 {
		stored.ResultsPerPage = s.defaults.ResultsPerPage
	}
	if stored.SnippetsPerDoc <= 0 {
		stored.SnippetsPerDoc = s.defaults.SnippetsPerDoc
	}
	if stored.Language == "" {
		stored.Language = s.defaults.Language
	}
	return stored
}

// canonicalLanguage validates a BCP 47 tag and returns its canonical
// form.
func canonicalLanguage(lang string) (string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("language %q: %w", lang, domain.ErrInvalidLanguage)
	}
	return tag.String(), nil
}

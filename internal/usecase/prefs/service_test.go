package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/folianet/foliant/internal/domain"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	getFn    func(ctx context.Context, user string) (domain.Preferences, error)
	saveFn   func(ctx context.Context, user string, p domain.Preferences) error
	deleteFn func(ctx context.Context, user string) error
}

func (m *mockRepo) Get(ctx context.Context, user string) (domain.Preferences, error) {
	if m.getFn != nil {
		return m.getFn(ctx, user)
	}
	return domain.Preferences{}, domain.ErrNotFound
}

func (m *mockRepo) Save(ctx context.Context, user string, p domain.Preferences) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, user, p)
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, user string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, user)
	}
	return nil
}

func testDefaults() domain.Preferences {
	return domain.Preferences{ResultsPerPage: 10, SnippetsPerDoc: 8, Language: "yi"}
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestGet_NoRecordReturnsDefaults(t *testing.T) {
	svc := New(&mockRepo{}, testDefaults())

	p, err := svc.Get(context.Background(), "chana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != testDefaults() {
		t.Errorf("got %+v, want defaults", p)
	}
}

func TestGet_PartialRecordOverlaysDefaults(t *testing.T) {
	repo := &mockRepo{
		getFn: func(context.Context, string) (domain.Preferences, error) {
			return domain.Preferences{ResultsPerPage: 25}, nil
		},
	}
	svc := New(repo, testDefaults())

	p, err := svc.Get(context.Background(), "chana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Preferences{ResultsPerPage: 25, SnippetsPerDoc: 8, Language: "yi"}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}
}

func TestUpdate_PartialPatch(t *testing.T) {
	var saved domain.Preferences
	repo := &mockRepo{
		getFn: func(context.Context, string) (domain.Preferences, error) {
			return domain.Preferences{ResultsPerPage: 25, SnippetsPerDoc: 4, Language: "en"}, nil
		},
		saveFn: func(_ context.Context, _ string, p domain.Preferences) error {
			saved = p
			return nil
		},
	}
	svc := New(repo, testDefaults())

	p, err := svc.Update(context.Background(), "chana", domain.PreferencesPatch{
		SnippetsPerDoc: intPtr(6),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Preferences{ResultsPerPage: 25, SnippetsPerDoc: 6, Language: "en"}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}
	if saved != want {
		t.Errorf("stored %+v, want %+v", saved, want)
	}
}

func TestUpdate_FirstUpdateStartsFromDefaults(t *testing.T) {
	var saved domain.Preferences
	repo := &mockRepo{
		saveFn: func(_ context.Context, _ string, p domain.Preferences) error {
			saved = p
			return nil
		},
	}
	svc := New(repo, testDefaults())

	_, err := svc.Update(context.Background(), "chana", domain.PreferencesPatch{
		ResultsPerPage: intPtr(50),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Preferences{ResultsPerPage: 50, SnippetsPerDoc: 8, Language: "yi"}
	if saved != want {
		t.Errorf("stored %+v, want %+v", saved, want)
	}
}

func TestUpdate_RejectsNonPositiveCounts(t *testing.T) {
	svc := New(&mockRepo{}, testDefaults())

	_, err := svc.Update(context.Background(), "chana", domain.PreferencesPatch{
		ResultsPerPage: intPtr(0),
	})
	if !errors.Is(err, domain.ErrInvalidPreference) {
		t.Fatalf("expected ErrInvalidPreference, got %v", err)
	}

	_, err = svc.Update(context.Background(), "chana", domain.PreferencesPatch{
		SnippetsPerDoc: intPtr(-1),
	})
	if !errors.Is(err, domain.ErrInvalidPreference) {
		t.Fatalf("expected ErrInvalidPreference, got %v", err)
	}
}

func TestUpdate_LanguageValidation(t *testing.T) {
	saveCalls := 0
	repo := &mockRepo{
		saveFn: func(context.Context, string, domain.Preferences) error {
			saveCalls++
			return nil
		},
	}
	svc := New(repo, testDefaults())

	_, err := svc.Update(context.Background(), "chana", domain.PreferencesPatch{
		Language: strPtr("not a language"),
	})
	if !errors.Is(err, domain.ErrInvalidLanguage) {
		t.Fatalf("expected ErrInvalidLanguage, got %v", err)
	}
	if saveCalls != 0 {
		t.Error("invalid patch must not be stored")
	}

	p, err := svc.Update(context.Background(), "chana", domain.PreferencesPatch{
		Language: strPtr("he"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Language != "he" {
		t.Errorf("unexpected language %q", p.Language)
	}
}

func TestReset(t *testing.T) {
	deleted := false
	repo := &mockRepo{
		deleteFn: func(_ context.Context, user string) error {
			if user != "chana" {
				t.Errorf("unexpected user %q", user)
			}
			deleted = true
			return nil
		},
	}
	svc := New(repo, testDefaults())

	p, err := svc.Reset(context.Background(), "chana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("record not deleted")
	}
	if p != testDefaults() {
		t.Errorf("reset must answer the defaults, got %+v", p)
	}
}

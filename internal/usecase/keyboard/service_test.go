package keyboard

import (
	"context"
	"testing"

	"github.com/folianet/foliant/internal/domain"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	getFn    func(ctx context.Context, user string) (domain.KeyboardMapping, error)
	saveFn   func(ctx context.Context, user string, m domain.KeyboardMapping) error
	deleteFn func(ctx context.Context, user string) error
}

func (m *mockRepo) Get(ctx context.Context, user string) (domain.KeyboardMapping, error) {
	if m.getFn != nil {
		return m.getFn(ctx, user)
	}
	return domain.KeyboardMapping{}, domain.ErrNotFound
}

func (m *mockRepo) Save(ctx context.Context, user string, km domain.KeyboardMapping) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, user, km)
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, user string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, user)
	}
	return nil
}

func testDefaults() domain.KeyboardMapping {
	return domain.KeyboardMapping{
		Mapping: map[string]string{"a": "א", "b": "ב"},
		Enabled: true,
	}
}

func TestGet_NoRecordReturnsDefaults(t *testing.T) {
	svc := New(&mockRepo{}, testDefaults())

	m, err := svc.Get(context.Background(), "chana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Enabled || m.Mapping["a"] != "א" {
		t.Errorf("expected default layout, got %+v", m)
	}
}

func TestGet_StoredRecordWins(t *testing.T) {
	repo := &mockRepo{
		getFn: func(context.Context, string) (domain.KeyboardMapping, error) {
			return domain.KeyboardMapping{Mapping: map[string]string{"x": "ש"}, Enabled: false}, nil
		},
	}
	svc := New(repo, testDefaults())

	m, err := svc.Get(context.Background(), "chana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Enabled || m.Mapping["x"] != "ש" {
		t.Errorf("expected stored record, got %+v", m)
	}
}

func TestUpdate_ZipsAndDropsEmptyPairs(t *testing.T) {
	var saved domain.KeyboardMapping
	repo := &mockRepo{
		saveFn: func(_ context.Context, _ string, m domain.KeyboardMapping) error {
			saved = m
			return nil
		},
	}
	svc := New(repo, testDefaults())

	from := []string{"a", "", "c", "d", "e"}
	to := []string{"א", "ב", "", "ד"}
	m, err := svc.Update(context.Background(), "chana", from, to, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// "" key dropped, "" value dropped, unmatched tail "e" dropped.
	want := map[string]string{"a": "א", "d": "ד"}
	if len(m.Mapping) != len(want) {
		t.Fatalf("got %v, want %v", m.Mapping, want)
	}
	for k, v := range want {
		if m.Mapping[k] != v {
			t.Errorf("mapping[%q] = %q, want %q", k, m.Mapping[k], v)
		}
	}
	if !saved.Enabled {
		t.Error("enabled flag not stored")
	}
}

func TestUpdate_EmptyInputStoresEmptyMapping(t *testing.T) {
	var saved domain.KeyboardMapping
	repo := &mockRepo{
		saveFn: func(_ context.Context, _ string, m domain.KeyboardMapping) error {
			saved = m
			return nil
		},
	}
	svc := New(repo, testDefaults())

	if _, err := svc.Update(context.Background(), "chana", nil, nil, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved.Mapping) != 0 || saved.Enabled {
		t.Errorf("expected empty disabled mapping, got %+v", saved)
	}
}

func TestReset(t *testing.T) {
	deleted := false
	repo := &mockRepo{
		deleteFn: func(context.Context, string) error {
			deleted = true
			return nil
		},
	}
	svc := New(repo, testDefaults())

	m, err := svc.Reset(context.Background(), "chana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("record not deleted")
	}
	if m.Mapping["a"] != "א" {
		t.Errorf("reset must answer the default layout, got %+v", m)
	}
}

package prefs

import (
	"context"

	"github.com/folianet/foliant/internal/domain"
)

// Repository persists per-user preference records.
type Repository interface {
	Get(ctx context.Context, user string) (domain.Preferences, error)
	Save(ctx context.Context, user string, p domain.Preferences) error
	Delete(ctx context.Context, user string) error
}

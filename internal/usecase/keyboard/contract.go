package keyboard

import (
	"context"

	"github.com/folianet/foliant/internal/domain"
)

// Repository persists per-user keyboard mapping records.
type Repository interface {
	Get(ctx context.Context, user string) (domain.KeyboardMapping, error)
	Save(ctx context.Context, user string, m domain.KeyboardMapping) error
	Delete(ctx context.Context, user string) error
}

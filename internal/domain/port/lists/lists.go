package lists

import (
	"context"

	"github.com/minsu-dev/fortune-bot/internal/domain"
)

// Source provides the recipient list. Implementations are expected to walk
// cursor pagination internally and return the full accumulated item set.
type Source interface {
	FetchAllItems(ctx context.Context, listID string) ([]domain.ListItem, error)
}

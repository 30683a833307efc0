package chat

import (
	"context"

	"github.com/minsu-dev/fortune-bot/internal/domain"
)

// Identity is the authenticated bot identity returned by the platform.
type Identity struct {
	UserID string
	BotID  string
	Team   string
	User   string
}

// IdentityChecker verifies the bot token and resolves the bot identity.
type IdentityChecker interface {
	AuthTest(ctx context.Context) (Identity, error)
}

// Messenger covers the delivery operations of the fortune batch.
type Messenger interface {
	// OpenDM opens (or resumes) a direct-message channel with the user and
	// returns its channel id.
	OpenDM(ctx context.Context, userID string) (string, error)
	// PostMessage posts plain text to a channel id.
	PostMessage(ctx context.Context, channelID, text string) error
}

// Purger covers the scan/delete operations of the purge utility. History
// and Replies return one page at a time together with the next cursor; an
// empty cursor ends the scan.
type Purger interface {
	History(ctx context.Context, channelID, cursor string) ([]domain.Message, string, error)
	Replies(ctx context.Context, channelID, threadTS, cursor string) ([]domain.Message, string, error)
	// DeleteMessage deletes a message by channel and timestamp. Callers are
	// expected to tolerate failures: already-deleted messages, missing
	// scopes and non-membership are all ordinary outcomes of a purge.
	DeleteMessage(ctx context.Context, channelID, ts string) error
}

// Package fortune drives the daily batch: one pass over the recipient
// list, a same-day dedup guard per item, generation, and delivery to the
// shared channel or to direct messages. Per-item failures are logged,
// surfaced to admins best-effort, and never stop the batch.
package fortune

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minsu-dev/fortune-bot/internal/domain"
	"github.com/minsu-dev/fortune-bot/internal/domain/port/chat"
	"github.com/minsu-dev/fortune-bot/internal/domain/port/generator"
	"github.com/minsu-dev/fortune-bot/internal/domain/port/lists"
	"github.com/minsu-dev/fortune-bot/internal/usecases/extract"
	"github.com/minsu-dev/fortune-bot/internal/usecases/prompt"
	"github.com/minsu-dev/fortune-bot/pkg/dedup"
	"github.com/minsu-dev/fortune-bot/pkg/logger"
	"go.uber.org/zap"
)

// dmPostPause spaces out consecutive DM posts to stay under the chat
// platform's implicit rate limits.
const dmPostPause = 400 * time.Millisecond

type Summary struct {
	Total   int
	Sent    int
	Skipped int
	Failed  int
}

// Render formats the run summary for stdout.
func (s *Summary) Render() string {
	var b strings.Builder
	b.WriteString("=== run summary ===\n")
	fmt.Fprintf(&b, "total=%d sent=%d skipped=%d failed=%d\n", s.Total, s.Sent, s.Skipped, s.Failed)
	return b.String()
}

type Deps struct {
	Lists     lists.Source
	Identity  chat.IdentityChecker
	Messenger chat.Messenger
	Generator generator.TextGenerator
	Extractor *extract.Extractor
	Composer  prompt.Composer
	ListID    string
	ChannelID string
	AdminIDs  []string
	Logger    *zap.Logger
}

type UseCase struct {
	deps Deps
	log  *zap.Logger

	// sent holds the daily signatures delivered during this run. The set
	// dies with the process; "once per day" is only enforced per run.
	sent map[string]struct{}

	now   func() time.Time
	pause func(ctx context.Context, d time.Duration) error
}

func NewUseCase(deps Deps) *UseCase {
	log := deps.Logger
	if log == nil {
		log = logger.L()
	}
	return &UseCase{
		deps:  deps,
		log:   log,
		sent:  make(map[string]struct{}),
		now:   time.Now,
		pause: sleepCtx,
	}
}

// Run executes one batch pass. Authentication and list-fetch failures are
// fatal; everything after that is recoverable per item.
func (u *UseCase) Run(ctx context.Context) (*Summary, error) {
	ident, err := u.deps.Identity.AuthTest(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth check failed: %w", err)
	}
	u.log.Info("Authenticated",
		zap.String("botUserID", ident.UserID),
		zap.String("botID", ident.BotID),
		zap.String("team", ident.Team),
	)

	items, err := u.deps.Lists.FetchAllItems(ctx, u.deps.ListID)
	if err != nil {
		return nil, fmt.Errorf("fetching list items: %w", err)
	}
	summary := &Summary{Total: len(items)}
	if len(items) == 0 {
		u.log.Info("No items in list, nothing to do")
		return summary, nil
	}

	today := u.now().Format("2006-01-02")
	for _, item := range items {
		sig := dedup.Signature(item.ID, today)
		if _, seen := u.sent[sig]; seen {
			summary.Skipped++
			u.log.Info("Skipping item, already sent today", zap.String("itemID", item.ID))
			continue
		}

		if err := u.processItem(ctx, item); err != nil {
			summary.Failed++
			u.log.Error("Item failed",
				zap.String("itemID", item.ID),
				zap.Error(err),
			)
			u.notifyAdmins(ctx, item.ID, err)
			continue
		}
		// Marked only after every delivery for the item succeeded.
		u.sent[sig] = struct{}{}
		summary.Sent++
	}

	u.log.Info("Run complete",
		zap.Int("total", summary.Total),
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (u *UseCase) processItem(ctx context.Context, item domain.ListItem) error {
	rec, err := u.deps.Extractor.BuildRecord(item)
	if err != nil {
		return err
	}

	text, err := u.deps.Generator.Generate(ctx, u.deps.Composer.Build(rec, u.now()))
	if err != nil {
		return err
	}

	if rec.IsPrivate {
		return u.deliverPrivate(ctx, rec, text)
	}
	if err := u.deps.Messenger.PostMessage(ctx, u.deps.ChannelID, text); err != nil {
		return fmt.Errorf("posting to channel %s: %w", u.deps.ChannelID, err)
	}
	u.log.Info("Posted fortune to channel",
		zap.String("itemID", rec.ItemID),
		zap.String("name", rec.Name),
		zap.String("channelID", u.deps.ChannelID),
	)
	return nil
}

// deliverPrivate posts to every DM target in order. There is no rollback:
// a failure mid-loop leaves earlier posts in place and fails the item.
func (u *UseCase) deliverPrivate(ctx context.Context, rec *domain.Recipient, text string) error {
	for _, userID := range rec.DMTargets {
		channelID, err := u.deps.Messenger.OpenDM(ctx, userID)
		if err != nil {
			return fmt.Errorf("opening dm with %s: %w", userID, err)
		}
		if err := u.deps.Messenger.PostMessage(ctx, channelID, text); err != nil {
			return fmt.Errorf("posting dm to %s: %w", userID, err)
		}
		if err := u.pause(ctx, dmPostPause); err != nil {
			return err
		}
	}
	u.log.Info("Sent private fortune",
		zap.String("itemID", rec.ItemID),
		zap.String("name", rec.Name),
		zap.Int("targets", len(rec.DMTargets)),
	)
	return nil
}

// notifyAdmins DMs every configured admin about a failed item. Notification
// failures are swallowed so a broken notification path cannot add noise on
// top of the original failure.
func (u *UseCase) notifyAdmins(ctx context.Context, itemID string, itemErr error) {
	for _, adminID := range u.deps.AdminIDs {
		channelID, err := u.deps.Messenger.OpenDM(ctx, adminID)
		if err != nil {
			u.log.Warn("Failed to open admin dm", zap.String("adminID", adminID), zap.Error(err))
			continue
		}
		text := fmt.Sprintf("[fortune-bot] item %s failed: %v", itemID, itemErr)
		if err := u.deps.Messenger.PostMessage(ctx, channelID, text); err != nil {
			u.log.Warn("Failed to notify admin", zap.String("adminID", adminID), zap.Error(err))
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

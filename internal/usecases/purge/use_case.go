// Package purge removes previously bot-authored messages from a channel.
// For threaded parents the bot-authored replies are deleted before the
// parent. Deletion failures are expected (already deleted, missing scope,
// not a member) and only logged; they never abort the scan.
package purge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minsu-dev/fortune-bot/internal/domain"
	"github.com/minsu-dev/fortune-bot/internal/domain/port/chat"
	"github.com/minsu-dev/fortune-bot/pkg/logger"
	"go.uber.org/zap"
)

// deletePause spaces out consecutive deletes to stay under the chat
// platform's implicit rate limits.
const deletePause = 350 * time.Millisecond

// errLimitReached stops the scan once the configured deletion cap is hit.
var errLimitReached = errors.New("deletion limit reached")

type Summary struct {
	Scanned  int
	Deleted  int
	Failed   int
	DryRun   bool
	LimitHit bool
}

// Render formats the purge summary for stdout.
func (s *Summary) Render() string {
	var b strings.Builder
	b.WriteString("=== purge summary ===\n")
	fmt.Fprintf(&b, "scanned=%d deleted=%d failed=%d dry_run=%t", s.Scanned, s.Deleted, s.Failed, s.DryRun)
	if s.LimitHit {
		b.WriteString(" (deletion cap reached)")
	}
	b.WriteString("\n")
	return b.String()
}

type UseCase struct {
	identity     chat.IdentityChecker
	purger       chat.Purger
	channelID    string
	dryRun       bool
	maxDeletions int // 0 means no cap
	log          *zap.Logger

	pause func(ctx context.Context, d time.Duration) error
}

func NewUseCase(identity chat.IdentityChecker, purger chat.Purger, channelID string, dryRun bool, maxDeletions int, log *zap.Logger) *UseCase {
	if log == nil {
		log = logger.L()
	}
	return &UseCase{
		identity:     identity,
		purger:       purger,
		channelID:    channelID,
		dryRun:       dryRun,
		maxDeletions: maxDeletions,
		log:          log,
		pause:        sleepCtx,
	}
}

// Run scans the channel history and deletes every bot-authored message.
func (u *UseCase) Run(ctx context.Context) (*Summary, error) {
	ident, err := u.identity.AuthTest(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth check failed: %w", err)
	}
	u.log.Info("Purging bot messages",
		zap.String("channelID", u.channelID),
		zap.String("botUserID", ident.UserID),
		zap.String("botID", ident.BotID),
		zap.Bool("dryRun", u.dryRun),
		zap.Int("maxDeletions", u.maxDeletions),
	)

	summary := &Summary{DryRun: u.dryRun}
	cursor := ""
	for {
		msgs, next, err := u.purger.History(ctx, u.channelID, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetching channel history: %w", err)
		}

		for i := range msgs {
			msg := &msgs[i]
			summary.Scanned++
			if !msg.AuthoredBy(ident.UserID, ident.BotID) {
				continue
			}
			if err := u.purgeMessage(ctx, ident, msg, summary); err != nil {
				if errors.Is(err, errLimitReached) {
					summary.LimitHit = true
					return summary, nil
				}
				return nil, err
			}
		}

		cursor = next
		if cursor == "" {
			return summary, nil
		}
	}
}

// purgeMessage deletes one bot-authored message, clearing its bot-authored
// thread replies first.
func (u *UseCase) purgeMessage(ctx context.Context, ident chat.Identity, msg *domain.Message, summary *Summary) error {
	if msg.ReplyCount > 0 {
		cursor := ""
		for {
			replies, next, err := u.purger.Replies(ctx, u.channelID, msg.TS, cursor)
			if err != nil {
				return fmt.Errorf("fetching thread replies for %s: %w", msg.TS, err)
			}
			for i := range replies {
				reply := &replies[i]
				if reply.TS == msg.TS {
					continue
				}
				if !reply.AuthoredBy(ident.UserID, ident.BotID) {
					continue
				}
				if err := u.deleteOne(ctx, reply.TS, summary); err != nil {
					return err
				}
			}
			cursor = next
			if cursor == "" {
				break
			}
		}
	}
	return u.deleteOne(ctx, msg.TS, summary)
}

func (u *UseCase) deleteOne(ctx context.Context, ts string, summary *Summary) error {
	if u.maxDeletions > 0 && summary.Deleted >= u.maxDeletions {
		return errLimitReached
	}
	if u.dryRun {
		summary.Deleted++
		u.log.Info("Would delete message (dry run)", zap.String("ts", ts))
		return nil
	}
	if err := u.purger.DeleteMessage(ctx, u.channelID, ts); err != nil {
		summary.Failed++
		u.log.Warn("Failed to delete message", zap.String("ts", ts), zap.Error(err))
		return nil
	}
	summary.Deleted++
	return u.pause(ctx, deletePause)
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

// Package audit validates every list item without generating or delivering
// anything. It is the non-mutating companion of the extraction rules: an
// item fails the audit exactly when extraction would reject it.
package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/minsu-dev/fortune-bot/internal/domain"
	"github.com/minsu-dev/fortune-bot/internal/domain/port/lists"
	"github.com/minsu-dev/fortune-bot/internal/usecases/extract"
	"github.com/minsu-dev/fortune-bot/pkg/logger"
	"go.uber.org/zap"
)

type ItemResult struct {
	ID       string
	Name     string
	Errors   []string
	Warnings []string
}

type Report struct {
	Total    int
	Passed   int
	Failed   int
	Warnings int
	// Failures holds per-item detail for failing items only.
	Failures []ItemResult
}

type UseCase struct {
	source    lists.Source
	extractor *extract.Extractor
	listID    string
	log       *zap.Logger
}

func NewUseCase(source lists.Source, extractor *extract.Extractor, listID string, log *zap.Logger) *UseCase {
	if log == nil {
		log = logger.L()
	}
	return &UseCase{source: source, extractor: extractor, listID: listID, log: log}
}

// Run fetches the full list and evaluates every item. List-fetch failures
// are fatal; per-item findings never stop the batch.
func (u *UseCase) Run(ctx context.Context) (*Report, error) {
	items, err := u.source.FetchAllItems(ctx, u.listID)
	if err != nil {
		return nil, fmt.Errorf("fetching list items: %w", err)
	}
	report := u.Evaluate(items)
	u.log.Info("Audit complete",
		zap.Int("total", report.Total),
		zap.Int("passed", report.Passed),
		zap.Int("failed", report.Failed),
		zap.Int("warnings", report.Warnings),
	)
	return report, nil
}

// Evaluate audits the given items without any network access.
func (u *UseCase) Evaluate(items []domain.ListItem) *Report {
	report := &Report{Total: len(items)}
	for _, item := range items {
		violations, warnings := u.extractor.Audit(item)
		report.Warnings += len(warnings)
		if len(violations) == 0 {
			report.Passed++
			continue
		}
		report.Failed++
		report.Failures = append(report.Failures, ItemResult{
			ID:       item.ID,
			Name:     extract.Name(item),
			Errors:   violations,
			Warnings: warnings,
		})
	}
	return report
}

// Render formats the report for stdout.
func (r *Report) Render() string {
	var b strings.Builder
	b.WriteString("=== audit report ===\n")
	fmt.Fprintf(&b, "total=%d passed=%d failed=%d warnings=%d\n", r.Total, r.Passed, r.Failed, r.Warnings)
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "- %s (%s)\n", f.Name, f.ID)
		for _, e := range f.Errors {
			fmt.Fprintf(&b, "    error: %s\n", e)
		}
		for _, w := range f.Warnings {
			fmt.Fprintf(&b, "    warning: %s\n", w)
		}
	}
	return b.String()
}

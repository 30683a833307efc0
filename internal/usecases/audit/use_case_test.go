package audit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/minsu-dev/fortune-bot/configs"
	"github.com/minsu-dev/fortune-bot/internal/domain"
	"github.com/minsu-dev/fortune-bot/internal/usecases/extract"
)

// --- Mocks ---

type MockListSource struct {
	mock.Mock
}

func (m *MockListSource) FetchAllItems(ctx context.Context, listID string) ([]domain.ListItem, error) {
	args := m.Called(ctx, listID)
	if items, ok := args.Get(0).([]domain.ListItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- Fixtures ---

func newTestExtractor() *extract.Extractor {
	timeOpts := make(map[string]string, 13)
	for i := 0; i <= 12; i++ {
		timeOpts[fmt.Sprintf("OptT%d", i)] = strconv.Itoa(i)
	}
	return extract.NewExtractor(
		configs.ColumnSchema{Gender: "colG", Time: "colT", Birthday: "colB", Private: "colP", Assignee: "colA"},
		map[string]string{"OptM": "m", "OptF": "f"},
		timeOpts,
		nil,
	)
}

func validItem(id string) domain.ListItem {
	return domain.ListItem{
		ID: id,
		Fields: []domain.Field{
			{ColumnID: "colN", Key: "name", Text: "홍길동"},
			{ColumnID: "colB", Value: "1990-05-14"},
			{ColumnID: "colG", Select: []string{"OptM"}},
			{ColumnID: "colT", Select: []string{"OptT3"}},
			{ColumnID: "colP", Value: false},
		},
	}
}

func brokenItem(id string) domain.ListItem {
	return domain.ListItem{
		ID: id,
		Fields: []domain.Field{
			{ColumnID: "colN", Key: "name", Text: "김철수"},
			{ColumnID: "colG", Select: []string{"OptM"}},
			{ColumnID: "colT", Select: []string{"OptT3"}},
			{ColumnID: "colP", Value: false},
		},
	}
}

// --- Tests ---

func TestEvaluate(t *testing.T) {
	uc := NewUseCase(nil, newTestExtractor(), "L123", zap.NewNop())

	report := uc.Evaluate([]domain.ListItem{
		validItem("Rec1"),
		brokenItem("Rec2"),
		validItem("Rec3"),
	})

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "Rec2", report.Failures[0].ID)
	assert.Equal(t, "김철수", report.Failures[0].Name)
	assert.Contains(t, report.Failures[0].Errors, "birthday missing")
}

func TestEvaluateCountsWarnings(t *testing.T) {
	item := validItem("Rec1")
	var fields []domain.Field
	for _, f := range item.Fields {
		if f.ColumnID != "colP" {
			fields = append(fields, f)
		}
	}
	item.Fields = fields

	uc := NewUseCase(nil, newTestExtractor(), "L123", zap.NewNop())
	report := uc.Evaluate([]domain.ListItem{item})

	// A missing privacy checkbox is a warning, never a failure.
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1, report.Warnings)
}

func TestRunFetchesAndEvaluates(t *testing.T) {
	source := new(MockListSource)
	source.On("FetchAllItems", mock.Anything, "L123").
		Return([]domain.ListItem{validItem("Rec1"), brokenItem("Rec2")}, nil)

	uc := NewUseCase(source, newTestExtractor(), "L123", zap.NewNop())
	report, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Failed)
	source.AssertExpectations(t)
}

func TestRunPropagatesFetchFailure(t *testing.T) {
	source := new(MockListSource)
	source.On("FetchAllItems", mock.Anything, "L123").Return(nil, errors.New("boom"))

	uc := NewUseCase(source, newTestExtractor(), "L123", zap.NewNop())
	_, err := uc.Run(context.Background())

	assert.ErrorContains(t, err, "boom")
}

func TestReportRender(t *testing.T) {
	report := &Report{
		Total:  3,
		Passed: 2,
		Failed: 1,
		Failures: []ItemResult{
			{ID: "Rec2", Name: "김철수", Errors: []string{"birthday missing"}},
		},
	}

	out := report.Render()
	assert.Contains(t, out, "total=3 passed=2 failed=1")
	assert.Contains(t, out, "김철수 (Rec2)")
	assert.Contains(t, out, "error: birthday missing")
}

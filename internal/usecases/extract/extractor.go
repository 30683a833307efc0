// Package extract projects raw list items into normalized recipient
// records. Extraction fails per item on an unresolvable birthday, gender or
// birth-time value; missing privacy and assignee fields are tolerated.
package extract

import (
	"errors"
	"fmt"

	"github.com/minsu-dev/fortune-bot/configs"
	"github.com/minsu-dev/fortune-bot/internal/domain"
)

// namePlaceholder is used when an item carries no usable text field.
const namePlaceholder = "(이름없음)"

type Extractor struct {
	cols       configs.ColumnSchema
	genderOpts map[string]string
	timeOpts   map[string]string
	adminIDs   []string
}

func NewExtractor(cols configs.ColumnSchema, genderOpts, timeOpts map[string]string, adminIDs []string) *Extractor {
	return &Extractor{
		cols:       cols,
		genderOpts: genderOpts,
		timeOpts:   timeOpts,
		adminIDs:   adminIDs,
	}
}

// BuildRecord builds the recipient record for one list item.
func (e *Extractor) BuildRecord(item domain.ListItem) (*domain.Recipient, error) {
	name := Name(item)

	birthday, err := e.extractBirthday(item)
	if err != nil {
		return nil, err
	}

	gender, err := e.extractGender(item)
	if err != nil {
		return nil, err
	}

	timeCode, err := e.extractTimeCode(item)
	if err != nil {
		return nil, err
	}

	isPrivate, err := e.extractPrivacy(item)
	if err != nil {
		return nil, err
	}

	assignees, err := e.extractAssignees(item)
	if err != nil {
		return nil, err
	}
	dmTargets := uniquePreserveOrder(append(assignees, e.adminIDs...))

	rec := &domain.Recipient{
		ItemID:    item.ID,
		Name:      name,
		Birthday:  birthday,
		Gender:    gender,
		TimeCode:  timeCode,
		IsPrivate: isPrivate,
		DMTargets: dmTargets,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Name prefers the field keyed "name", then falls back to the first
// non-empty text field, then to a placeholder.
func Name(item domain.ListItem) string {
	for _, f := range item.Fields {
		if f.Key == "name" && f.Text != "" {
			return f.Text
		}
	}
	for _, f := range item.Fields {
		if f.Text != "" {
			return f.Text
		}
	}
	return namePlaceholder
}

func (e *Extractor) extractBirthday(item domain.ListItem) (string, error) {
	f := item.FieldByColumn(e.cols.Birthday)
	if f == nil {
		return "", errors.New("birthday missing")
	}
	birthday, err := f.AsDate()
	if err != nil {
		if errors.Is(err, domain.ErrValueMissing) {
			return "", errors.New("birthday missing")
		}
		return "", err
	}
	if !domain.ValidBirthday(birthday) {
		return "", fmt.Errorf("birthday %q not in YYYY-MM-DD format", birthday)
	}
	return birthday, nil
}

func (e *Extractor) extractGender(item domain.ListItem) (string, error) {
	opt, err := selectOption(item, e.cols.Gender)
	if err != nil {
		return "", errors.New("gender select missing")
	}
	gender, ok := e.genderOpts[opt]
	if !ok {
		return "", fmt.Errorf("unknown gender option: %s", opt)
	}
	return gender, nil
}

func (e *Extractor) extractTimeCode(item domain.ListItem) (string, error) {
	opt, err := selectOption(item, e.cols.Time)
	if err != nil {
		return "", errors.New("time select missing")
	}
	code, ok := e.timeOpts[opt]
	if !ok {
		return "", fmt.Errorf("unknown time option: %s", opt)
	}
	return code, nil
}

// extractPrivacy treats a missing checkbox as false; a present field of the
// wrong shape is still an error.
func (e *Extractor) extractPrivacy(item domain.ListItem) (bool, error) {
	f := item.FieldByColumn(e.cols.Private)
	if f == nil {
		return false, nil
	}
	checked, err := f.AsCheckbox()
	if err != nil {
		if errors.Is(err, domain.ErrValueMissing) {
			return false, nil
		}
		return false, err
	}
	return checked, nil
}

// extractAssignees tolerates a missing assignee field; admins may still
// provide DM targets.
func (e *Extractor) extractAssignees(item domain.ListItem) ([]string, error) {
	f := item.FieldByColumn(e.cols.Assignee)
	if f == nil {
		return nil, nil
	}
	ids, err := f.AsUserIDs()
	if err != nil {
		if errors.Is(err, domain.ErrValueMissing) {
			return nil, nil
		}
		return nil, err
	}
	return ids, nil
}

func selectOption(item domain.ListItem, colID string) (string, error) {
	f := item.FieldByColumn(colID)
	if f == nil {
		return "", domain.ErrValueMissing
	}
	return f.AsSelectOption()
}

func uniquePreserveOrder(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

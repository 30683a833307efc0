package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValueMissing reports a field that exists but carries no usable value
// for the requested kind. Callers decide whether that is a defaultable
// condition (privacy checkbox) or a hard failure (birthday).
var ErrValueMissing = errors.New("field value missing")

// Field is one cell of a Slack list item. The wire payload is duck-typed:
// depending on the column kind Slack populates text, value, date, select,
// checkbox or user. Each As* decoder accepts exactly the shapes valid for
// its kind and fails closed on anything else.
type Field struct {
	ColumnID string   `json:"column_id"`
	Key      string   `json:"key"`
	Text     string   `json:"text"`
	Value    any      `json:"value"`
	Date     []string `json:"date"`
	Select   []string `json:"select"`
	Checkbox *bool    `json:"checkbox"`
	User     []string `json:"user"`
}

// AsDate decodes a date column: a "YYYY-MM-DD" string value, or the first
// entry of the date list.
func (f *Field) AsDate() (string, error) {
	if s, ok := f.Value.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s), nil
	}
	if len(f.Date) > 0 && strings.TrimSpace(f.Date[0]) != "" {
		return strings.TrimSpace(f.Date[0]), nil
	}
	if f.Value != nil {
		return "", fmt.Errorf("column %s: unexpected date value of type %T", f.ColumnID, f.Value)
	}
	return "", ErrValueMissing
}

// AsSelectOption decodes a single-select column: the first selected option
// id, or an option-id-shaped string value.
func (f *Field) AsSelectOption() (string, error) {
	if len(f.Select) > 0 && strings.TrimSpace(f.Select[0]) != "" {
		return strings.TrimSpace(f.Select[0]), nil
	}
	if s, ok := f.Value.(string); ok && strings.HasPrefix(strings.TrimSpace(s), "Opt") {
		return strings.TrimSpace(s), nil
	}
	if f.Value != nil {
		return "", fmt.Errorf("column %s: unexpected select value of type %T", f.ColumnID, f.Value)
	}
	return "", ErrValueMissing
}

// AsCheckbox decodes a checkbox column.
func (f *Field) AsCheckbox() (bool, error) {
	if b, ok := f.Value.(bool); ok {
		return b, nil
	}
	if f.Checkbox != nil {
		return *f.Checkbox, nil
	}
	if f.Value != nil {
		return false, fmt.Errorf("column %s: unexpected checkbox value of type %T", f.ColumnID, f.Value)
	}
	return false, ErrValueMissing
}

// AsUserIDs decodes a user column: a user id list, or a single
// user-id-shaped string value.
func (f *Field) AsUserIDs() ([]string, error) {
	if len(f.User) > 0 {
		ids := make([]string, 0, len(f.User))
		for _, u := range f.User {
			if strings.TrimSpace(u) != "" {
				ids = append(ids, u)
			}
		}
		return ids, nil
	}
	if s, ok := f.Value.(string); ok && strings.HasPrefix(s, "U") {
		return []string{s}, nil
	}
	if f.Value != nil {
		return nil, fmt.Errorf("column %s: unexpected user value of type %T", f.ColumnID, f.Value)
	}
	return nil, ErrValueMissing
}

// ListItem is one row of the externally managed recipient list. Read-only
// from this system's perspective.
type ListItem struct {
	ID     string  `json:"id"`
	Fields []Field `json:"fields"`
}

// FieldByColumn returns the field tagged with the given column id, or nil.
func (it *ListItem) FieldByColumn(colID string) *Field {
	for i := range it.Fields {
		if it.Fields[i].ColumnID == colID {
			return &it.Fields[i]
		}
	}
	return nil
}

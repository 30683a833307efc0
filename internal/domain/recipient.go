package domain

import (
	"fmt"
	"regexp"
)

var birthdayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Recipient is the normalized per-run projection of a list item. It is
// rebuilt from the list on every run and never persisted.
type Recipient struct {
	ItemID    string
	Name      string
	Birthday  string // YYYY-MM-DD
	Gender    string // "m" or "f"
	TimeCode  string // "0".."12"
	IsPrivate bool
	DMTargets []string
}

// Validate enforces the record invariants: birthday shape, known gender and
// time codes, and non-empty DM targets for private recipients.
func (r *Recipient) Validate() error {
	if !birthdayPattern.MatchString(r.Birthday) {
		return fmt.Errorf("birthday %q not in YYYY-MM-DD format", r.Birthday)
	}
	if r.Gender != "m" && r.Gender != "f" {
		return fmt.Errorf("invalid gender code: %q", r.Gender)
	}
	if _, ok := timeCodeLabels[r.TimeCode]; !ok {
		return fmt.Errorf("invalid time code: %q", r.TimeCode)
	}
	if r.IsPrivate && len(r.DMTargets) == 0 {
		return fmt.Errorf("private recipient has no dm targets (assignee/admin)")
	}
	return nil
}

// GenderLabel returns the Korean gender label used in prompts.
func (r *Recipient) GenderLabel() string {
	if r.Gender == "m" {
		return "남성"
	}
	return "여성"
}

// ValidBirthday reports whether a birthday string matches YYYY-MM-DD.
func ValidBirthday(s string) bool {
	return birthdayPattern.MatchString(s)
}

// The twelve traditional two-hour birth buckets plus "unknown".
var timeCodeLabels = map[string]string{
	"0":  "子(자) 23:30 ~ 01:29",
	"1":  "丑(축) 01:30 ~ 03:29",
	"2":  "寅(인) 03:30 ~ 05:29",
	"3":  "卯(묘) 05:30 ~ 07:29",
	"4":  "辰(진) 07:30 ~ 09:29",
	"5":  "巳(사) 09:30 ~ 11:29",
	"6":  "午(오) 11:30 ~ 13:29",
	"7":  "未(미) 13:30 ~ 15:29",
	"8":  "申(신) 15:30 ~ 17:29",
	"9":  "酉(유) 17:30 ~ 19:29",
	"10": "戌(술) 19:30 ~ 21:29",
	"11": "亥(해) 21:30 ~ 23:29",
	"12": "모름",
}

// TimeCodeLabel resolves a time code to its display label, falling back to
// the unknown bucket.
func TimeCodeLabel(code string) string {
	if label, ok := timeCodeLabels[code]; ok {
		return label
	}
	return "모름"
}

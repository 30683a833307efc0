package extract

import (
	"errors"

	"github.com/minsu-dev/fortune-bot/internal/domain"
)

// Audit re-applies the extraction rules in a reporting mode: instead of
// failing on the first violation it collects every violation as a
// human-readable string. An item passes auditing exactly when BuildRecord
// would succeed for it; a missing privacy checkbox is a warning, not a
// violation.
func (e *Extractor) Audit(item domain.ListItem) (violations, warnings []string) {
	if _, err := e.extractBirthday(item); err != nil {
		violations = append(violations, err.Error())
	}
	if _, err := e.extractGender(item); err != nil {
		violations = append(violations, err.Error())
	}
	if _, err := e.extractTimeCode(item); err != nil {
		violations = append(violations, err.Error())
	}

	isPrivate := false
	if f := item.FieldByColumn(e.cols.Private); f == nil {
		warnings = append(warnings, "privacy checkbox missing; treated as unchecked")
	} else if v, err := f.AsCheckbox(); err != nil {
		if errors.Is(err, domain.ErrValueMissing) {
			warnings = append(warnings, "privacy checkbox missing; treated as unchecked")
		} else {
			violations = append(violations, err.Error())
		}
	} else {
		isPrivate = v
	}

	assignees, err := e.extractAssignees(item)
	if err != nil {
		violations = append(violations, err.Error())
	}
	if isPrivate {
		if targets := uniquePreserveOrder(append(assignees, e.adminIDs...)); len(targets) == 0 {
			violations = append(violations, "private recipient has no dm targets (assignee/admin)")
		}
	}
	return violations, warnings
}

package attendance

import (
	"academy_go/models"
	"fmt"
	"time"
)

// CompensationLookup reports whether some other MAKEUP record for the
// student already compensates the given date. Implementations exclude
// the record identified by excludeID (0 for new records) so an update
// does not collide with its own row.
type CompensationLookup func(studentID uint, compensatesFor time.Time, excludeID uint) (bool, error)

// ValidateMakeup enforces makeup-compensation integrity for a candidate
// entry. It is a no-op for REGULAR entries. The compensated date must
// exist, lie strictly before the makeup session's own date, not lie in
// the future, and not already be compensated by another makeup record.
func ValidateMakeup(entryType string, ownDate time.Time, compensatesFor *time.Time, today time.Time, studentID, excludeID uint, lookup CompensationLookup) error {
	if entryType != models.EntryMakeup {
		return nil
	}
	if compensatesFor == nil {
		return violationf(ViolationMissingCompensation,
			"compensatesForDate is required for MAKEUP attendance entries")
	}

	target := DateOnly(*compensatesFor)
	if target.After(DateOnly(today)) {
		return violationf(ViolationFutureCompensation, "cannot compensate for a future date")
	}
	if !target.Before(DateOnly(ownDate)) {
		return violationf(ViolationSelfCompensation,
			"compensated date must be earlier than the makeup session date")
	}

	taken, err := lookup(studentID, target, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return violationf(ViolationDuplicateCompensation, fmt.Sprintf(
			"absence on %s has already been compensated with a makeup session", target.Format("2006-01-02")))
	}
	return nil
}

package attendance

import (
	"fmt"
	"time"
)

// BackdatePolicy decides whether a date may be written by a given role.
// Coaches get a short correction window; admins a longer override
// window. Every backdated write must carry a justification, which is
// what makes the audit log usable as dispute evidence.
type BackdatePolicy struct {
	CoachWindowDays int
	AdminWindowDays int
}

// DefaultBackdatePolicy mirrors the shipped configuration defaults.
func DefaultBackdatePolicy() BackdatePolicy {
	return BackdatePolicy{CoachWindowDays: 7, AdminWindowDays: 30}
}

func (p BackdatePolicy) windowFor(role Role) int {
	if role == RoleAdmin {
		return p.AdminWindowDays
	}
	return p.CoachWindowDays
}

// Validate checks date against today for the given actor. A nil return
// means the write may proceed. reason is only consulted for past dates.
func (p BackdatePolicy) Validate(date, today time.Time, actor Actor, reason string) *Violation {
	date = DateOnly(date)
	today = DateOnly(today)

	if date.After(today) {
		return violationf(ViolationFutureDate, "cannot mark attendance for future dates")
	}
	if date.Equal(today) {
		return nil
	}

	daysAgo := daysBetween(date, today)
	window := p.windowFor(actor.Role)
	if daysAgo > window {
		roleName := "Coach"
		if actor.Role == RoleAdmin {
			roleName = "Admin"
		}
		return violationf(ViolationWindowExceeded, fmt.Sprintf(
			"%s can only modify attendance within the last %d days; this date is %d days ago",
			roleName, window, daysAgo))
	}

	if isBlank(reason) {
		return violationf(ViolationMissingReason,
			"a reason is required when marking or editing attendance for past dates")
	}
	return nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

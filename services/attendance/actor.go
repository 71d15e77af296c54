package attendance

import "time"

// Role of the acting principal, as asserted by the authorization layer.
type Role string

const (
	RoleCoach Role = "COACH"
	RoleAdmin Role = "ADMIN"
)

// Actor identifies who is performing a mutation. The attendance core
// never inspects credentials; it only switches policy on the role.
type Actor struct {
	ID   uint
	Role Role
}

// DateOnly truncates t to its calendar date in UTC. All attendance
// dates flow through this so equality and ordering are day-granular.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b (both date-only).
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

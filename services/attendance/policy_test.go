package attendance

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBackdatePolicyValidate(t *testing.T) {
	policy := DefaultBackdatePolicy()
	today := day(2026, 8, 28)
	coach := Actor{ID: 1, Role: RoleCoach}
	admin := Actor{ID: 2, Role: RoleAdmin}

	tests := []struct {
		name     string
		date     time.Time
		actor    Actor
		reason   string
		wantKind ViolationKind
	}{
		{
			name:  "today needs no reason",
			date:  today,
			actor: coach,
		},
		{
			name:     "future date rejected",
			date:     today.AddDate(0, 0, 1),
			actor:    admin,
			reason:   "whatever",
			wantKind: ViolationFutureDate,
		},
		{
			name:   "coach within window with reason",
			date:   today.AddDate(0, 0, -7),
			actor:  coach,
			reason: "marked late after tournament travel",
		},
		{
			name:     "coach one day past window",
			date:     today.AddDate(0, 0, -8),
			actor:    coach,
			reason:   "reason given",
			wantKind: ViolationWindowExceeded,
		},
		{
			name:   "admin can reach past the coach window",
			date:   today.AddDate(0, 0, -8),
			actor:  admin,
			reason: "correction requested by coach",
		},
		{
			name:   "admin at window edge",
			date:   today.AddDate(0, 0, -30),
			actor:  admin,
			reason: "quarterly reconciliation",
		},
		{
			name:     "admin past window",
			date:     today.AddDate(0, 0, -31),
			actor:    admin,
			reason:   "reason given",
			wantKind: ViolationWindowExceeded,
		},
		{
			name:     "past date without reason",
			date:     today.AddDate(0, 0, -1),
			actor:    coach,
			wantKind: ViolationMissingReason,
		},
		{
			name:     "whitespace reason counts as missing",
			date:     today.AddDate(0, 0, -1),
			actor:    admin,
			reason:   "  \t\n",
			wantKind: ViolationMissingReason,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			v := policy.Validate(tc.date, today, tc.actor, tc.reason)
			if tc.wantKind == "" {
				if v != nil {
					t.Fatalf("expected no violation, got %s: %s", v.Kind, v.Detail)
				}
				return
			}
			if v == nil {
				t.Fatalf("expected %s violation, got none", tc.wantKind)
			}
			if v.Kind != tc.wantKind {
				t.Fatalf("expected %s, got %s (%s)", tc.wantKind, v.Kind, v.Detail)
			}
		})
	}
}

func TestBackdatePolicyIgnoresClockTime(t *testing.T) {
	policy := DefaultBackdatePolicy()
	// Same calendar day, later wall-clock time, must not count as future
	today := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	date := time.Date(2026, 8, 28, 23, 30, 0, 0, time.UTC)

	if v := policy.Validate(date, today, Actor{ID: 1, Role: RoleCoach}, ""); v != nil {
		t.Fatalf("expected same-day mark to pass, got %s: %s", v.Kind, v.Detail)
	}
}

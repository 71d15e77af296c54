package attendance

import (
	"errors"
	"testing"
	"time"

	"academy_go/models"
)

func noCompensation(uint, time.Time, uint) (bool, error) { return false, nil }

func TestValidateMakeup(t *testing.T) {
	today := day(2026, 8, 28)
	ownDate := day(2026, 8, 27)
	missed := day(2026, 8, 20)
	future := day(2026, 9, 5)

	tests := []struct {
		name           string
		entryType      string
		compensatesFor *time.Time
		lookup         CompensationLookup
		wantKind       ViolationKind
	}{
		{
			name:      "regular entries skip makeup checks",
			entryType: models.EntryRegular,
			lookup:    noCompensation,
		},
		{
			name:      "makeup without target",
			entryType: models.EntryMakeup,
			lookup:    noCompensation,
			wantKind:  ViolationMissingCompensation,
		},
		{
			name:           "valid makeup",
			entryType:      models.EntryMakeup,
			compensatesFor: &missed,
			lookup:         noCompensation,
		},
		{
			name:           "future target rejected",
			entryType:      models.EntryMakeup,
			compensatesFor: &future,
			lookup:         noCompensation,
			wantKind:       ViolationFutureCompensation,
		},
		{
			name:           "self-compensation rejected",
			entryType:      models.EntryMakeup,
			compensatesFor: &ownDate,
			lookup:         noCompensation,
			wantKind:       ViolationSelfCompensation,
		},
		{
			name:           "already compensated date rejected",
			entryType:      models.EntryMakeup,
			compensatesFor: &missed,
			lookup:         func(uint, time.Time, uint) (bool, error) { return true, nil },
			wantKind:       ViolationDuplicateCompensation,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMakeup(tc.entryType, ownDate, tc.compensatesFor, today, 1, 0, tc.lookup)
			if tc.wantKind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var v *Violation
			if !errors.As(err, &v) {
				t.Fatalf("expected Violation, got %v", err)
			}
			if v.Kind != tc.wantKind {
				t.Fatalf("expected %s, got %s (%s)", tc.wantKind, v.Kind, v.Detail)
			}
		})
	}
}

func TestValidateMakeupExcludesOwnRecord(t *testing.T) {
	today := day(2026, 8, 28)
	missed := day(2026, 8, 20)

	var gotExclude uint
	lookup := func(_ uint, _ time.Time, excludeID uint) (bool, error) {
		gotExclude = excludeID
		return false, nil
	}

	if err := ValidateMakeup(models.EntryMakeup, day(2026, 8, 27), &missed, today, 1, 42, lookup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotExclude != 42 {
		t.Fatalf("expected lookup to exclude record 42, got %d", gotExclude)
	}
}

func TestValidateMakeupPropagatesLookupError(t *testing.T) {
	today := day(2026, 8, 28)
	missed := day(2026, 8, 20)
	boom := errors.New("store down")

	err := ValidateMakeup(models.EntryMakeup, day(2026, 8, 27), &missed, today, 1, 0,
		func(uint, time.Time, uint) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error to propagate, got %v", err)
	}
}

package attendance

import (
	"testing"
	"time"

	"academy_go/models"
)

func TestWeekOfAnchorsOnSunday(t *testing.T) {
	tests := []struct {
		name      string
		reference time.Time
		wantStart time.Time
	}{
		{"midweek", day(2026, 8, 26), day(2026, 8, 23)}, // Wednesday -> previous Sunday
		{"sunday itself", day(2026, 8, 23), day(2026, 8, 23)},
		{"saturday", day(2026, 8, 29), day(2026, 8, 23)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			start, end := WeekOf(tc.reference)
			if !start.Equal(tc.wantStart) {
				t.Fatalf("expected week start %s, got %s", tc.wantStart.Format("2006-01-02"), start.Format("2006-01-02"))
			}
			if !end.Equal(tc.wantStart.AddDate(0, 0, 6)) {
				t.Fatalf("expected week end %s, got %s", tc.wantStart.AddDate(0, 0, 6).Format("2006-01-02"), end.Format("2006-01-02"))
			}
		})
	}
}

func TestMonthOf(t *testing.T) {
	start, end := MonthOf(2026, 2)
	if !start.Equal(day(2026, 2, 1)) {
		t.Fatalf("expected 2026-02-01, got %s", start.Format("2006-01-02"))
	}
	if !end.Equal(day(2026, 2, 28)) {
		t.Fatalf("expected 2026-02-28, got %s", end.Format("2006-01-02"))
	}

	_, leapEnd := MonthOf(2028, 2)
	if !leapEnd.Equal(day(2028, 2, 29)) {
		t.Fatalf("expected 2028-02-29, got %s", leapEnd.Format("2006-01-02"))
	}
}

func matrixFixture() (models.Batch, []models.Student, []models.Attendance) {
	batch := models.Batch{BaseModel: models.BaseModel{ID: 10}, Name: "Morning Beginners"}
	students := []models.Student{
		{BaseModel: models.BaseModel{ID: 2}, FullName: "Zara Khan"},
		{BaseModel: models.BaseModel{ID: 1}, FullName: "anil Kumar"},
	}
	records := []models.Attendance{
		{ID: 100, StudentID: 1, BatchID: 10, Date: day(2026, 8, 24), Status: models.AttendancePresent, EntryType: models.EntryRegular},
		{ID: 101, StudentID: 2, BatchID: 10, Date: day(2026, 8, 24), Status: models.AttendanceAbsent, EntryType: models.EntryRegular},
		// Record on a date past the reference: must stay hidden
		{ID: 102, StudentID: 1, BatchID: 10, Date: day(2026, 8, 28), Status: models.AttendancePresent, EntryType: models.EntryRegular},
	}
	return batch, students, records
}

func TestBuildMatrixShapeAndOrdering(t *testing.T) {
	batch, students, records := matrixFixture()
	start, end := day(2026, 8, 23), day(2026, 8, 29)
	reference := day(2026, 8, 26)

	m := BuildMatrix(batch, students, records, start, end, reference, PeriodWeekly)

	if len(m.DateColumns) != 7 {
		t.Fatalf("expected 7 date columns, got %d", len(m.DateColumns))
	}
	if m.DateColumns[0].DayLabel != "Sun" || m.DateColumns[3].DayLabel != "Wed" {
		t.Fatalf("unexpected day labels: %s, %s", m.DateColumns[0].DayLabel, m.DateColumns[3].DayLabel)
	}
	if len(m.Students) != 2 {
		t.Fatalf("expected 2 student rows, got %d", len(m.Students))
	}
	// Case-insensitive name ordering
	if m.Students[0].StudentID != 1 || m.Students[1].StudentID != 2 {
		t.Fatalf("expected rows ordered anil(1), Zara(2); got %d, %d", m.Students[0].StudentID, m.Students[1].StudentID)
	}
	for _, row := range m.Students {
		if len(row.Cells) != 7 {
			t.Fatalf("expected 7 cells per row, got %d", len(row.Cells))
		}
	}
}

func TestBuildMatrixHidesFutureCells(t *testing.T) {
	batch, students, records := matrixFixture()
	start, end := day(2026, 8, 23), day(2026, 8, 29)
	reference := day(2026, 8, 26)

	m := BuildMatrix(batch, students, records, start, end, reference, PeriodWeekly)

	if !m.DisplayUntil.Equal(reference) {
		t.Fatalf("expected display_until %s, got %s", reference.Format("2006-01-02"), m.DisplayUntil.Format("2006-01-02"))
	}

	// Monday (index 1) is marked for both students
	anil := m.Students[0]
	if !anil.Cells[1].Marked || anil.Cells[1].Status != models.AttendancePresent {
		t.Fatalf("expected anil marked PRESENT on Monday, got %+v", anil.Cells[1])
	}

	// Friday (index 5) has a record but lies past the reference
	friday := anil.Cells[5]
	if !friday.FutureDate {
		t.Fatalf("expected Friday to be a future cell")
	}
	if friday.Marked || friday.Status != "" {
		t.Fatalf("future cell must not expose attendance state, got %+v", friday)
	}
}

func TestBuildMatrixClampsReference(t *testing.T) {
	batch, students, records := matrixFixture()
	start, end := day(2026, 8, 1), day(2026, 8, 31)

	t.Run("reference after period shows everything", func(t *testing.T) {
		m := BuildMatrix(batch, students, records, start, end, day(2026, 9, 15), PeriodMonthly)
		if !m.DisplayUntil.Equal(end) {
			t.Fatalf("expected display_until clamped to %s, got %s", end.Format("2006-01-02"), m.DisplayUntil.Format("2006-01-02"))
		}
		for _, col := range m.DateColumns {
			if col.FutureDate {
				t.Fatalf("no column should be future when reference is past the period")
			}
		}
	})

	t.Run("reference before period hides everything", func(t *testing.T) {
		m := BuildMatrix(batch, students, records, start, end, day(2026, 7, 10), PeriodMonthly)
		for _, col := range m.DateColumns {
			if !col.FutureDate {
				t.Fatalf("every column should be future when reference precedes the period")
			}
		}
		for _, row := range m.Students {
			for _, cell := range row.Cells {
				if cell.Marked {
					t.Fatalf("no cell should be marked when reference precedes the period")
				}
			}
		}
	})
}

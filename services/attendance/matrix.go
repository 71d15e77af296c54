package attendance

import (
	"academy_go/models"
	"sort"
	"strings"
	"time"
)

// Period types
const (
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
)

// DateColumn is one day on the matrix date axis.
type DateColumn struct {
	Date       time.Time `json:"date"`
	DayLabel   string    `json:"day_label"`
	FutureDate bool      `json:"future_date"`
}

// Cell is one student's attendance state for one date. Future cells
// never expose status, even if a record exists for that date.
type Cell struct {
	Date               time.Time  `json:"date"`
	Status             string     `json:"status,omitempty"`
	EntryType          string     `json:"entry_type,omitempty"`
	CompensatesForDate *time.Time `json:"compensates_for_date,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	Marked             bool       `json:"marked"`
	FutureDate         bool       `json:"future_date"`
}

// StudentRow is one student's cells across the period.
type StudentRow struct {
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	Cells       []Cell `json:"attendance"`
}

// Matrix is the calendar-shaped attendance grid for a batch.
type Matrix struct {
	BatchID       uint         `json:"batch_id"`
	BatchName     string       `json:"batch_name"`
	PeriodType    string       `json:"period_type"`
	ReferenceDate time.Time    `json:"reference_date"`
	StartDate     time.Time    `json:"start_date"`
	EndDate       time.Time    `json:"end_date"`
	DisplayUntil  time.Time    `json:"display_until"`
	DateColumns   []DateColumn `json:"date_columns"`
	Students      []StudentRow `json:"students"`
}

// displayUntil clamps the reference date into the period so the grid
// never shows attendance state past "now", even when the calendar page
// extends beyond it.
func displayUntil(start, end, reference time.Time) time.Time {
	if reference.Before(start) {
		return start.AddDate(0, 0, -1)
	}
	if reference.After(end) {
		return end
	}
	return reference
}

// WeekOf returns the Sunday-anchored week containing reference.
func WeekOf(reference time.Time) (start, end time.Time) {
	ref := DateOnly(reference)
	start = ref.AddDate(0, 0, -int(ref.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

// MonthOf returns the first and last day of the given month.
func MonthOf(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// BuildMatrix renders the dense per-student, per-day grid for a batch
// over [start, end]. It is pure: the caller loads batch, roster, and
// records; records outside the period are ignored.
func BuildMatrix(batch models.Batch, students []models.Student, records []models.Attendance, start, end, reference time.Time, periodType string) *Matrix {
	start = DateOnly(start)
	end = DateOnly(end)
	reference = DateOnly(reference)
	until := displayUntil(start, end, reference)

	byStudentAndDate := make(map[cellKey]*models.Attendance, len(records))
	for i := range records {
		rec := &records[i]
		byStudentAndDate[cellKey{rec.StudentID, DateOnly(rec.Date)}] = rec
	}

	var columns []DateColumn
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
		columns = append(columns, DateColumn{
			Date:       d,
			DayLabel:   d.Weekday().String()[:3],
			FutureDate: d.After(until),
		})
	}

	sorted := make([]models.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].FullName) < strings.ToLower(sorted[j].FullName)
	})

	rows := make([]StudentRow, 0, len(sorted))
	for _, student := range sorted {
		cells := make([]Cell, 0, len(dates))
		for _, d := range dates {
			future := d.After(until)
			cell := Cell{Date: d, FutureDate: future}
			if !future {
				if rec, ok := byStudentAndDate[cellKey{student.ID, d}]; ok {
					cell.Status = rec.Status
					cell.EntryType = rec.EntryType
					cell.CompensatesForDate = rec.CompensatesForDate
					cell.Notes = rec.Notes
					cell.Marked = true
				}
			}
			cells = append(cells, cell)
		}
		rows = append(rows, StudentRow{StudentID: student.ID, StudentName: student.FullName, Cells: cells})
	}

	return &Matrix{
		BatchID:       batch.ID,
		BatchName:     batch.Name,
		PeriodType:    periodType,
		ReferenceDate: reference,
		StartDate:     start,
		EndDate:       end,
		DisplayUntil:  until,
		DateColumns:   columns,
		Students:      rows,
	}
}

type cellKey struct {
	studentID uint
	date      time.Time
}

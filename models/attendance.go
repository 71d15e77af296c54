package models

import "time"

// Attendance statuses
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
	AttendanceExcused = "EXCUSED"
)

// Entry types
const (
	EntryRegular = "REGULAR"
	EntryMakeup  = "MAKEUP"
)

// Audit actions
const (
	AuditCreate = "CREATE"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
)

// ValidAttendanceStatus reports whether s is a known attendance status.
func ValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// Attendance is one student's presence record for one batch on one date.
// Exactly one row may exist per (student, batch, date); the composite
// unique index is the backstop for concurrent marks. No soft delete:
// an administrative delete removes the row for real (and is audited).
type Attendance struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_student_batch_date"`
	BatchID   uint      `json:"batch_id" gorm:"not null;uniqueIndex:idx_attendance_student_batch_date"`
	Date      time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_attendance_student_batch_date"`
	Status    string    `json:"status" gorm:"size:20;not null;type:enum('PRESENT','ABSENT','LATE','EXCUSED')"`
	EntryType string    `json:"entry_type" gorm:"size:20;not null;default:'REGULAR';type:enum('REGULAR','MAKEUP')"`

	// For MAKEUP entries: the missed date being compensated, strictly
	// before Date. Nil for REGULAR entries.
	CompensatesForDate *time.Time `json:"compensates_for_date" gorm:"type:date"`

	Notes      string    `json:"notes" gorm:"type:text"`
	MarkedByID uint      `json:"marked_by_id" gorm:"not null"`
	MarkedAt   time.Time `json:"marked_at" gorm:"not null"`

	WasBackdated   bool   `json:"was_backdated" gorm:"default:false"`
	BackdateReason string `json:"backdate_reason" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttendanceAuditLog is the append-only history of attendance mutations.
// Student/batch/date are denormalized so audit queries survive a hard
// delete of the attendance row. Rows are never updated or deleted.
type AttendanceAuditLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AttendanceID uint      `json:"attendance_id" gorm:"not null;index"`
	StudentID    uint      `json:"student_id" gorm:"not null;index"`
	BatchID      uint      `json:"batch_id" gorm:"not null;index"`
	Date         time.Time `json:"date" gorm:"type:date;not null"`

	Action string `json:"action" gorm:"size:20;not null;type:enum('CREATE','UPDATE','DELETE')"`

	// Previous values, nil for CREATE
	PreviousStatus    *string `json:"previous_status" gorm:"size:20"`
	PreviousEntryType *string `json:"previous_entry_type" gorm:"size:20"`
	PreviousNotes     *string `json:"previous_notes" gorm:"type:text"`

	// New values, empty for DELETE
	NewStatus    string `json:"new_status" gorm:"size:20"`
	NewEntryType string `json:"new_entry_type" gorm:"size:20"`
	NewNotes     string `json:"new_notes" gorm:"type:text"`

	ChangedByID   uint   `json:"changed_by_id" gorm:"not null;index"`
	ChangedByRole string `json:"changed_by_role" gorm:"size:20;not null"` // COACH or ADMIN
	Reason        string `json:"reason" gorm:"size:500"`
	WasBackdated  bool   `json:"was_backdated" gorm:"default:false;index"`

	ChangedAt time.Time `json:"changed_at" gorm:"not null;index"`
}

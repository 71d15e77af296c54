package attendance

import (
	"academy_go/models"
	"errors"
	"time"
)

// Sentinel errors surfaced by stores and the service. Controllers map
// them to HTTP status codes.
var (
	ErrRecordNotFound  = errors.New("attendance record not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrBatchNotFound   = errors.New("batch not found")
	ErrActorNotFound   = errors.New("marking user not found")

	// ErrAlreadyMarked covers both the pre-write existence check and a
	// unique-constraint violation surfaced at commit time.
	ErrAlreadyMarked = errors.New("attendance already marked for this student on this date in this batch")
)

// Store is the persistence surface the attendance service depends on.
// The GORM implementation lives in the repositories package; tests use
// an in-memory fake.
type Store interface {
	// InTransaction runs fn against a transactional view of the store.
	// An error from fn rolls back every write made inside it.
	InTransaction(fn func(tx Store) error) error

	// Attendance rows
	AttendanceByID(id uint) (*models.Attendance, error)
	AttendanceFor(studentID, batchID uint, date time.Time) (*models.Attendance, error)
	AttendanceExists(studentID, batchID uint, date time.Time) (bool, error)
	CreateAttendance(rec *models.Attendance) error
	SaveAttendance(rec *models.Attendance) error
	DeleteAttendance(id uint) error

	Attendances() ([]models.Attendance, error)
	AttendancesByStudent(studentID uint) ([]models.Attendance, error)
	AttendancesByBatch(batchID uint) ([]models.Attendance, error)
	AttendancesByDate(date time.Time) ([]models.Attendance, error)
	AttendancesByStudentRange(studentID uint, start, end time.Time) ([]models.Attendance, error)
	AttendancesByBatchRange(batchID uint, start, end time.Time) ([]models.Attendance, error)
	AttendancesByCoachAndDate(coachID uint, date time.Time) ([]models.Attendance, error)

	CountByStudentAndStatus(studentID uint, status string) (int64, error)
	CountByStudentAndBatch(studentID, batchID uint) (total, present int64, err error)

	// HasMakeupFor reports whether a MAKEUP record other than excludeID
	// already compensates (studentID, date).
	HasMakeupFor(studentID uint, date time.Time, excludeID uint) (bool, error)
	// CompensatedDates lists every date already targeted by a MAKEUP
	// record for the student.
	CompensatedDates(studentID uint) ([]time.Time, error)

	// Audit rows, append-only
	CreateAuditLog(entry *models.AttendanceAuditLog) error
	AuditByAttendance(attendanceID uint) ([]models.AttendanceAuditLog, error)
	AuditByStudent(studentID uint) ([]models.AttendanceAuditLog, error)
	AuditByBatch(batchID uint) ([]models.AttendanceAuditLog, error)
	AuditByActor(actorID uint) ([]models.AttendanceAuditLog, error)
	AuditBackdated() ([]models.AttendanceAuditLog, error)
	AuditByChangedRange(start, end time.Time) ([]models.AttendanceAuditLog, error)

	// Directory lookups (explicit foreign-key resolution, no object graphs)
	StudentByID(id uint) (*models.Student, error)
	BatchByID(id uint) (*models.Batch, error)
	ActorExists(id uint) (bool, error)
	StudentsInBatch(batchID uint) ([]models.Student, error)
}

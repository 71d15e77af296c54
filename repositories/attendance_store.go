package repositories

import (
	"academy_go/models"
	"academy_go/services/attendance"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// GormAttendanceStore implements attendance.Store on top of GORM/MySQL.
// The composite unique index on (student_id, batch_id, date) backstops
// the service's pre-write duplicate check under concurrency.
type GormAttendanceStore struct {
	db *gorm.DB
}

func NewGormAttendanceStore(db *gorm.DB) *GormAttendanceStore {
	return &GormAttendanceStore{db: db}
}

// InTransaction runs fn against a transactional store. Everything the
// service writes inside fn commits or rolls back together.
func (s *GormAttendanceStore) InTransaction(fn func(tx attendance.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormAttendanceStore{db: tx})
	})
}

func (s *GormAttendanceStore) AttendanceByID(id uint) (*models.Attendance, error) {
	var rec models.Attendance
	if err := s.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *GormAttendanceStore) AttendanceFor(studentID, batchID uint, date time.Time) (*models.Attendance, error) {
	var rec models.Attendance
	err := s.db.Where("student_id = ? AND batch_id = ? AND date = ?",
		studentID, batchID, date.Format(dateLayout)).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *GormAttendanceStore) AttendanceExists(studentID, batchID uint, date time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.Attendance{}).
		Where("student_id = ? AND batch_id = ? AND date = ?", studentID, batchID, date.Format(dateLayout)).
		Count(&count).Error
	return count > 0, err
}

func (s *GormAttendanceStore) CreateAttendance(rec *models.Attendance) error {
	if err := s.db.Create(rec).Error; err != nil {
		if isDuplicateKey(err) {
			return attendance.ErrAlreadyMarked
		}
		return err
	}
	return nil
}

func (s *GormAttendanceStore) SaveAttendance(rec *models.Attendance) error {
	return s.db.Save(rec).Error
}

func (s *GormAttendanceStore) DeleteAttendance(id uint) error {
	res := s.db.Delete(&models.Attendance{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// isDuplicateKey reports a MySQL unique-constraint violation (1062).
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func (s *GormAttendanceStore) Attendances() ([]models.Attendance, error) {
	var recs []models.Attendance
	err := s.db.Order("date DESC, id").Find(&recs).Error
	return recs, err
}

func (s *GormAttendanceStore) AttendancesByStudent(studentID uint) ([]models.Attendance, error) {
	var recs []models.Attendance
	err := s.db.Where("student_id = ?", studentID).Order("date DESC").Find(&recs).Error
	return recs, err
}

func (s *GormAttendanceStore) AttendancesByBatch(batchID uint) ([]models.Attendance, error) {
	var recs []models.Attendance
	err := s.db.Where("batch_id = ?", batchID).Order("date DESC").Find(&recs).Error
	return recs, err
}

func (s *GormAttendanceStore) AttendancesByDate(date time.Time) ([]models.Attendance, error) {
	var recs []models.Attendance
	err := s.db.Where("date = ?", date.Format(dateLayout)).Find(&recs).Error
	return recs, err
}

func (s *GormAttendanceStore) AttendancesByStudentRange(studentID uint, start, end time.Time) ([]models.Attendance, error) {
	var recs []models.Attendance
	err := s.db.Where("student_id = ? AND date BETWEEN ? AND ?",
		studentID, start.Format(dateLayout), end.Format(dateLayout)).
		Order("date").Find(&recs).Error
	return recs, err
}

func (s *GormAttendanceStore) AttendancesByBatchRange(batchID uint, start, end time.Time) ([]models.Attendance, error) {
	var recs []models.Attendance
	err := s.db.Where("batch_id = ? AND date BETWEEN ? AND ?",
		batchID, start.Format(dateLayout), end.Format(dateLayout)).
		Order("date").Find(&recs).Error
	return recs, err
}

func (s *GormAttendanceStore) AttendancesByCoachAndDate(coachID uint, date time.Time) ([]models.Attendance, error) {
	var recs []models.Attendance
	err := s.db.
		Joins("JOIN batches ON batches.id = attendances.batch_id").
		Where("batches.coach_id = ? AND attendances.date = ?", coachID, date.Format(dateLayout)).
		Find(&recs).Error
	return recs, err
}

func (s *GormAttendanceStore) CountByStudentAndStatus(studentID uint, status string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Attendance{}).
		Where("student_id = ? AND status = ?", studentID, status).
		Count(&count).Error
	return count, err
}

func (s *GormAttendanceStore) CountByStudentAndBatch(studentID, batchID uint) (int64, int64, error) {
	var total, present int64
	base := s.db.Model(&models.Attendance{}).Where("student_id = ? AND batch_id = ?", studentID, batchID)
	if err := base.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := s.db.Model(&models.Attendance{}).
		Where("student_id = ? AND batch_id = ? AND status = ?", studentID, batchID, models.AttendancePresent).
		Count(&present).Error
	return total, present, err
}

func (s *GormAttendanceStore) HasMakeupFor(studentID uint, date time.Time, excludeID uint) (bool, error) {
	query := s.db.Model(&models.Attendance{}).
		Where("student_id = ? AND entry_type = ? AND compensates_for_date = ?",
			studentID, models.EntryMakeup, date.Format(dateLayout))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (s *GormAttendanceStore) CompensatedDates(studentID uint) ([]time.Time, error) {
	var recs []models.Attendance
	err := s.db.Select("compensates_for_date").
		Where("student_id = ? AND entry_type = ? AND compensates_for_date IS NOT NULL",
			studentID, models.EntryMakeup).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(recs))
	for _, rec := range recs {
		if rec.CompensatesForDate != nil {
			dates = append(dates, *rec.CompensatesForDate)
		}
	}
	return dates, nil
}

func (s *GormAttendanceStore) CreateAuditLog(entry *models.AttendanceAuditLog) error {
	return s.db.Create(entry).Error
}

func (s *GormAttendanceStore) AuditByAttendance(attendanceID uint) ([]models.AttendanceAuditLog, error) {
	return s.auditWhere("attendance_id = ?", attendanceID)
}

func (s *GormAttendanceStore) AuditByStudent(studentID uint) ([]models.AttendanceAuditLog, error) {
	return s.auditWhere("student_id = ?", studentID)
}

func (s *GormAttendanceStore) AuditByBatch(batchID uint) ([]models.AttendanceAuditLog, error) {
	return s.auditWhere("batch_id = ?", batchID)
}

func (s *GormAttendanceStore) AuditByActor(actorID uint) ([]models.AttendanceAuditLog, error) {
	return s.auditWhere("changed_by_id = ?", actorID)
}

func (s *GormAttendanceStore) AuditBackdated() ([]models.AttendanceAuditLog, error) {
	return s.auditWhere("was_backdated = ?", true)
}

func (s *GormAttendanceStore) AuditByChangedRange(start, end time.Time) ([]models.AttendanceAuditLog, error) {
	return s.auditWhere("changed_at BETWEEN ? AND ?", start, end)
}

func (s *GormAttendanceStore) auditWhere(cond string, args ...interface{}) ([]models.AttendanceAuditLog, error) {
	var entries []models.AttendanceAuditLog
	err := s.db.Where(cond, args...).Order("changed_at DESC").Find(&entries).Error
	return entries, err
}

func (s *GormAttendanceStore) StudentByID(id uint) (*models.Student, error) {
	var student models.Student
	if err := s.db.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (s *GormAttendanceStore) BatchByID(id uint) (*models.Batch, error) {
	var batch models.Batch
	if err := s.db.First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrBatchNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (s *GormAttendanceStore) ActorExists(id uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).
		Where("id = ? AND status = ?", id, "active").
		Count(&count).Error
	return count > 0, err
}

func (s *GormAttendanceStore) StudentsInBatch(batchID uint) ([]models.Student, error) {
	var students []models.Student
	err := s.db.
		Where("id IN (?)", s.db.Model(&models.BatchStudent{}).Select("student_id").Where("batch_id = ?", batchID)).
		Find(&students).Error
	return students, err
}

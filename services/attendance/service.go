package attendance

import (
	"academy_go/models"
	"time"

	"github.com/sirupsen/logrus"
)

// Service orchestrates attendance mutations and reporting. Writes to
// the attendance and audit stores go only through this service; the
// matrix and summary paths are read-only.
type Service struct {
	store  Store
	policy BackdatePolicy
	now    func() time.Time
}

func NewService(store Store, policy BackdatePolicy) *Service {
	return &Service{store: store, policy: policy, now: time.Now}
}

// MarkRequest describes one attendance record to create.
type MarkRequest struct {
	StudentID          uint
	BatchID            uint
	Date               time.Time
	Status             string
	EntryType          string
	CompensatesForDate *time.Time
	Notes              string
	Reason             string
}

// BulkItem is one student's entry within a bulk mark.
type BulkItem struct {
	StudentID          uint
	Status             string
	EntryType          string
	CompensatesForDate *time.Time
	Notes              string
}

// BulkRequest marks a whole batch for one date.
type BulkRequest struct {
	BatchID uint
	Date    time.Time
	Reason  string
	Items   []BulkItem
}

// UpdateRequest carries partial changes; nil fields keep current values.
type UpdateRequest struct {
	Status             *string
	EntryType          *string
	CompensatesForDate *time.Time
	Notes              *string
	Reason             string
}

// Summary aggregates one student's attendance counts.
type Summary struct {
	StudentID            uint    `json:"student_id"`
	StudentName          string  `json:"student_name"`
	TotalClasses         int64   `json:"total_classes"`
	PresentCount         int64   `json:"present_count"`
	AbsentCount          int64   `json:"absent_count"`
	LateCount            int64   `json:"late_count"`
	ExcusedCount         int64   `json:"excused_count"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

func normalizeEntryType(entryType string) string {
	if entryType == "" {
		return models.EntryRegular
	}
	return entryType
}

// Mark creates one attendance record. The backdate policy, makeup
// integrity, duplicate check, record write, and audit write succeed or
// fail as one unit.
func (s *Service) Mark(req MarkRequest, actor Actor) (*models.Attendance, error) {
	today := DateOnly(s.now())
	date := DateOnly(req.Date)
	backdated := date.Before(today)

	if v := s.policy.Validate(date, today, actor, req.Reason); v != nil {
		return nil, v
	}

	entryType := normalizeEntryType(req.EntryType)
	if err := ValidateMakeup(entryType, date, req.CompensatesForDate, today, req.StudentID, 0, s.store.HasMakeupFor); err != nil {
		return nil, err
	}

	exists, err := s.store.AttendanceExists(req.StudentID, req.BatchID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyMarked
	}

	if _, err := s.store.StudentByID(req.StudentID); err != nil {
		return nil, err
	}
	if _, err := s.store.BatchByID(req.BatchID); err != nil {
		return nil, err
	}
	if err := s.requireActor(actor); err != nil {
		return nil, err
	}

	rec := &models.Attendance{
		StudentID:    req.StudentID,
		BatchID:      req.BatchID,
		Date:         date,
		Status:       req.Status,
		EntryType:    entryType,
		Notes:        req.Notes,
		MarkedByID:   actor.ID,
		MarkedAt:     s.now(),
		WasBackdated: backdated,
	}
	if entryType == models.EntryMakeup {
		target := DateOnly(*req.CompensatesForDate)
		rec.CompensatesForDate = &target
	}
	if backdated {
		rec.BackdateReason = req.Reason
	}

	err = s.store.InTransaction(func(tx Store) error {
		if err := tx.CreateAttendance(rec); err != nil {
			return err
		}
		return tx.CreateAuditLog(s.auditEntry(rec, models.AuditCreate, nil, actor, req.Reason, backdated))
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"student_id": req.StudentID,
		"batch_id":   req.BatchID,
		"date":       date.Format("2006-01-02"),
		"entry_type": entryType,
		"backdated":  backdated,
	}).Info("Attendance marked")
	return rec, nil
}

// MarkBulk marks a whole batch for one date. All-or-nothing: the first
// failing item rolls back every record and audit entry of the call.
// Existing records for (student, batch, date) are updated in place.
func (s *Service) MarkBulk(req BulkRequest, actor Actor) ([]models.Attendance, error) {
	today := DateOnly(s.now())
	date := DateOnly(req.Date)
	backdated := date.Before(today)

	if v := s.policy.Validate(date, today, actor, req.Reason); v != nil {
		return nil, v
	}
	if _, err := s.store.BatchByID(req.BatchID); err != nil {
		return nil, err
	}
	if err := s.requireActor(actor); err != nil {
		return nil, err
	}

	var results []models.Attendance
	var created, updated int

	err := s.store.InTransaction(func(tx Store) error {
		for _, item := range req.Items {
			if _, err := tx.StudentByID(item.StudentID); err != nil {
				return err
			}

			existing, err := tx.AttendanceFor(item.StudentID, req.BatchID, date)
			if err != nil && err != ErrRecordNotFound {
				return err
			}

			entryType := normalizeEntryType(item.EntryType)
			excludeID := uint(0)
			if existing != nil {
				excludeID = existing.ID
			}
			if err := ValidateMakeup(entryType, date, item.CompensatesForDate, today, item.StudentID, excludeID, tx.HasMakeupFor); err != nil {
				return err
			}

			if existing == nil {
				rec := &models.Attendance{
					StudentID:    item.StudentID,
					BatchID:      req.BatchID,
					Date:         date,
					Status:       item.Status,
					EntryType:    entryType,
					Notes:        item.Notes,
					MarkedByID:   actor.ID,
					MarkedAt:     s.now(),
					WasBackdated: backdated,
				}
				if entryType == models.EntryMakeup {
					target := DateOnly(*item.CompensatesForDate)
					rec.CompensatesForDate = &target
				}
				if backdated {
					rec.BackdateReason = req.Reason
				}
				if err := tx.CreateAttendance(rec); err != nil {
					return err
				}
				if err := tx.CreateAuditLog(s.auditEntry(rec, models.AuditCreate, nil, actor, req.Reason, backdated)); err != nil {
					return err
				}
				created++
				results = append(results, *rec)
			} else {
				prev := *existing
				existing.Status = item.Status
				existing.EntryType = entryType
				existing.CompensatesForDate = nil
				if entryType == models.EntryMakeup {
					target := DateOnly(*item.CompensatesForDate)
					existing.CompensatesForDate = &target
				}
				existing.Notes = item.Notes
				existing.MarkedByID = actor.ID
				existing.MarkedAt = s.now()
				if backdated {
					existing.WasBackdated = true
					existing.BackdateReason = req.Reason
				}
				if err := tx.SaveAttendance(existing); err != nil {
					return err
				}
				if err := tx.CreateAuditLog(s.auditEntry(existing, models.AuditUpdate, &prev, actor, req.Reason, backdated)); err != nil {
					return err
				}
				updated++
				results = append(results, *existing)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"batch_id":  req.BatchID,
		"date":      date.Format("2006-01-02"),
		"created":   created,
		"updated":   updated,
		"backdated": backdated,
	}).Info("Bulk attendance processed")
	return results, nil
}

// Update mutates an existing record. The backdate policy runs against
// the record's own date, not today: editing an old record needs the
// same window and justification as writing it late would have.
func (s *Service) Update(id uint, req UpdateRequest, actor Actor) (*models.Attendance, error) {
	rec, err := s.store.AttendanceByID(id)
	if err != nil {
		return nil, err
	}

	today := DateOnly(s.now())
	recDate := DateOnly(rec.Date)
	backdated := recDate.Before(today)

	if v := s.policy.Validate(recDate, today, actor, req.Reason); v != nil {
		return nil, v
	}
	if err := s.requireActor(actor); err != nil {
		return nil, err
	}

	prev := *rec
	if req.Status != nil {
		rec.Status = *req.Status
	}
	if req.EntryType != nil {
		rec.EntryType = normalizeEntryType(*req.EntryType)
	}
	if req.CompensatesForDate != nil {
		target := DateOnly(*req.CompensatesForDate)
		rec.CompensatesForDate = &target
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}

	if err := ValidateMakeup(rec.EntryType, recDate, rec.CompensatesForDate, today, rec.StudentID, rec.ID, s.store.HasMakeupFor); err != nil {
		return nil, err
	}

	rec.MarkedByID = actor.ID
	rec.MarkedAt = s.now()
	if backdated {
		rec.WasBackdated = true
		rec.BackdateReason = req.Reason
	}

	err = s.store.InTransaction(func(tx Store) error {
		if err := tx.SaveAttendance(rec); err != nil {
			return err
		}
		return tx.CreateAuditLog(s.auditEntry(rec, models.AuditUpdate, &prev, actor, req.Reason, backdated))
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"attendance_id": id, "backdated": backdated}).Info("Attendance updated")
	return rec, nil
}

// Delete hard-deletes a record and writes a DELETE audit entry so the
// trail survives the row.
func (s *Service) Delete(id uint, actor Actor) error {
	rec, err := s.store.AttendanceByID(id)
	if err != nil {
		return err
	}

	err = s.store.InTransaction(func(tx Store) error {
		if err := tx.DeleteAttendance(id); err != nil {
			return err
		}
		entry := s.auditEntry(rec, models.AuditDelete, rec, actor, "", false)
		entry.NewStatus = ""
		entry.NewEntryType = ""
		entry.NewNotes = ""
		return tx.CreateAuditLog(entry)
	})
	if err != nil {
		return err
	}

	logrus.WithField("attendance_id", id).Info("Attendance deleted")
	return nil
}

func (s *Service) auditEntry(rec *models.Attendance, action string, prev *models.Attendance, actor Actor, reason string, backdated bool) *models.AttendanceAuditLog {
	entry := &models.AttendanceAuditLog{
		AttendanceID:  rec.ID,
		StudentID:     rec.StudentID,
		BatchID:       rec.BatchID,
		Date:          rec.Date,
		Action:        action,
		NewStatus:     rec.Status,
		NewEntryType:  rec.EntryType,
		NewNotes:      rec.Notes,
		ChangedByID:   actor.ID,
		ChangedByRole: string(actor.Role),
		Reason:        reason,
		WasBackdated:  backdated,
		ChangedAt:     s.now(),
	}
	if prev != nil {
		status, entryType, notes := prev.Status, prev.EntryType, prev.Notes
		entry.PreviousStatus = &status
		entry.PreviousEntryType = &entryType
		entry.PreviousNotes = &notes
	}
	return entry
}

func (s *Service) requireActor(actor Actor) error {
	ok, err := s.store.ActorExists(actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrActorNotFound
	}
	return nil
}

// ==================== QUERIES ====================

func (s *Service) All() ([]models.Attendance, error) { return s.store.Attendances() }

func (s *Service) ByID(id uint) (*models.Attendance, error) { return s.store.AttendanceByID(id) }

func (s *Service) ByStudent(studentID uint) ([]models.Attendance, error) {
	return s.store.AttendancesByStudent(studentID)
}

func (s *Service) ByBatch(batchID uint) ([]models.Attendance, error) {
	return s.store.AttendancesByBatch(batchID)
}

func (s *Service) ByDate(date time.Time) ([]models.Attendance, error) {
	return s.store.AttendancesByDate(DateOnly(date))
}

func (s *Service) ByStudentRange(studentID uint, start, end time.Time) ([]models.Attendance, error) {
	return s.store.AttendancesByStudentRange(studentID, DateOnly(start), DateOnly(end))
}

func (s *Service) ByBatchRange(batchID uint, start, end time.Time) ([]models.Attendance, error) {
	return s.store.AttendancesByBatchRange(batchID, DateOnly(start), DateOnly(end))
}

func (s *Service) ByCoachAndDate(coachID uint, date time.Time) ([]models.Attendance, error) {
	return s.store.AttendancesByCoachAndDate(coachID, DateOnly(date))
}

// StudentSummary aggregates one student's counts across all batches.
// Percentage is 0 when no classes are recorded.
func (s *Service) StudentSummary(studentID uint) (*Summary, error) {
	student, err := s.store.StudentByID(studentID)
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, status := range []string{models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate, models.AttendanceExcused} {
		n, err := s.store.CountByStudentAndStatus(studentID, status)
		if err != nil {
			return nil, err
		}
		counts[status] = n
	}

	total := counts[models.AttendancePresent] + counts[models.AttendanceAbsent] + counts[models.AttendanceLate] + counts[models.AttendanceExcused]
	percentage := 0.0
	if total > 0 {
		percentage = float64(counts[models.AttendancePresent]) * 100.0 / float64(total)
	}

	return &Summary{
		StudentID:            studentID,
		StudentName:          student.FullName,
		TotalClasses:         total,
		PresentCount:         counts[models.AttendancePresent],
		AbsentCount:          counts[models.AttendanceAbsent],
		LateCount:            counts[models.AttendanceLate],
		ExcusedCount:         counts[models.AttendanceExcused],
		AttendancePercentage: percentage,
	}, nil
}

// Percentage returns present/total*100 for one student in one batch,
// 0 when no rows exist.
func (s *Service) Percentage(studentID, batchID uint) (float64, error) {
	total, present, err := s.store.CountByStudentAndBatch(studentID, batchID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return float64(present) * 100.0 / float64(total), nil
}

// EligibleAbsences lists ABSENT REGULAR records for the student in the
// batch, within the admin backdate window, that no MAKEUP record
// compensates yet.
func (s *Service) EligibleAbsences(studentID, batchID uint) ([]models.Attendance, error) {
	today := DateOnly(s.now())
	windowStart := today.AddDate(0, 0, -s.policy.AdminWindowDays)

	records, err := s.store.AttendancesByStudentRange(studentID, windowStart, today)
	if err != nil {
		return nil, err
	}

	compensated, err := s.store.CompensatedDates(studentID)
	if err != nil {
		return nil, err
	}
	taken := make(map[time.Time]bool, len(compensated))
	for _, d := range compensated {
		taken[DateOnly(d)] = true
	}

	eligible := make([]models.Attendance, 0)
	for _, rec := range records {
		if rec.BatchID != batchID || rec.Status != models.AttendanceAbsent || rec.EntryType != models.EntryRegular {
			continue
		}
		if taken[DateOnly(rec.Date)] {
			continue
		}
		eligible = append(eligible, rec)
	}
	return eligible, nil
}

// Weekly builds the Sunday-anchored week matrix around referenceDate
// (today when nil).
func (s *Service) Weekly(batchID uint, referenceDate *time.Time) (*Matrix, error) {
	ref := DateOnly(s.now())
	if referenceDate != nil {
		ref = DateOnly(*referenceDate)
	}
	start, end := WeekOf(ref)
	return s.buildMatrix(batchID, start, end, ref, PeriodWeekly)
}

// Monthly builds the calendar-month matrix. Year and month are
// mandatory; month must be 1..12.
func (s *Service) Monthly(batchID uint, year, month int, referenceDate *time.Time) (*Matrix, error) {
	if year <= 0 {
		return nil, violationf(ViolationInvalidPeriod, "year and month are required")
	}
	if month < 1 || month > 12 {
		return nil, violationf(ViolationInvalidPeriod, "month must be between 1 and 12")
	}
	ref := DateOnly(s.now())
	if referenceDate != nil {
		ref = DateOnly(*referenceDate)
	}
	start, end := MonthOf(year, month)
	return s.buildMatrix(batchID, start, end, ref, PeriodMonthly)
}

func (s *Service) buildMatrix(batchID uint, start, end, reference time.Time, periodType string) (*Matrix, error) {
	batch, err := s.store.BatchByID(batchID)
	if err != nil {
		return nil, err
	}
	students, err := s.store.StudentsInBatch(batchID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.AttendancesByBatchRange(batchID, start, end)
	if err != nil {
		return nil, err
	}
	return BuildMatrix(*batch, students, records, start, end, reference, periodType), nil
}

// ==================== AUDIT QUERIES ====================

func (s *Service) AuditByAttendance(id uint) ([]models.AttendanceAuditLog, error) {
	return s.store.AuditByAttendance(id)
}

func (s *Service) AuditByStudent(studentID uint) ([]models.AttendanceAuditLog, error) {
	return s.store.AuditByStudent(studentID)
}

func (s *Service) AuditByBatch(batchID uint) ([]models.AttendanceAuditLog, error) {
	return s.store.AuditByBatch(batchID)
}

func (s *Service) AuditByActor(actorID uint) ([]models.AttendanceAuditLog, error) {
	return s.store.AuditByActor(actorID)
}

func (s *Service) AuditBackdated() ([]models.AttendanceAuditLog, error) {
	return s.store.AuditBackdated()
}

func (s *Service) AuditByRange(start, end time.Time) ([]models.AttendanceAuditLog, error) {
	return s.store.AuditByChangedRange(start, end)
}

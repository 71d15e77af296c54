package attendance

import (
	"errors"
	"testing"
	"time"

	"academy_go/models"
)

// fakeStore is an in-memory Store for service tests. InTransaction
// snapshots state and restores it when fn fails, mirroring rollback.
type fakeStore struct {
	nextID      uint
	records     map[uint]*models.Attendance
	audits      []models.AttendanceAuditLog
	students    map[uint]*models.Student
	batches     map[uint]*models.Batch
	actors      map[uint]bool
	memberships map[uint][]uint // batchID -> studentIDs
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:      1,
		records:     map[uint]*models.Attendance{},
		students:    map[uint]*models.Student{},
		batches:     map[uint]*models.Batch{},
		actors:      map[uint]bool{},
		memberships: map[uint][]uint{},
	}
}

func (f *fakeStore) InTransaction(fn func(tx Store) error) error {
	snapshotRecords := make(map[uint]*models.Attendance, len(f.records))
	for id, rec := range f.records {
		cp := *rec
		snapshotRecords[id] = &cp
	}
	snapshotAudits := make([]models.AttendanceAuditLog, len(f.audits))
	copy(snapshotAudits, f.audits)
	snapshotNext := f.nextID

	if err := fn(f); err != nil {
		f.records = snapshotRecords
		f.audits = snapshotAudits
		f.nextID = snapshotNext
		return err
	}
	return nil
}

func (f *fakeStore) AttendanceByID(id uint) (*models.Attendance, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) AttendanceFor(studentID, batchID uint, date time.Time) (*models.Attendance, error) {
	for _, rec := range f.records {
		if rec.StudentID == studentID && rec.BatchID == batchID && DateOnly(rec.Date).Equal(DateOnly(date)) {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (f *fakeStore) AttendanceExists(studentID, batchID uint, date time.Time) (bool, error) {
	_, err := f.AttendanceFor(studentID, batchID, date)
	if err == ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeStore) CreateAttendance(rec *models.Attendance) error {
	if exists, _ := f.AttendanceExists(rec.StudentID, rec.BatchID, rec.Date); exists {
		return ErrAlreadyMarked
	}
	rec.ID = f.nextID
	f.nextID++
	cp := *rec
	f.records[rec.ID] = &cp
	return nil
}

func (f *fakeStore) SaveAttendance(rec *models.Attendance) error {
	if _, ok := f.records[rec.ID]; !ok {
		return ErrRecordNotFound
	}
	cp := *rec
	f.records[rec.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteAttendance(id uint) error {
	if _, ok := f.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeStore) Attendances() ([]models.Attendance, error) {
	return f.filter(func(*models.Attendance) bool { return true }), nil
}

func (f *fakeStore) filter(keep func(*models.Attendance) bool) []models.Attendance {
	var out []models.Attendance
	for _, rec := range f.records {
		if keep(rec) {
			out = append(out, *rec)
		}
	}
	return out
}

func (f *fakeStore) AttendancesByStudent(studentID uint) ([]models.Attendance, error) {
	return f.filter(func(r *models.Attendance) bool { return r.StudentID == studentID }), nil
}

func (f *fakeStore) AttendancesByBatch(batchID uint) ([]models.Attendance, error) {
	return f.filter(func(r *models.Attendance) bool { return r.BatchID == batchID }), nil
}

func (f *fakeStore) AttendancesByDate(date time.Time) ([]models.Attendance, error) {
	return f.filter(func(r *models.Attendance) bool { return DateOnly(r.Date).Equal(DateOnly(date)) }), nil
}

func (f *fakeStore) AttendancesByStudentRange(studentID uint, start, end time.Time) ([]models.Attendance, error) {
	return f.filter(func(r *models.Attendance) bool {
		d := DateOnly(r.Date)
		return r.StudentID == studentID && !d.Before(start) && !d.After(end)
	}), nil
}

func (f *fakeStore) AttendancesByBatchRange(batchID uint, start, end time.Time) ([]models.Attendance, error) {
	return f.filter(func(r *models.Attendance) bool {
		d := DateOnly(r.Date)
		return r.BatchID == batchID && !d.Before(start) && !d.After(end)
	}), nil
}

func (f *fakeStore) AttendancesByCoachAndDate(coachID uint, date time.Time) ([]models.Attendance, error) {
	return f.filter(func(r *models.Attendance) bool {
		batch, ok := f.batches[r.BatchID]
		return ok && batch.CoachID == coachID && DateOnly(r.Date).Equal(DateOnly(date))
	}), nil
}

func (f *fakeStore) CountByStudentAndStatus(studentID uint, status string) (int64, error) {
	return int64(len(f.filter(func(r *models.Attendance) bool {
		return r.StudentID == studentID && r.Status == status
	}))), nil
}

func (f *fakeStore) CountByStudentAndBatch(studentID, batchID uint) (int64, int64, error) {
	var total, present int64
	for _, rec := range f.records {
		if rec.StudentID != studentID || rec.BatchID != batchID {
			continue
		}
		total++
		if rec.Status == models.AttendancePresent {
			present++
		}
	}
	return total, present, nil
}

func (f *fakeStore) HasMakeupFor(studentID uint, date time.Time, excludeID uint) (bool, error) {
	for _, rec := range f.records {
		if rec.ID == excludeID || rec.StudentID != studentID || rec.EntryType != models.EntryMakeup {
			continue
		}
		if rec.CompensatesForDate != nil && DateOnly(*rec.CompensatesForDate).Equal(DateOnly(date)) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CompensatedDates(studentID uint) ([]time.Time, error) {
	var dates []time.Time
	for _, rec := range f.records {
		if rec.StudentID == studentID && rec.EntryType == models.EntryMakeup && rec.CompensatesForDate != nil {
			dates = append(dates, *rec.CompensatesForDate)
		}
	}
	return dates, nil
}

func (f *fakeStore) CreateAuditLog(entry *models.AttendanceAuditLog) error {
	entry.ID = uint(len(f.audits) + 1)
	f.audits = append(f.audits, *entry)
	return nil
}

func (f *fakeStore) auditFilter(keep func(*models.AttendanceAuditLog) bool) []models.AttendanceAuditLog {
	var out []models.AttendanceAuditLog
	for i := range f.audits {
		if keep(&f.audits[i]) {
			out = append(out, f.audits[i])
		}
	}
	return out
}

func (f *fakeStore) AuditByAttendance(attendanceID uint) ([]models.AttendanceAuditLog, error) {
	return f.auditFilter(func(e *models.AttendanceAuditLog) bool { return e.AttendanceID == attendanceID }), nil
}

func (f *fakeStore) AuditByStudent(studentID uint) ([]models.AttendanceAuditLog, error) {
	return f.auditFilter(func(e *models.AttendanceAuditLog) bool { return e.StudentID == studentID }), nil
}

func (f *fakeStore) AuditByBatch(batchID uint) ([]models.AttendanceAuditLog, error) {
	return f.auditFilter(func(e *models.AttendanceAuditLog) bool { return e.BatchID == batchID }), nil
}

func (f *fakeStore) AuditByActor(actorID uint) ([]models.AttendanceAuditLog, error) {
	return f.auditFilter(func(e *models.AttendanceAuditLog) bool { return e.ChangedByID == actorID }), nil
}

func (f *fakeStore) AuditBackdated() ([]models.AttendanceAuditLog, error) {
	return f.auditFilter(func(e *models.AttendanceAuditLog) bool { return e.WasBackdated }), nil
}

func (f *fakeStore) AuditByChangedRange(start, end time.Time) ([]models.AttendanceAuditLog, error) {
	return f.auditFilter(func(e *models.AttendanceAuditLog) bool {
		return !e.ChangedAt.Before(start) && e.ChangedAt.Before(end)
	}), nil
}

func (f *fakeStore) StudentByID(id uint) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeStore) BatchByID(id uint) (*models.Batch, error) {
	b, ok := f.batches[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return b, nil
}

func (f *fakeStore) ActorExists(id uint) (bool, error) { return f.actors[id], nil }

func (f *fakeStore) StudentsInBatch(batchID uint) ([]models.Student, error) {
	var out []models.Student
	for _, sid := range f.memberships[batchID] {
		if s, ok := f.students[sid]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

// ==================== fixtures ====================

var testToday = day(2026, 8, 28)

func newTestService(store *fakeStore) *Service {
	svc := NewService(store, DefaultBackdatePolicy())
	svc.now = func() time.Time { return testToday }
	return svc
}

func seededStore() *fakeStore {
	store := newFakeStore()
	store.students[1] = &models.Student{BaseModel: models.BaseModel{ID: 1}, FullName: "Anil Kumar"}
	store.students[2] = &models.Student{BaseModel: models.BaseModel{ID: 2}, FullName: "Zara Khan"}
	store.batches[10] = &models.Batch{BaseModel: models.BaseModel{ID: 10}, Name: "Morning Beginners", CoachID: 7}
	store.actors[1] = true
	store.actors[2] = true
	store.memberships[10] = []uint{1, 2}
	return store
}

var (
	testCoach = Actor{ID: 1, Role: RoleCoach}
	testAdmin = Actor{ID: 2, Role: RoleAdmin}
)

// ==================== Mark ====================

func TestMarkToday(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	rec, err := svc.Mark(MarkRequest{
		StudentID: 1, BatchID: 10, Date: testToday, Status: models.AttendancePresent,
	}, testCoach)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == 0 {
		t.Fatalf("expected record to get an ID")
	}
	if rec.EntryType != models.EntryRegular {
		t.Fatalf("expected entry type to default to REGULAR, got %s", rec.EntryType)
	}
	if rec.WasBackdated {
		t.Fatalf("same-day mark must not be flagged backdated")
	}

	audits, _ := store.AuditByAttendance(rec.ID)
	if len(audits) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audits))
	}
	entry := audits[0]
	if entry.Action != models.AuditCreate {
		t.Fatalf("expected CREATE audit, got %s", entry.Action)
	}
	if entry.PreviousStatus != nil {
		t.Fatalf("CREATE audit must carry no previous values")
	}
	if entry.NewStatus != models.AttendancePresent {
		t.Fatalf("expected new status PRESENT, got %s", entry.NewStatus)
	}
	if entry.ChangedByRole != string(RoleCoach) {
		t.Fatalf("expected COACH role on audit, got %s", entry.ChangedByRole)
	}
}

func TestMarkBackdatedSetsFlagAndReason(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	rec, err := svc.Mark(MarkRequest{
		StudentID: 1, BatchID: 10, Date: testToday.AddDate(0, 0, -3),
		Status: models.AttendanceAbsent, Reason: "forgot to mark after session",
	}, testCoach)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.WasBackdated || rec.BackdateReason == "" {
		t.Fatalf("expected backdate flag and reason on record, got %+v", rec)
	}

	backdated, _ := store.AuditBackdated()
	if len(backdated) != 1 {
		t.Fatalf("expected 1 backdated audit entry, got %d", len(backdated))
	}
}

func TestMarkDuplicateRejected(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	req := MarkRequest{StudentID: 1, BatchID: 10, Date: testToday, Status: models.AttendancePresent}
	if _, err := svc.Mark(req, testCoach); err != nil {
		t.Fatalf("first mark failed: %v", err)
	}
	if _, err := svc.Mark(req, testCoach); !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("expected ErrAlreadyMarked, got %v", err)
	}
}

func TestMarkUnknownReferences(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	if _, err := svc.Mark(MarkRequest{StudentID: 99, BatchID: 10, Date: testToday, Status: models.AttendancePresent}, testCoach); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
	if _, err := svc.Mark(MarkRequest{StudentID: 1, BatchID: 99, Date: testToday, Status: models.AttendancePresent}, testCoach); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected ErrBatchNotFound, got %v", err)
	}
	ghost := Actor{ID: 99, Role: RoleCoach}
	if _, err := svc.Mark(MarkRequest{StudentID: 1, BatchID: 10, Date: testToday, Status: models.AttendancePresent}, ghost); !errors.Is(err, ErrActorNotFound) {
		t.Fatalf("expected ErrActorNotFound, got %v", err)
	}
}

func TestMarkMakeupFlow(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	missed := testToday.AddDate(0, 0, -5)
	if _, err := svc.Mark(MarkRequest{
		StudentID: 1, BatchID: 10, Date: missed,
		Status: models.AttendanceAbsent, Reason: "marked during reconciliation",
	}, testAdmin); err != nil {
		t.Fatalf("absence mark failed: %v", err)
	}

	rec, err := svc.Mark(MarkRequest{
		StudentID: 1, BatchID: 10, Date: testToday,
		Status: models.AttendancePresent, EntryType: models.EntryMakeup,
		CompensatesForDate: &missed,
	}, testCoach)
	if err != nil {
		t.Fatalf("makeup mark failed: %v", err)
	}
	if rec.CompensatesForDate == nil || !rec.CompensatesForDate.Equal(DateOnly(missed)) {
		t.Fatalf("expected compensates_for_date %s, got %v", missed.Format("2006-01-02"), rec.CompensatesForDate)
	}

	// A second makeup against the same absence must be rejected
	later := testToday
	_, err = svc.Mark(MarkRequest{
		StudentID: 1, BatchID: 20, Date: later,
		Status: models.AttendancePresent, EntryType: models.EntryMakeup,
		CompensatesForDate: &missed,
	}, testCoach)
	var v *Violation
	if !errors.As(err, &v) || v.Kind != ViolationDuplicateCompensation {
		t.Fatalf("expected DUPLICATE_COMPENSATION, got %v", err)
	}
}

// ==================== MarkBulk ====================

func TestMarkBulkCreatesAndUpdates(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	// Pre-existing record for student 1 today
	if _, err := svc.Mark(MarkRequest{StudentID: 1, BatchID: 10, Date: testToday, Status: models.AttendanceAbsent}, testCoach); err != nil {
		t.Fatalf("setup mark failed: %v", err)
	}

	results, err := svc.MarkBulk(BulkRequest{
		BatchID: 10, Date: testToday,
		Items: []BulkItem{
			{StudentID: 1, Status: models.AttendancePresent},
			{StudentID: 2, Status: models.AttendanceLate},
		},
	}, testCoach)
	if err != nil {
		t.Fatalf("bulk mark failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Student 1 was updated in place, not duplicated
	recs, _ := store.AttendancesByStudent(1)
	if len(recs) != 1 {
		t.Fatalf("expected update in place, found %d records", len(recs))
	}
	if recs[0].Status != models.AttendancePresent {
		t.Fatalf("expected updated status PRESENT, got %s", recs[0].Status)
	}

	// The update carries previous values in its audit entry
	audits, _ := store.AuditByStudent(1)
	if len(audits) != 2 {
		t.Fatalf("expected CREATE + UPDATE audits, got %d", len(audits))
	}
	update := audits[1]
	if update.Action != models.AuditUpdate || update.PreviousStatus == nil || *update.PreviousStatus != models.AttendanceAbsent {
		t.Fatalf("expected UPDATE audit with previous ABSENT, got %+v", update)
	}
}

func TestMarkBulkIsAtomic(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	// Second item is an invalid makeup (no target), so the whole call
	// must leave no trace.
	_, err := svc.MarkBulk(BulkRequest{
		BatchID: 10, Date: testToday,
		Items: []BulkItem{
			{StudentID: 1, Status: models.AttendancePresent},
			{StudentID: 2, Status: models.AttendancePresent, EntryType: models.EntryMakeup},
		},
	}, testCoach)
	var v *Violation
	if !errors.As(err, &v) || v.Kind != ViolationMissingCompensation {
		t.Fatalf("expected MISSING_COMPENSATES_FOR_DATE, got %v", err)
	}

	all, _ := store.Attendances()
	if len(all) != 0 {
		t.Fatalf("expected rollback to leave no records, found %d", len(all))
	}
	if len(store.audits) != 0 {
		t.Fatalf("expected rollback to leave no audit entries, found %d", len(store.audits))
	}
}

func TestMarkBulkUnknownStudentFailsWhole(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	_, err := svc.MarkBulk(BulkRequest{
		BatchID: 10, Date: testToday,
		Items: []BulkItem{
			{StudentID: 1, Status: models.AttendancePresent},
			{StudentID: 99, Status: models.AttendancePresent},
		},
	}, testCoach)
	if !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
	all, _ := store.Attendances()
	if len(all) != 0 {
		t.Fatalf("expected no records after rollback, found %d", len(all))
	}
}

// ==================== Update ====================

func TestUpdateAppliesPartialChanges(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	rec, err := svc.Mark(MarkRequest{StudentID: 1, BatchID: 10, Date: testToday, Status: models.AttendanceAbsent, Notes: "left early"}, testCoach)
	if err != nil {
		t.Fatalf("setup mark failed: %v", err)
	}

	status := models.AttendanceLate
	updated, err := svc.Update(rec.ID, UpdateRequest{Status: &status}, testCoach)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != models.AttendanceLate {
		t.Fatalf("expected status LATE, got %s", updated.Status)
	}
	if updated.Notes != "left early" {
		t.Fatalf("nil fields must keep current values, notes became %q", updated.Notes)
	}
}

func TestUpdateEnforcesWindowAgainstRecordDate(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	// Record 10 days old: inside admin window, outside coach window
	rec, err := svc.Mark(MarkRequest{
		StudentID: 1, BatchID: 10, Date: testToday.AddDate(0, 0, -10),
		Status: models.AttendanceAbsent, Reason: "entered during reconciliation",
	}, testAdmin)
	if err != nil {
		t.Fatalf("setup mark failed: %v", err)
	}

	status := models.AttendancePresent
	_, err = svc.Update(rec.ID, UpdateRequest{Status: &status, Reason: "coach says he was there"}, testCoach)
	var v *Violation
	if !errors.As(err, &v) || v.Kind != ViolationWindowExceeded {
		t.Fatalf("expected BACKDATE_WINDOW_EXCEEDED for coach, got %v", err)
	}

	updated, err := svc.Update(rec.ID, UpdateRequest{Status: &status, Reason: "verified against court booking"}, testAdmin)
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if !updated.WasBackdated || updated.BackdateReason != "verified against court booking" {
		t.Fatalf("expected backdate flag and fresh reason, got %+v", updated)
	}
}

func TestUpdateRequiresReasonForPastRecord(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	rec, err := svc.Mark(MarkRequest{
		StudentID: 1, BatchID: 10, Date: testToday.AddDate(0, 0, -2),
		Status: models.AttendanceAbsent, Reason: "marked late",
	}, testCoach)
	if err != nil {
		t.Fatalf("setup mark failed: %v", err)
	}

	status := models.AttendancePresent
	_, err = svc.Update(rec.ID, UpdateRequest{Status: &status}, testCoach)
	var v *Violation
	if !errors.As(err, &v) || v.Kind != ViolationMissingReason {
		t.Fatalf("expected MISSING_BACKDATE_REASON, got %v", err)
	}
}

func TestUpdateMakeupExcludesOwnRow(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	missed := testToday.AddDate(0, 0, -5)
	if _, err := svc.Mark(MarkRequest{
		StudentID: 1, BatchID: 10, Date: missed,
		Status: models.AttendanceAbsent, Reason: "reconciliation",
	}, testAdmin); err != nil {
		t.Fatalf("absence mark failed: %v", err)
	}
	makeup, err := svc.Mark(MarkRequest{
		StudentID: 1, BatchID: 10, Date: testToday,
		Status: models.AttendancePresent, EntryType: models.EntryMakeup,
		CompensatesForDate: &missed,
	}, testCoach)
	if err != nil {
		t.Fatalf("makeup mark failed: %v", err)
	}

	// Touching the makeup record without changing its target must not
	// trip the duplicate-compensation check against itself.
	notes := "covered full session"
	if _, err := svc.Update(makeup.ID, UpdateRequest{Notes: &notes}, testCoach); err != nil {
		t.Fatalf("self-referential update failed: %v", err)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	svc := newTestService(seededStore())
	status := models.AttendancePresent
	if _, err := svc.Update(404, UpdateRequest{Status: &status}, testAdmin); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

// ==================== Delete ====================

func TestDeleteWritesAuditAndRemovesRow(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	rec, err := svc.Mark(MarkRequest{StudentID: 1, BatchID: 10, Date: testToday, Status: models.AttendancePresent}, testCoach)
	if err != nil {
		t.Fatalf("setup mark failed: %v", err)
	}

	if err := svc.Delete(rec.ID, testAdmin); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.AttendanceByID(rec.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected row gone, got %v", err)
	}

	// The audit trail survives the row
	audits, _ := store.AuditByAttendance(rec.ID)
	if len(audits) != 2 {
		t.Fatalf("expected CREATE + DELETE audits, got %d", len(audits))
	}
	del := audits[1]
	if del.Action != models.AuditDelete {
		t.Fatalf("expected DELETE action, got %s", del.Action)
	}
	if del.PreviousStatus == nil || *del.PreviousStatus != models.AttendancePresent {
		t.Fatalf("DELETE audit must carry the removed values, got %+v", del)
	}
	if del.NewStatus != "" {
		t.Fatalf("DELETE audit must carry empty new values, got %q", del.NewStatus)
	}
}

// ==================== Summaries ====================

func TestStudentSummaryAndPercentage(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	marks := []struct {
		daysAgo int
		status  string
	}{
		{0, models.AttendancePresent},
		{1, models.AttendancePresent},
		{2, models.AttendanceAbsent},
		{3, models.AttendanceLate},
	}
	for _, m := range marks {
		if _, err := svc.Mark(MarkRequest{
			StudentID: 1, BatchID: 10, Date: testToday.AddDate(0, 0, -m.daysAgo),
			Status: m.status, Reason: "backfill",
		}, testCoach); err != nil {
			t.Fatalf("setup mark failed: %v", err)
		}
	}

	summary, err := svc.StudentSummary(1)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.TotalClasses != 4 || summary.PresentCount != 2 || summary.AbsentCount != 1 || summary.LateCount != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.AttendancePercentage != 50.0 {
		t.Fatalf("expected 50%%, got %f", summary.AttendancePercentage)
	}

	pct, err := svc.Percentage(1, 10)
	if err != nil {
		t.Fatalf("percentage failed: %v", err)
	}
	if pct != 50.0 {
		t.Fatalf("expected 50%%, got %f", pct)
	}
}

func TestSummaryZeroClasses(t *testing.T) {
	svc := newTestService(seededStore())

	summary, err := svc.StudentSummary(2)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.TotalClasses != 0 || summary.AttendancePercentage != 0 {
		t.Fatalf("expected zero totals and 0%%, got %+v", summary)
	}

	pct, err := svc.Percentage(2, 10)
	if err != nil || pct != 0 {
		t.Fatalf("expected 0%% with no rows, got %f, %v", pct, err)
	}
}

// ==================== EligibleAbsences ====================

func TestEligibleAbsences(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	compensated := testToday.AddDate(0, 0, -20)
	open := testToday.AddDate(0, 0, -10)

	for _, d := range []time.Time{compensated, open} {
		if _, err := svc.Mark(MarkRequest{
			StudentID: 1, BatchID: 10, Date: d,
			Status: models.AttendanceAbsent, Reason: "backfill",
		}, testAdmin); err != nil {
			t.Fatalf("setup mark failed: %v", err)
		}
	}
	if _, err := svc.Mark(MarkRequest{
		StudentID: 1, BatchID: 10, Date: testToday,
		Status: models.AttendancePresent, EntryType: models.EntryMakeup,
		CompensatesForDate: &compensated,
	}, testCoach); err != nil {
		t.Fatalf("makeup mark failed: %v", err)
	}

	eligible, err := svc.EligibleAbsences(1, 10)
	if err != nil {
		t.Fatalf("eligible absences failed: %v", err)
	}
	if len(eligible) != 1 {
		t.Fatalf("expected 1 eligible absence, got %d", len(eligible))
	}
	if !DateOnly(eligible[0].Date).Equal(DateOnly(open)) {
		t.Fatalf("expected the uncompensated absence, got %s", eligible[0].Date.Format("2006-01-02"))
	}
}

// ==================== Matrices ====================

func TestWeeklyMatrixDefaultsToToday(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	if _, err := svc.Mark(MarkRequest{StudentID: 1, BatchID: 10, Date: testToday, Status: models.AttendancePresent}, testCoach); err != nil {
		t.Fatalf("setup mark failed: %v", err)
	}

	m, err := svc.Weekly(10, nil)
	if err != nil {
		t.Fatalf("weekly failed: %v", err)
	}
	if m.PeriodType != PeriodWeekly || len(m.DateColumns) != 7 {
		t.Fatalf("unexpected matrix shape: %s, %d columns", m.PeriodType, len(m.DateColumns))
	}
	if m.StartDate.Weekday() != time.Sunday {
		t.Fatalf("expected Sunday-anchored week, start is %s", m.StartDate.Weekday())
	}
	if len(m.Students) != 2 {
		t.Fatalf("expected full roster in matrix, got %d rows", len(m.Students))
	}
}

func TestMonthlyMatrixValidation(t *testing.T) {
	svc := newTestService(seededStore())

	if _, err := svc.Monthly(10, 0, 5, nil); err == nil {
		t.Fatalf("expected error for missing year")
	}
	_, err := svc.Monthly(10, 2026, 13, nil)
	var v *Violation
	if !errors.As(err, &v) || v.Kind != ViolationInvalidPeriod {
		t.Fatalf("expected INVALID_PERIOD for month 13, got %v", err)
	}

	m, err := svc.Monthly(10, 2026, 2, nil)
	if err != nil {
		t.Fatalf("monthly failed: %v", err)
	}
	if len(m.DateColumns) != 28 {
		t.Fatalf("expected 28 columns for Feb 2026, got %d", len(m.DateColumns))
	}
	if _, err := svc.Monthly(99, 2026, 2, nil); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected ErrBatchNotFound, got %v", err)
	}
}

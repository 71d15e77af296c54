package controllers

import (
	"academy_go/middleware"
	"academy_go/services/attendance"
	"academy_go/utils"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AttendanceController struct {
	service *attendance.Service
}

func NewAttendanceController(service *attendance.Service) *AttendanceController {
	return &AttendanceController{service: service}
}

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD request parameter.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// respondError maps core errors to HTTP responses. Violation details
// are passed through verbatim so callers can render them.
func (ac *AttendanceController) respondError(c *fiber.Ctx, err error) error {
	var v *attendance.Violation
	if errors.As(err, &v) {
		status := fiber.StatusBadRequest
		if v.Kind == attendance.ViolationDuplicateCompensation {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{"error": v.Detail, "kind": string(v.Kind)})
	}

	switch {
	case errors.Is(err, attendance.ErrAlreadyMarked):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, attendance.ErrRecordNotFound),
		errors.Is(err, attendance.ErrStudentNotFound),
		errors.Is(err, attendance.ErrBatchNotFound),
		errors.Is(err, attendance.ErrActorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	logrus.WithError(err).Error("Attendance operation failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

type markAttendanceRequest struct {
	StudentID          uint   `json:"student_id" validate:"required"`
	BatchID            uint   `json:"batch_id" validate:"required"`
	Date               string `json:"date" validate:"required"`
	Status             string `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	EntryType          string `json:"entry_type" validate:"omitempty,oneof=REGULAR MAKEUP"`
	CompensatesForDate string `json:"compensates_for_date"`
	Notes              string `json:"notes"`
	BackdateReason     string `json:"backdate_reason"`
}

// MarkAttendance creates one attendance record
func (ac *AttendanceController) MarkAttendance(c *fiber.Ctx) error {
	var req markAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	compensates, err := parseOptionalDate(req.CompensatesForDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid compensates_for_date, expected YYYY-MM-DD"})
	}

	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	rec, err := ac.service.Mark(attendance.MarkRequest{
		StudentID:          req.StudentID,
		BatchID:            req.BatchID,
		Date:               date,
		Status:             req.Status,
		EntryType:          req.EntryType,
		CompensatesForDate: compensates,
		Notes:              req.Notes,
		Reason:             req.BackdateReason,
	}, actor)
	if err != nil {
		return ac.respondError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "attendance", rec.ID, rec)
	return c.Status(fiber.StatusCreated).JSON(rec)
}

type bulkItemRequest struct {
	StudentID          uint   `json:"student_id" validate:"required"`
	Status             string `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	EntryType          string `json:"entry_type" validate:"omitempty,oneof=REGULAR MAKEUP"`
	CompensatesForDate string `json:"compensates_for_date"`
	Notes              string `json:"notes"`
}

type bulkAttendanceRequest struct {
	BatchID        uint              `json:"batch_id" validate:"required"`
	Date           string            `json:"date" validate:"required"`
	BackdateReason string            `json:"backdate_reason"`
	Items          []bulkItemRequest `json:"student_attendances" validate:"required,min=1,dive"`
}

// MarkBulkAttendance marks a whole batch for one date (all-or-nothing)
func (ac *AttendanceController) MarkBulkAttendance(c *fiber.Ctx) error {
	var req bulkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	items := make([]attendance.BulkItem, 0, len(req.Items))
	for _, item := range req.Items {
		compensates, err := parseOptionalDate(item.CompensatesForDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid compensates_for_date, expected YYYY-MM-DD"})
		}
		items = append(items, attendance.BulkItem{
			StudentID:          item.StudentID,
			Status:             item.Status,
			EntryType:          item.EntryType,
			CompensatesForDate: compensates,
			Notes:              item.Notes,
		})
	}

	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	records, err := ac.service.MarkBulk(attendance.BulkRequest{
		BatchID: req.BatchID,
		Date:    date,
		Reason:  req.BackdateReason,
		Items:   items,
	}, actor)
	if err != nil {
		return ac.respondError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "attendance", req.BatchID, fiber.Map{"bulk": len(records)})
	return c.Status(fiber.StatusCreated).JSON(records)
}

type updateAttendanceRequest struct {
	Status             *string `json:"status" validate:"omitempty,oneof=PRESENT ABSENT LATE EXCUSED"`
	EntryType          *string `json:"entry_type" validate:"omitempty,oneof=REGULAR MAKEUP"`
	CompensatesForDate string  `json:"compensates_for_date"`
	Notes              *string `json:"notes"`
	BackdateReason     string  `json:"backdate_reason"`
}

// UpdateAttendance mutates an existing record
func (ac *AttendanceController) UpdateAttendance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attendance ID"})
	}

	var req updateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	compensates, err := parseOptionalDate(req.CompensatesForDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid compensates_for_date, expected YYYY-MM-DD"})
	}

	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	rec, err := ac.service.Update(uint(id), attendance.UpdateRequest{
		Status:             req.Status,
		EntryType:          req.EntryType,
		CompensatesForDate: compensates,
		Notes:              req.Notes,
		Reason:             req.BackdateReason,
	}, actor)
	if err != nil {
		return ac.respondError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "attendance", rec.ID, rec)
	return c.JSON(rec)
}

// DeleteAttendance hard-deletes a record (audited)
func (ac *AttendanceController) DeleteAttendance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attendance ID"})
	}

	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := ac.service.Delete(uint(id), actor); err != nil {
		return ac.respondError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "attendance", uint(id), nil)
	return c.JSON(fiber.Map{"message": "Attendance deleted successfully"})
}

// GetAttendances returns all attendance records
func (ac *AttendanceController) GetAttendances(c *fiber.Ctx) error {
	records, err := ac.service.All()
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(records)
}

// GetAttendance returns one record by ID
func (ac *AttendanceController) GetAttendance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attendance ID"})
	}
	rec, err := ac.service.ByID(uint(id))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(rec)
}

// GetAttendanceByStudent returns a student's records
func (ac *AttendanceController) GetAttendanceByStudent(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	records, err := ac.service.ByStudent(uint(studentID))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(records)
}

// GetAttendanceByBatch returns a batch's records
func (ac *AttendanceController) GetAttendanceByBatch(c *fiber.Ctx) error {
	batchID, err := c.ParamsInt("batchId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	records, err := ac.service.ByBatch(uint(batchID))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(records)
}

// GetAttendanceByDate returns all records for one date
func (ac *AttendanceController) GetAttendanceByDate(c *fiber.Ctx) error {
	date, err := parseDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	records, err := ac.service.ByDate(date)
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(records)
}

func (ac *AttendanceController) parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// GetAttendanceByStudentRange returns a student's records in a range
func (ac *AttendanceController) GetAttendanceByStudentRange(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	start, end, err := ac.parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date/end_date, expected YYYY-MM-DD"})
	}
	records, err := ac.service.ByStudentRange(uint(studentID), start, end)
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(records)
}

// GetAttendanceByBatchRange returns a batch's records in a range
func (ac *AttendanceController) GetAttendanceByBatchRange(c *fiber.Ctx) error {
	batchID, err := c.ParamsInt("batchId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	start, end, err := ac.parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date/end_date, expected YYYY-MM-DD"})
	}
	records, err := ac.service.ByBatchRange(uint(batchID), start, end)
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(records)
}

// GetAttendanceByCoachAndDate returns records marked in a coach's batches on a date
func (ac *AttendanceController) GetAttendanceByCoachAndDate(c *fiber.Ctx) error {
	coachID, err := c.ParamsInt("coachId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach ID"})
	}
	date, err := parseDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	records, err := ac.service.ByCoachAndDate(uint(coachID), date)
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(records)
}

// GetStudentSummary returns a student's aggregate attendance counts
func (ac *AttendanceController) GetStudentSummary(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	summary, err := ac.service.StudentSummary(uint(studentID))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(summary)
}

// GetAttendancePercentage returns present/total*100 for student+batch
func (ac *AttendanceController) GetAttendancePercentage(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	batchID, err := c.ParamsInt("batchId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	pct, err := ac.service.Percentage(uint(studentID), uint(batchID))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(fiber.Map{"student_id": studentID, "batch_id": batchID, "attendance_percentage": pct})
}

// GetEligibleAbsences lists uncompensated absences usable for makeup
func (ac *AttendanceController) GetEligibleAbsences(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	batchID, err := c.ParamsInt("batchId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	records, err := ac.service.EligibleAbsences(uint(studentID), uint(batchID))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(records)
}

// GetWeeklyMatrix returns the Sunday-anchored week grid for a batch
func (ac *AttendanceController) GetWeeklyMatrix(c *fiber.Ctx) error {
	batchID, err := c.ParamsInt("batchId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	reference, err := parseOptionalDate(c.Query("reference_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reference_date, expected YYYY-MM-DD"})
	}
	matrix, err := ac.service.Weekly(uint(batchID), reference)
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(matrix)
}

// GetMonthlyMatrix returns the calendar-month grid for a batch
func (ac *AttendanceController) GetMonthlyMatrix(c *fiber.Ctx) error {
	batchID, err := c.ParamsInt("batchId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))
	reference, err := parseOptionalDate(c.Query("reference_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reference_date, expected YYYY-MM-DD"})
	}
	matrix, err := ac.service.Monthly(uint(batchID), year, month, reference)
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(matrix)
}

// ==================== AUDIT QUERIES ====================

// GetAuditByAttendance returns the mutation history of one record
func (ac *AttendanceController) GetAuditByAttendance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attendance ID"})
	}
	entries, err := ac.service.AuditByAttendance(uint(id))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(entries)
}

// GetAuditByStudent returns all audit entries touching a student
func (ac *AttendanceController) GetAuditByStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	entries, err := ac.service.AuditByStudent(uint(id))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(entries)
}

// GetAuditByBatch returns all audit entries touching a batch
func (ac *AttendanceController) GetAuditByBatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	entries, err := ac.service.AuditByBatch(uint(id))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(entries)
}

// GetAuditByActor returns all audit entries made by one user
func (ac *AttendanceController) GetAuditByActor(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid actor ID"})
	}
	entries, err := ac.service.AuditByActor(uint(id))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(entries)
}

// GetAuditBackdated returns every backdated change
func (ac *AttendanceController) GetAuditBackdated(c *fiber.Ctx) error {
	entries, err := ac.service.AuditBackdated()
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(entries)
}

// GetAuditByRange returns audit entries changed within a time range
func (ac *AttendanceController) GetAuditByRange(c *fiber.Ctx) error {
	start, end, err := ac.parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date/end_date, expected YYYY-MM-DD"})
	}
	entries, err := ac.service.AuditByRange(start, end.AddDate(0, 0, 1))
	if err != nil {
		return ac.respondError(c, err)
	}
	return c.JSON(entries)
}

package controllers

import (
	"academy_go/database"
	"academy_go/middleware"
	"academy_go/models"
	"academy_go/utils"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
)

type BatchController struct{}

type batchRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	SkillLevel string `json:"skill_level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	CoachID    uint   `json:"coach_id" validate:"required"`
	StartTime  string `json:"start_time" validate:"omitempty,len=5"`
	EndTime    string `json:"end_time" validate:"omitempty,len=5"`
}

// CreateBatch creates a training batch under a coach
func (bc *BatchController) CreateBatch(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var coach models.Coach
	if err := database.DB.First(&coach, req.CoachID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	}

	batch := models.Batch{
		Name:       utils.SanitizeString(req.Name),
		SkillLevel: req.SkillLevel,
		CoachID:    req.CoachID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Active:     true,
	}
	if err := database.DB.Create(&batch).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create batch"})
	}

	middleware.LogActivity(c, "CREATE", "batch", batch.ID, batch)
	return c.Status(fiber.StatusCreated).JSON(batch)
}

// GetBatches returns all batches
func (bc *BatchController) GetBatches(c *fiber.Ctx) error {
	query := database.DB.Preload("Coach")
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}
	if coachID := c.Query("coach_id"); coachID != "" {
		query = query.Where("coach_id = ?", coachID)
	}

	var batches []models.Batch
	if err := query.Order("name").Find(&batches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch batches"})
	}
	return c.JSON(batches)
}

// GetBatch returns one batch by ID
func (bc *BatchController) GetBatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	var batch models.Batch
	if err := database.DB.Preload("Coach").First(&batch, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Batch not found"})
	}
	return c.JSON(batch)
}

// UpdateBatch updates a batch
func (bc *BatchController) UpdateBatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	var batch models.Batch
	if err := database.DB.First(&batch, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Batch not found"})
	}

	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.CoachID != batch.CoachID {
		var coach models.Coach
		if err := database.DB.First(&coach, req.CoachID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
		}
	}

	batch.Name = utils.SanitizeString(req.Name)
	batch.SkillLevel = req.SkillLevel
	batch.CoachID = req.CoachID
	batch.StartTime = req.StartTime
	batch.EndTime = req.EndTime

	if err := database.DB.Save(&batch).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update batch"})
	}

	middleware.LogActivity(c, "UPDATE", "batch", batch.ID, batch)
	return c.JSON(batch)
}

// DeactivateBatch closes a batch without deleting its history
func (bc *BatchController) DeactivateBatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	var batch models.Batch
	if err := database.DB.First(&batch, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Batch not found"})
	}

	if err := database.DB.Model(&batch).Update("active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate batch"})
	}

	middleware.LogActivity(c, "UPDATE", "batch", batch.ID, fiber.Map{"active": false})
	return c.JSON(fiber.Map{"message": "Batch deactivated successfully"})
}

// GetBatchStudents returns the batch roster
func (bc *BatchController) GetBatchStudents(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	var batch models.Batch
	if err := database.DB.First(&batch, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Batch not found"})
	}

	var students []models.Student
	err = database.DB.
		Where("id IN (?)", database.DB.Model(&models.BatchStudent{}).
			Select("student_id").Where("batch_id = ?", batch.ID)).
		Order("full_name").
		Find(&students).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch roster"})
	}
	return c.JSON(students)
}

type assignStudentRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
}

// AssignStudent adds a student to the batch roster
func (bc *BatchController) AssignStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	var req assignStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var batch models.Batch
	if err := database.DB.First(&batch, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Batch not found"})
	}
	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	membership := models.BatchStudent{BatchID: batch.ID, StudentID: student.ID}
	if err := database.DB.Create(&membership).Error; err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Student is already in this batch"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to assign student"})
	}

	middleware.LogActivity(c, "CREATE", "batch_student", membership.ID, membership)
	return c.Status(fiber.StatusCreated).JSON(membership)
}

// RemoveStudent removes a student from the batch roster
func (bc *BatchController) RemoveStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}

	var membership models.BatchStudent
	if err := database.DB.Where("batch_id = ? AND student_id = ?", id, studentID).First(&membership).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student is not in this batch"})
	}

	if err := database.DB.Delete(&membership).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove student"})
	}

	middleware.LogActivity(c, "DELETE", "batch_student", membership.ID, nil)
	return c.JSON(fiber.Map{"message": "Student removed from batch"})
}

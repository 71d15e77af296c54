package controllers

import (
	"academy_go/database"
	"academy_go/middleware"
	"academy_go/models"
	"academy_go/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

type SkillController struct{}

type skillEvaluationRequest struct {
	StudentID   uint   `json:"student_id" validate:"required"`
	CoachID     uint   `json:"coach_id" validate:"required"`
	SkillName   string `json:"skill_name" validate:"required,max=100"`
	Score       int    `json:"score" validate:"required,min=1,max=10"`
	Comments    string `json:"comments"`
	EvaluatedOn string `json:"evaluated_on" validate:"required"`
}

// CreateEvaluation records a skill score for a student
func (sc *SkillController) CreateEvaluation(c *fiber.Ctx) error {
	var req skillEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	evaluatedOn, err := time.Parse(dateLayout, req.EvaluatedOn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid evaluated_on, expected YYYY-MM-DD"})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}
	var coach models.Coach
	if err := database.DB.First(&coach, req.CoachID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	}

	evaluation := models.SkillEvaluation{
		StudentID:   req.StudentID,
		CoachID:     req.CoachID,
		SkillName:   utils.SanitizeString(req.SkillName),
		Score:       req.Score,
		Comments:    req.Comments,
		EvaluatedOn: evaluatedOn,
	}
	if err := database.DB.Create(&evaluation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create evaluation"})
	}

	middleware.LogActivity(c, "CREATE", "skill_evaluation", evaluation.ID, evaluation)
	return c.Status(fiber.StatusCreated).JSON(evaluation)
}

// GetStudentEvaluations returns a student's evaluations, newest first
func (sc *SkillController) GetStudentEvaluations(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}

	var evaluations []models.SkillEvaluation
	query := database.DB.Where("student_id = ?", studentID)
	if skill := c.Query("skill_name"); skill != "" {
		query = query.Where("skill_name = ?", skill)
	}
	if err := query.Order("evaluated_on DESC").Find(&evaluations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch evaluations"})
	}
	return c.JSON(evaluations)
}

// DeleteEvaluation removes one evaluation
func (sc *SkillController) DeleteEvaluation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid evaluation ID"})
	}
	var evaluation models.SkillEvaluation
	if err := database.DB.First(&evaluation, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Evaluation not found"})
	}

	if err := database.DB.Delete(&evaluation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete evaluation"})
	}

	middleware.LogActivity(c, "DELETE", "skill_evaluation", evaluation.ID, nil)
	return c.JSON(fiber.Map{"message": "Evaluation deleted successfully"})
}

type achievementRequest struct {
	StudentID   uint   `json:"student_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Level       string `json:"level" validate:"omitempty,oneof=DISTRICT STATE NATIONAL INTERNATIONAL"`
	AchievedOn  string `json:"achieved_on" validate:"required"`
}

// CreateAchievement records a tournament or grading achievement
func (sc *SkillController) CreateAchievement(c *fiber.Ctx) error {
	var req achievementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	achievedOn, err := time.Parse(dateLayout, req.AchievedOn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid achieved_on, expected YYYY-MM-DD"})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	achievement := models.Achievement{
		StudentID:   req.StudentID,
		Title:       utils.SanitizeString(req.Title),
		Description: req.Description,
		Level:       req.Level,
		AchievedOn:  achievedOn,
	}
	if err := database.DB.Create(&achievement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create achievement"})
	}

	middleware.LogActivity(c, "CREATE", "achievement", achievement.ID, achievement)
	return c.Status(fiber.StatusCreated).JSON(achievement)
}

// GetStudentAchievements returns a student's achievements, newest first
func (sc *SkillController) GetStudentAchievements(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}

	var achievements []models.Achievement
	if err := database.DB.Where("student_id = ?", studentID).Order("achieved_on DESC").Find(&achievements).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}
	return c.JSON(achievements)
}

// DeleteAchievement removes one achievement
func (sc *SkillController) DeleteAchievement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid achievement ID"})
	}
	var achievement models.Achievement
	if err := database.DB.First(&achievement, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Achievement not found"})
	}

	if err := database.DB.Delete(&achievement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete achievement"})
	}

	middleware.LogActivity(c, "DELETE", "achievement", achievement.ID, nil)
	return c.JSON(fiber.Map{"message": "Achievement deleted successfully"})
}

package controllers

import (
	"academy_go/database"
	"academy_go/middleware"
	"academy_go/models"
	"academy_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoachController struct{}

type coachRequest struct {
	Username          string `json:"username" validate:"required,min=3,max=50"`
	Password          string `json:"password" validate:"omitempty,min=6"`
	Email             string `json:"email" validate:"omitempty,email"`
	Phone             string `json:"phone" validate:"omitempty,max=20"`
	FirstName         string `json:"first_name" validate:"required,max=100"`
	LastName          string `json:"last_name" validate:"required,max=100"`
	Specialization    string `json:"specialization" validate:"omitempty,max=255"`
	YearsOfExperience int    `json:"years_of_experience" validate:"omitempty,gte=0"`
	Bio               string `json:"bio" validate:"omitempty,max=1000"`
	Certifications    string `json:"certifications"`
}

// CreateCoach creates the coach user and profile in one transaction
func (cc *CoachController) CreateCoach(c *fiber.Ctx) error {
	var req coachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password is required"})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	var coach models.Coach
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Username: req.Username,
			Password: hashed,
			Email:    req.Email,
			Phone:    req.Phone,
			Role:     "coach",
			Status:   "active",
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		coach = models.Coach{
			UserID:            user.ID,
			FirstName:         utils.SanitizeString(req.FirstName),
			LastName:          utils.SanitizeString(req.LastName),
			Specialization:    req.Specialization,
			YearsOfExperience: req.YearsOfExperience,
			Bio:               req.Bio,
			Certifications:    req.Certifications,
			Active:            true,
		}
		return tx.Create(&coach).Error
	})
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Failed to create coach (username or email may already exist)"})
	}

	database.DB.Preload("User").First(&coach, coach.ID)
	middleware.LogActivity(c, "CREATE", "coach", coach.ID, coach)
	return c.Status(fiber.StatusCreated).JSON(coach)
}

// GetCoaches returns all coaches
func (cc *CoachController) GetCoaches(c *fiber.Ctx) error {
	query := database.DB.Preload("User")
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var coaches []models.Coach
	if err := query.Order("first_name").Find(&coaches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch coaches"})
	}
	return c.JSON(coaches)
}

// GetCoach returns one coach by ID
func (cc *CoachController) GetCoach(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach ID"})
	}
	var coach models.Coach
	if err := database.DB.Preload("User").First(&coach, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	}
	return c.JSON(coach)
}

// GetCoachBatches returns the batches a coach leads
func (cc *CoachController) GetCoachBatches(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach ID"})
	}
	var coach models.Coach
	if err := database.DB.First(&coach, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	}

	var batches []models.Batch
	if err := database.DB.Where("coach_id = ?", coach.ID).Order("name").Find(&batches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch batches"})
	}
	return c.JSON(batches)
}

// UpdateCoach updates the coach profile (not its user account)
func (cc *CoachController) UpdateCoach(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach ID"})
	}
	var coach models.Coach
	if err := database.DB.First(&coach, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	}

	var req coachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	coach.FirstName = utils.SanitizeString(req.FirstName)
	coach.LastName = utils.SanitizeString(req.LastName)
	coach.Specialization = req.Specialization
	coach.YearsOfExperience = req.YearsOfExperience
	coach.Bio = req.Bio
	coach.Certifications = req.Certifications

	if err := database.DB.Save(&coach).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update coach"})
	}

	middleware.LogActivity(c, "UPDATE", "coach", coach.ID, coach)
	return c.JSON(coach)
}

// DeactivateCoach disables the coach and suspends its login
func (cc *CoachController) DeactivateCoach(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach ID"})
	}
	var coach models.Coach
	if err := database.DB.First(&coach, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&coach).Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", coach.UserID).Update("status", "inactive").Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate coach"})
	}

	middleware.LogActivity(c, "UPDATE", "coach", coach.ID, fiber.Map{"active": false})
	return c.JSON(fiber.Map{"message": "Coach deactivated successfully"})
}

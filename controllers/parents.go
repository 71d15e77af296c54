package controllers

import (
	"academy_go/database"
	"academy_go/middleware"
	"academy_go/models"
	"academy_go/utils"

	"github.com/gofiber/fiber/v2"
)

type ParentController struct{}

type parentRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Email     string `json:"email" validate:"omitempty,email"`
	Address   string `json:"address" validate:"omitempty,max=500"`
}

// CreateParent creates a parent contact record
func (pc *ParentController) CreateParent(c *fiber.Ctx) error {
	var req parentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	parent := models.Parent{
		FirstName: utils.SanitizeString(req.FirstName),
		LastName:  utils.SanitizeString(req.LastName),
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
	}
	if err := database.DB.Create(&parent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create parent"})
	}

	middleware.LogActivity(c, "CREATE", "parent", parent.ID, parent)
	return c.Status(fiber.StatusCreated).JSON(parent)
}

// GetParents returns all parents
func (pc *ParentController) GetParents(c *fiber.Ctx) error {
	var parents []models.Parent
	if err := database.DB.Order("first_name").Find(&parents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch parents"})
	}
	return c.JSON(parents)
}

// GetParent returns one parent by ID
func (pc *ParentController) GetParent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid parent ID"})
	}
	var parent models.Parent
	if err := database.DB.First(&parent, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Parent not found"})
	}
	return c.JSON(parent)
}

// GetParentStudents returns the children linked to a parent
func (pc *ParentController) GetParentStudents(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid parent ID"})
	}
	var parent models.Parent
	if err := database.DB.First(&parent, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Parent not found"})
	}

	var students []models.Student
	if err := database.DB.Where("parent_id = ?", parent.ID).Order("full_name").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(students)
}

// UpdateParent updates a parent record
func (pc *ParentController) UpdateParent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid parent ID"})
	}
	var parent models.Parent
	if err := database.DB.First(&parent, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Parent not found"})
	}

	var req parentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	parent.FirstName = utils.SanitizeString(req.FirstName)
	parent.LastName = utils.SanitizeString(req.LastName)
	parent.Phone = req.Phone
	parent.Email = req.Email
	parent.Address = req.Address

	if err := database.DB.Save(&parent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update parent"})
	}

	middleware.LogActivity(c, "UPDATE", "parent", parent.ID, parent)
	return c.JSON(parent)
}

// DeleteParent soft-deletes a parent with no remaining children
func (pc *ParentController) DeleteParent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid parent ID"})
	}
	var parent models.Parent
	if err := database.DB.First(&parent, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Parent not found"})
	}

	var children int64
	database.DB.Model(&models.Student{}).Where("parent_id = ?", parent.ID).Count(&children)
	if children > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Parent still has linked students"})
	}

	if err := database.DB.Delete(&parent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete parent"})
	}

	middleware.LogActivity(c, "DELETE", "parent", parent.ID, nil)
	return c.JSON(fiber.Map{"message": "Parent deleted successfully"})
}

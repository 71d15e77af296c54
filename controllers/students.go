package controllers

import (
	"academy_go/database"
	"academy_go/middleware"
	"academy_go/models"
	"academy_go/storage"
	"academy_go/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type StudentController struct{}

type studentRequest struct {
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	Gender      string  `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	DateOfBirth string  `json:"date_of_birth"`
	Phone       string  `json:"phone" validate:"omitempty,max=20"`
	Address     string  `json:"address" validate:"omitempty,max=500"`
	SkillLevel  string  `json:"skill_level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	MonthlyFee  float64 `json:"monthly_fee" validate:"omitempty,gte=0"`
	ParentID    *uint   `json:"parent_id"`
}

func (sr *studentRequest) apply(student *models.Student) error {
	student.FirstName = utils.SanitizeString(sr.FirstName)
	student.LastName = utils.SanitizeString(sr.LastName)
	student.FullName = student.FirstName + " " + student.LastName
	student.Gender = sr.Gender
	student.Phone = sr.Phone
	student.Address = sr.Address
	if sr.SkillLevel != "" {
		student.SkillLevel = sr.SkillLevel
	}
	student.MonthlyFee = sr.MonthlyFee
	student.ParentID = sr.ParentID

	if sr.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, sr.DateOfBirth)
		if err != nil {
			return err
		}
		student.DateOfBirth = &dob
	}
	return nil
}

// CreateStudent creates a new student
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.ParentID != nil {
		var parent models.Parent
		if err := database.DB.First(&parent, *req.ParentID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Parent not found"})
		}
	}

	student := models.Student{Active: true}
	if err := req.apply(&student); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date_of_birth, expected YYYY-MM-DD"})
	}

	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create student"})
	}

	middleware.LogActivity(c, "CREATE", "student", student.ID, student)
	return c.Status(fiber.StatusCreated).JSON(student)
}

// GetStudents returns students, filterable by active flag and skill level
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	query := database.DB.Preload("Parent")

	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}
	if level := c.Query("skill_level"); level != "" {
		query = query.Where("skill_level = ?", level)
	}
	if name := c.Query("name"); name != "" {
		query = query.Where("full_name LIKE ?", "%"+utils.SanitizeString(name)+"%")
	}

	var students []models.Student
	if err := query.Order("full_name").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(students)
}

// GetStudent returns one student by ID
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	var student models.Student
	if err := database.DB.Preload("Parent").First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}
	return c.JSON(student)
}

// UpdateStudent updates a student
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.apply(&student); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date_of_birth, expected YYYY-MM-DD"})
	}

	if err := database.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update student"})
	}

	middleware.LogActivity(c, "UPDATE", "student", student.ID, student)
	return c.JSON(student)
}

// DeactivateStudent soft-disables a student without deleting history
func (sc *StudentController) DeactivateStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	if err := database.DB.Model(&student).Update("active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate student"})
	}

	middleware.LogActivity(c, "UPDATE", "student", student.ID, fiber.Map{"active": false})
	return c.JSON(fiber.Map{"message": "Student deactivated successfully"})
}

// DeleteStudent soft-deletes a student
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	if err := database.DB.Delete(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete student"})
	}

	middleware.LogActivity(c, "DELETE", "student", student.ID, nil)
	return c.JSON(fiber.Map{"message": "Student deleted successfully"})
}

// UploadStudentPhoto stores a profile photo in S3 and saves its URL
func (sc *StudentController) UploadStudentPhoto(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}
	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file is required"})
	}

	svc, err := storage.NewStorageService(c.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to initialise storage service")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Storage unavailable"})
	}

	url, err := svc.UploadFile(c.Context(), fh, "students", student.ID)
	if err != nil {
		logrus.WithError(err).Error("Failed to upload student photo")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
	}

	// Drop the previous photo, best effort
	if student.PhotoURL != "" {
		if err := svc.DeleteFile(c.Context(), student.PhotoURL); err != nil {
			logrus.WithError(err).Warn("Failed to delete previous student photo")
		}
	}

	if err := database.DB.Model(&student).Update("photo_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save photo URL"})
	}

	middleware.LogActivity(c, "UPDATE", "student", student.ID, fiber.Map{"photo_url": url})
	return c.JSON(fiber.Map{"message": "Photo uploaded successfully", "photo_url": url})
}

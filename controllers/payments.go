package controllers

import (
	"academy_go/database"
	"academy_go/middleware"
	"academy_go/models"
	"academy_go/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentController struct{}

type paymentRequest struct {
	StudentID uint    `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method" validate:"required,oneof=CASH CARD UPI BANK_TRANSFER"`
	Reference string  `json:"reference" validate:"omitempty,max=100"`
	PaidOn    string  `json:"paid_on" validate:"required"`
	Notes     string  `json:"notes"`
}

// RecordPayment records a fee payment and refreshes the student's
// fee status for the payment month.
func (pc *PaymentController) RecordPayment(c *fiber.Ctx) error {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	paidOn, err := time.Parse(dateLayout, req.PaidOn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid paid_on, expected YYYY-MM-DD"})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	payment := models.FeePayment{
		StudentID: req.StudentID,
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		PaidOn:    paidOn,
		Notes:     req.Notes,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		// Fee status reflects the sum paid in the payment's month
		monthStart := time.Date(paidOn.Year(), paidOn.Month(), 1, 0, 0, 0, 0, time.UTC)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var paid float64
		if err := tx.Model(&models.FeePayment{}).
			Where("student_id = ? AND paid_on >= ? AND paid_on < ?", student.ID, monthStart, monthEnd).
			Select("COALESCE(SUM(amount), 0)").Scan(&paid).Error; err != nil {
			return err
		}

		status := "PARTIAL"
		if student.MonthlyFee <= 0 || paid >= student.MonthlyFee {
			status = "PAID"
		}
		return tx.Model(&student).Update("fee_status", status).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	middleware.LogActivity(c, "CREATE", "fee_payment", payment.ID, payment)
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// GetStudentPayments returns a student's payment history, newest first
func (pc *PaymentController) GetStudentPayments(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID"})
	}

	var payments []models.FeePayment
	if err := database.DB.Where("student_id = ?", studentID).Order("paid_on DESC").Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}
	return c.JSON(payments)
}

// GetPaymentsByRange returns payments within [start_date, end_date]
func (pc *PaymentController) GetPaymentsByRange(c *fiber.Ctx) error {
	start, err := time.Parse(dateLayout, c.Query("start_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date, expected YYYY-MM-DD"})
	}
	end, err := time.Parse(dateLayout, c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date, expected YYYY-MM-DD"})
	}

	var payments []models.FeePayment
	err = database.DB.
		Where("paid_on >= ? AND paid_on < ?", start, end.AddDate(0, 0, 1)).
		Order("paid_on DESC").
		Find(&payments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}
	return c.JSON(payments)
}

// DeletePayment removes a mistaken payment entry
func (pc *PaymentController) DeletePayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}
	var payment models.FeePayment
	if err := database.DB.First(&payment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}

	if err := database.DB.Delete(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete payment"})
	}

	middleware.LogActivity(c, "DELETE", "fee_payment", payment.ID, nil)
	return c.JSON(fiber.Map{"message": "Payment deleted successfully"})
}

package routes

import (
	"academy_go/config"
	"academy_go/controllers"
	"academy_go/database"
	"academy_go/middleware"
	"academy_go/repositories"
	"academy_go/services/attendance"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	store := repositories.NewGormAttendanceStore(database.DB)
	policy := attendance.BackdatePolicy{
		CoachWindowDays: config.AppConfig.CoachBackdateWindowDays,
		AdminWindowDays: config.AppConfig.AdminBackdateWindowDays,
	}
	attendanceService := attendance.NewService(store, policy)

	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	studentController := &controllers.StudentController{}
	coachController := &controllers.CoachController{}
	parentController := &controllers.ParentController{}
	batchController := &controllers.BatchController{}
	skillController := &controllers.SkillController{}
	paymentController := &controllers.PaymentController{}
	attendanceController := controllers.NewAttendanceController(attendanceService)

	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/otp/request", authController.RequestOtp)
	auth.Post("/otp/verify", authController.VerifyOtp)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware(), middleware.LogActivityMiddleware())

	protected.Get("/auth/profile", authController.GetProfile)
	protected.Put("/auth/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// User management (admin only)
	users := protected.Group("/users", middleware.RequireAdmin())
	users.Post("/", userController.CreateUser)
	users.Get("/", userController.GetUsers)
	users.Get("/:id", userController.GetUser)
	users.Put("/:id/status", userController.UpdateUserStatus)

	// Activity logs (admin only)
	protected.Get("/activity-logs", middleware.RequireAdmin(), userController.GetActivityLogs)

	// Students
	students := protected.Group("/students")
	students.Post("/", middleware.RequireAdmin(), studentController.CreateStudent)
	students.Get("/", studentController.GetStudents)
	students.Get("/:id", studentController.GetStudent)
	students.Put("/:id", middleware.RequireAdmin(), studentController.UpdateStudent)
	students.Put("/:id/deactivate", middleware.RequireAdmin(), studentController.DeactivateStudent)
	students.Delete("/:id", middleware.RequireAdmin(), studentController.DeleteStudent)
	students.Post("/:id/photo", middleware.RequireAdmin(), studentController.UploadStudentPhoto)

	// Coaches
	coaches := protected.Group("/coaches")
	coaches.Post("/", middleware.RequireAdmin(), coachController.CreateCoach)
	coaches.Get("/", coachController.GetCoaches)
	coaches.Get("/:id", coachController.GetCoach)
	coaches.Get("/:id/batches", coachController.GetCoachBatches)
	coaches.Put("/:id", middleware.RequireAdmin(), coachController.UpdateCoach)
	coaches.Put("/:id/deactivate", middleware.RequireAdmin(), coachController.DeactivateCoach)

	// Parents
	parents := protected.Group("/parents")
	parents.Post("/", middleware.RequireAdmin(), parentController.CreateParent)
	parents.Get("/", parentController.GetParents)
	parents.Get("/:id", parentController.GetParent)
	parents.Get("/:id/students", parentController.GetParentStudents)
	parents.Put("/:id", middleware.RequireAdmin(), parentController.UpdateParent)
	parents.Delete("/:id", middleware.RequireAdmin(), parentController.DeleteParent)

	// Batches
	batches := protected.Group("/batches")
	batches.Post("/", middleware.RequireAdmin(), batchController.CreateBatch)
	batches.Get("/", batchController.GetBatches)
	batches.Get("/:id", batchController.GetBatch)
	batches.Put("/:id", middleware.RequireAdmin(), batchController.UpdateBatch)
	batches.Put("/:id/deactivate", middleware.RequireAdmin(), batchController.DeactivateBatch)
	batches.Get("/:id/students", batchController.GetBatchStudents)
	batches.Post("/:id/students", middleware.RequireAdmin(), batchController.AssignStudent)
	batches.Delete("/:id/students/:studentId", middleware.RequireAdmin(), batchController.RemoveStudent)

	// Skill evaluations and achievements
	skills := protected.Group("/skill-evaluations", middleware.RequireCoachOrAdmin())
	skills.Post("/", skillController.CreateEvaluation)
	skills.Get("/student/:studentId", skillController.GetStudentEvaluations)
	skills.Delete("/:id", middleware.RequireAdmin(), skillController.DeleteEvaluation)

	achievements := protected.Group("/achievements", middleware.RequireCoachOrAdmin())
	achievements.Post("/", skillController.CreateAchievement)
	achievements.Get("/student/:studentId", skillController.GetStudentAchievements)
	achievements.Delete("/:id", middleware.RequireAdmin(), skillController.DeleteAchievement)

	// Fee payments (admin only)
	payments := protected.Group("/payments", middleware.RequireAdmin())
	payments.Post("/", paymentController.RecordPayment)
	payments.Get("/student/:studentId", paymentController.GetStudentPayments)
	payments.Get("/range", paymentController.GetPaymentsByRange)
	payments.Delete("/:id", paymentController.DeletePayment)

	// Attendance (coach or admin)
	att := protected.Group("/attendance", middleware.RequireCoachOrAdmin())
	att.Post("/", attendanceController.MarkAttendance)
	att.Post("/bulk", attendanceController.MarkBulkAttendance)
	att.Put("/:id", attendanceController.UpdateAttendance)
	att.Delete("/:id", middleware.RequireAdmin(), attendanceController.DeleteAttendance)

	att.Get("/", attendanceController.GetAttendances)
	att.Get("/student/:studentId/summary", attendanceController.GetStudentSummary)
	att.Get("/student/:studentId/range", attendanceController.GetAttendanceByStudentRange)
	att.Get("/student/:studentId/batch/:batchId/percentage", attendanceController.GetAttendancePercentage)
	att.Get("/student/:studentId/batch/:batchId/eligible-absences", attendanceController.GetEligibleAbsences)
	att.Get("/student/:studentId", attendanceController.GetAttendanceByStudent)
	att.Get("/batch/:batchId/weekly", attendanceController.GetWeeklyMatrix)
	att.Get("/batch/:batchId/monthly/export", attendanceController.ExportMonthlyMatrix)
	att.Get("/batch/:batchId/monthly", attendanceController.GetMonthlyMatrix)
	att.Get("/batch/:batchId/range", attendanceController.GetAttendanceByBatchRange)
	att.Get("/batch/:batchId", attendanceController.GetAttendanceByBatch)
	att.Get("/date/:date", attendanceController.GetAttendanceByDate)
	att.Get("/coach/:coachId/date/:date", attendanceController.GetAttendanceByCoachAndDate)

	// Audit trail
	audit := att.Group("/audit")
	audit.Get("/backdated", attendanceController.GetAuditBackdated)
	audit.Get("/range", attendanceController.GetAuditByRange)
	audit.Get("/attendance/:id", attendanceController.GetAuditByAttendance)
	audit.Get("/student/:id", attendanceController.GetAuditByStudent)
	audit.Get("/batch/:id", attendanceController.GetAuditByBatch)
	audit.Get("/actor/:id", attendanceController.GetAuditByActor)

	att.Get("/:id", attendanceController.GetAttendance)
}

package seeders

import (
	"academy_go/database"
	"academy_go/models"
	"academy_go/utils"
	"log"
	"time"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedCoaches()
	SeedParents()
	SeedStudents()
	SeedBatches()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers seeds the default admin and coach accounts
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	adminPassword, err := utils.HashPassword("admin123")
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}
	coachPassword, err := utils.HashPassword("coach123")
	if err != nil {
		log.Printf("Failed to hash coach password: %v", err)
		return
	}

	users := []models.User{
		{
			BaseModel: models.BaseModel{ID: 1},
			Username:  "admin",
			Password:  adminPassword,
			Email:     "admin@academy.local",
			Role:      "admin",
			Status:    "active",
		},
		{
			BaseModel: models.BaseModel{ID: 2},
			Username:  "coach.arjun",
			Password:  coachPassword,
			Email:     "arjun@academy.local",
			Role:      "coach",
			Status:    "active",
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Failed to seed user %s: %v", user.Username, err)
		}
	}
	log.Println("Users seeded")
}

// SeedCoaches seeds the coach profile for the seeded coach user
func SeedCoaches() {
	var count int64
	database.DB.Model(&models.Coach{}).Count(&count)
	if count > 0 {
		log.Println("Coaches already seeded, skipping...")
		return
	}

	coach := models.Coach{
		BaseModel:         models.BaseModel{ID: 1},
		UserID:            2,
		FirstName:         "Arjun",
		LastName:          "Mehta",
		Specialization:    "Singles technique",
		YearsOfExperience: 8,
		Active:            true,
	}
	if err := database.DB.Create(&coach).Error; err != nil {
		log.Printf("Failed to seed coach: %v", err)
		return
	}
	log.Println("Coaches seeded")
}

// SeedParents seeds one parent contact
func SeedParents() {
	var count int64
	database.DB.Model(&models.Parent{}).Count(&count)
	if count > 0 {
		log.Println("Parents already seeded, skipping...")
		return
	}

	parent := models.Parent{
		BaseModel: models.BaseModel{ID: 1},
		FirstName: "Sunita",
		LastName:  "Rao",
		Phone:     "98450-11223",
		Email:     "sunita.rao@example.com",
	}
	if err := database.DB.Create(&parent).Error; err != nil {
		log.Printf("Failed to seed parent: %v", err)
		return
	}
	log.Println("Parents seeded")
}

// SeedStudents seeds a small starter roster
func SeedStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		log.Println("Students already seeded, skipping...")
		return
	}

	parentID := uint(1)
	dob := time.Date(2012, 4, 18, 0, 0, 0, 0, time.UTC)

	students := []models.Student{
		{
			BaseModel:  models.BaseModel{ID: 1},
			FirstName:  "Kiran",
			LastName:   "Rao",
			Gender:     "MALE",
			SkillLevel: "BEGINNER",
			MonthlyFee: 2500,
			ParentID:   &parentID,
			Active:     true,
		},
		{
			BaseModel:   models.BaseModel{ID: 2},
			FirstName:   "Ananya",
			LastName:    "Iyer",
			Gender:      "FEMALE",
			DateOfBirth: &dob,
			SkillLevel:  "INTERMEDIATE",
			MonthlyFee:  3000,
			Active:      true,
		},
	}

	for _, student := range students {
		if err := database.DB.Create(&student).Error; err != nil {
			log.Printf("Failed to seed student %s %s: %v", student.FirstName, student.LastName, err)
		}
	}
	log.Println("Students seeded")
}

// SeedBatches seeds one batch under the seeded coach with both students
func SeedBatches() {
	var count int64
	database.DB.Model(&models.Batch{}).Count(&count)
	if count > 0 {
		log.Println("Batches already seeded, skipping...")
		return
	}

	batch := models.Batch{
		BaseModel:  models.BaseModel{ID: 1},
		Name:       "Morning Beginners",
		SkillLevel: "BEGINNER",
		CoachID:    1,
		StartTime:  "06:30",
		EndTime:    "08:00",
		Active:     true,
	}
	if err := database.DB.Create(&batch).Error; err != nil {
		log.Printf("Failed to seed batch: %v", err)
		return
	}

	memberships := []models.BatchStudent{
		{BatchID: 1, StudentID: 1},
		{BatchID: 1, StudentID: 2},
	}
	for _, m := range memberships {
		if err := database.DB.Create(&m).Error; err != nil {
			log.Printf("Failed to seed batch membership: %v", err)
		}
	}
	log.Println("Batches seeded")
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// User model
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex"`
	Phone    string `json:"phone" gorm:"size:20"`
	Role     string `json:"role" gorm:"size:50;not null;default:'coach';type:enum('admin','coach','parent')"` // admin, coach, parent
	Status   string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`
	Avatar   string `json:"avatar" gorm:"size:500"`
}

// Coach profile, one per coach user
type Coach struct {
	BaseModel
	UserID            uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	FirstName         string `json:"first_name" gorm:"size:100;not null"`
	LastName          string `json:"last_name" gorm:"size:100;not null"`
	Specialization    string `json:"specialization" gorm:"size:255"`
	YearsOfExperience int    `json:"years_of_experience"`
	Bio               string `json:"bio" gorm:"size:1000"`
	Certifications    string `json:"certifications" gorm:"type:text"`
	Active            bool   `json:"active" gorm:"default:true"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Parent model
type Parent struct {
	BaseModel
	UserID    *uint  `json:"user_id" gorm:"uniqueIndex"`
	FirstName string `json:"first_name" gorm:"size:100;not null"`
	LastName  string `json:"last_name" gorm:"size:100;not null"`
	Phone     string `json:"phone" gorm:"size:20;not null"`
	Email     string `json:"email" gorm:"size:255"`
	Address   string `json:"address" gorm:"size:500"`
}

// Student model
type Student struct {
	BaseModel
	FirstName   string     `json:"first_name" gorm:"size:100;not null"`
	LastName    string     `json:"last_name" gorm:"size:100;not null"`
	FullName    string     `json:"full_name" gorm:"size:200;not null;index"`
	Gender      string     `json:"gender" gorm:"size:20;type:enum('MALE','FEMALE','OTHER')"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	PhotoURL    string     `json:"photo_url" gorm:"size:500"`
	Phone       string     `json:"phone" gorm:"size:20"`
	Address     string     `json:"address" gorm:"size:500"`
	SkillLevel  string     `json:"skill_level" gorm:"size:50;default:'BEGINNER';type:enum('BEGINNER','INTERMEDIATE','ADVANCED')"`
	MonthlyFee  float64    `json:"monthly_fee" gorm:"default:0"`
	FeeStatus   string     `json:"fee_status" gorm:"size:20;default:'UNPAID';type:enum('PAID','UNPAID','PARTIAL')"`
	ParentID    *uint      `json:"parent_id" gorm:"index"`
	Active      bool       `json:"active" gorm:"default:true"`

	Parent *Parent `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
}

// BeforeSave keeps FullName in sync for matrix sorting and display
func (s *Student) BeforeSave(tx *gorm.DB) error {
	if s.FullName == "" {
		s.FullName = s.FirstName + " " + s.LastName
	}
	return nil
}

// Batch is a training group led by one coach
type Batch struct {
	BaseModel
	Name       string `json:"name" gorm:"size:255;not null"`
	SkillLevel string `json:"skill_level" gorm:"size:50;type:enum('BEGINNER','INTERMEDIATE','ADVANCED')"`
	CoachID    uint   `json:"coach_id" gorm:"not null;index"`
	StartTime  string `json:"start_time" gorm:"size:5"` // HH:MM
	EndTime    string `json:"end_time" gorm:"size:5"`   // HH:MM
	Active     bool   `json:"active" gorm:"default:true"`

	Coach Coach `json:"coach,omitempty" gorm:"foreignKey:CoachID"`
}

// BatchStudent is the explicit batch membership row. Cross-entity
// lookups go through this table, never through object graphs.
type BatchStudent struct {
	BaseModel
	BatchID   uint `json:"batch_id" gorm:"not null;uniqueIndex:idx_batch_student"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_batch_student"`
}

// SkillEvaluation model
type SkillEvaluation struct {
	BaseModel
	StudentID   uint      `json:"student_id" gorm:"not null;index"`
	CoachID     uint      `json:"coach_id" gorm:"not null"`
	SkillName   string    `json:"skill_name" gorm:"size:100;not null"`
	Score       int       `json:"score" gorm:"not null"` // 1-10
	Comments    string    `json:"comments" gorm:"type:text"`
	EvaluatedOn time.Time `json:"evaluated_on" gorm:"not null"`
}

// Achievement model
type Achievement struct {
	BaseModel
	StudentID   uint      `json:"student_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Level       string    `json:"level" gorm:"size:50;type:enum('DISTRICT','STATE','NATIONAL','INTERNATIONAL')"`
	AchievedOn  time.Time `json:"achieved_on"`
}

// FeePayment model
type FeePayment struct {
	BaseModel
	StudentID uint      `json:"student_id" gorm:"not null;index"`
	Amount    float64   `json:"amount" gorm:"not null"`
	Method    string    `json:"method" gorm:"size:50;type:enum('CASH','CARD','UPI','BANK_TRANSFER')"`
	Reference string    `json:"reference" gorm:"size:100"`
	PaidOn    time.Time `json:"paid_on" gorm:"not null"`
	Notes     string    `json:"notes" gorm:"type:text"`
}

// OtpVerification rows are written by the auth layer and purged by the
// maintenance sweep. Delivery is out of process.
type OtpVerification struct {
	BaseModel
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Code      string    `json:"-" gorm:"size:10;not null"`
	Purpose   string    `json:"purpose" gorm:"size:50"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	Used      bool      `json:"used" gorm:"default:false"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    string `json:"details" gorm:"type:text"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`
}

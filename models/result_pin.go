package models

import "time"

const (
	PinStatusActive  = "active"
	PinStatusRevoked = "revoked"
)

// ResultPin is a rate-limited anonymous access code for checking a
// student's published results. Scope is an exam or a whole academic
// year. used_checks only ever moves through the atomic consume update.
type ResultPin struct {
	PinID          int    `gorm:"primaryKey;column:pin_id" json:"pin_id"`
	PinCode        string `gorm:"column:pin_code;unique" json:"pin_code"`
	StudentID      int    `gorm:"column:student_id;index" json:"student_id"`
	ExamID         *int   `gorm:"column:exam_id" json:"exam_id,omitempty"`
	AcademicYearID *int   `gorm:"column:academic_year_id" json:"academic_year_id,omitempty"`

	MaxChecks  int       `gorm:"column:max_checks;default:5" json:"max_checks"`
	UsedChecks int       `gorm:"column:used_checks" json:"used_checks"`
	ExpiresAt  time.Time `gorm:"column:expires_at" json:"expires_at"`
	Status     string    `gorm:"column:status;default:active" json:"status"`

	GeneratedBy int        `gorm:"column:generated_by" json:"generated_by"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (ResultPin) TableName() string {
	return "result_pins"
}

// RemainingChecks never reports below zero
func (p *ResultPin) RemainingChecks() int {
	if p.UsedChecks >= p.MaxChecks {
		return 0
	}
	return p.MaxChecks - p.UsedChecks
}

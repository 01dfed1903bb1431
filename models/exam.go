package models

import "time"

// Exam carries its own is_published flag, set when the exam as a whole
// is released. Individual results carry a separate is_published flag
// set by the publication controller; the student view reads the
// result-level flag, the term automaton reads this one.
type Exam struct {
	ExamID         int        `gorm:"primaryKey;column:exam_id" json:"exam_id"`
	Name           string     `gorm:"column:name" json:"name"`
	TermID         int        `gorm:"column:term_id" json:"term_id"`
	AcademicYearID int        `gorm:"column:academic_year_id" json:"academic_year_id"`
	StartDate      *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate        *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	IsPublished    bool       `gorm:"column:is_published" json:"is_published"`
	PublishedAt    *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Term         Term         `gorm:"foreignKey:TermID" json:"term,omitempty"`
	AcademicYear AcademicYear `gorm:"foreignKey:AcademicYearID" json:"academic_year,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

package models

import "time"

// AcademicYear mirrors the current term's number in current_term; the
// term service keeps it consistent with the terms table inside one
// transaction.
type AcademicYear struct {
	AcademicYearID int        `gorm:"primaryKey;column:academic_year_id" json:"academic_year_id"`
	Name           string     `gorm:"column:name;unique" json:"name"`
	StartDate      *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate        *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	CurrentTerm    int        `gorm:"column:current_term;default:1" json:"current_term"`
	TotalTerms     int        `gorm:"column:total_terms;default:3" json:"total_terms"`
	IsCurrent      bool       `gorm:"column:is_current" json:"is_current"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Terms []Term `gorm:"foreignKey:AcademicYearID" json:"terms,omitempty"`
}

type Term struct {
	TermID         int        `gorm:"primaryKey;column:term_id" json:"term_id"`
	AcademicYearID int        `gorm:"column:academic_year_id;index" json:"academic_year_id"`
	TermNumber     int        `gorm:"column:term_number" json:"term_number"`
	StartDate      *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate        *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	IsCurrent      bool       `gorm:"column:is_current" json:"is_current"`
	ExamsRequired  int        `gorm:"column:exams_required" json:"exams_required"`
	ExamsPublished int        `gorm:"column:exams_published" json:"exams_published"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (AcademicYear) TableName() string {
	return "academic_years"
}

func (Term) TableName() string {
	return "terms"
}

// QuotaMet reports whether enough exams have published this term to
// allow an automatic advance. A zero or negative quota never triggers.
func (t *Term) QuotaMet() bool {
	return t.ExamsRequired > 0 && t.ExamsPublished >= t.ExamsRequired
}

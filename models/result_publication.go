package models

import "time"

// ResultPublication records the publication decision for one exam.
// One row per exam; re-publishing updates the row in place. The counts
// are a snapshot taken at publication time.
type ResultPublication struct {
	PublicationID   int       `gorm:"primaryKey;column:publication_id" json:"publication_id"`
	ExamID          int       `gorm:"column:exam_id;unique" json:"exam_id"`
	PublicationDate time.Time `gorm:"column:publication_date" json:"publication_date"`

	TotalResults  int `gorm:"column:total_results" json:"total_results"`
	ApprovedCount int `gorm:"column:approved_count" json:"approved_count"`
	PendingCount  int `gorm:"column:pending_count" json:"pending_count"`
	RejectedCount int `gorm:"column:rejected_count" json:"rejected_count"`

	IsActive    bool       `gorm:"column:is_active;default:true" json:"is_active"`
	Notes       string     `gorm:"column:notes" json:"notes"`
	PublishedBy int        `gorm:"column:published_by" json:"published_by"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Exam Exam `gorm:"foreignKey:ExamID" json:"exam,omitempty"`
}

func (ResultPublication) TableName() string {
	return "result_publications"
}

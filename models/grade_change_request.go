package models

import "time"

// States of a grade change request
const (
	GradeChangePending  = "pending"
	GradeChangeApproved = "approved"
	GradeChangeRejected = "rejected"
)

// GradeChangeRequest records one correction attempt against a result.
// Exactly one of the New* fields is set; CurrentScore snapshots the
// targeted field at request time for the audit trail. At most one
// pending request may exist per result.
type GradeChangeRequest struct {
	RequestID int    `gorm:"primaryKey;column:request_id" json:"request_id"`
	ResultID  int    `gorm:"column:result_id;index" json:"result_id"`
	TeacherID int    `gorm:"column:teacher_id" json:"teacher_id"`
	Reason    string `gorm:"column:reason" json:"reason"`

	NewTestScore     *float64 `gorm:"column:new_test_score" json:"new_test_score,omitempty"`
	NewExamScore     *float64 `gorm:"column:new_exam_score" json:"new_exam_score,omitempty"`
	NewMarksObtained *float64 `gorm:"column:new_marks_obtained" json:"new_marks_obtained,omitempty"`
	CurrentScore     *float64 `gorm:"column:current_score" json:"current_score,omitempty"`

	Status          string     `gorm:"column:status;default:pending" json:"status"`
	ResolvedBy      *int       `gorm:"column:resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	RejectionReason *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Result  Result `gorm:"foreignKey:ResultID" json:"result,omitempty"`
	Teacher User   `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

func (GradeChangeRequest) TableName() string {
	return "grade_change_requests"
}

package models

import "time"

// Approval states of a result
const (
	ResultStatusPending  = "pending"
	ResultStatusApproved = "approved"
	ResultStatusRejected = "rejected"
)

// Result represents one (student, exam, subject) score record.
// testScore/examScore and marksObtained belong to different grading
// schemes; a row populates one scheme, never both.
type Result struct {
	ResultID  int `gorm:"primaryKey;column:result_id" json:"result_id"`
	StudentID int `gorm:"column:student_id;index:idx_results_triplet,unique" json:"student_id"`
	ExamID    int `gorm:"column:exam_id;index:idx_results_triplet,unique" json:"exam_id"`
	SubjectID int `gorm:"column:subject_id;index:idx_results_triplet,unique" json:"subject_id"`

	TestScore     *float64 `gorm:"column:test_score" json:"test_score,omitempty"`
	ExamScore     *float64 `gorm:"column:exam_score" json:"exam_score,omitempty"`
	MarksObtained *float64 `gorm:"column:marks_obtained" json:"marks_obtained,omitempty"`

	ApprovalStatus  string     `gorm:"column:approval_status;default:pending" json:"approval_status"`
	RejectionReason *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	ApprovedBy      *int       `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`

	// Verification is a separate certification pass; it is independent
	// of approval_status on purpose.
	IsVerified bool       `gorm:"column:is_verified" json:"is_verified"`
	VerifiedBy *int       `gorm:"column:verified_by" json:"verified_by,omitempty"`
	VerifiedAt *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`

	IsPublished bool `gorm:"column:is_published" json:"is_published"`
	UploadedBy  int  `gorm:"column:uploaded_by" json:"uploaded_by"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Exam    Exam    `gorm:"foreignKey:ExamID" json:"exam,omitempty"`
	Subject Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

func (Result) TableName() string {
	return "results"
}

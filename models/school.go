package models

import "time"

type Student struct {
	StudentID       int        `gorm:"primaryKey;column:student_id" json:"student_id"`
	FirstName       string     `gorm:"column:first_name" json:"first_name"`
	LastName        string     `gorm:"column:last_name" json:"last_name"`
	AdmissionNumber string     `gorm:"column:admission_number;unique" json:"admission_number"`
	ClassID         int        `gorm:"column:class_id" json:"class_id"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Class SchoolClass `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

type SchoolClass struct {
	ClassID  int        `gorm:"primaryKey;column:class_id" json:"class_id"`
	Name     string     `gorm:"column:name" json:"name"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type Subject struct {
	SubjectID int        `gorm:"primaryKey;column:subject_id" json:"subject_id"`
	Name      string     `gorm:"column:name" json:"name"`
	Code      string     `gorm:"column:code;unique" json:"code"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Student) TableName() string {
	return "students"
}

func (SchoolClass) TableName() string {
	return "classes"
}

func (Subject) TableName() string {
	return "subjects"
}

// FullName is the display name returned by the anonymous result check
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

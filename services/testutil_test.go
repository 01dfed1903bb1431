package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"school-results-api/models"
)

var seedSeq int64

// newTestDB opens a fresh in-memory database per test. The pool is
// pinned to one connection so the memory database survives and writes
// are serialized the way MySQL's row locks would serialize them.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.SchoolClass{},
		&models.Student{},
		&models.Subject{},
		&models.AcademicYear{},
		&models.Term{},
		&models.Exam{},
		&models.Result{},
		&models.GradeChangeRequest{},
		&models.ResultPin{},
		&models.ResultPublication{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func createStudent(t *testing.T, db *gorm.DB, classID int) *models.Student {
	t.Helper()
	student := models.Student{
		FirstName:       "Test",
		LastName:        "Student",
		AdmissionNumber: fmt.Sprintf("ADM-%04d", atomic.AddInt64(&seedSeq, 1)),
		ClassID:         classID,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	return &student
}

// createCalendar seeds an academic year with the given per-term exam
// quotas. Term 1 starts current.
func createCalendar(t *testing.T, db *gorm.DB, quotas ...int) *models.AcademicYear {
	t.Helper()
	year := models.AcademicYear{
		Name:        fmt.Sprintf("Year %04d", atomic.AddInt64(&seedSeq, 1)),
		CurrentTerm: 1,
		TotalTerms:  len(quotas),
		IsCurrent:   true,
	}
	if err := db.Create(&year).Error; err != nil {
		t.Fatalf("create academic year: %v", err)
	}
	for i, quota := range quotas {
		term := models.Term{
			AcademicYearID: year.AcademicYearID,
			TermNumber:     i + 1,
			IsCurrent:      i == 0,
			ExamsRequired:  quota,
		}
		if err := db.Create(&term).Error; err != nil {
			t.Fatalf("create term %d: %v", i+1, err)
		}
	}
	return &year
}

func createExam(t *testing.T, db *gorm.DB, year *models.AcademicYear, termNumber int) *models.Exam {
	t.Helper()
	var term models.Term
	if err := db.Where("academic_year_id = ? AND term_number = ?",
		year.AcademicYearID, termNumber).First(&term).Error; err != nil {
		t.Fatalf("lookup term %d: %v", termNumber, err)
	}
	exam := models.Exam{
		Name:           "Exam",
		TermID:         term.TermID,
		AcademicYearID: year.AcademicYearID,
	}
	if err := db.Create(&exam).Error; err != nil {
		t.Fatalf("create exam: %v", err)
	}
	return &exam
}

func createResult(t *testing.T, db *gorm.DB, studentID, examID, subjectID int, status string, teacherID int) *models.Result {
	t.Helper()
	score := 72.5
	result := models.Result{
		StudentID:      studentID,
		ExamID:         examID,
		SubjectID:      subjectID,
		MarksObtained:  &score,
		ApprovalStatus: status,
		UploadedBy:     teacherID,
	}
	if err := db.Create(&result).Error; err != nil {
		t.Fatalf("create result: %v", err)
	}
	return &result
}

func currentTermNumber(t *testing.T, db *gorm.DB, yearID int) int {
	t.Helper()
	var year models.AcademicYear
	if err := db.First(&year, yearID).Error; err != nil {
		t.Fatalf("reload year: %v", err)
	}
	return year.CurrentTerm
}

func countCurrentTerms(t *testing.T, db *gorm.DB, yearID int) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Term{}).
		Where("academic_year_id = ? AND is_current = ?", yearID, true).
		Count(&n).Error; err != nil {
		t.Fatalf("count current terms: %v", err)
	}
	return n
}

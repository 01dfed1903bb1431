package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-results-api/models"
)

// Generation defaults
const (
	DefaultPinMaxChecks = 5
	DefaultPinValidDays = 30
)

// ErrPinRejected is the single failure returned for every PIN check
// problem (wrong code, wrong student, expired, exhausted). Which part
// of the tuple was wrong is deliberately not revealed to the anonymous
// caller.
var ErrPinRejected = fmt.Errorf("%w: invalid PIN, student id, or PIN exhausted", ErrExhausted)

// PinService issues and consumes anonymous result-check codes.
type PinService struct {
	db           *gorm.DB
	publications *PublicationService
}

func NewPinService(db *gorm.DB) *PinService {
	return &PinService{db: db, publications: NewPublicationService(db)}
}

// PinScope limits what a code can see: one exam or a whole academic
// year.
type PinScope struct {
	ExamID         *int
	AcademicYearID *int
}

// newPinCode derives an opaque code from a v4 UUID, grouped for
// readability: XXXX-XXXX-XXXX-XXXX.
func newPinCode() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:16]
	return hex[0:4] + "-" + hex[4:8] + "-" + hex[8:12] + "-" + hex[12:16]
}

// Generate issues one active PIN for a student. Zero maxChecks or
// validDays fall back to the defaults.
func (s *PinService) Generate(studentID int, scope PinScope, maxChecks, validDays, adminID int) (*models.ResultPin, error) {
	var student models.Student
	if err := s.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student %d", ErrNotFound, studentID)
		}
		return nil, err
	}

	if maxChecks <= 0 {
		maxChecks = DefaultPinMaxChecks
	}
	if validDays <= 0 {
		validDays = DefaultPinValidDays
	}

	now := time.Now()
	pin := models.ResultPin{
		StudentID:      studentID,
		ExamID:         scope.ExamID,
		AcademicYearID: scope.AcademicYearID,
		MaxChecks:      maxChecks,
		UsedChecks:     0,
		ExpiresAt:      now.AddDate(0, 0, validDays),
		Status:         models.PinStatusActive,
		GeneratedBy:    adminID,
		CreateAt:       &now,
		UpdateAt:       &now,
	}

	// Retry on the (vanishingly unlikely) unique code collision.
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		pin.PinCode = newPinCode()
		if err = s.db.Create(&pin).Error; err == nil {
			return &pin, nil
		}
	}
	return nil, err
}

// BulkGenerate issues one PIN per student of a class, or per every
// student when classID is nil. Best-effort: a student that fails is
// skipped, the rest of the batch still gets codes.
func (s *PinService) BulkGenerate(classID *int, scope PinScope, maxChecks, validDays, adminID int) ([]models.ResultPin, error) {
	query := s.db.Model(&models.Student{}).Where("delete_at IS NULL")
	if classID != nil {
		query = query.Where("class_id = ?", *classID)
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, err
	}

	pins := make([]models.ResultPin, 0, len(students))
	for _, student := range students {
		pin, err := s.Generate(student.StudentID, scope, maxChecks, validDays, adminID)
		if err != nil {
			continue
		}
		pins = append(pins, *pin)
	}
	return pins, nil
}

// CheckOutcome is what a successful anonymous check returns.
type CheckOutcome struct {
	Student         models.Student
	RemainingChecks int
	Results         []models.Result
}

// ConsumeCheck spends one check of a PIN and returns the student's
// published results within the PIN's scope.
//
// The validity test and the counter increment are one conditional
// UPDATE, so simultaneous uses of the same code can never exceed
// max_checks and a retry after a store failure cannot double-count.
func (s *PinService) ConsumeCheck(pinCode string, studentID int) (*CheckOutcome, error) {
	now := time.Now()
	res := s.db.Model(&models.ResultPin{}).
		Where("pin_code = ? AND student_id = ? AND status = ? AND expires_at > ? AND used_checks < max_checks",
			pinCode, studentID, models.PinStatusActive, now).
		Updates(map[string]interface{}{
			"used_checks": gorm.Expr("used_checks + ?", 1),
			"update_at":   now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrPinRejected
	}

	var pin models.ResultPin
	if err := s.db.Preload("Student").
		Where("pin_code = ?", pinCode).First(&pin).Error; err != nil {
		return nil, err
	}

	results, err := s.publications.PublishedResults(studentID, pin.ExamID, pin.AcademicYearID)
	if err != nil {
		return nil, err
	}

	return &CheckOutcome{
		Student:         pin.Student,
		RemainingChecks: pin.RemainingChecks(),
		Results:         results,
	}, nil
}

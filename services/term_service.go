package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"school-results-api/models"
)

// TermService advances the school calendar as exams publish. The
// "current" designation is moved explicitly: clearing the old term,
// setting the new one and mirroring the number onto the academic year
// always happen inside one transaction, so a reader never sees zero or
// two current terms for a year.
type TermService struct {
	db *gorm.DB
}

func NewTermService(db *gorm.DB) *TermService {
	return &TermService{db: db}
}

// MarkExamPublished flips the exam-level published flag, counts the
// exam against its term's quota and runs the advance check. Calling it
// again for an already released exam is a no-op so the counter cannot
// be inflated by retries.
func (s *TermService) MarkExamPublished(examID int) (*models.Exam, bool, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("%w: exam %d", ErrNotFound, examID)
		}
		return nil, false, err
	}
	if exam.IsPublished {
		return &exam, false, nil
	}

	now := time.Now()
	res := s.db.Model(&models.Exam{}).
		Where("exam_id = ? AND is_published = ?", examID, false).
		Updates(map[string]interface{}{
			"is_published": true,
			"published_at": now,
			"update_at":    now,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race to a concurrent release; nothing to count.
		s.db.First(&exam, examID)
		return &exam, false, nil
	}

	// Atomic increment, not read-modify-write: concurrent releases of
	// different exams must all count.
	if err := s.db.Model(&models.Term{}).
		Where("term_id = ?", exam.TermID).
		UpdateColumn("exams_published", gorm.Expr("exams_published + ?", 1)).Error; err != nil {
		return nil, false, err
	}

	advanced, err := s.CheckAndAdvance(exam.AcademicYearID)
	if err != nil {
		return nil, false, err
	}

	s.db.First(&exam, examID)
	return &exam, advanced, nil
}

// CheckAndAdvance advances the year's current term when the term's
// publication quota is met and a later term exists. It returns false
// with no error when no toggle is needed: quota not met, quota
// unset/zero, or the year already on its final term.
func (s *TermService) CheckAndAdvance(academicYearID int) (bool, error) {
	advanced := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var year models.AcademicYear
		if err := tx.First(&year, academicYearID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: academic year %d", ErrNotFound, academicYearID)
			}
			return err
		}

		var term models.Term
		if err := tx.Where("academic_year_id = ? AND term_number = ?",
			academicYearID, year.CurrentTerm).First(&term).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: term %d of year %d", ErrNotFound, year.CurrentTerm, academicYearID)
			}
			return err
		}

		if !term.QuotaMet() || year.CurrentTerm >= year.TotalTerms {
			return nil
		}

		if err := setCurrentTermTx(tx, &year, year.CurrentTerm+1); err != nil {
			return err
		}
		advanced = true
		return nil
	})
	return advanced, err
}

// SetCurrentTerm is the administrator override: same atomic three-write
// move as the automatic advance, without the quota check.
func (s *TermService) SetCurrentTerm(academicYearID, termNumber int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var year models.AcademicYear
		if err := tx.First(&year, academicYearID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: academic year %d", ErrNotFound, academicYearID)
			}
			return err
		}
		return setCurrentTermTx(tx, &year, termNumber)
	})
}

// setCurrentTermTx moves the current designation inside an open
// transaction: clear every term of the year, set the target, mirror
// the number on the year.
func setCurrentTermTx(tx *gorm.DB, year *models.AcademicYear, termNumber int) error {
	now := time.Now()

	var target models.Term
	if err := tx.Where("academic_year_id = ? AND term_number = ?",
		year.AcademicYearID, termNumber).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: term %d of year %d", ErrNotFound, termNumber, year.AcademicYearID)
		}
		return err
	}

	if err := tx.Model(&models.Term{}).
		Where("academic_year_id = ? AND is_current = ?", year.AcademicYearID, true).
		Updates(map[string]interface{}{"is_current": false, "update_at": now}).Error; err != nil {
		return err
	}

	if err := tx.Model(&models.Term{}).
		Where("term_id = ?", target.TermID).
		Updates(map[string]interface{}{"is_current": true, "update_at": now}).Error; err != nil {
		return err
	}

	return tx.Model(&models.AcademicYear{}).
		Where("academic_year_id = ?", year.AcademicYearID).
		Updates(map[string]interface{}{"current_term": termNumber, "update_at": now}).Error
}

// CurrentTerm returns the year's current term row.
func (s *TermService) CurrentTerm(academicYearID int) (*models.Term, error) {
	var term models.Term
	if err := s.db.Where("academic_year_id = ? AND is_current = ?",
		academicYearID, true).First(&term).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no current term for year %d", ErrNotFound, academicYearID)
		}
		return nil, err
	}
	return &term, nil
}

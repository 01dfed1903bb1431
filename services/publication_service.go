package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"school-results-api/models"
)

// PublicationService decides whether an exam's results may go public
// and flips the result-level is_published flags when they do.
type PublicationService struct {
	db *gorm.DB
}

func NewPublicationService(db *gorm.DB) *PublicationService {
	return &PublicationService{db: db}
}

// StatusCounts is the per-exam aggregate the gating rule reads.
type StatusCounts struct {
	Total    int64
	Approved int64
	Pending  int64
	Rejected int64
}

func (s *PublicationService) countByStatus(examID int) (StatusCounts, error) {
	var rows []struct {
		ApprovalStatus string
		N              int64
	}
	err := s.db.Model(&models.Result{}).
		Select("approval_status, COUNT(*) AS n").
		Where("exam_id = ?", examID).
		Group("approval_status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, r := range rows {
		counts.Total += r.N
		switch r.ApprovalStatus {
		case models.ResultStatusApproved:
			counts.Approved = r.N
		case models.ResultStatusPending:
			counts.Pending = r.N
		case models.ResultStatusRejected:
			counts.Rejected = r.N
		}
	}
	return counts, nil
}

// PublishExam publishes the approved results of an exam.
//
// Gating, in order: any pending result refuses publication outright
// (the error carries the exact pending count); zero approved results
// refuses ("nothing to publish"). Rejected results are skipped and
// stay unpublishable. The publication row is upserted, never
// duplicated, so re-publishing an exam refreshes the snapshot.
func (s *PublicationService) PublishExam(examID int, publicationDate time.Time, notes string, adminID int) (*models.ResultPublication, error) {
	if publicationDate.IsZero() {
		return nil, fmt.Errorf("%w: publication date is required", ErrValidation)
	}

	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: exam %d", ErrNotFound, examID)
		}
		return nil, err
	}

	counts, err := s.countByStatus(examID)
	if err != nil {
		return nil, err
	}
	if counts.Pending > 0 {
		return nil, fmt.Errorf("%w: %d results are still pending approval", ErrConflict, counts.Pending)
	}
	if counts.Approved == 0 {
		return nil, fmt.Errorf("%w: no approved results to publish", ErrConflict)
	}

	now := time.Now()
	var publication models.ResultPublication
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Result{}).
			Where("exam_id = ? AND approval_status = ?", examID, models.ResultStatusApproved).
			Updates(map[string]interface{}{
				"is_published": true,
				"update_at":    now,
			}).Error; err != nil {
			return err
		}

		err := tx.Where("exam_id = ?", examID).First(&publication).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			publication = models.ResultPublication{
				ExamID:          examID,
				PublicationDate: publicationDate,
				TotalResults:    int(counts.Total),
				ApprovedCount:   int(counts.Approved),
				PendingCount:    int(counts.Pending),
				RejectedCount:   int(counts.Rejected),
				IsActive:        true,
				Notes:           notes,
				PublishedBy:     adminID,
				CreateAt:        &now,
				UpdateAt:        &now,
			}
			return tx.Create(&publication).Error
		}
		if err != nil {
			return err
		}

		publication.PublicationDate = publicationDate
		publication.TotalResults = int(counts.Total)
		publication.ApprovedCount = int(counts.Approved)
		publication.PendingCount = int(counts.Pending)
		publication.RejectedCount = int(counts.Rejected)
		publication.IsActive = true
		publication.Notes = notes
		publication.PublishedBy = adminID
		publication.UpdateAt = &now
		return tx.Save(&publication).Error
	})
	if err != nil {
		return nil, err
	}
	return &publication, nil
}

// PublicationInfo returns the publication row for an exam, or
// ErrNotFound when the exam has not been scheduled.
func (s *PublicationService) PublicationInfo(examID int) (*models.ResultPublication, error) {
	var publication models.ResultPublication
	if err := s.db.Where("exam_id = ?", examID).First(&publication).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no publication for exam %d", ErrNotFound, examID)
		}
		return nil, err
	}
	return &publication, nil
}

// IsPublished reports whether an exam has an active publication.
func (s *PublicationService) IsPublished(examID int) (bool, error) {
	publication, err := s.PublicationInfo(examID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return publication.IsActive, nil
}

// PublishedResults returns a student's published results, optionally
// narrowed to one exam or to every exam of one academic year. This is
// the read behind both the student view and the PIN check.
func (s *PublicationService) PublishedResults(studentID int, examID, academicYearID *int) ([]models.Result, error) {
	query := s.db.Preload("Exam").Preload("Subject").
		Where("student_id = ? AND is_published = ?", studentID, true)
	if examID != nil {
		query = query.Where("exam_id = ?", *examID)
	}
	if academicYearID != nil {
		query = query.Where("exam_id IN (?)", s.db.Model(&models.Exam{}).
			Select("exam_id").Where("academic_year_id = ?", *academicYearID))
	}

	var results []models.Result
	if err := query.Order("exam_id, subject_id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

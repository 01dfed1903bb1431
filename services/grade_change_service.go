package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"school-results-api/models"
)

// GradeChangeService handles teacher-initiated score corrections and
// their resolution by the exam office.
type GradeChangeService struct {
	db *gorm.DB
}

func NewGradeChangeService(db *gorm.DB) *GradeChangeService {
	return &GradeChangeService{db: db}
}

// GradeChangeInput carries a correction request. Exactly one of the
// New* fields must be set.
type GradeChangeInput struct {
	ResultID         int
	TeacherID        int
	Reason           string
	NewTestScore     *float64
	NewExamScore     *float64
	NewMarksObtained *float64
}

func (in *GradeChangeInput) targetCount() int {
	n := 0
	if in.NewTestScore != nil {
		n++
	}
	if in.NewExamScore != nil {
		n++
	}
	if in.NewMarksObtained != nil {
		n++
	}
	return n
}

// Request creates a pending grade change request. The requesting
// teacher must be the result's original submitter, and a result can
// have at most one pending request at a time.
func (s *GradeChangeService) Request(in GradeChangeInput) (*models.GradeChangeRequest, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	if in.targetCount() == 0 {
		return nil, fmt.Errorf("%w: a new score value is required", ErrValidation)
	}
	if in.targetCount() > 1 {
		return nil, fmt.Errorf("%w: only one score field may be changed per request", ErrValidation)
	}

	var result models.Result
	if err := s.db.First(&result, in.ResultID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: result %d", ErrNotFound, in.ResultID)
		}
		return nil, err
	}

	if result.UploadedBy != in.TeacherID {
		return nil, fmt.Errorf("%w: only the submitting teacher can request a change", ErrPermissionDenied)
	}

	var pending int64
	if err := s.db.Model(&models.GradeChangeRequest{}).
		Where("result_id = ? AND status = ?", in.ResultID, models.GradeChangePending).
		Count(&pending).Error; err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w: a pending change request already exists for this result", ErrConflict)
	}

	// Snapshot the targeted field for the audit trail.
	var current *float64
	switch {
	case in.NewTestScore != nil:
		current = result.TestScore
	case in.NewExamScore != nil:
		current = result.ExamScore
	case in.NewMarksObtained != nil:
		current = result.MarksObtained
	}

	now := time.Now()
	request := models.GradeChangeRequest{
		ResultID:         in.ResultID,
		TeacherID:        in.TeacherID,
		Reason:           strings.TrimSpace(in.Reason),
		NewTestScore:     in.NewTestScore,
		NewExamScore:     in.NewExamScore,
		NewMarksObtained: in.NewMarksObtained,
		CurrentScore:     current,
		Status:           models.GradeChangePending,
		CreateAt:         &now,
		UpdateAt:         &now,
	}

	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// Approve copies the requested new value into the owning result's
// targeted field and marks the request approved. Only pending requests
// can be resolved; resolving twice is a conflict.
func (s *GradeChangeService) Approve(requestID, officerID int) (*models.GradeChangeRequest, error) {
	var request models.GradeChangeRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: grade change request %d", ErrNotFound, requestID)
		}
		return nil, err
	}
	if request.Status != models.GradeChangePending {
		return nil, fmt.Errorf("%w: request already %s", ErrConflict, request.Status)
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"update_at": now}
		switch {
		case request.NewTestScore != nil:
			updates["test_score"] = *request.NewTestScore
		case request.NewExamScore != nil:
			updates["exam_score"] = *request.NewExamScore
		case request.NewMarksObtained != nil:
			updates["marks_obtained"] = *request.NewMarksObtained
		}
		if err := tx.Model(&models.Result{}).
			Where("result_id = ?", request.ResultID).
			Updates(updates).Error; err != nil {
			return err
		}

		// Guard against a concurrent resolution of the same request.
		res := tx.Model(&models.GradeChangeRequest{}).
			Where("request_id = ? AND status = ?", requestID, models.GradeChangePending).
			Updates(map[string]interface{}{
				"status":      models.GradeChangeApproved,
				"resolved_by": officerID,
				"resolved_at": now,
				"update_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: request already resolved", ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.First(&request, requestID)
	return &request, nil
}

// Reject marks the request rejected with a mandatory reason. The
// result is left untouched.
func (s *GradeChangeService) Reject(requestID, officerID int, reason string) (*models.GradeChangeRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}

	var request models.GradeChangeRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: grade change request %d", ErrNotFound, requestID)
		}
		return nil, err
	}
	if request.Status != models.GradeChangePending {
		return nil, fmt.Errorf("%w: request already %s", ErrConflict, request.Status)
	}

	now := time.Now()
	res := s.db.Model(&models.GradeChangeRequest{}).
		Where("request_id = ? AND status = ?", requestID, models.GradeChangePending).
		Updates(map[string]interface{}{
			"status":           models.GradeChangeRejected,
			"resolved_by":      officerID,
			"resolved_at":      now,
			"rejection_reason": reason,
			"update_at":        now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: request already resolved", ErrConflict)
	}

	s.db.First(&request, requestID)
	return &request, nil
}

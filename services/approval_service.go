package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"school-results-api/models"
)

// ApprovalService implements the exam office's approve/reject pass and
// the head office's verification pass over submitted results.
type ApprovalService struct {
	db *gorm.DB
}

func NewApprovalService(db *gorm.DB) *ApprovalService {
	return &ApprovalService{db: db}
}

// Approve moves a result to approved and stamps the approver.
// Re-approving an already approved result just re-stamps; a rejected
// result can also be approved again (the officer reversing a decision).
func (s *ApprovalService) Approve(resultID, officerID int) (*models.Result, error) {
	var result models.Result
	if err := s.db.First(&result, resultID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: result %d", ErrNotFound, resultID)
		}
		return nil, err
	}

	now := time.Now()
	result.ApprovalStatus = models.ResultStatusApproved
	result.RejectionReason = nil
	result.ApprovedBy = &officerID
	result.ApprovedAt = &now
	result.UpdateAt = &now

	if err := s.db.Save(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// Reject moves a result to rejected. The reason is mandatory.
// A rejected result can never be published.
func (s *ApprovalService) Reject(resultID, officerID int, reason string) (*models.Result, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}

	var result models.Result
	if err := s.db.First(&result, resultID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: result %d", ErrNotFound, resultID)
		}
		return nil, err
	}

	now := time.Now()
	result.ApprovalStatus = models.ResultStatusRejected
	result.RejectionReason = &reason
	result.ApprovedBy = &officerID
	result.ApprovedAt = &now
	result.UpdateAt = &now

	if err := s.db.Save(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// BulkApprove applies Approve to each id independently. A failure on
// one id does not abort the rest; the return value is the number of
// results actually approved.
func (s *ApprovalService) BulkApprove(resultIDs []int, officerID int) int {
	approved := 0
	for _, id := range resultIDs {
		if _, err := s.Approve(id, officerID); err != nil {
			continue
		}
		approved++
	}
	return approved
}

// Verify sets is_verified on each listed result, regardless of its
// approval status. Best-effort like BulkApprove; returns the count
// verified.
func (s *ApprovalService) Verify(resultIDs []int, headID int) int {
	now := time.Now()
	verified := 0
	for _, id := range resultIDs {
		res := s.db.Model(&models.Result{}).
			Where("result_id = ?", id).
			Updates(map[string]interface{}{
				"is_verified": true,
				"verified_by": headID,
				"verified_at": now,
				"update_at":   now,
			})
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}
		verified++
	}
	return verified
}

// VerifyForExam verifies every approved, not yet verified result of an
// exam in a single aggregate update and returns the number of rows
// touched.
func (s *ApprovalService) VerifyForExam(examID, headID int) (int64, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: exam %d", ErrNotFound, examID)
		}
		return 0, err
	}

	now := time.Now()
	res := s.db.Model(&models.Result{}).
		Where("exam_id = ? AND approval_status = ? AND is_verified = ?",
			examID, models.ResultStatusApproved, false).
		Updates(map[string]interface{}{
			"is_verified": true,
			"verified_by": headID,
			"verified_at": now,
			"update_at":   now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

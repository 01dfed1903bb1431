package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"school-results-api/config"
	"school-results-api/services"
	"school-results-api/utils"
)

// ApproveResult approves a single result (exam office).
func ApproveResult(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid result id"})
		return
	}

	approvals := services.NewApprovalService(config.DB)
	result, err := approvals.Approve(id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Result approved",
		"result":  result,
	})
}

// RejectResult rejects a single result with a mandatory reason. The
// submitting teacher gets a notification so the score can be fixed and
// resubmitted through a grade change.
func RejectResult(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid result id"})
		return
	}

	type RejectRequest struct {
		Reason string `json:"reason" binding:"required"`
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	approvals := services.NewApprovalService(config.DB)
	result, err := approvals.Reject(id, currentUserID(c), utils.SanitizeInput(req.Reason))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	services.NewNotificationService(config.DB).NotifyWithEmail(
		result.UploadedBy,
		"Result rejected",
		"A result you submitted was rejected: "+req.Reason,
		"warning",
		&result.ResultID,
	)

	c.JSON(http.StatusOK, gin.H{
		"message": "Result rejected",
		"result":  result,
	})
}

// BulkApproveResults approves a batch of results best-effort and
// reports how many went through.
func BulkApproveResults(c *gin.Context) {
	type BulkApproveRequest struct {
		ResultIDs []int `json:"result_ids" binding:"required,min=1"`
	}
	var req BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	approvals := services.NewApprovalService(config.DB)
	approved := approvals.BulkApprove(req.ResultIDs, currentUserID(c))

	c.JSON(http.StatusOK, gin.H{
		"message":   "Bulk approval completed",
		"approved":  approved,
		"requested": len(req.ResultIDs),
	})
}

// VerifyResults runs the head of exam office's certification pass over
// a list of results. Verification is independent of approval status.
func VerifyResults(c *gin.Context) {
	type VerifyRequest struct {
		ResultIDs []int `json:"result_ids" binding:"required,min=1"`
	}
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	approvals := services.NewApprovalService(config.DB)
	verified := approvals.Verify(req.ResultIDs, currentUserID(c))

	c.JSON(http.StatusOK, gin.H{
		"message":   "Verification completed",
		"verified":  verified,
		"requested": len(req.ResultIDs),
	})
}

// VerifyExamResults verifies every approved, unverified result of an
// exam in one statement.
func VerifyExamResults(c *gin.Context) {
	examID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam id"})
		return
	}

	approvals := services.NewApprovalService(config.DB)
	verified, err := approvals.VerifyForExam(examID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Verification completed",
		"verified": verified,
	})
}

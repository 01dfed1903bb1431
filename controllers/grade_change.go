package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"school-results-api/config"
	"school-results-api/models"
	"school-results-api/services"
)

// RequestGradeChange opens a correction request against a submitted
// result. Only the original submitter may request, and only one
// pending request can exist per result.
func RequestGradeChange(c *gin.Context) {
	type GradeChangeRequest struct {
		ResultID         int      `json:"result_id" binding:"required"`
		Reason           string   `json:"reason" binding:"required"`
		NewTestScore     *float64 `json:"new_test_score"`
		NewExamScore     *float64 `json:"new_exam_score"`
		NewMarksObtained *float64 `json:"new_marks_obtained"`
	}

	var req GradeChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changes := services.NewGradeChangeService(config.DB)
	request, err := changes.Request(services.GradeChangeInput{
		ResultID:         req.ResultID,
		TeacherID:        currentUserID(c),
		Reason:           req.Reason,
		NewTestScore:     req.NewTestScore,
		NewExamScore:     req.NewExamScore,
		NewMarksObtained: req.NewMarksObtained,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Grade change requested",
		"request": request,
	})
}

// GetGradeChangeRequests lists requests. Teachers see their own,
// officers see all; filterable by status.
func GetGradeChangeRequests(c *gin.Context) {
	query := config.DB.Preload("Result").Preload("Teacher")

	if currentRoleID(c) == models.RoleTeacher {
		query = query.Where("teacher_id = ?", currentUserID(c))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.GradeChangeRequest
	if err := query.Order("create_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch grade change requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

// ResolveGradeChange approves or rejects a pending request (exam
// office). Approval writes the new score into the result; rejection
// needs a reason and leaves the result untouched.
func ResolveGradeChange(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}

	type ResolveRequest struct {
		Decision string `json:"decision" binding:"required,oneof=approve reject"`
		Reason   string `json:"reason"`
	}
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changes := services.NewGradeChangeService(config.DB)
	officerID := currentUserID(c)

	var request *models.GradeChangeRequest
	if req.Decision == "approve" {
		request, err = changes.Approve(id, officerID)
	} else {
		request, err = changes.Reject(id, officerID, req.Reason)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Grade change approved"
	kind := "success"
	if request.Status == models.GradeChangeRejected {
		message = "Grade change rejected: " + req.Reason
		kind = "warning"
	}
	services.NewNotificationService(config.DB).Notify(
		request.TeacherID, "Grade change resolved", message, kind, &request.ResultID)

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"request": request,
	})
}

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"school-results-api/config"
	"school-results-api/models"
	"school-results-api/services"
)

// SubmitResult creates a pending result for a (student, exam, subject)
// triplet. Teachers only. The record enters the approval workflow and
// stays invisible to students until published.
func SubmitResult(c *gin.Context) {
	type SubmitResultRequest struct {
		StudentID     int      `json:"student_id" binding:"required"`
		ExamID        int      `json:"exam_id" binding:"required"`
		SubjectID     int      `json:"subject_id" binding:"required"`
		TestScore     *float64 `json:"test_score"`
		ExamScore     *float64 `json:"exam_score"`
		MarksObtained *float64 `json:"marks_obtained"`
	}

	var req SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// One grading scheme per row: test/exam scores or marks obtained,
	// never both.
	hasScores := req.TestScore != nil || req.ExamScore != nil
	if hasScores && req.MarksObtained != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either test/exam scores or marks obtained, not both"})
		return
	}
	if !hasScores && req.MarksObtained == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A score value is required"})
		return
	}

	teacherID := currentUserID(c)

	var existing int64
	config.DB.Model(&models.Result{}).
		Where("student_id = ? AND exam_id = ? AND subject_id = ?",
			req.StudentID, req.ExamID, req.SubjectID).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A result already exists for this student, exam and subject"})
		return
	}

	now := time.Now()
	result := models.Result{
		StudentID:      req.StudentID,
		ExamID:         req.ExamID,
		SubjectID:      req.SubjectID,
		TestScore:      req.TestScore,
		ExamScore:      req.ExamScore,
		MarksObtained:  req.MarksObtained,
		ApprovalStatus: models.ResultStatusPending,
		UploadedBy:     teacherID,
		CreateAt:       &now,
		UpdateAt:       &now,
	}

	if err := config.DB.Create(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit result"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Result submitted for approval",
		"result":  result,
	})
}

// GetResults lists results. Teachers only see their own uploads;
// officers, heads and admins see everything. Supports exam_id,
// student_id and status filters.
func GetResults(c *gin.Context) {
	query := config.DB.Preload("Student").Preload("Exam").Preload("Subject")

	if currentRoleID(c) == models.RoleTeacher {
		query = query.Where("uploaded_by = ?", currentUserID(c))
	}

	if examID := c.Query("exam_id"); examID != "" {
		query = query.Where("exam_id = ?", examID)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("approval_status = ?", status)
	}

	var results []models.Result
	if err := query.Find(&results).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch results"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// GetResult returns a single result by id, with the same role scoping
// as the listing.
func GetResult(c *gin.Context) {
	id := c.Param("id")

	query := config.DB.Preload("Student").Preload("Exam").Preload("Subject").
		Where("result_id = ?", id)
	if currentRoleID(c) == models.RoleTeacher {
		query = query.Where("uploaded_by = ?", currentUserID(c))
	}

	var result models.Result
	if err := query.First(&result).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Result not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GetStudentResults is the student-facing view: published results
// only, with the exam's publication info attached when the exam has
// not published yet so the caller knows when to come back.
func GetStudentResults(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return
	}

	var examID *int
	if q := c.Query("exam_id"); q != "" {
		id, err := strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam id"})
			return
		}
		examID = &id
	}

	var academicYearID *int
	if q := c.Query("academic_year_id"); q != "" {
		id, err := strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid academic year id"})
			return
		}
		academicYearID = &id
	}

	publications := services.NewPublicationService(config.DB)
	results, err := publications.PublishedResults(studentID, examID, academicYearID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(results) == 0 && examID != nil {
		// Nothing published yet; surface the scheduled date if the
		// exam office has set one.
		if info, err := publications.PublicationInfo(*examID); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"results":          []models.Result{},
				"message":          "Results are not available yet",
				"publication_date": info.PublicationDate,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"results": []models.Result{},
			"message": "Results are not available yet",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

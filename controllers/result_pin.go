package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school-results-api/config"
	"school-results-api/services"
)

// GeneratePin issues one result-check PIN for a student
// (administrator).
func GeneratePin(c *gin.Context) {
	type GeneratePinRequest struct {
		StudentID      int  `json:"student_id" binding:"required"`
		ExamID         *int `json:"exam_id"`
		AcademicYearID *int `json:"academic_year_id"`
		MaxChecks      int  `json:"max_checks"`
		ValidDays      int  `json:"valid_days"`
	}
	var req GeneratePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pins := services.NewPinService(config.DB)
	pin, err := pins.Generate(req.StudentID,
		services.PinScope{ExamID: req.ExamID, AcademicYearID: req.AcademicYearID},
		req.MaxChecks, req.ValidDays, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "PIN generated",
		"pin":     pin,
	})
}

// BulkGeneratePins issues PINs for every student of a class, or for
// all students when class_id is omitted (administrator). The full
// batch comes back for export.
func BulkGeneratePins(c *gin.Context) {
	type BulkGenerateRequest struct {
		ClassID        *int `json:"class_id"`
		ExamID         *int `json:"exam_id"`
		AcademicYearID *int `json:"academic_year_id"`
		MaxChecks      int  `json:"max_checks"`
		ValidDays      int  `json:"valid_days"`
	}
	var req BulkGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pins := services.NewPinService(config.DB)
	batch, err := pins.BulkGenerate(req.ClassID,
		services.PinScope{ExamID: req.ExamID, AcademicYearID: req.AcademicYearID},
		req.MaxChecks, req.ValidDays, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "PINs generated",
		"pins":    batch,
		"total":   len(batch),
	})
}

// CheckResults is the anonymous endpoint: a PIN plus student id stand
// in for credentials. One check is consumed per successful call; every
// failure collapses to the same message.
func CheckResults(c *gin.Context) {
	type CheckRequest struct {
		PinCode   string `json:"pin_code" binding:"required"`
		StudentID int    `json:"student_id" binding:"required"`
	}
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pins := services.NewPinService(config.DB)
	outcome, err := pins.ConsumeCheck(req.PinCode, req.StudentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"student":          outcome.Student.FullName(),
		"remaining_checks": outcome.RemainingChecks,
		"results":          outcome.Results,
		"total":            len(outcome.Results),
	})
}

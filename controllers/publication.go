package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"school-results-api/config"
	"school-results-api/services"
	"school-results-api/utils"
)

// parseDate accepts ISO dates with or without a time component.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// PublishExamResults schedules publication for an exam and flips the
// approved results to published (administrator). Refused while any
// result is pending or when nothing is approved.
func PublishExamResults(c *gin.Context) {
	examID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam id"})
		return
	}

	type PublishRequest struct {
		PublicationDate string `json:"publication_date" binding:"required"`
		Notes           string `json:"notes"`
	}
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	publicationDate, err := parseDate(req.PublicationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid publication date, expected YYYY-MM-DD"})
		return
	}

	publications := services.NewPublicationService(config.DB)
	publication, err := publications.PublishExam(examID, publicationDate, utils.SanitizeInput(req.Notes), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Results published",
		"publication": publication,
	})
}

// GetPublicationInfo returns the publication row for an exam.
func GetPublicationInfo(c *gin.Context) {
	examID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam id"})
		return
	}

	publications := services.NewPublicationService(config.DB)
	publication, err := publications.PublicationInfo(examID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"publication": publication})
}

// ReleaseExam marks the exam itself as published (administrator).
// This is the exam-level flag, distinct from the per-result flags, and
// is what drives the term progression automaton.
func ReleaseExam(c *gin.Context) {
	examID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam id"})
		return
	}

	terms := services.NewTermService(config.DB)
	exam, advanced, err := terms.MarkExamPublished(examID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Exam released"
	if advanced {
		message = "Exam released; current term advanced"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       message,
		"exam":          exam,
		"term_advanced": advanced,
	})
}

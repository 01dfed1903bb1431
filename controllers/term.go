package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"school-results-api/config"
	"school-results-api/services"
)

// GetCurrentTerm returns the current term of an academic year.
func GetCurrentTerm(c *gin.Context) {
	yearID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid academic year id"})
		return
	}

	terms := services.NewTermService(config.DB)
	term, err := terms.CurrentTerm(yearID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"term": term})
}

// SetCurrentTerm is the administrator override for the term pointer.
// It skips the publication quota check but keeps the same atomic move.
func SetCurrentTerm(c *gin.Context) {
	yearID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid academic year id"})
		return
	}

	type SetCurrentTermRequest struct {
		TermNumber int `json:"term_number" binding:"required,gt=0"`
	}
	var req SetCurrentTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	terms := services.NewTermService(config.DB)
	if err := terms.SetCurrentTerm(yearID, req.TermNumber); err != nil {
		respondServiceError(c, err)
		return
	}

	term, err := terms.CurrentTerm(yearID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Current term updated",
		"term":    term,
	})
}

package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/questions-server/services"
)

// respondError maps service failures to status codes.
func respondError(c *gin.Context, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, services.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrConflict):
			status = http.StatusConflict
		}
		body := gin.H{"message": se.Reason}
		if se.QuestionID != "" {
			body["question_id"] = se.QuestionID
		}
		if se.SurveyID != "" {
			body["survey_id"] = se.SurveyID
		}
		if se.Field != "" {
			body["field"] = se.Field
		}
		c.AbortWithStatusJSON(status, body)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
}

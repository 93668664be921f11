package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/questions-server/config"
	"github.com/vnkhanh/questions-server/services"
)

// POST /drop_data wipes every table when ALLOW_DROP_DATA is on.
func DropData(c *gin.Context) {
	if !config.AllowDropData() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Cannot drop data in this environment"})
		return
	}

	start := time.Now()
	if err := services.NewDevelopmentService(config.DB, config.SeedReferenceData).ResetDatabase(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	taken := time.Since(start)
	log.Printf("database reset in %s", taken)
	c.JSON(http.StatusOK, gin.H{"complete": true, "time_taken": fmt.Sprintf("%.3fs", taken.Seconds())})
}

// GET /question lists every question.
func GetAllQuestions(c *gin.Context) {
	qs, err := services.NewQuestionService(config.DB).AllQuestions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qs)
}

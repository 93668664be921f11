package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/questions-server/config"
	"github.com/vnkhanh/questions-server/models"
)

func HealthCheck(c *gin.Context) {
	db := config.DB

	response := gin.H{
		"status":  "ok",
		"message": "Service is healthy",
		"db":      "ok",
	}

	sqlDB, err := db.DB()
	if err != nil {
		response["db"] = "error: cannot get DB instance"
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		response["db"] = "error: cannot connect to DB"
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	var answers int64
	if err := db.WithContext(c.Request.Context()).Model(&models.Answer{}).Count(&answers).Error; err != nil {
		response["db"] = "error: answer table unavailable"
		c.JSON(http.StatusInternalServerError, response)
		return
	}
	response["answers"] = answers

	c.JSON(http.StatusOK, response)
}

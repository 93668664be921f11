package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/questions-server/config"
	"github.com/vnkhanh/questions-server/services"
)

/* ========== Reference types ========== */

func CreateQuestionType(c *gin.Context) {
	var req services.TypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	row, err := services.NewQuestionService(config.DB).CreateQuestionType(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func CreateQuestionOptionType(c *gin.Context) {
	var req services.TypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	row, err := services.NewQuestionService(config.DB).CreateQuestionOptionType(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

/* ========== Questions ========== */

func CreateQuestion(c *gin.Context) {
	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	q, err := services.NewQuestionService(config.DB).CreateQuestion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func GetQuestion(c *gin.Context) {
	q, err := services.NewQuestionService(config.DB).GetQuestion(c.Request.Context(), c.Param("question_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func GetQuestionsBySurvey(c *gin.Context) {
	qs, err := services.NewQuestionService(config.DB).QuestionsBySurvey(c.Request.Context(), c.Param("survey_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qs)
}

func GetQuestionsByGroup(c *gin.Context) {
	qs, err := services.NewQuestionService(config.DB).QuestionsByGroup(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qs)
}

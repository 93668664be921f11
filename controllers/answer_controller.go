package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/questions-server/config"
	"github.com/vnkhanh/questions-server/services"
)

// POST /answer
func CreateAnswers(c *gin.Context) {
	var req []services.ProposedAnswer
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := services.NewAnswerService(config.DB).CreateAnswers(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// POST /survey/:survey_id/answer
func CreateAnswersForSurvey(c *gin.Context) {
	var req []services.ProposedAnswer
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := services.NewAnswerService(config.DB).CreateAnswersForSurvey(c.Request.Context(), c.Param("survey_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// GET /answer?start_date=&end_date=
func GetAnswers(c *gin.Context) {
	window, err := services.ParseTimestampRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	answers, err := services.NewAnswerService(config.DB).ListAnswers(c.Request.Context(), window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func GetAnswer(c *gin.Context) {
	a, err := services.NewAnswerService(config.DB).GetAnswer(c.Request.Context(), c.Param("answer_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// PATCH /answer/:answer_id accepts only value and text.
func UpdateAnswer(c *gin.Context) {
	patch, err := services.DecodeAnswerPatch(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	a, err := services.NewAnswerService(config.DB).UpdateAnswer(c.Request.Context(), c.Param("answer_id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func GetAnswersBySurvey(c *gin.Context) {
	answers, err := services.NewAnswerService(config.DB).AnswersBySurvey(c.Request.Context(), c.Param("survey_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func GetAnswersBySurveyAndQuestion(c *gin.Context) {
	answers, err := services.NewAnswerService(config.DB).
		AnswersBySurveyAndQuestion(c.Request.Context(), c.Param("survey_id"), c.Param("question_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

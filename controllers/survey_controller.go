package controllers

import (
	"encoding/csv"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/questions-server/config"
	"github.com/vnkhanh/questions-server/services"
	"github.com/vnkhanh/questions-server/utils"
)

func CreateSurvey(c *gin.Context) {
	var req services.SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	sv, err := services.NewSurveyService(config.DB).CreateSurvey(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, surveyJSON(sv))
}

// GET /survey?start_date=&end_date=
func GetSurveys(c *gin.Context) {
	window, err := services.ParseTimestampRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := services.NewSurveyService(config.DB).ListSurveys(c.Request.Context(), window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, surveysJSON(list))
}

func GetSurvey(c *gin.Context) {
	sv, err := services.NewSurveyService(config.DB).GetSurvey(c.Request.Context(), c.Param("survey_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, surveyJSON(sv))
}

// PATCH /survey/:survey_id accepts only completed and declined.
func UpdateSurvey(c *gin.Context) {
	patch, err := services.DecodeSurveyPatch(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	sv, err := services.NewSurveyService(config.DB).UpdateSurvey(c.Request.Context(), c.Param("survey_id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, surveyJSON(sv))
}

// GET /survey_responses?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD streams a CSV
// of every answer in the window.
func GetSurveyResponses(c *gin.Context) {
	window, err := services.ParseCalendarRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="data.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write([]string{"created", "survey_id", "question", "answer"}); err != nil {
		log.Printf("survey responses: %v", err)
		return
	}
	err = services.NewSurveyService(config.DB).SurveyResponses(c.Request.Context(), window, func(r services.ResponseRow) error {
		return w.Write([]string{utils.FormatTimestamp(r.Created.UTC()), r.SurveyID, r.Question, r.Answer})
	})
	w.Flush()
	if err == nil {
		err = w.Error()
	}
	if err != nil {
		// headers are already sent; the truncated body is all the client gets
		log.Printf("survey responses: %v", err)
	}
}

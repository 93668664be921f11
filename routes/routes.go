package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/questions-server/config"
	"github.com/vnkhanh/questions-server/controllers"
	"github.com/vnkhanh/questions-server/middleware"
)

const (
	scopeWriteQuestion  = "write:gdm_question"
	scopeReadQuestion   = "read:gdm_question"
	scopeWriteSurvey    = "write:gdm_survey"
	scopeReadSurvey     = "read:gdm_survey"
	scopeReadSurveyAll  = "read:gdm_survey_all"
	scopeWriteAnswer    = "write:gdm_answer"
	scopeWriteAnswerAll = "write:gdm_answer_all"
	scopeReadAnswer     = "read:gdm_answer"
	scopeReadAnswerAll  = "read:gdm_answer_all"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/dhos/v1")
	api.Use(middleware.AuthJWT())
	{
		need := middleware.RequireScopes

		api.POST("/question_type", need(scopeWriteQuestion), controllers.CreateQuestionType)
		api.POST("/question_option_type", need(scopeWriteQuestion), controllers.CreateQuestionOptionType)
		api.POST("/question", need(scopeWriteQuestion), controllers.CreateQuestion)
		api.GET("/question/:question_id", need(scopeReadQuestion), controllers.GetQuestion)
		api.GET("/group/:group_id/question", need(scopeReadQuestion), controllers.GetQuestionsByGroup)

		api.POST("/survey", need(scopeWriteSurvey), controllers.CreateSurvey)
		api.GET("/survey", need(scopeReadSurveyAll), controllers.GetSurveys)
		api.GET("/survey_responses", need(scopeReadSurveyAll, scopeReadQuestion, scopeReadAnswerAll), controllers.GetSurveyResponses)

		survey := api.Group("/survey/:survey_id")
		{
			survey.GET("", middleware.ScopeOrSurveyOwner(scopeReadSurveyAll, scopeReadSurvey, middleware.SurveyParam), controllers.GetSurvey)
			survey.PATCH("", need(scopeWriteSurvey), controllers.UpdateSurvey)
			survey.GET("/question", need(scopeReadQuestion), controllers.GetQuestionsBySurvey)

			readOwn := middleware.ScopeOrSurveyOwner(scopeReadAnswerAll, scopeReadAnswer, middleware.SurveyParam)
			survey.POST("/answer",
				middleware.RateLimitAnswers(),
				middleware.ScopeOrSurveyOwner(scopeWriteAnswerAll, scopeWriteAnswer, middleware.SurveyParam),
				controllers.CreateAnswersForSurvey)
			survey.GET("/answer", readOwn, controllers.GetAnswersBySurvey)
			survey.GET("/question/:question_id/answer", readOwn, controllers.GetAnswersBySurveyAndQuestion)
		}

		answers := api.Group("/answer")
		{
			answers.POST("",
				middleware.RateLimitAnswers(),
				middleware.ScopeOrSurveyOwner(scopeWriteAnswerAll, scopeWriteAnswer, middleware.SurveysInBody),
				controllers.CreateAnswers)
			answers.GET("", need(scopeReadAnswerAll), controllers.GetAnswers)
			answers.GET("/:answer_id", middleware.ScopeOrSurveyOwner(scopeReadAnswerAll, scopeReadAnswer, middleware.SurveyOfAnswer), controllers.GetAnswer)
			answers.PATCH("/:answer_id", middleware.ScopeOrSurveyOwner(scopeWriteAnswerAll, scopeWriteAnswer, middleware.SurveyOfAnswer), controllers.UpdateAnswer)
		}

		if !config.IsProduction() {
			api.POST("/drop_data", middleware.RequireSystem(), controllers.DropData)
			api.GET("/question", need(scopeReadQuestion), controllers.GetAllQuestions)
		}
	}
}

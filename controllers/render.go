package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/questions-server/models"
	"github.com/vnkhanh/questions-server/utils"
)

// surveyJSON renders completed and declined in the offset they were recorded with.
func surveyJSON(s *models.Survey) gin.H {
	h := gin.H{
		"uuid":      s.UUID,
		"created":   utils.FormatTimestamp(s.Created),
		"modified":  utils.FormatTimestamp(s.Modified),
		"user_id":   s.UserID,
		"user_type": s.UserType,
		"group":     s.Group,
	}
	if s.Completed != nil {
		h["completed"] = utils.FormatTimestamp(utils.JoinTimestamp(*s.Completed, offset(s.CompletedTZ)))
	}
	if s.Declined != nil {
		h["declined"] = utils.FormatTimestamp(utils.JoinTimestamp(*s.Declined, offset(s.DeclinedTZ)))
	}
	if s.Deleted.Valid {
		h["deleted"] = utils.FormatTimestamp(s.Deleted.Time)
	}
	return h
}

func surveysJSON(list []models.Survey) []gin.H {
	out := make([]gin.H, len(list))
	for i := range list {
		out[i] = surveyJSON(&list[i])
	}
	return out
}

func offset(tz *int) int {
	if tz == nil {
		return 0
	}
	return *tz
}

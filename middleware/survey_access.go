package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/questions-server/config"
	"github.com/vnkhanh/questions-server/models"
)

// SurveyResolver returns the ids of the surveys a request acts on.
type SurveyResolver func(c *gin.Context) ([]string, error)

var errNoSurvey = errors.New("request names no survey")

// ScopeOrSurveyOwner admits callers holding allScope, or holding ownScope
// and owning every survey the request touches.
func ScopeOrSurveyOwner(allScope, ownScope string, resolve SurveyResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if claims.HasScope(allScope) {
			c.Next()
			return
		}
		if !claims.HasScope(ownScope) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden", "missing_scope": ownScope})
			return
		}
		userType, userID := claims.User()
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		ids, err := resolve(c)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		checked := make(map[string]bool, len(ids))
		for _, id := range ids {
			if checked[id] {
				continue
			}
			checked[id] = true

			var sv models.Survey
			if err := config.DB.WithContext(c.Request.Context()).First(&sv, "uuid = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "unknown survey", "survey_id": id})
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
				return
			}
			if !sv.OwnedBy(userType, userID) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
				return
			}
		}
		c.Next()
	}
}

// SurveyParam reads the :survey_id route parameter.
func SurveyParam(c *gin.Context) ([]string, error) {
	id := c.Param("survey_id")
	if id == "" {
		return nil, errNoSurvey
	}
	return []string{id}, nil
}

// SurveysInBody reads survey_id from a JSON object or from every element of
// a JSON array, then restores the body for the handler.
func SurveysInBody(c *gin.Context) ([]string, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	type ref struct {
		SurveyID string `json:"survey_id"`
	}
	var refs []ref
	if err := json.Unmarshal(body, &refs); err != nil {
		var one ref
		if err := json.Unmarshal(body, &one); err != nil {
			return nil, err
		}
		refs = []ref{one}
	}
	if len(refs) == 0 {
		return nil, errNoSurvey
	}

	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.SurveyID == "" {
			return nil, errNoSurvey
		}
		ids = append(ids, r.SurveyID)
	}
	return ids, nil
}

// SurveyOfAnswer resolves the survey of the :answer_id route parameter.
func SurveyOfAnswer(c *gin.Context) ([]string, error) {
	var a models.Answer
	if err := config.DB.WithContext(c.Request.Context()).First(&a, "uuid = ?", c.Param("answer_id")).Error; err != nil {
		return nil, err
	}
	return []string{a.SurveyID}, nil
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vnkhanh/questions-server/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SurveyService struct {
	db    *gorm.DB
	newID func() string
}

func NewSurveyService(db *gorm.DB) *SurveyService {
	return &SurveyService{db: db, newID: uuid.NewString}
}

// ResponseRow is one answer joined to its question text.
type ResponseRow struct {
	Created  time.Time
	SurveyID string
	Question string
	Answer   string
}

// CreateSurvey issues a survey against the group named in req.
func (s *SurveyService) CreateSurvey(ctx context.Context, req SurveyRequest) (*models.Survey, error) {
	if err := checkRequest(&req); err != nil {
		return nil, err
	}

	var sv models.Survey
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Group
		if err := tx.Where("group_name = ?", req.Group).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(ReasonUnknownGroup).field("group")
			}
			return err
		}
		sv = models.Survey{
			Base:     models.Base{UUID: s.newID()},
			GroupID:  g.UUID,
			Group:    g,
			UserID:   req.UserID,
			UserType: req.UserType,
		}
		return tx.Omit(clause.Associations).Create(&sv).Error
	})
	if err != nil {
		return nil, err
	}
	return &sv, nil
}

func (s *SurveyService) GetSurvey(ctx context.Context, surveyID string) (*models.Survey, error) {
	var sv models.Survey
	if err := s.db.WithContext(ctx).Preload("Group").First(&sv, "uuid = ?", surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(ReasonUnknownSurvey).survey(surveyID)
		}
		return nil, err
	}
	return &sv, nil
}

// ListSurveys returns live surveys modified within r.
func (s *SurveyService) ListSurveys(ctx context.Context, r DateRange) ([]models.Survey, error) {
	var out []models.Survey
	err := r.apply(s.db.WithContext(ctx).Preload("Group"), "modified").Order("created").Find(&out).Error
	return out, err
}

// UpdateSurvey records completion or decline times with their offsets.
func (s *SurveyService) UpdateSurvey(ctx context.Context, surveyID string, patch SurveyPatch) (*models.Survey, error) {
	changes, err := patch.changes()
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sv models.Survey
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sv, "uuid = ?", surveyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(ReasonUnknownSurvey).survey(surveyID)
			}
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		return tx.Model(&sv).Updates(changes).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetSurvey(ctx, surveyID)
}

// SurveyResponses streams every answer modified within r, oldest first.
func (s *SurveyService) SurveyResponses(ctx context.Context, r DateRange, fn func(ResponseRow) error) error {
	q := s.db.WithContext(ctx).
		Table("answer").
		Select("answer.created AS created, answer.survey_id AS survey_id, question.question AS question, answer.value AS answer").
		Joins("JOIN question ON question.uuid = answer.question_id").
		Where("answer.deleted IS NULL")
	rows, err := r.apply(q, "answer.modified").Order("answer.created").Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row ResponseRow
		if err := rows.Scan(&row.Created, &row.SurveyID, &row.Question, &row.Answer); err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

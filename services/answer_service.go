package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vnkhanh/questions-server/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnswerService validates and stores answers. Every write runs in its own
// transaction on db.
type AnswerService struct {
	db    *gorm.DB
	now   func() time.Time
	newID func() string
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// CreateAnswers stores a batch where every answer names its own survey.
func (s *AnswerService) CreateAnswers(ctx context.Context, answers []ProposedAnswer) ([]models.Answer, error) {
	return s.create(ctx, "", answers)
}

// CreateAnswersForSurvey stores a batch against surveyID and marks the
// survey completed at commit time, replacing any earlier completion.
func (s *AnswerService) CreateAnswersForSurvey(ctx context.Context, surveyID string, answers []ProposedAnswer) ([]models.Answer, error) {
	if surveyID == "" {
		return nil, invalid(ReasonNoSurveyID)
	}
	return s.create(ctx, surveyID, answers)
}

func (s *AnswerService) create(ctx context.Context, surveyID string, answers []ProposedAnswer) ([]models.Answer, error) {
	if err := checkBatch(answers); err != nil {
		return nil, err
	}
	answers = append([]ProposedAnswer(nil), answers...)

	var created []models.Answer

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			if surveyID != "" {
				answers[i].SurveyID = surveyID
			}
			if answers[i].SurveyID == "" {
				return invalid(ReasonNoSurveyID).question(answers[i].QuestionID)
			}
		}

		// Rows are locked in id order so overlapping batches cannot deadlock.
		surveys := make(map[string]*models.Survey)
		for _, id := range surveyIDs(surveyID, answers) {
			sv, err := lockSurvey(tx, id)
			if err != nil {
				return err
			}
			surveys[id] = sv
		}

		questions := make(map[string]*models.Question)
		groups := make(map[string][]ProposedAnswer)
		var order []string

		for _, a := range answers {
			if _, ok := questions[a.QuestionID]; !ok {
				q, err := loadQuestion(tx, a.QuestionID)
				if err != nil {
					return err
				}
				questions[a.QuestionID] = q
			}

			var existing int64
			if err := tx.Model(&models.Answer{}).
				Where("survey_id = ? AND question_id = ?", a.SurveyID, a.QuestionID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return conflict(ReasonAlreadyAnswered).survey(a.SurveyID).question(a.QuestionID)
			}

			if _, seen := groups[a.QuestionID]; !seen {
				order = append(order, a.QuestionID)
			}
			groups[a.QuestionID] = append(groups[a.QuestionID], a)
		}

		for _, qid := range order {
			if err := ValidateBatch(questions[qid], groups[qid]); err != nil {
				return err
			}
		}

		rows := make([]models.Answer, 0, len(answers))
		for _, a := range answers {
			rows = append(rows, models.Answer{
				Base:       models.Base{UUID: s.newID()},
				SurveyID:   a.SurveyID,
				QuestionID: a.QuestionID,
				Value:      a.value(),
				Text:       a.Text,
			})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				if IsUniqueViolation(err) {
					return conflict(ReasonDuplicateAnswer).wrap(err)
				}
				return err
			}
		}

		if surveyID != "" {
			if err := tx.Model(surveys[surveyID]).Updates(map[string]interface{}{
				"completed":    s.now(),
				"completed_tz": 0,
			}).Error; err != nil {
				return err
			}
		}

		created = rows
		return nil
	})
	if err != nil {
		log.Printf("answer batch rejected: %v", err)
		return nil, err
	}
	return created, nil
}

// UpdateAnswer applies patch to a live answer. The new value is not
// checked against the question's rules.
func (s *AnswerService) UpdateAnswer(ctx context.Context, answerID string, patch AnswerPatch) (*models.Answer, error) {
	if err := patch.check(); err != nil {
		return nil, err
	}

	var answer models.Answer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&answer, "uuid = ?", answerID).Error; err != nil {
			return lookupError(err, ReasonUnknownAnswer)
		}
		changes := patch.changes()
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&answer).Updates(changes).Error; err != nil {
			if IsUniqueViolation(err) {
				return conflict(ReasonDuplicateAnswer).survey(answer.SurveyID).question(answer.QuestionID).wrap(err)
			}
			return err
		}
		return tx.First(&answer, "uuid = ?", answerID).Error
	})
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// ListAnswers returns live answers whose modified time falls in r.
func (s *AnswerService) ListAnswers(ctx context.Context, r DateRange) ([]models.Answer, error) {
	var out []models.Answer
	err := r.apply(s.db.WithContext(ctx), "modified").Order("created").Find(&out).Error
	return out, err
}

func (s *AnswerService) GetAnswer(ctx context.Context, answerID string) (*models.Answer, error) {
	var a models.Answer
	if err := s.db.WithContext(ctx).First(&a, "uuid = ?", answerID).Error; err != nil {
		return nil, lookupError(err, ReasonUnknownAnswer)
	}
	return &a, nil
}

func (s *AnswerService) AnswersBySurvey(ctx context.Context, surveyID string) ([]models.Answer, error) {
	var out []models.Answer
	err := s.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("created").
		Find(&out).Error
	return out, err
}

func (s *AnswerService) AnswersBySurveyAndQuestion(ctx context.Context, surveyID, questionID string) ([]models.Answer, error) {
	var out []models.Answer
	err := s.db.WithContext(ctx).
		Where("survey_id = ? AND question_id = ?", surveyID, questionID).
		Order("created").
		Find(&out).Error
	return out, err
}

// surveyIDs returns the distinct surveys a batch touches, sorted.
func surveyIDs(scoped string, answers []ProposedAnswer) []string {
	if scoped != "" {
		return []string{scoped}
	}
	seen := make(map[string]struct{}, len(answers))
	var ids []string
	for _, a := range answers {
		if _, ok := seen[a.SurveyID]; ok {
			continue
		}
		seen[a.SurveyID] = struct{}{}
		ids = append(ids, a.SurveyID)
	}
	sort.Strings(ids)
	return ids
}

func lockSurvey(tx *gorm.DB, surveyID string) (*models.Survey, error) {
	var sv models.Survey
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sv, "uuid = ?", surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(ReasonUnknownSurvey).survey(surveyID)
		}
		return nil, err
	}
	return &sv, nil
}

// loadQuestion fetches a live question with its type, options and option
// types. Type rows are read even when soft deleted.
func loadQuestion(tx *gorm.DB, questionID string) (*models.Question, error) {
	var q models.Question
	err := preloadQuestion(tx).First(&q, "uuid = ?", questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(ReasonUnknownQuestion).question(questionID)
		}
		return nil, err
	}
	return &q, nil
}

func preloadQuestion(db *gorm.DB) *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return db.
		Preload("QuestionType", unscoped).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("display_order, created") }).
		Preload("Options.OptionType", unscoped).
		Preload("Groups")
}

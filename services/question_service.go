package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vnkhanh/questions-server/models"
	"gorm.io/gorm"
)

type QuestionService struct {
	db    *gorm.DB
	newID func() string
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db, newID: uuid.NewString}
}

// CreateQuestionType registers a question type row for a known kind.
func (s *QuestionService) CreateQuestionType(ctx context.Context, req TypeRequest) (*models.QuestionType, error) {
	if err := checkRequest(&req); err != nil {
		return nil, err
	}
	kind := models.QuestionKind(*req.Value)
	if !kind.Valid() {
		return nil, invalid(ReasonInvalidCode).field("value")
	}

	row := models.QuestionType{Base: models.Base{UUID: s.idOr(req.UUID)}, Value: kind}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnused(tx, &models.QuestionType{}, kind, req.UUID); err != nil {
			return err
		}
		return createRow(tx, &row)
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateQuestionOptionType registers an option type row for a known kind.
func (s *QuestionService) CreateQuestionOptionType(ctx context.Context, req TypeRequest) (*models.QuestionOptionType, error) {
	if err := checkRequest(&req); err != nil {
		return nil, err
	}
	kind := models.OptionKind(*req.Value)
	if !kind.Valid() {
		return nil, invalid(ReasonInvalidCode).field("value")
	}

	row := models.QuestionOptionType{Base: models.Base{UUID: s.idOr(req.UUID)}, Value: kind}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnused(tx, &models.QuestionOptionType{}, kind, req.UUID); err != nil {
			return err
		}
		return createRow(tx, &row)
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateQuestion stores a question with its options and group memberships.
// Groups are matched by name and created when missing.
func (s *QuestionService) CreateQuestion(ctx context.Context, req QuestionRequest) (*models.Question, error) {
	if err := checkRequest(&req); err != nil {
		return nil, err
	}

	var created *models.Question
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var qt models.QuestionType
		if err := tx.Where("value = ?", *req.QuestionType.Value).First(&qt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid(ReasonUnknownType).field("question_type")
			}
			return err
		}
		kind := qt.Value
		if len(req.Options) > 0 && !kind.AllowsOptions() {
			return invalid(ReasonOptionsNotAllowed).field("question_options")
		}

		q := models.Question{
			Base:           models.Base{UUID: s.newID()},
			Text:           req.Question,
			QuestionTypeID: qt.UUID,
		}

		optionTypes := make(map[int]models.QuestionOptionType)
		counts := make(map[models.OptionKind]int)
		for _, o := range req.Options {
			ot, ok := optionTypes[*o.OptionType]
			if !ok {
				if err := tx.Where("value = ?", *o.OptionType).First(&ot).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return invalid(ReasonUnknownOptionType).field("question_option_type")
					}
					return err
				}
				optionTypes[*o.OptionType] = ot
			}
			counts[ot.Value]++
			q.Options = append(q.Options, models.QuestionOption{
				Base:         models.Base{UUID: s.newID()},
				QuestionID:   q.UUID,
				OptionTypeID: ot.UUID,
				Value:        *o.Value,
				Text:         o.Text,
				Order:        o.Order,
			})
		}
		if err := checkOptionShape(kind, len(req.Options), counts); err != nil {
			return err
		}

		groups, err := s.findOrCreateGroups(tx, req.Groups)
		if err != nil {
			return err
		}
		q.Groups = groups

		if err := tx.Create(&q).Error; err != nil {
			return err
		}
		created, err = loadQuestion(tx, q.UUID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, questionID string) (*models.Question, error) {
	return loadQuestion(s.db.WithContext(ctx), questionID)
}

// QuestionsByGroup returns the live questions in a group. An unknown group has none.
func (s *QuestionService) QuestionsByGroup(ctx context.Context, groupID string) ([]models.Question, error) {
	var out []models.Question
	err := preloadQuestion(s.db.WithContext(ctx)).
		Select("question.*").
		Joins("JOIN question_group ON question_group.question_id = question.uuid").
		Where("question_group.group_id = ?", groupID).
		Order("question.created").
		Find(&out).Error
	return out, err
}

// QuestionsBySurvey returns the questions of the survey's group.
func (s *QuestionService) QuestionsBySurvey(ctx context.Context, surveyID string) ([]models.Question, error) {
	var sv models.Survey
	if err := s.db.WithContext(ctx).First(&sv, "uuid = ?", surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(ReasonUnknownSurvey).survey(surveyID)
		}
		return nil, err
	}
	return s.QuestionsByGroup(ctx, sv.GroupID)
}

func (s *QuestionService) AllQuestions(ctx context.Context) ([]models.Question, error) {
	var out []models.Question
	err := preloadQuestion(s.db.WithContext(ctx)).Order("created").Find(&out).Error
	return out, err
}

func (s *QuestionService) findOrCreateGroups(tx *gorm.DB, refs []GroupRef) ([]models.Group, error) {
	var groups []models.Group
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if seen[ref.Group] {
			continue
		}
		seen[ref.Group] = true

		var g models.Group
		err := tx.Where("group_name = ?", ref.Group).First(&g).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			g = models.Group{Base: models.Base{UUID: s.newID()}, Name: ref.Group}
			err = tx.Create(&g).Error
		}
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (s *QuestionService) idOr(id string) string {
	if id != "" {
		return id
	}
	return s.newID()
}

// checkOptionShape enforces the options each question kind needs.
func checkOptionShape(kind models.QuestionKind, total int, counts map[models.OptionKind]int) error {
	switch kind {
	case models.QuestionFreeText, models.QuestionInteger:
		return nil
	case models.QuestionCheckbox, models.QuestionRadio, models.QuestionDropDown, models.QuestionMultiSelect:
		if counts[models.OptionFixed] == 0 {
			return invalid(ReasonOptionsRequired).field("question_options")
		}
		return nil
	case models.QuestionRange:
		for _, k := range []models.OptionKind{models.OptionRangeStart, models.OptionRangeEnd, models.OptionInterval} {
			if counts[k] != 1 {
				return invalid(ReasonMissingRangeOption).field(k.String())
			}
		}
		return nil
	default:
		return invalid(ReasonUnknownType).field("question_type")
	}
}

// ensureUnused fails with Conflict when a live row already has value or a row
// of any state already has id.
func ensureUnused(tx *gorm.DB, model interface{}, value interface{}, id string) error {
	var n int64
	if err := tx.Model(model).Where("value = ?", value).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return conflict(ReasonAlreadyExists).field("value")
	}
	if id == "" {
		return nil
	}
	if err := tx.Unscoped().Model(model).Where("uuid = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return conflict(ReasonAlreadyExists).field("uuid")
	}
	return nil
}

func createRow(tx *gorm.DB, row interface{}) error {
	if err := tx.Create(row).Error; err != nil {
		if IsUniqueViolation(err) {
			return conflict(ReasonAlreadyExists).wrap(err)
		}
		return err
	}
	return nil
}

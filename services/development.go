package services

import (
	"context"

	"github.com/vnkhanh/questions-server/models"
	"gorm.io/gorm"
)

// DevelopmentService backs the non-production endpoints.
type DevelopmentService struct {
	db     *gorm.DB
	reseed func(*gorm.DB) error
}

// NewDevelopmentService takes the function that restores reference rows after a reset.
func NewDevelopmentService(db *gorm.DB, reseed func(*gorm.DB) error) *DevelopmentService {
	return &DevelopmentService{db: db, reseed: reseed}
}

// ResetDatabase hard deletes every row, children first, then reseeds the
// reference types.
func (s *DevelopmentService) ResetDatabase(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := func(model interface{}) func() error {
			return func() error {
				return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
			}
		}
		steps := []func() error{
			wipe(&models.Answer{}),
			wipe(&models.Survey{}),
			func() error { return tx.Exec("DELETE FROM question_group").Error },
			wipe(&models.QuestionOption{}),
			wipe(&models.Question{}),
			wipe(&models.Group{}),
			wipe(&models.QuestionOptionType{}),
			wipe(&models.QuestionType{}),
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		if s.reseed == nil {
			return nil
		}
		return s.reseed(tx)
	})
}

package config

import (
	"log"

	"github.com/vnkhanh/questions-server/models"
	"gorm.io/gorm"
)

// SeedReferenceData inserts the question and option type rows that are
// missing. Existing rows, deleted or not, are left alone.
func SeedReferenceData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, k := range models.QuestionKinds {
			var row models.QuestionType
			res := tx.Unscoped().Where("value = ?", k).Limit(1).Find(&row)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				continue
			}
			row = models.QuestionType{Base: models.Base{UUID: k.SeedID()}, Value: k}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			log.Printf("seeded question type %s", k)
		}
		for _, k := range models.OptionKinds {
			var row models.QuestionOptionType
			res := tx.Unscoped().Where("value = ?", k).Limit(1).Find(&row)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				continue
			}
			row = models.QuestionOptionType{Base: models.Base{UUID: k.SeedID()}, Value: k}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			log.Printf("seeded question option type %s", k)
		}
		return nil
	})
}

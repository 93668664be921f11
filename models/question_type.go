package models

type QuestionType struct {
	Base
	Value QuestionKind `gorm:"column:value;not null;index:question_type_value,unique,where:deleted IS NULL" json:"value"`
}

func (QuestionType) TableName() string {
	return "question_type"
}

type QuestionOptionType struct {
	Base
	Value OptionKind `gorm:"column:value;not null;index:question_option_type_value,unique,where:deleted IS NULL" json:"value"`
}

func (QuestionOptionType) TableName() string {
	return "question_option_type"
}

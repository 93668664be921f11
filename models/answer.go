package models

// Answer is one submitted value. At most one live row exists per
// (survey, question, value); deleted rows are excluded from the index.
type Answer struct {
	Base
	SurveyID   string  `gorm:"column:survey_id;size:36;not null;index:only_one_active_identical_question_option,unique,where:deleted IS NULL,priority:1" json:"survey_id"`
	QuestionID string  `gorm:"column:question_id;size:36;not null;index:only_one_active_identical_question_option,unique,where:deleted IS NULL,priority:2" json:"question_id"`
	Value      string  `gorm:"column:value;type:text;not null;index:only_one_active_identical_question_option,unique,where:deleted IS NULL,priority:3" json:"value"`
	Text       *string `gorm:"column:text;type:text" json:"text,omitempty"`
}

func (Answer) TableName() string {
	return "answer"
}

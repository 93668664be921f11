package models

type Question struct {
	Base
	Text           string           `gorm:"column:question;type:text;not null" json:"question"`
	QuestionTypeID string           `gorm:"column:question_type_id;size:36;not null;index" json:"-"`
	QuestionType   QuestionType     `gorm:"foreignKey:QuestionTypeID;references:UUID" json:"question_type"`
	Options        []QuestionOption `gorm:"foreignKey:QuestionID;references:UUID" json:"question_options,omitempty"`
	Groups         []Group          `gorm:"many2many:question_group;joinForeignKey:QuestionID;joinReferences:GroupID" json:"groups"`
}

func (Question) TableName() string {
	return "question"
}

// Kind is the code of the preloaded question type.
func (q *Question) Kind() QuestionKind {
	return q.QuestionType.Value
}

// OptionsOfKind returns the options whose preloaded option type matches kind.
func (q *Question) OptionsOfKind(kind OptionKind) []QuestionOption {
	var out []QuestionOption
	for _, o := range q.Options {
		if o.OptionType.Value == kind {
			out = append(out, o)
		}
	}
	return out
}

type QuestionOption struct {
	Base
	QuestionID   string             `gorm:"column:question_id;size:36;not null;index" json:"-"`
	OptionTypeID string             `gorm:"column:question_option_type_id;size:36;not null;index" json:"-"`
	OptionType   QuestionOptionType `gorm:"foreignKey:OptionTypeID;references:UUID" json:"question_option_type"`
	Value        string             `gorm:"column:value;type:text;not null" json:"value"`
	Text         *string            `gorm:"column:text;type:text" json:"text,omitempty"`
	Order        *int               `gorm:"column:display_order" json:"order,omitempty"`
}

func (QuestionOption) TableName() string {
	return "question_option"
}

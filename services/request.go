package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Request payloads use gin's `binding` tags so one set of rules serves the
// HTTP layer and direct service callers.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// TypeRef names a question or option type by code.
type TypeRef struct {
	Value *int `json:"value" binding:"required"`
}

type GroupRef struct {
	Group string `json:"group" binding:"required"`
}

// TypeRequest creates a question type or option type row.
type TypeRequest struct {
	UUID  string `json:"uuid" binding:"omitempty,max=36"`
	Value *int   `json:"value" binding:"required"`
}

type OptionRequest struct {
	OptionType *int    `json:"question_option_type" binding:"required"`
	Value      *string `json:"value" binding:"required"`
	Text       *string `json:"text"`
	Order      *int    `json:"order"`
}

type QuestionRequest struct {
	Question     string          `json:"question" binding:"required"`
	QuestionType TypeRef         `json:"question_type"`
	Options      []OptionRequest `json:"question_options" binding:"dive"`
	Groups       []GroupRef      `json:"groups" binding:"dive"`
}

type SurveyRequest struct {
	Group    string `json:"group" binding:"required"`
	UserID   string `json:"user_id" binding:"required"`
	UserType string `json:"user_type" binding:"required"`
}

// checkRequest runs struct validation and reports the first failing field.
func checkRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		if fe.Tag() == "required" {
			return invalid(ReasonMissingField).field(path)
		}
		return invalid(ReasonInvalidField).field(path).wrap(err)
	}
	return invalid(ReasonInvalidField).wrap(err)
}

func checkBatch(answers []ProposedAnswer) error {
	for i := range answers {
		if err := checkRequest(&answers[i]); err != nil {
			var se *Error
			if errors.As(err, &se) {
				se.QuestionID = answers[i].QuestionID
			}
			return err
		}
	}
	return nil
}

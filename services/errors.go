package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Failure kinds. Every *Error unwraps to exactly one of them.
var (
	ErrNotFound         = errors.New("not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
)

// Reasons carried by *Error.
const (
	ReasonUnknownSurvey      = "unknown survey"
	ReasonUnknownQuestion    = "unknown question"
	ReasonUnknownAnswer      = "unknown answer"
	ReasonUnknownGroup       = "unknown group"
	ReasonUnknownType        = "unknown question type"
	ReasonUnknownOptionType  = "unknown question option type"
	ReasonNoSurveyID         = "no survey id"
	ReasonAlreadyAnswered    = "already answered"
	ReasonDuplicateAnswer    = "duplicate answer"
	ReasonAlreadyExists      = "already exists"
	ReasonTooManyAnswers     = "only one answer permitted"
	ReasonNotInteger         = "not an integer"
	ReasonNotNumber          = "not a number"
	ReasonNotOption          = "not a valid option"
	ReasonDuplicateValue     = "duplicate value"
	ReasonOutOfRange         = "out of range"
	ReasonNotOnInterval      = "does not fit interval"
	ReasonMissingRangeOption = "missing range option"
	ReasonBadRangeOption     = "invalid range option"
	ReasonOptionsNotAllowed  = "options not permitted for question type"
	ReasonOptionsRequired    = "options required for question type"
	ReasonFieldNotUpdatable  = "field not updatable"
	ReasonEmptyField         = "empty field not permitted"
	ReasonInvalidField       = "invalid field value"
	ReasonMissingField       = "missing required field"
	ReasonInvalidCode        = "unsupported type code"
)

// Error is a request scoped failure. It identifies the offending
// question, survey or field where one applies.
type Error struct {
	Kind       error
	Reason     string
	SurveyID   string
	QuestionID string
	Field      string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.QuestionID != "" {
		fmt.Fprintf(&b, " (question %s)", e.QuestionID)
	}
	if e.SurveyID != "" {
		fmt.Fprintf(&b, " (survey %s)", e.SurveyID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func notFound(reason string) *Error {
	return &Error{Kind: ErrNotFound, Reason: reason}
}

func invalid(reason string) *Error {
	return &Error{Kind: ErrValidationFailed, Reason: reason}
}

func conflict(reason string) *Error {
	return &Error{Kind: ErrConflict, Reason: reason}
}

func (e *Error) question(id string) *Error {
	e.QuestionID = id
	return e
}

func (e *Error) survey(id string) *Error {
	e.SurveyID = id
	return e
}

func (e *Error) field(name string) *Error {
	e.Field = name
	return e
}

func (e *Error) wrap(err error) *Error {
	e.Err = err
	return e
}

// IsUniqueViolation reports whether err is a storage uniqueness violation.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// lookupError maps a record lookup failure to NotFound with reason,
// passing other storage errors through.
func lookupError(err error, reason string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(reason)
	}
	return err
}

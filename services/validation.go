package services

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/vnkhanh/questions-server/models"
)

// ProposedAnswer is one answer awaiting validation. SurveyID may be empty
// when the batch is submitted against a survey.
type ProposedAnswer struct {
	SurveyID   string  `json:"survey_id"`
	QuestionID string  `json:"question_id" binding:"required"`
	Value      *string `json:"value" binding:"required"`
	Text       *string `json:"text"`
}

// value is the submitted answer. Empty strings are valid answers.
func (a ProposedAnswer) value() string {
	if a.Value == nil {
		return ""
	}
	return *a.Value
}

// ValidateBatch checks every answer proposed for q in one request against
// the rules of q's kind. q must have its type and option types loaded.
func ValidateBatch(q *models.Question, batch []ProposedAnswer) error {
	switch q.Kind() {
	case models.QuestionFreeText:
		return requireSingle(q, batch)

	case models.QuestionInteger:
		if err := requireSingle(q, batch); err != nil {
			return err
		}
		if !isInteger(batch[0].value()) {
			return invalid(ReasonNotInteger).question(q.UUID)
		}
		return nil

	case models.QuestionCheckbox, models.QuestionMultiSelect:
		if HasDuplicateValues(batch) {
			return invalid(ReasonDuplicateValue).question(q.UUID)
		}
		for _, a := range batch {
			if !FixedChoiceMatch(q, a.value()) {
				return invalid(ReasonNotOption).question(q.UUID)
			}
		}
		return nil

	case models.QuestionRadio, models.QuestionDropDown:
		if err := requireSingle(q, batch); err != nil {
			return err
		}
		if !FixedChoiceMatch(q, batch[0].value()) {
			return invalid(ReasonNotOption).question(q.UUID)
		}
		return nil

	case models.QuestionRange:
		if err := requireSingle(q, batch); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(batch[0].value()), 64)
		if err != nil {
			return invalid(ReasonNotNumber).question(q.UUID)
		}
		lo, hi, interval, err := RangeBounds(q)
		if err != nil {
			return err
		}
		if !(lo <= v && v <= hi) {
			return invalid(ReasonOutOfRange).question(q.UUID)
		}
		if math.Mod(v-lo, interval) != 0 {
			return invalid(ReasonNotOnInterval).question(q.UUID)
		}
		return nil

	default:
		return invalid(ReasonUnknownType).question(q.UUID)
	}
}

// FixedChoiceMatch reports whether value equals the value of one of q's options.
func FixedChoiceMatch(q *models.Question, value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// HasDuplicateValues reports whether two answers share the same value.
func HasDuplicateValues(batch []ProposedAnswer) bool {
	seen := make(map[string]struct{}, len(batch))
	for _, a := range batch {
		if _, ok := seen[a.value()]; ok {
			return true
		}
		seen[a.value()] = struct{}{}
	}
	return false
}

// RangeBounds parses the range start, range end and interval options of q.
func RangeBounds(q *models.Question) (lo, hi, interval float64, err error) {
	values := make(map[models.OptionKind]float64, 3)
	for _, kind := range []models.OptionKind{models.OptionRangeStart, models.OptionRangeEnd, models.OptionInterval} {
		opts := q.OptionsOfKind(kind)
		if len(opts) == 0 {
			return 0, 0, 0, invalid(ReasonMissingRangeOption).question(q.UUID).field(kind.String())
		}
		f, perr := strconv.ParseFloat(strings.TrimSpace(opts[0].Value), 64)
		if perr != nil {
			return 0, 0, 0, invalid(ReasonBadRangeOption).question(q.UUID).field(kind.String()).wrap(perr)
		}
		values[kind] = f
	}
	lo, hi, interval = values[models.OptionRangeStart], values[models.OptionRangeEnd], values[models.OptionInterval]
	if !(interval > 0) {
		return 0, 0, 0, invalid(ReasonBadRangeOption).question(q.UUID).field(models.OptionInterval.String())
	}
	return lo, hi, interval, nil
}

func requireSingle(q *models.Question, batch []ProposedAnswer) error {
	if len(batch) != 1 {
		return invalid(ReasonTooManyAnswers).question(q.UUID)
	}
	return nil
}

func isInteger(v string) bool {
	_, ok := new(big.Int).SetString(strings.TrimSpace(v), 10)
	return ok
}

package models

import "fmt"

// QuestionKind is the closed set of question type codes.
type QuestionKind int

const (
	QuestionFreeText    QuestionKind = 0
	QuestionInteger     QuestionKind = 1
	QuestionCheckbox    QuestionKind = 2
	QuestionRadio       QuestionKind = 3
	QuestionDropDown    QuestionKind = 4
	QuestionRange       QuestionKind = 5
	QuestionMultiSelect QuestionKind = 6
)

// QuestionKinds lists every known kind in code order.
var QuestionKinds = []QuestionKind{
	QuestionFreeText,
	QuestionInteger,
	QuestionCheckbox,
	QuestionRadio,
	QuestionDropDown,
	QuestionRange,
	QuestionMultiSelect,
}

func (k QuestionKind) Valid() bool {
	return k >= QuestionFreeText && k <= QuestionMultiSelect
}

func (k QuestionKind) String() string {
	switch k {
	case QuestionFreeText:
		return "free_text"
	case QuestionInteger:
		return "integer"
	case QuestionCheckbox:
		return "checkbox"
	case QuestionRadio:
		return "radio"
	case QuestionDropDown:
		return "drop_down"
	case QuestionRange:
		return "range"
	case QuestionMultiSelect:
		return "multi_select"
	default:
		return fmt.Sprintf("question_kind(%d)", int(k))
	}
}

// AllowsOptions reports whether questions of this kind may carry options.
func (k QuestionKind) AllowsOptions() bool {
	switch k {
	case QuestionFreeText, QuestionInteger:
		return false
	default:
		return k.Valid()
	}
}

// MultiValued reports whether one question may receive several answers in a batch.
func (k QuestionKind) MultiValued() bool {
	return k == QuestionCheckbox || k == QuestionMultiSelect
}

// OptionKind is the closed set of question option type codes.
type OptionKind int

const (
	OptionFixed      OptionKind = 0
	OptionFreeText   OptionKind = 1
	OptionRangeStart OptionKind = 2
	OptionRangeEnd   OptionKind = 3
	OptionInterval   OptionKind = 4
)

var OptionKinds = []OptionKind{
	OptionFixed,
	OptionFreeText,
	OptionRangeStart,
	OptionRangeEnd,
	OptionInterval,
}

func (k OptionKind) Valid() bool {
	return k >= OptionFixed && k <= OptionInterval
}

func (k OptionKind) String() string {
	switch k {
	case OptionFixed:
		return "fixed"
	case OptionFreeText:
		return "free_text"
	case OptionRangeStart:
		return "range_start"
	case OptionRangeEnd:
		return "range_end"
	case OptionInterval:
		return "interval"
	default:
		return fmt.Sprintf("option_kind(%d)", int(k))
	}
}

// SeedID is the stable identifier of the reference row for this kind.
func (k QuestionKind) SeedID() string { return k.String() }

func (k OptionKind) SeedID() string { return k.String() }

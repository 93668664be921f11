package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/vnkhanh/questions-server/utils"
)

// AnswerPatch lists the only answer fields a caller may change.
type AnswerPatch struct {
	Value *string `json:"value"`
	Text  *string `json:"text"`
}

func DecodeAnswerPatch(r io.Reader) (AnswerPatch, error) {
	var p AnswerPatch
	err := decodePatch(r, &p)
	return p, err
}

func (p AnswerPatch) check() error {
	if p.Value != nil && *p.Value == "" {
		return invalid(ReasonEmptyField).field("value")
	}
	if p.Text != nil && *p.Text == "" {
		return invalid(ReasonEmptyField).field("text")
	}
	return nil
}

func (p AnswerPatch) changes() map[string]interface{} {
	m := make(map[string]interface{}, 2)
	if p.Value != nil {
		m["value"] = *p.Value
	}
	if p.Text != nil {
		m["text"] = *p.Text
	}
	return m
}

// SurveyPatch lists the only survey fields a caller may change. Both take
// ISO 8601 timestamps.
type SurveyPatch struct {
	Completed *string `json:"completed"`
	Declined  *string `json:"declined"`
}

func DecodeSurveyPatch(r io.Reader) (SurveyPatch, error) {
	var p SurveyPatch
	err := decodePatch(r, &p)
	return p, err
}

func (p SurveyPatch) changes() (map[string]interface{}, error) {
	m := make(map[string]interface{}, 4)
	for _, f := range []struct {
		name  string
		value *string
	}{{"completed", p.Completed}, {"declined", p.Declined}} {
		if f.value == nil {
			continue
		}
		if *f.value == "" {
			return nil, invalid(ReasonEmptyField).field(f.name)
		}
		t, err := utils.ParseISO8601(*f.value)
		if err != nil {
			return nil, invalid(ReasonInvalidField).field(f.name).wrap(err)
		}
		ts, tz := utils.SplitTimestamp(t)
		m[f.name] = ts
		m[f.name+"_tz"] = tz
	}
	return m, nil
}

const unknownFieldPrefix = "json: unknown field "

// decodePatch decodes one JSON object into dst, rejecting keys dst does not declare.
func decodePatch(r io.Reader, dst interface{}) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return invalid(ReasonInvalidField).wrap(errors.New("empty request body"))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if msg := err.Error(); strings.HasPrefix(msg, unknownFieldPrefix) {
			return invalid(ReasonFieldNotUpdatable).field(strings.Trim(strings.TrimPrefix(msg, unknownFieldPrefix), `"`))
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return invalid(ReasonInvalidField).field(typeErr.Field).wrap(err)
		}
		return invalid(ReasonInvalidField).wrap(err)
	}
	return nil
}

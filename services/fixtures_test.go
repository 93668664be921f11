package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vnkhanh/questions-server/internal/testdb"
	"github.com/vnkhanh/questions-server/models"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	answers   *AnswerService
	questions *QuestionService
	surveys   *SurveyService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	if err := db.Create(&models.Group{Base: models.Base{UUID: "group-diabetes"}, Name: "diabetes"}).Error; err != nil {
		t.Fatalf("create group: %v", err)
	}
	return &fixture{
		db:        db,
		answers:   NewAnswerService(db),
		questions: NewQuestionService(db),
		surveys:   NewSurveyService(db),
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func fixed(values ...string) []OptionRequest {
	out := make([]OptionRequest, len(values))
	for i, v := range values {
		out[i] = OptionRequest{OptionType: intPtr(int(models.OptionFixed)), Value: strPtr(v), Order: intPtr(i)}
	}
	return out
}

func bounds(start, end, interval string) []OptionRequest {
	return []OptionRequest{
		{OptionType: intPtr(int(models.OptionRangeStart)), Value: strPtr(start)},
		{OptionType: intPtr(int(models.OptionRangeEnd)), Value: strPtr(end)},
		{OptionType: intPtr(int(models.OptionInterval)), Value: strPtr(interval)},
	}
}

func (f *fixture) question(t *testing.T, kind models.QuestionKind, opts []OptionRequest) *models.Question {
	t.Helper()
	q, err := f.questions.CreateQuestion(context.Background(), QuestionRequest{
		Question:     "question " + kind.String(),
		QuestionType: TypeRef{Value: intPtr(int(kind))},
		Options:      opts,
		Groups:       []GroupRef{{Group: "diabetes"}},
	})
	if err != nil {
		t.Fatalf("create %s question: %v", kind, err)
	}
	return q
}

func (f *fixture) survey(t *testing.T) *models.Survey {
	t.Helper()
	sv, err := f.surveys.CreateSurvey(context.Background(), SurveyRequest{Group: "diabetes", UserID: "patient-1", UserType: "patient"})
	if err != nil {
		t.Fatalf("create survey: %v", err)
	}
	return sv
}

func expectKind(t *testing.T, err error, kind error) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", kind)
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if se.Kind != kind {
		t.Fatalf("kind = %v, want %v (%v)", se.Kind, kind, err)
	}
	return se
}

package routes

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/questions-server/config"
	"github.com/vnkhanh/questions-server/internal/testdb"
	"github.com/vnkhanh/questions-server/models"
	"github.com/vnkhanh/questions-server/utils"
)

const (
	clinicianScopes = "write:gdm_question read:gdm_question write:gdm_survey read:gdm_survey_all write:gdm_answer_all read:gdm_answer_all"
	patientScopes   = "read:gdm_question read:gdm_survey write:gdm_answer read:gdm_answer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "routes-test-secret")
	os.Setenv("ANSWER_RATE_BURST", "1000")
	os.Exit(m.Run())
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	prev := config.DB
	config.DB = testdb.New(t)
	t.Cleanup(func() { config.DB = prev })

	r := gin.New()
	SetupRoutes(r)
	return &api{t: t, router: r}
}

func bearer(t *testing.T, claims utils.JWTClaims) string {
	t.Helper()
	tok, err := utils.GenerateToken(claims, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok
}

func (a *api) call(method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, "/dhos/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d: %s", w.Code, want, w.Body.String())
	}
}

// setup creates an integer question, a radio question and a survey for patient p-1.
func (a *api) setup(clinician string) (intQ, radioQ, surveyID string) {
	t := a.t
	t.Helper()

	w := a.call("POST", "/question", clinician, gin.H{
		"question":      "How many hypos this week?",
		"question_type": gin.H{"value": 1},
		"groups":        []gin.H{{"group": "gdm"}},
	})
	expectStatus(t, w, http.StatusOK)
	var q1 models.Question
	decode(t, w, &q1)

	w = a.call("POST", "/question", clinician, gin.H{
		"question":      "Did you exercise?",
		"question_type": gin.H{"value": 3},
		"question_options": []gin.H{
			{"question_option_type": 0, "value": "yes", "text": "Yes", "order": 1},
			{"question_option_type": 0, "value": "no", "text": "No", "order": 2},
		},
		"groups": []gin.H{{"group": "gdm"}},
	})
	expectStatus(t, w, http.StatusOK)
	var q2 models.Question
	decode(t, w, &q2)

	w = a.call("POST", "/survey", clinician, gin.H{"group": "gdm", "user_id": "p-1", "user_type": "patient"})
	expectStatus(t, w, http.StatusOK)
	var sv map[string]interface{}
	decode(t, w, &sv)

	return q1.UUID, q2.UUID, sv["uuid"].(string)
}

func TestAuthRequired(t *testing.T) {
	a := newAPI(t)
	expectStatus(t, a.call("GET", "/survey", "", nil), http.StatusUnauthorized)

	patient := bearer(t, utils.JWTClaims{PatientID: "p-1", Scope: patientScopes})
	expectStatus(t, a.call("GET", "/survey", patient, nil), http.StatusForbidden)
	expectStatus(t, a.call("POST", "/question", patient, gin.H{}), http.StatusForbidden)
}

func TestSurveyAnswerFlow(t *testing.T) {
	a := newAPI(t)
	clinician := bearer(t, utils.JWTClaims{ClinicianID: "c-1", Scope: clinicianScopes})
	patient := bearer(t, utils.JWTClaims{PatientID: "p-1", Scope: patientScopes})
	intQ, radioQ, surveyID := a.setup(clinician)

	w := a.call("GET", "/survey/"+surveyID+"/question", patient, nil)
	expectStatus(t, w, http.StatusOK)
	var qs []models.Question
	decode(t, w, &qs)
	if len(qs) != 2 {
		t.Fatalf("survey questions = %d", len(qs))
	}

	w = a.call("POST", "/survey/"+surveyID+"/answer", patient, []gin.H{
		{"question_id": intQ, "value": "56"},
		{"question_id": radioQ, "value": "yes"},
	})
	expectStatus(t, w, http.StatusOK)
	var created []models.Answer
	decode(t, w, &created)
	if len(created) != 2 || created[0].SurveyID != surveyID {
		t.Fatalf("created = %+v", created)
	}

	w = a.call("GET", "/survey/"+surveyID, patient, nil)
	expectStatus(t, w, http.StatusOK)
	var sv map[string]interface{}
	decode(t, w, &sv)
	if _, ok := sv["completed"]; !ok {
		t.Fatalf("survey not marked completed: %v", sv)
	}
	if sv["group"].(map[string]interface{})["group"] != "gdm" {
		t.Fatalf("group = %v", sv["group"])
	}

	w = a.call("POST", "/survey/"+surveyID+"/answer", patient, []gin.H{{"question_id": intQ, "value": "57"}})
	expectStatus(t, w, http.StatusConflict)

	w = a.call("GET", "/survey/"+surveyID+"/answer", patient, nil)
	expectStatus(t, w, http.StatusOK)
	var listed []models.Answer
	decode(t, w, &listed)
	if len(listed) != 2 {
		t.Fatalf("listed = %d", len(listed))
	}

	w = a.call("GET", fmt.Sprintf("/survey/%s/question/%s/answer", surveyID, radioQ), patient, nil)
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &listed)
	if len(listed) != 1 || listed[0].Value != "yes" {
		t.Fatalf("radio answers = %+v", listed)
	}

	w = a.call("GET", "/answer/"+created[0].UUID, patient, nil)
	expectStatus(t, w, http.StatusOK)

	w = a.call("GET", "/answer", clinician, nil)
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &listed)
	if len(listed) != 2 {
		t.Fatalf("all answers = %d", len(listed))
	}
}

func TestAnswerFailuresMapToStatus(t *testing.T) {
	a := newAPI(t)
	clinician := bearer(t, utils.JWTClaims{ClinicianID: "c-1", Scope: clinicianScopes})
	intQ, radioQ, surveyID := a.setup(clinician)

	w := a.call("POST", "/answer", clinician, []gin.H{
		{"survey_id": surveyID, "question_id": radioQ, "value": "yes"},
		{"survey_id": surveyID, "question_id": intQ, "value": "no"},
	})
	expectStatus(t, w, http.StatusBadRequest)
	var body map[string]interface{}
	decode(t, w, &body)
	if body["message"] != "not an integer" || body["question_id"] != intQ {
		t.Fatalf("body = %v", body)
	}

	w = a.call("GET", "/survey/"+surveyID+"/answer", clinician, nil)
	var listed []models.Answer
	decode(t, w, &listed)
	if len(listed) != 0 {
		t.Fatalf("failed batch persisted %d answers", len(listed))
	}

	w = a.call("POST", "/answer", clinician, []gin.H{{"survey_id": "missing", "question_id": intQ, "value": "1"}})
	expectStatus(t, w, http.StatusNotFound)

	w = a.call("POST", "/answer", clinician, `{"not": "a list"}`)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestEmptyFreeTextAnswerStored(t *testing.T) {
	a := newAPI(t)
	clinician := bearer(t, utils.JWTClaims{ClinicianID: "c-1", Scope: clinicianScopes})
	_, _, surveyID := a.setup(clinician)

	w := a.call("POST", "/question", clinician, gin.H{
		"question":      "Anything else?",
		"question_type": gin.H{"value": 0},
		"groups":        []gin.H{{"group": "gdm"}},
	})
	expectStatus(t, w, http.StatusOK)
	var q models.Question
	decode(t, w, &q)

	w = a.call("POST", "/survey/"+surveyID+"/answer", clinician, []gin.H{{"question_id": q.UUID, "value": ""}})
	expectStatus(t, w, http.StatusOK)
	var created []models.Answer
	decode(t, w, &created)
	if len(created) != 1 || created[0].Value != "" || created[0].QuestionID != q.UUID {
		t.Fatalf("created = %+v", created)
	}

	expectStatus(t, a.call("POST", "/answer", clinician, []gin.H{{"survey_id": surveyID, "question_id": q.UUID}}), http.StatusBadRequest)
}

func TestOwnerCannotAnswerAnotherSurvey(t *testing.T) {
	a := newAPI(t)
	clinician := bearer(t, utils.JWTClaims{ClinicianID: "c-1", Scope: clinicianScopes})
	intQ, _, surveyID := a.setup(clinician)
	other := bearer(t, utils.JWTClaims{PatientID: "p-2", Scope: patientScopes})

	expectStatus(t, a.call("POST", "/survey/"+surveyID+"/answer", other, []gin.H{{"question_id": intQ, "value": "1"}}), http.StatusForbidden)
	expectStatus(t, a.call("POST", "/answer", other, []gin.H{{"survey_id": surveyID, "question_id": intQ, "value": "1"}}), http.StatusForbidden)
	expectStatus(t, a.call("GET", "/survey/"+surveyID, other, nil), http.StatusForbidden)
}

func TestPatchEndpoints(t *testing.T) {
	a := newAPI(t)
	clinician := bearer(t, utils.JWTClaims{ClinicianID: "c-1", Scope: clinicianScopes})
	intQ, _, surveyID := a.setup(clinician)

	w := a.call("POST", "/answer", clinician, []gin.H{{"survey_id": surveyID, "question_id": intQ, "value": "3"}})
	expectStatus(t, w, http.StatusOK)
	var created []models.Answer
	decode(t, w, &created)
	id := created[0].UUID

	w = a.call("PATCH", "/answer/"+id, clinician, `{"question_id": "x"}`)
	expectStatus(t, w, http.StatusBadRequest)
	var body map[string]interface{}
	decode(t, w, &body)
	if body["message"] != "field not updatable" || body["field"] != "question_id" {
		t.Fatalf("body = %v", body)
	}

	expectStatus(t, a.call("PATCH", "/answer/"+id, clinician, `{"value": ""}`), http.StatusBadRequest)

	w = a.call("PATCH", "/answer/"+id, clinician, `{"value": "4"}`)
	expectStatus(t, w, http.StatusOK)
	var updated models.Answer
	decode(t, w, &updated)
	if updated.Value != "4" || updated.QuestionID != intQ {
		t.Fatalf("updated = %+v", updated)
	}

	expectStatus(t, a.call("PATCH", "/answer/missing", clinician, `{"value": "4"}`), http.StatusNotFound)

	expectStatus(t, a.call("PATCH", "/survey/"+surveyID, clinician, `{"user_id": "p-9"}`), http.StatusBadRequest)
	w = a.call("PATCH", "/survey/"+surveyID, clinician, `{"declined": "2021-05-01T08:00:00.000+01:00"}`)
	expectStatus(t, w, http.StatusOK)
	var sv map[string]interface{}
	decode(t, w, &sv)
	if sv["declined"] != "2021-05-01T08:00:00+01:00" {
		t.Fatalf("declined = %v", sv["declined"])
	}
}

func TestSurveyResponsesCSV(t *testing.T) {
	a := newAPI(t)
	clinician := bearer(t, utils.JWTClaims{ClinicianID: "c-1", Scope: clinicianScopes})
	intQ, _, surveyID := a.setup(clinician)

	in := models.Answer{Base: models.Base{UUID: "in"}, SurveyID: surveyID, QuestionID: intQ, Value: "12"}
	in.Created = time.Date(2021, 3, 2, 23, 0, 0, 0, time.UTC)
	in.Modified = in.Created
	out := models.Answer{Base: models.Base{UUID: "out"}, SurveyID: "s-2", QuestionID: intQ, Value: "13"}
	out.Created = time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC)
	out.Modified = out.Created
	for _, row := range []*models.Answer{&in, &out} {
		if err := config.DB.Create(row).Error; err != nil {
			t.Fatal(err)
		}
	}

	w := a.call("GET", "/survey_responses?start_date=2021-03-01&end_date=2021-03-02", clinician, nil)
	expectStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "data.csv") {
		t.Fatalf("content disposition = %q", cd)
	}
	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"created", "survey_id", "question", "answer"},
		{"2021-03-02T23:00:00Z", surveyID, "How many hypos this week?", "12"},
	}
	if fmt.Sprint(records) != fmt.Sprint(want) {
		t.Fatalf("csv = %v, want %v", records, want)
	}

	expectStatus(t, a.call("GET", "/survey_responses?start_date=March", clinician, nil), http.StatusBadRequest)

	patient := bearer(t, utils.JWTClaims{PatientID: "p-1", Scope: patientScopes})
	expectStatus(t, a.call("GET", "/survey_responses", patient, nil), http.StatusForbidden)
}

func TestDevelopmentRoutes(t *testing.T) {
	a := newAPI(t)
	clinician := bearer(t, utils.JWTClaims{ClinicianID: "c-1", Scope: clinicianScopes})
	system := bearer(t, utils.JWTClaims{SystemID: "dhos-robot"})
	a.setup(clinician)

	w := a.call("GET", "/question", clinician, nil)
	expectStatus(t, w, http.StatusOK)
	var qs []models.Question
	decode(t, w, &qs)
	if len(qs) != 2 {
		t.Fatalf("questions = %d", len(qs))
	}

	t.Setenv("ALLOW_DROP_DATA", "false")
	expectStatus(t, a.call("POST", "/drop_data", system, nil), http.StatusForbidden)
	expectStatus(t, a.call("POST", "/drop_data", clinician, nil), http.StatusForbidden)

	t.Setenv("ALLOW_DROP_DATA", "true")
	expectStatus(t, a.call("POST", "/drop_data", system, nil), http.StatusOK)

	var count int64
	config.DB.Unscoped().Model(&models.Question{}).Count(&count)
	if count != 0 {
		t.Fatalf("questions after drop = %d", count)
	}
	config.DB.Model(&models.QuestionType{}).Count(&count)
	if count != int64(len(models.QuestionKinds)) {
		t.Fatalf("reference types after drop = %d", count)
	}
}

func TestQuestionTypeEndpoints(t *testing.T) {
	a := newAPI(t)
	clinician := bearer(t, utils.JWTClaims{ClinicianID: "c-1", Scope: clinicianScopes})

	expectStatus(t, a.call("POST", "/question_type", clinician, gin.H{"value": 2}), http.StatusConflict)
	expectStatus(t, a.call("POST", "/question_type", clinician, gin.H{"value": 678}), http.StatusBadRequest)
	expectStatus(t, a.call("POST", "/question_option_type", clinician, gin.H{"value": 0}), http.StatusConflict)
	expectStatus(t, a.call("POST", "/question_option_type", clinician, gin.H{}), http.StatusBadRequest)

	expectStatus(t, a.call("GET", "/question/missing", clinician, nil), http.StatusNotFound)
	expectStatus(t, a.call("POST", "/survey", clinician, gin.H{"group": "nope", "user_id": "p", "user_type": "patient"}), http.StatusNotFound)
}

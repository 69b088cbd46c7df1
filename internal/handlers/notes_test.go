package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gotest.tools/v3/assert"

	"clinical-scribe-server/internal/config"
)

// fakeGenerator records calls so tests can assert the external service is
// never reached on validation failures.
type fakeGenerator struct {
	note  string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateNote(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.note, nil
}

func newGenerateRouter(gen *fakeGenerator, apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{OpenAI: config.OpenAIConfig{APIKey: apiKey, Model: "test-model"}}
	handler := NewNoteHandler(nil, cfg, gen)

	router := gin.New()
	router.POST("/api/v1/notes/generate", handler.GenerateNote)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateNoteRejectsEmptyTranscript(t *testing.T) {
	gen := &fakeGenerator{note: "should not be used"}
	router := newGenerateRouter(gen, "sk-test")

	for _, body := range []string{
		`{"transcript":"","context":"imc-followup"}`,
		`{"transcript":"   \n\t ","context":"imc-followup"}`,
		`{"context":"imc-followup"}`,
	} {
		rec := postJSON(t, router, "/api/v1/notes/generate", body)
		assert.Equal(t, rec.Code, http.StatusBadRequest)

		var resp map[string]string
		assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Assert(t, strings.Contains(resp["error"], "transcript"))
	}

	// Validation failures must never reach the external generator.
	assert.Equal(t, gen.calls, 0)
}

func TestGenerateNoteMissingCredentialIsServerError(t *testing.T) {
	gen := &fakeGenerator{note: "should not be used"}
	router := newGenerateRouter(gen, "")

	rec := postJSON(t, router, "/api/v1/notes/generate",
		`{"transcript":"patient seen today","context":"imc-followup"}`)

	assert.Equal(t, rec.Code, http.StatusInternalServerError)
	assert.Equal(t, gen.calls, 0)

	var resp map[string]string
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Assert(t, strings.Contains(resp["error"], "not configured"))
}

func TestGenerateNoteReturnsNoteAndEchoesSnapshot(t *testing.T) {
	gen := &fakeGenerator{note: "Drafted clinical note."}
	router := newGenerateRouter(gen, "sk-test")

	rec := postJSON(t, router, "/api/v1/notes/generate", `{
		"transcript": "patient seen today",
		"context": "cardiology-followup",
		"patientContext": {"patientId": "p1", "patientName": "Jane Doe", "patientMRN": "ABC-100"}
	}`)

	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, gen.calls, 1)

	var resp GenerateNoteResponse
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, resp.Note, "Drafted clinical note.")
	assert.Assert(t, resp.PatientContext != nil)
	assert.Equal(t, resp.PatientContext.PatientName, "Jane Doe")
	assert.Equal(t, resp.PatientContext.PatientMRN, "ABC-100")
}

func TestGenerateNoteWithoutSnapshotEmitsNullContext(t *testing.T) {
	gen := &fakeGenerator{note: "note text"}
	router := newGenerateRouter(gen, "sk-test")

	rec := postJSON(t, router, "/api/v1/notes/generate",
		`{"transcript":"patient seen today","context":"psych-intake"}`)

	assert.Equal(t, rec.Code, http.StatusOK)
	// The response shape is the superset: patientContext is present and null.
	assert.Assert(t, strings.Contains(rec.Body.String(), `"patientContext":null`))
}

func TestGenerateNoteUpstreamFailureIsGeneric(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded: transcript was 'sensitive'")}
	router := newGenerateRouter(gen, "sk-test")

	rec := postJSON(t, router, "/api/v1/notes/generate",
		`{"transcript":"patient seen today","context":"imc-transfer"}`)

	assert.Equal(t, rec.Code, http.StatusInternalServerError)
	assert.Equal(t, gen.calls, 1)

	// The upstream error text must not leak to the caller.
	var resp map[string]string
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, resp["error"], "Failed to generate note")
	assert.Assert(t, !strings.Contains(rec.Body.String(), "quota"))
}

func TestGenerateNoteUnknownContextStillSucceeds(t *testing.T) {
	gen := &fakeGenerator{note: "note text"}
	router := newGenerateRouter(gen, "sk-test")

	rec := postJSON(t, router, "/api/v1/notes/generate",
		`{"transcript":"patient seen today","context":"dermatology-intake"}`)

	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, gen.calls, 1)
}

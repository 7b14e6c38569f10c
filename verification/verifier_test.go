package verification

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/models"
)

const (
	testEvidenceURL = "https://cdn.example.com/evidence/pothole.jpg"
	testGeminiURL   = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
)

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	gemini := NewGeminiClient("test-key", "gemini-1.5-flash", 5*time.Second)
	return NewVerifier(gemini, 5*time.Second)
}

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func registerEvidenceResponder(t *testing.T) {
	t.Helper()
	httpmock.RegisterResponder(http.MethodGet, testEvidenceURL,
		func(req *http.Request) (*http.Response, error) {
			resp := httpmock.NewBytesResponse(http.StatusOK, []byte{0xFF, 0xD8, 0xFF})
			resp.Header.Set("Content-Type", "image/jpeg")
			return resp, nil
		})
}

// geminiReply wraps a model text reply in the generateContent response shape.
func geminiReply(t *testing.T, text string) string {
	t.Helper()
	reply, err := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	require.NoError(t, err)
	return string(reply)
}

func TestVerify_NoEvidenceShortCircuits(t *testing.T) {
	setupHTTPMock(t)

	verifier := newTestVerifier(t)
	verdict := verifier.Verify(context.Background(), "", "a pothole")

	assert.Equal(t, models.AiUncertain, verdict.Status)
	assert.Equal(t, 0.0, verdict.Confidence)
	assert.Equal(t, "No evidence provided for analysis.", verdict.Analysis)
	assert.Equal(t, 0, httpmock.GetTotalCallCount(), "no external call may happen without evidence")
}

func TestVerify_Success(t *testing.T) {
	setupHTTPMock(t)
	registerEvidenceResponder(t)
	httpmock.RegisterResponder(http.MethodPost, testGeminiURL,
		httpmock.NewStringResponder(http.StatusOK,
			geminiReply(t, `{"status":"REAL","confidence":0.92,"analysis":"Visible pothole matches description."}`)))

	verifier := newTestVerifier(t)
	verdict := verifier.Verify(context.Background(), testEvidenceURL, "Pothole on Main St")

	assert.Equal(t, models.AiReal, verdict.Status)
	assert.InDelta(t, 0.92, verdict.Confidence, 0.001)
	assert.Equal(t, "Visible pothole matches description.", verdict.Analysis)

	// Exactly one classification call per submission.
	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["POST "+testGeminiURL])
}

func TestVerify_StripsCodeFences(t *testing.T) {
	setupHTTPMock(t)
	registerEvidenceResponder(t)
	httpmock.RegisterResponder(http.MethodPost, testGeminiURL,
		httpmock.NewStringResponder(http.StatusOK,
			geminiReply(t, "```json\n{\"status\":\"FAKE\",\"confidence\":0.7,\"analysis\":\"Looks AI-generated.\"}\n```")))

	verifier := newTestVerifier(t)
	verdict := verifier.Verify(context.Background(), testEvidenceURL, "")

	assert.Equal(t, models.AiFake, verdict.Status)
	assert.InDelta(t, 0.7, verdict.Confidence, 0.001)
}

func TestVerify_DegradesToUncertain(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name: "evidence fetch network error",
			setup: func(t *testing.T) {
				httpmock.RegisterResponder(http.MethodGet, testEvidenceURL,
					httpmock.NewErrorResponder(assert.AnError))
			},
		},
		{
			name: "evidence fetch non-200",
			setup: func(t *testing.T) {
				httpmock.RegisterResponder(http.MethodGet, testEvidenceURL,
					httpmock.NewStringResponder(http.StatusNotFound, "gone"))
			},
		},
		{
			name: "gemini server error",
			setup: func(t *testing.T) {
				registerEvidenceResponder(t)
				httpmock.RegisterResponder(http.MethodPost, testGeminiURL,
					httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))
			},
		},
		{
			name: "gemini reply is not JSON",
			setup: func(t *testing.T) {
				registerEvidenceResponder(t)
				httpmock.RegisterResponder(http.MethodPost, testGeminiURL,
					httpmock.NewStringResponder(http.StatusOK,
						geminiReply(t, "I believe this is a real pothole.")))
			},
		},
		{
			name: "gemini reply has unknown status",
			setup: func(t *testing.T) {
				registerEvidenceResponder(t)
				httpmock.RegisterResponder(http.MethodPost, testGeminiURL,
					httpmock.NewStringResponder(http.StatusOK,
						geminiReply(t, `{"status":"MAYBE","confidence":0.5,"analysis":"hmm"}`)))
			},
		},
		{
			name: "gemini response has no candidates",
			setup: func(t *testing.T) {
				registerEvidenceResponder(t)
				httpmock.RegisterResponder(http.MethodPost, testGeminiURL,
					httpmock.NewStringResponder(http.StatusOK, `{"candidates":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHTTPMock(t)
			tt.setup(t)

			verifier := newTestVerifier(t)
			verdict := verifier.Verify(context.Background(), testEvidenceURL, "a pothole")

			assert.Equal(t, models.AiUncertain, verdict.Status)
			assert.Equal(t, 0.0, verdict.Confidence)
			assert.Equal(t, "AI verification unavailable at this time.", verdict.Analysis)
		})
	}
}

func TestVerify_ClampsConfidence(t *testing.T) {
	setupHTTPMock(t)
	registerEvidenceResponder(t)
	httpmock.RegisterResponder(http.MethodPost, testGeminiURL,
		httpmock.NewStringResponder(http.StatusOK,
			geminiReply(t, `{"status":"REAL","confidence":1.7,"analysis":"very sure"}`)))

	verifier := newTestVerifier(t)
	verdict := verifier.Verify(context.Background(), testEvidenceURL, "")

	assert.Equal(t, models.AiReal, verdict.Status)
	assert.Equal(t, 1.0, verdict.Confidence)
}

func TestVerify_MissingAPIKeyDegrades(t *testing.T) {
	setupHTTPMock(t)
	registerEvidenceResponder(t)

	gemini := NewGeminiClient("", "gemini-1.5-flash", 5*time.Second)
	verifier := NewVerifier(gemini, 5*time.Second)

	verdict := verifier.Verify(context.Background(), testEvidenceURL, "")
	assert.Equal(t, models.AiUncertain, verdict.Status)
	assert.Equal(t, "AI verification unavailable at this time.", verdict.Analysis)
}

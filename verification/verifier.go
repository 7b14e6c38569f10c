package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/models"
)

// Verdict is the outcome of the evidence authenticity check.
type Verdict struct {
	Status     models.AiStatus `json:"status"`
	Confidence float64         `json:"confidence"`
	Analysis   string          `json:"analysis"`
}

// NoEvidenceVerdict is returned when a submission carries no evidence
// URL; no external call is made.
func NoEvidenceVerdict() Verdict {
	return Verdict{
		Status:     models.AiUncertain,
		Confidence: 0,
		Analysis:   "No evidence provided for analysis.",
	}
}

// DegradedVerdict is the fallback for every verification failure mode.
func DegradedVerdict() Verdict {
	return Verdict{
		Status:     models.AiUncertain,
		Confidence: 0,
		Analysis:   "AI verification unavailable at this time.",
	}
}

const verifyPrompt = `
Analyze this image or video of a reported civic issue (e.g., pothole, garbage, broken street light).
Your task is to verify if this is a REAL civic issue or if it looks FAKE / AI-generated / Unrelated.

User Description: %q

Return a single JSON object with these keys:
- status: "REAL" | "FAKE" | "UNCERTAIN"
- confidence: number between 0.0 and 1.0
- analysis: A short explanation (max 1 sentence).

JSON Only.
`

// Verifier runs the fetch-and-classify pipeline for submitted evidence.
// It never fails its caller: every error path degrades to an UNCERTAIN
// verdict so verification unavailability cannot block a submission.
type Verifier struct {
	gemini     *GeminiClient
	httpClient *http.Client
}

// NewVerifier wires a verifier around the given Gemini client. The
// timeout bounds the evidence fetch; the model call carries its own.
func NewVerifier(gemini *GeminiClient, fetchTimeout time.Duration) *Verifier {
	return &Verifier{
		gemini:     gemini,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// Verify fetches the evidence at evidenceURL and asks the model for an
// authenticity verdict. Exactly one model call per invocation, no retry.
func (v *Verifier) Verify(ctx context.Context, evidenceURL, description string) Verdict {
	if evidenceURL == "" {
		return NoEvidenceVerdict()
	}

	media, mimeType, err := v.fetchEvidence(ctx, evidenceURL)
	if err != nil {
		log.Println("Evidence fetch failed:", err)
		return DegradedVerdict()
	}

	prompt := fmt.Sprintf(verifyPrompt, description)
	reply, err := v.gemini.GenerateContent(ctx, prompt, media, mimeType)
	if err != nil {
		log.Println("Gemini analysis failed:", err)
		return DegradedVerdict()
	}

	verdict, err := parseVerdict(reply)
	if err != nil {
		log.Println("Invalid verification reply:", err)
		return DegradedVerdict()
	}
	return verdict
}

func (v *Verifier) fetchEvidence(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("evidence fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return body, mimeType, nil
}

// parseVerdict validates the model's untrusted text reply into a typed
// verdict. The reply may arrive wrapped in markdown code fences.
func parseVerdict(reply string) (Verdict, error) {
	clean := strings.ReplaceAll(reply, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var raw struct {
		Status     string  `json:"status"`
		Confidence float64 `json:"confidence"`
		Analysis   string  `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return Verdict{}, fmt.Errorf("reply is not valid JSON: %w", err)
	}

	switch models.AiStatus(raw.Status) {
	case models.AiReal, models.AiFake, models.AiUncertain:
	default:
		return Verdict{}, fmt.Errorf("unknown verdict status %q", raw.Status)
	}

	confidence := raw.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Verdict{
		Status:     models.AiStatus(raw.Status),
		Confidence: confidence,
		Analysis:   raw.Analysis,
	}, nil
}

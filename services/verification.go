package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"goagent-server/models"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// VerificationService is the adapter around the Gemini API used to assess
// a drive submission's plausibility. It is an oracle, not a verifier:
// repeated calls may disagree, there is no caching, and its only retry is
// one fallback attempt without search grounding. Every failure path
// degrades to a structured INCONCLUSIVE result; Verify never returns an
// error to the status-update path.
type VerificationService struct {
	APIKey   string
	Model    string
	Endpoint string
	Client   *http.Client
}

func NewVerificationService() *VerificationService {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}
	endpoint := os.Getenv("GEMINI_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	return &VerificationService{
		APIKey:   os.Getenv("GEMINI_API_KEY"),
		Model:    model,
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 45 * time.Second},
	}
}

// Request/response shapes for the generateContent REST API. Only the
// fields we read are declared.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiTool struct {
	GoogleSearch map[string]interface{} `json:"google_search,omitempty"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	Tools    []geminiTool    `json:"tools,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []struct {
				Web struct {
					Title string `json:"title"`
					URI   string `json:"uri"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// verdictPayload is the JSON object the model is asked to emit. Score is
// untyped so a quoted or missing value degrades to 0 instead of failing
// the whole parse.
type verdictPayload struct {
	Score    interface{}                 `json:"score"`
	Verdict  string                      `json:"verdict"`
	Findings string                      `json:"findings"`
	Sources  []models.VerificationSource `json:"sources"`
}

// Verify asks the oracle for a verdict on the submission. The first
// attempt uses Google Search grounding; if that call fails or its answer
// cannot be parsed, one plain attempt is made before degrading.
func (vs *VerificationService) Verify(ctx context.Context, sub *models.DriveSubmission) models.VerificationResult {
	if vs.APIKey == "" {
		return inconclusive("Verification unavailable: GEMINI_API_KEY is not configured.")
	}

	prompt := vs.buildPrompt(sub)

	result, err := vs.generate(ctx, prompt, true)
	if err == nil {
		return result
	}

	// Single best-effort fallback without the search tool
	result, fallbackErr := vs.generate(ctx, prompt, false)
	if fallbackErr == nil {
		return result
	}

	return inconclusive(fmt.Sprintf("Verification failed: %v (fallback: %v)", err, fallbackErr))
}

func (vs *VerificationService) buildPrompt(sub *models.DriveSubmission) string {
	return fmt.Sprintf(`You are a field-visit auditor for EstateGO, a Nigerian property onboarding program.
Assess whether this reported property lead is plausible and real:
Property: %s
Address: %s, %s
Category/Type: %s / %s
Claimed units: %d, occupancy: %d%%
%s

Respond with ONLY a JSON object, no prose and no code fences:
{"score": <0-100 integer, confidence the lead is genuine>, "verdict": "AUTHENTIC" | "SUSPICIOUS" | "INCONCLUSIVE", "findings": "<3 sentences max>"}`,
		sub.PropertyName,
		sub.PropertyAddress, sub.StateLocation,
		sub.PropertyCategory, sub.PropertyType,
		sub.NoOfUnits, sub.OccupancyRate,
		DescribeCaptureLocation(sub),
	)
}

func (vs *VerificationService) generate(ctx context.Context, prompt string, withSearch bool) (models.VerificationResult, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if withSearch {
		reqBody.Tools = []geminiTool{{GoogleSearch: map[string]interface{}{}}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return models.VerificationResult{}, err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", vs.Endpoint, vs.Model, vs.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return models.VerificationResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := vs.Client.Do(req)
	if err != nil {
		return models.VerificationResult{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return models.VerificationResult{}, err
	}

	var geminiRes geminiResponse
	if err := json.Unmarshal(body, &geminiRes); err != nil {
		return models.VerificationResult{}, fmt.Errorf("malformed oracle response: %v", err)
	}
	if geminiRes.Error.Message != "" {
		return models.VerificationResult{}, fmt.Errorf("oracle error: %s", geminiRes.Error.Message)
	}
	if len(geminiRes.Candidates) == 0 || len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return models.VerificationResult{}, fmt.Errorf("oracle returned no candidates")
	}

	var text strings.Builder
	for _, part := range geminiRes.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	verdict, err := parseVerdict(text.String())
	if err != nil {
		return models.VerificationResult{}, err
	}

	// Grounding sources win over anything the model put in its JSON
	var sources []models.VerificationSource
	for _, chunk := range geminiRes.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = "Source"
		}
		sources = append(sources, models.VerificationSource{Title: title, URI: chunk.Web.URI})
	}
	if len(sources) > 0 {
		verdict.Sources = sources
	}
	if verdict.Sources == nil {
		verdict.Sources = []models.VerificationSource{}
	}

	return verdict, nil
}

func parseVerdict(text string) (models.VerificationResult, error) {
	// Models wrap JSON in code fences despite instructions; cut them off
	trimmed := strings.TrimSpace(text)
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			trimmed = trimmed[start : end+1]
		}
	}

	var payload verdictPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return models.VerificationResult{}, fmt.Errorf("oracle answer is not valid JSON: %v", err)
	}

	score := 0
	switch v := payload.Score.(type) {
	case float64:
		score = int(v)
	case string:
		if n, convErr := strconv.Atoi(strings.TrimSpace(v)); convErr == nil {
			score = n
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	verdict := strings.ToUpper(strings.TrimSpace(payload.Verdict))
	switch verdict {
	case models.VerdictAuthentic, models.VerdictSuspicious, models.VerdictInconclusive:
	default:
		verdict = models.VerdictInconclusive
	}

	findings := strings.TrimSpace(payload.Findings)
	if findings == "" {
		findings = "The oracle returned no findings."
	}

	return models.VerificationResult{
		Score:    score,
		Verdict:  verdict,
		Findings: findings,
		Sources:  payload.Sources,
	}, nil
}

func inconclusive(reason string) models.VerificationResult {
	return models.VerificationResult{
		Score:    0,
		Verdict:  models.VerdictInconclusive,
		Findings: reason,
		Sources:  []models.VerificationSource{},
	}
}

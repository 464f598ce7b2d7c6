// Package explain adds an optional, strictly non-core stage that asks
// a Gemini model to render an already-computed ProgramReport's
// failures as plain English for a device firmware engineer. It never
// sees or runs source code, and New returns an error without an API
// key configured -- adapted from the teacher's internal/agent/dsl_agent.go
// (system-prompt + JSON-response pattern, markdown-fence cleanup).
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Hyperpolymath/boinc-boinc/internal/report"
)

const systemPrompt = `You are an expert reviewer of static analysis reports for an
embedded-deployment language targeting constrained IoT hardware.
Your role is to read a ProgramReport (phase-separation results, termination
check results, and worst-case resource bounds) and explain, in plain English
aimed at a device firmware engineer, what passed, what failed, and why.

RULES:
1. Do not restate the raw JSON fields; translate them into concrete consequences.
2. If phase separation failed, name the offending function and construct.
3. If termination failed, explain whether it was recursion or an unbounded loop.
4. If resource bounds exceed budget, name which axis (time, memory, network, storage)
   and by how much.
5. Respond ONLY with a single, well-formed JSON object.
6. Do not include markdown, code blocks, or conversational text.

RESPONSE FORMAT:
{
  "summary": "One paragraph, plain-English summary",
  "issues": ["One entry per concrete problem found, empty if the report is valid"]
}`

// Response is the explain stage's structured result.
type Response struct {
	Summary string   `json:"summary"`
	Issues  []string `json:"issues"`
}

// Explainer wraps a genai model configured with this package's system
// prompt.
type Explainer struct {
	model *genai.GenerativeModel
}

// New constructs an Explainer. It returns an error if apiKey is empty
// rather than silently degrading, matching the teacher's own API-key
// gating idiom in main.go.
func New(ctx context.Context, apiKey string) (*Explainer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("explain: OBLIBENY_EXPLAIN_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("explain: failed to create genai client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	return &Explainer{model: model}, nil
}

// Explain asks the model to narrate r.
func (e *Explainer) Explain(ctx context.Context, r *report.ProgramReport) (*Response, error) {
	if e == nil || e.model == nil {
		return nil, fmt.Errorf("explain: explainer is not initialized")
	}

	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("explain: failed to marshal report: %w", err)
	}

	prompt := fmt.Sprintf("ProgramReport JSON:\n%s\n\nExplain this report.", body)
	resp, err := e.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("explain: failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("explain: no response from model")
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return nil, fmt.Errorf("explain: unexpected response part type %T", part)
	}

	log.Debug("explain: raw model response", "response", string(text))
	cleaned := cleanJSONResponse(string(text))

	var out Response
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("explain: failed to parse model response as JSON: %w (cleaned: %s)", err, cleaned)
	}
	return &out, nil
}

// cleanJSONResponse strips a markdown code fence around a JSON object,
// falling back to extracting the span from the first "{" to the last
// "}", and returning response unchanged if neither is valid JSON.
func cleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		if nl := strings.Index(cleaned, "\n"); nl != -1 {
			cleaned = cleaned[nl+1:]
		}
	}
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return cleaned
	}

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last != -1 && last > first {
		extracted := cleaned[first : last+1]
		if json.Valid([]byte(extracted)) {
			return extracted
		}
	}
	return response
}

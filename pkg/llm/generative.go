package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/synaptica-ai/symptomcheck/pkg/common/logger"
	"github.com/synaptica-ai/symptomcheck/pkg/gateway/httpclient"
	"github.com/synaptica-ai/symptomcheck/pkg/scoring"
)

var (
	ErrNoRecognizedCondition = errors.New("the model did not produce a recognizable condition name")
	ErrEmptyCompletion       = errors.New("no response from model")
)

const maxGeneratedConditions = 3

type Generation struct {
	Text       string
	Conditions []string
}

type GenerativeEngine struct {
	client    *http.Client
	baseURL   string
	model     string
	attempts  int
	extractor *Extractor
}

func NewGenerativeEngine(client *http.Client, baseURL, model string, attempts int, conditions []string) *GenerativeEngine {
	return &GenerativeEngine{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		attempts:  attempts,
		extractor: NewExtractor(conditions),
	}
}

// DescribeSymptoms renders symptoms as "fever (severity 4), cough (severity 2)".
func DescribeSymptoms(symptoms []scoring.Symptom) string {
	parts := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		parts = append(parts, fmt.Sprintf("%s (severity %d)", s.Name, s.Severity))
	}
	return strings.Join(parts, ", ")
}

func BuildPrompt(symptoms []scoring.Symptom) string {
	return fmt.Sprintf("The patient has %s. Based on this, list the top 3 most likely medical conditions.", DescribeSymptoms(symptoms))
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for likely conditions and extracts the ones the
// catalog knows. The generated text is returned even when nothing matched.
func (g *GenerativeEngine) Generate(ctx context.Context, symptoms []scoring.Symptom) (Generation, error) {
	prompt := BuildPrompt(symptoms)
	payload := chatRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   100,
	}

	start := time.Now()
	var resp chatResponse
	err := httpclient.Retry(ctx, g.attempts, 200*time.Millisecond, func() error {
		return httpclient.PostJSON(ctx, g.client, g.baseURL+"/chat/completions", payload, &resp)
	})
	if err != nil {
		return Generation{}, fmt.Errorf("calling text generation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Generation{}, ErrEmptyCompletion
	}

	text := resp.Choices[0].Message.Content
	gen := Generation{
		Text:       text,
		Conditions: g.extractor.Extract(text, maxGeneratedConditions),
	}

	logger.Log.WithFields(map[string]interface{}{
		"model":      g.model,
		"symptoms":   len(symptoms),
		"matched":    len(gen.Conditions),
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("text generation completed")

	if len(gen.Conditions) == 0 {
		return gen, ErrNoRecognizedCondition
	}
	return gen, nil
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/synaptica-ai/symptomcheck/pkg/gateway/httpclient"
)

var (
	errEmptyText       = errors.New("text required for classification")
	errMalformedLabels = errors.New("classifier returned mismatched labels and scores")
)

type Candidate struct {
	Label string
	Score float64
}

// ZeroShotEngine ranks the catalog's conditions against a free-text
// description using a remote zero-shot classification endpoint.
type ZeroShotEngine struct {
	client   *http.Client
	url      string
	labels   []string
	attempts int
}

func NewZeroShotEngine(client *http.Client, url string, labels []string, attempts int) *ZeroShotEngine {
	return &ZeroShotEngine{client: client, url: url, labels: labels, attempts: attempts}
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify returns every candidate label ordered by score descending.
func (z *ZeroShotEngine) Classify(ctx context.Context, text string) ([]Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errEmptyText
	}
	payload := zeroShotRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: z.labels},
	}

	var resp zeroShotResponse
	err := httpclient.Retry(ctx, z.attempts, 200*time.Millisecond, func() error {
		return httpclient.PostJSON(ctx, z.client, z.url, payload, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("calling zero-shot classifier: %w", err)
	}
	if len(resp.Labels) != len(resp.Scores) {
		return nil, errMalformedLabels
	}

	out := make([]Candidate, len(resp.Labels))
	for i := range resp.Labels {
		out[i] = Candidate{Label: resp.Labels[i], Score: resp.Scores[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

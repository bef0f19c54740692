package prediction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/synaptica-ai/symptomcheck/pkg/catalog"
	"github.com/synaptica-ai/symptomcheck/pkg/common/logger"
	"github.com/synaptica-ai/symptomcheck/pkg/common/models"
	"github.com/synaptica-ai/symptomcheck/pkg/dlp"
	"github.com/synaptica-ai/symptomcheck/pkg/llm"
	"github.com/synaptica-ai/symptomcheck/pkg/observability/metrics"
	"github.com/synaptica-ai/symptomcheck/pkg/scoring"
	"github.com/synaptica-ai/symptomcheck/pkg/storage"
)

const (
	EventPredictionCompleted = "prediction.completed"
	EventSource              = "symptom-service"

	// DisplayTopK is how many ranked conditions a response carries.
	DisplayTopK = 3

	NoMatchMessage = "The model did not produce a recognizable condition name. Try adding more symptoms or adjusting severity."
)

var (
	ErrEngineUnavailable = errors.New("prediction engine unavailable")
	ErrUnknownEngine     = errors.New("unknown prediction engine")
)

type Generator interface {
	Generate(ctx context.Context, symptoms []scoring.Symptom) (llm.Generation, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) ([]llm.Candidate, error)
}

type ResultCache interface {
	Get(ctx context.Context, key string) (*models.PredictionResponse, bool, error)
	Set(ctx context.Context, key string, resp *models.PredictionResponse) error
}

type Redactor interface {
	Redact(text string) (string, []dlp.Finding)
}

type Publisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// IsValidationError reports request problems the caller can fix.
func IsValidationError(err error) bool {
	return scoring.IsValidationError(err) || errors.Is(err, ErrUnknownEngine)
}

type Service struct {
	catalog    catalog.Catalog
	catalogFP  string
	generator  Generator
	classifier Classifier
	cache      ResultCache
	publisher  Publisher
	redactor   Redactor
}

// NewService wires the engines. generator, classifier, cache and publisher
// may be nil; the matching engine is then unavailable or the step skipped.
func NewService(cat catalog.Catalog, generator Generator, classifier Classifier, cache ResultCache, publisher Publisher) *Service {
	return &Service{
		catalog:    cat,
		catalogFP:  cat.Fingerprint(),
		generator:  generator,
		classifier: classifier,
		cache:      cache,
		publisher:  publisher,
	}
}

// WithRedactor masks personal identifiers in free text before it is cached,
// sent to a model or published.
func (s *Service) WithRedactor(r Redactor) *Service {
	s.redactor = r
	return s
}

func (s *Service) Catalog() catalog.Catalog {
	return s.catalog
}

func (s *Service) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	start := time.Now()
	req.Engine = normalizeEngine(req.Engine)
	if s.redactor != nil && req.Text != "" {
		var findings []dlp.Finding
		req.Text, findings = s.redactor.Redact(req.Text)
		if len(findings) > 0 {
			logger.Log.WithField("findings", findings).Info("Redacted identifiers from free text")
		}
	}

	resp, err := s.predict(ctx, req)
	latency := time.Since(start)
	metrics.ObservePrediction(engineLabel(req.Engine), outcome(err), latency)
	if err != nil {
		return nil, err
	}
	if !resp.Cached {
		resp.LatencyMs = latency.Milliseconds()
	}

	logger.Log.WithFields(map[string]interface{}{
		"prediction_id": resp.ID,
		"engine":        resp.Engine,
		"top_condition": resp.TopCondition,
		"cached":        resp.Cached,
		"latency_ms":    latency.Milliseconds(),
	}).Info("Prediction completed")

	return resp, nil
}

func (s *Service) predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	symptoms := toSymptoms(req.Symptoms)
	if err := validate(req, symptoms); err != nil {
		return nil, err
	}

	key := storage.Key(s.catalogFP, req)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Log.WithError(err).Warn("prediction cache lookup failed")
		}
		metrics.ObserveCache(ok)
		if ok {
			cached.Cached = true
			return cached, nil
		}
	}

	var (
		resp *models.PredictionResponse
		err  error
	)
	switch req.Engine {
	case models.EngineRules:
		resp, err = s.predictRules(symptoms)
	case models.EngineGenerative:
		resp, err = s.predictGenerative(ctx, symptoms)
	case models.EngineZeroShot:
		resp, err = s.predictZeroShot(ctx, req.Text, symptoms)
	}
	if err != nil {
		return nil, err
	}

	resp.ID = uuid.New().String()
	resp.Engine = req.Engine
	resp.CreatedAt = time.Now().UTC()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp); err != nil {
			logger.Log.WithError(err).Warn("failed to cache prediction")
		}
	}
	s.publish(ctx, req, resp)

	return resp, nil
}

func (s *Service) predictRules(symptoms []scoring.Symptom) (*models.PredictionResponse, error) {
	res, err := scoring.Score(s.catalog.Symptoms, symptoms)
	if err != nil {
		return nil, err
	}
	metrics.ObserveUnknownSymptoms(len(res.Unknown))

	resp := &models.PredictionResponse{
		Confidence:      res.Confidence,
		Ranked:          []models.RankedCondition{},
		UnknownSymptoms: res.Unknown,
	}
	for i, e := range res.Top(DisplayTopK) {
		resp.Ranked = append(resp.Ranked, s.enrich(i+1, e.Condition, float64(e.Score), e.Confidence))
	}
	if top, ok := res.TopCondition(); ok {
		resp.TopCondition = top.Condition
	}
	return resp, nil
}

func (s *Service) predictGenerative(ctx context.Context, symptoms []scoring.Symptom) (*models.PredictionResponse, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("%s: %w", models.EngineGenerative, ErrEngineUnavailable)
	}
	gen, err := s.generator.Generate(ctx, symptoms)
	if errors.Is(err, llm.ErrNoRecognizedCondition) || (err == nil && len(gen.Conditions) == 0) {
		return &models.PredictionResponse{Ranked: []models.RankedCondition{}, ModelOutput: gen.Text, Message: NoMatchMessage}, nil
	}
	if err != nil {
		return nil, err
	}

	resp := &models.PredictionResponse{Ranked: []models.RankedCondition{}, ModelOutput: gen.Text}
	for i, cond := range gen.Conditions {
		if i == DisplayTopK {
			break
		}
		resp.Ranked = append(resp.Ranked, s.enrich(i+1, cond, 0, 0))
	}
	resp.TopCondition = resp.Ranked[0].Condition
	return resp, nil
}

func (s *Service) predictZeroShot(ctx context.Context, text string, symptoms []scoring.Symptom) (*models.PredictionResponse, error) {
	if s.classifier == nil {
		return nil, fmt.Errorf("%s: %w", models.EngineZeroShot, ErrEngineUnavailable)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = fmt.Sprintf("The patient has %s.", llm.DescribeSymptoms(symptoms))
	}

	candidates, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	resp := &models.PredictionResponse{Ranked: []models.RankedCondition{}}
	for i, c := range candidates {
		if i == DisplayTopK {
			break
		}
		name := c.Label
		if canonical, ok := s.catalog.CanonicalCondition(name); ok {
			name = canonical
		}
		resp.Ranked = append(resp.Ranked, s.enrich(i+1, name, c.Score, percent(c.Score)))
	}
	if len(resp.Ranked) > 0 {
		resp.TopCondition = resp.Ranked[0].Condition
		resp.Confidence = resp.Ranked[0].Confidence
	}
	return resp, nil
}

func (s *Service) enrich(rank int, condition string, score, confidence float64) models.RankedCondition {
	d := s.catalog.Describe(condition)
	return models.RankedCondition{
		Rank:       rank,
		Condition:  condition,
		Score:      score,
		Confidence: confidence,
		Details: models.ConditionDetails{
			Description: d.Description,
			Treatment:   d.Treatment,
			Advice:      d.Advice,
		},
	}
}

func (s *Service) publish(ctx context.Context, req models.PredictionRequest, resp *models.PredictionResponse) {
	if s.publisher == nil {
		return
	}
	ranked := make([]map[string]interface{}, 0, len(resp.Ranked))
	for _, r := range resp.Ranked {
		ranked = append(ranked, map[string]interface{}{
			"rank":       r.Rank,
			"condition":  r.Condition,
			"score":      r.Score,
			"confidence": r.Confidence,
		})
	}
	symptoms := make([]map[string]interface{}, 0, len(req.Symptoms))
	for _, sym := range req.Symptoms {
		symptoms = append(symptoms, map[string]interface{}{"name": sym.Name, "severity": sym.Severity})
	}

	payload := map[string]interface{}{
		"prediction_id":    resp.ID,
		"engine":           resp.Engine,
		"top_condition":    resp.TopCondition,
		"confidence":       resp.Confidence,
		"ranked":           ranked,
		"symptoms":         symptoms,
		"text":             req.Text,
		"unknown_symptoms": resp.UnknownSymptoms,
		"created_at":       resp.CreatedAt,
	}
	if err := s.publisher.PublishEvent(ctx, EventPredictionCompleted, EventSource, payload); err != nil {
		logger.Log.WithError(err).WithField("prediction_id", resp.ID).Warn("failed to publish prediction event")
	}
}

func validate(req models.PredictionRequest, symptoms []scoring.Symptom) error {
	switch req.Engine {
	case models.EngineRules, models.EngineGenerative:
		return scoring.Validate(symptoms)
	case models.EngineZeroShot:
		if len(symptoms) == 0 {
			if strings.TrimSpace(req.Text) == "" {
				return scoring.ErrNoSymptoms
			}
			return nil
		}
		return scoring.Validate(symptoms)
	default:
		return fmt.Errorf("'%s': %w", req.Engine, ErrUnknownEngine)
	}
}

func normalizeEngine(engine string) string {
	engine = strings.ToLower(strings.TrimSpace(engine))
	if engine == "" {
		return models.EngineRules
	}
	return engine
}

func engineLabel(engine string) string {
	switch engine {
	case models.EngineRules, models.EngineGenerative, models.EngineZeroShot:
		return engine
	}
	return "unknown"
}

func toSymptoms(in []models.SymptomInput) []scoring.Symptom {
	out := make([]scoring.Symptom, 0, len(in))
	for _, s := range in {
		out = append(out, scoring.Symptom{Name: strings.TrimSpace(s.Name), Severity: s.Severity})
	}
	return out
}

func percent(score float64) float64 {
	f, _ := decimal.NewFromFloat(score).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, scoring.ErrNoSymptoms):
		return metrics.OutcomeWarning
	case IsValidationError(err):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrEngineUnavailable):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}

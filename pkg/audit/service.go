package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/synaptica-ai/symptomcheck/pkg/common/logger"
	"github.com/synaptica-ai/symptomcheck/pkg/common/models"
	"github.com/synaptica-ai/symptomcheck/pkg/observability/metrics"
	"gorm.io/datatypes"
)

const eventPredictionCompleted = "prediction.completed"

var errMissingPredictionID = errors.New("event missing prediction_id")

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// HandleEvent is the consumer callback. Events of other types are skipped
// so they are still committed.
func (s *Service) HandleEvent(ctx context.Context, event models.Event) error {
	if event.Type != eventPredictionCompleted {
		metrics.ObserveAuditEvent("skipped")
		return nil
	}

	log, err := toLog(event)
	if err != nil {
		// Malformed payloads would never succeed on redelivery.
		metrics.ObserveAuditEvent("invalid")
		logger.Log.WithError(err).WithField("event_id", event.ID).Warn("dropping malformed prediction event")
		return nil
	}

	if err := s.repo.Record(ctx, log); err != nil {
		metrics.ObserveAuditEvent("failed")
		return fmt.Errorf("recording prediction %s: %w", log.ID, err)
	}
	metrics.ObserveAuditEvent("recorded")
	return nil
}

func (s *Service) Recent(ctx context.Context, engine string, limit int) ([]PredictionLog, error) {
	return s.repo.Recent(ctx, engine, limit)
}

func (s *Service) Get(ctx context.Context, id string) (*PredictionLog, error) {
	return s.repo.Get(ctx, id)
}

func toLog(event models.Event) (*PredictionLog, error) {
	data := event.Data
	id, _ := data["prediction_id"].(string)
	if id == "" {
		return nil, errMissingPredictionID
	}
	engine, _ := data["engine"].(string)
	top, _ := data["top_condition"].(string)
	confidence, _ := data["confidence"].(float64)

	createdAt := event.Timestamp
	if raw, ok := data["created_at"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			createdAt = parsed
		}
	}

	return &PredictionLog{
		ID:           id,
		EventID:      event.ID,
		Engine:       engine,
		TopCondition: top,
		Confidence:   confidence,
		Request: datatypes.JSONMap{
			"symptoms": data["symptoms"],
			"text":     data["text"],
		},
		Response: datatypes.JSONMap{
			"ranked":           data["ranked"],
			"unknown_symptoms": data["unknown_symptoms"],
		},
		CreatedAt:  createdAt.UTC(),
		RecordedAt: time.Now().UTC(),
	}, nil
}

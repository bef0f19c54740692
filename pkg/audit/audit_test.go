package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/synaptica-ai/symptomcheck/pkg/common/models"
	"gorm.io/gorm"
)

func openTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "audit.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repo := NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo
}

func predictionEvent(id, engine string, createdAt time.Time) models.Event {
	// Round-trip through JSON so the payload looks like a consumed message.
	raw, _ := json.Marshal(map[string]interface{}{
		"prediction_id": id,
		"engine":        engine,
		"top_condition": "Flu",
		"confidence":    100.0,
		"ranked": []map[string]interface{}{
			{"rank": 1, "condition": "Flu", "score": 6, "confidence": 100},
		},
		"symptoms":   []map[string]interface{}{{"name": "fever", "severity": 4}},
		"created_at": createdAt,
	})
	var data map[string]interface{}
	_ = json.Unmarshal(raw, &data)

	return models.Event{
		ID:        "evt-" + id,
		Type:      eventPredictionCompleted,
		Source:    "symptom-service",
		Data:      data,
		Timestamp: createdAt,
	}
}

func TestHandleEventRecordsPrediction(t *testing.T) {
	svc := NewService(openTestRepository(t))
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := svc.HandleEvent(ctx, predictionEvent("p-1", "rules", created)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Redelivery must not fail or duplicate.
	if err := svc.HandleEvent(ctx, predictionEvent("p-1", "rules", created)); err != nil {
		t.Fatalf("redelivery should be ignored: %v", err)
	}

	log, err := svc.Get(ctx, "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.TopCondition != "Flu" || log.Confidence != 100 || log.EventID != "evt-p-1" {
		t.Fatalf("unexpected log %+v", log)
	}
	if !log.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at %s, got %s", created, log.CreatedAt)
	}

	logs, err := svc.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected a single row, got %d", len(logs))
	}
}

func TestHandleEventSkipsForeignAndMalformed(t *testing.T) {
	svc := NewService(openTestRepository(t))
	ctx := context.Background()

	if err := svc.HandleEvent(ctx, models.Event{Type: "other"}); err != nil {
		t.Fatalf("foreign event should be skipped: %v", err)
	}
	if err := svc.HandleEvent(ctx, models.Event{Type: eventPredictionCompleted, Data: map[string]interface{}{}}); err != nil {
		t.Fatalf("malformed event should be dropped: %v", err)
	}
	logs, _ := svc.Recent(ctx, "", 10)
	if len(logs) != 0 {
		t.Fatalf("expected no rows, got %d", len(logs))
	}
}

func TestRecentOrderingAndFilter(t *testing.T) {
	svc := NewService(openTestRepository(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_ = svc.HandleEvent(ctx, predictionEvent("a", "rules", base))
	_ = svc.HandleEvent(ctx, predictionEvent("b", "zero-shot", base.Add(time.Minute)))
	_ = svc.HandleEvent(ctx, predictionEvent("c", "rules", base.Add(2*time.Minute)))

	logs, err := svc.Recent(ctx, "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 2 || logs[0].ID != "c" || logs[1].ID != "b" {
		t.Fatalf("unexpected order %+v", logs)
	}

	rules, _ := svc.Recent(ctx, "rules", 0)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules predictions, got %d", len(rules))
	}
}

func TestGetMissing(t *testing.T) {
	svc := NewService(openTestRepository(t))
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHTTPHandler(t *testing.T) {
	svc := NewService(openTestRepository(t))
	_ = svc.HandleEvent(context.Background(), predictionEvent("p-9", "rules", time.Now().UTC()))

	router := mux.NewRouter()
	NewHTTPHandler(svc).Register(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/predictions?limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var logs []PredictionLog
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != "p-9" {
		t.Fatalf("unexpected logs %+v", logs)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/predictions?limit=-1", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/predictions/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

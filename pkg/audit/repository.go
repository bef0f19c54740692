package audit

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("prediction not found")

// PredictionLog is the persistence model for completed predictions.
type PredictionLog struct {
	ID           string            `gorm:"type:varchar(36);primaryKey;column:id"`
	EventID      string            `gorm:"type:varchar(36);column:event_id"`
	Engine       string            `gorm:"column:engine;index"`
	TopCondition string            `gorm:"column:top_condition"`
	Confidence   float64           `gorm:"column:confidence"`
	Request      datatypes.JSONMap `gorm:"column:request"`
	Response     datatypes.JSONMap `gorm:"column:response"`
	CreatedAt    time.Time         `gorm:"column:created_at;index"`
	RecordedAt   time.Time         `gorm:"column:recorded_at"`
}

// TableName overrides gorm naming.
func (PredictionLog) TableName() string {
	return "prediction_logs"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&PredictionLog{})
}

// Record stores a prediction. Redelivered events with a known id are ignored.
func (r *Repository) Record(ctx context.Context, log *PredictionLog) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(log).Error
}

func (r *Repository) Get(ctx context.Context, id string) (*PredictionLog, error) {
	var log PredictionLog
	result := r.db.WithContext(ctx).First(&log, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &log, result.Error
}

// Recent returns the most recent prediction logs up to limit, optionally
// filtered by engine.
func (r *Repository) Recent(ctx context.Context, engine string, limit int) ([]PredictionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if engine != "" {
		query = query.Where("engine = ?", engine)
	}
	var logs []PredictionLog
	err := query.Find(&logs).Error
	return logs, err
}

package models

import (
	"time"
)

// Prediction engines
const (
	EngineRules      = "rules"
	EngineGenerative = "generative"
	EngineZeroShot   = "zero-shot"
)

// Symptom input as submitted by the form collaborator
type SymptomInput struct {
	Name     string `json:"name"`
	Severity int    `json:"severity"`
}

type PredictionRequest struct {
	Engine   string         `json:"engine,omitempty"` // rules, generative, zero-shot
	Symptoms []SymptomInput `json:"symptoms"`
	Text     string         `json:"text,omitempty"` // free-text description, zero-shot only
}

type ConditionDetails struct {
	Description string `json:"description"`
	Treatment   string `json:"treatment"`
	Advice      string `json:"advice"`
}

type RankedCondition struct {
	Rank       int              `json:"rank"`
	Condition  string           `json:"condition"`
	Score      float64          `json:"score"`
	Confidence float64          `json:"confidence"`
	Details    ConditionDetails `json:"details"`
}

type PredictionResponse struct {
	ID              string            `json:"id"`
	Engine          string            `json:"engine"`
	TopCondition    string            `json:"top_condition"`
	Confidence      float64           `json:"confidence"`
	Ranked          []RankedCondition `json:"ranked"`
	UnknownSymptoms []string          `json:"unknown_symptoms,omitempty"`
	ModelOutput     string            `json:"model_output,omitempty"`
	Message         string            `json:"message,omitempty"`
	Cached          bool              `json:"cached"`
	LatencyMs       int64             `json:"latency_ms"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // prediction.completed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

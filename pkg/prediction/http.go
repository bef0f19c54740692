package prediction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/symptomcheck/pkg/catalog"
	"github.com/synaptica-ai/symptomcheck/pkg/common/logger"
	"github.com/synaptica-ai/symptomcheck/pkg/common/models"
	"github.com/synaptica-ai/symptomcheck/pkg/scoring"
)

const EmptySelectionWarning = "Please select at least one symptom."

type HTTPHandler struct {
	service *Service
	maxBody int64
}

func NewHTTPHandler(service *Service, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/symptoms", h.handleSymptoms).Methods(http.MethodGet)
	router.HandleFunc("/conditions", h.handleConditions).Methods(http.MethodGet)
	router.HandleFunc("/conditions/{name}", h.handleCondition).Methods(http.MethodGet)
	router.HandleFunc("/predict", h.handlePredict).Methods(http.MethodPost)
}

type conditionView struct {
	Name string `json:"name"`
	catalog.Details
}

func (h *HTTPHandler) handleSymptoms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symptoms":     h.service.Catalog().Symptoms.Symptoms(),
		"min_severity": scoring.MinSeverity,
		"max_severity": scoring.MaxSeverity,
	})
}

func (h *HTTPHandler) handleConditions(w http.ResponseWriter, r *http.Request) {
	cat := h.service.Catalog()
	names := cat.Conditions()
	out := make([]conditionView, 0, len(names))
	for _, name := range names {
		out = append(out, conditionView{Name: name, Details: cat.Describe(name)})
	}
	writeJSON(w, http.StatusOK, out)
}

// Unknown conditions are answered with fallback text, never 404.
func (h *HTTPHandler) handleCondition(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])
	cat := h.service.Catalog()
	if canonical, ok := cat.CanonicalCondition(name); ok {
		name = canonical
	}
	writeJSON(w, http.StatusOK, conditionView{Name: name, Details: cat.Describe(name)})
}

func (h *HTTPHandler) handlePredict(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("invalid prediction payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Predict(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrNoSymptoms):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"warning": EmptySelectionWarning})
		case IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrEngineUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			logger.Log.WithError(err).Error("prediction failed")
			http.Error(w, "prediction engine failed", http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("failed to encode response")
	}
}

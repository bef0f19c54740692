package scoring

import (
	"errors"
	"reflect"
	"testing"

	"github.com/synaptica-ai/symptomcheck/pkg/catalog"
)

func TestScoreFeverAndCough(t *testing.T) {
	res, err := Score(catalog.Default().Symptoms, []Symptom{
		{Name: "fever", Severity: 4},
		{Name: "cough", Severity: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Entry{
		{Condition: "Flu", Score: 6, Confidence: 100},
		{Condition: "Pneumonia", Score: 6, Confidence: 100},
		{Condition: "COVID-19", Score: 6, Confidence: 100},
		{Condition: "Bronchitis", Score: 2, Confidence: 33.33},
		{Condition: "Common Cold", Score: 2, Confidence: 33.33},
		{Condition: "Asthma", Score: 2, Confidence: 33.33},
	}
	if !reflect.DeepEqual(res.Ranked, want) {
		t.Fatalf("unexpected ranking:\n got %+v\nwant %+v", res.Ranked, want)
	}
	if res.Confidence != 100 {
		t.Fatalf("expected confidence 100, got %v", res.Confidence)
	}
	if res.TotalSeverity != 6 {
		t.Fatalf("expected total severity 6, got %d", res.TotalSeverity)
	}
	if top := res.Top(3); len(top) != 3 || top[2].Condition != "COVID-19" {
		t.Fatalf("unexpected top 3 %+v", top)
	}
}

func TestScoreJointPain(t *testing.T) {
	res, err := Score(catalog.Default().Symptoms, []Symptom{{Name: "joint pain", Severity: 5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Ranked) != 2 {
		t.Fatalf("expected 2 conditions, got %+v", res.Ranked)
	}
	if res.Ranked[0].Condition != "Arthritis" || res.Ranked[0].Score != 5 {
		t.Fatalf("expected Arthritis=5 first, got %+v", res.Ranked[0])
	}
	if res.Ranked[1].Condition != "Flu" || res.Ranked[1].Score != 5 {
		t.Fatalf("expected Flu=5 second, got %+v", res.Ranked[1])
	}
	if res.Confidence != 100 {
		t.Fatalf("expected confidence 100, got %v", res.Confidence)
	}
}

func TestScoreSortedAndSummed(t *testing.T) {
	cat := catalog.Default().Symptoms
	input := []Symptom{
		{Name: "sneezing", Severity: 1},
		{Name: "headache", Severity: 3},
		{Name: "fatigue", Severity: 5},
		{Name: "nausea", Severity: 2},
	}
	res, err := Score(cat, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[string]int{}
	for _, s := range input {
		conds, _ := cat.ConditionsFor(s.Name)
		for _, c := range conds {
			expected[c] += s.Severity
		}
	}
	if len(res.Ranked) != len(expected) {
		t.Fatalf("expected %d conditions, got %d", len(expected), len(res.Ranked))
	}
	for i, e := range res.Ranked {
		if expected[e.Condition] != e.Score {
			t.Fatalf("%s: expected score %d, got %d", e.Condition, expected[e.Condition], e.Score)
		}
		if i > 0 && res.Ranked[i-1].Score < e.Score {
			t.Fatalf("ranking not descending at %d: %+v", i, res.Ranked)
		}
	}
	// Flu: headache 3 + fatigue 5 + nausea 2 = 10 of 11.
	if res.Ranked[0].Condition != "Flu" || res.Confidence != 90.91 {
		t.Fatalf("expected Flu at 90.91, got %+v (%v)", res.Ranked[0], res.Confidence)
	}
}

func TestScoreIdempotent(t *testing.T) {
	cat := catalog.Default().Symptoms
	input := []Symptom{{Name: "cough", Severity: 3}, {Name: "chest pain", Severity: 4}}

	first, err := Score(cat, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Score(cat, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results:\n%+v\n%+v", first, second)
	}
}

func TestScoreUnknownSymptomIgnored(t *testing.T) {
	res, err := Score(catalog.Default().Symptoms, []Symptom{
		{Name: "hiccups", Severity: 5},
		{Name: "sneezing", Severity: 5},
	})
	if err != nil {
		t.Fatalf("unknown symptom should not error: %v", err)
	}
	if len(res.Unknown) != 1 || res.Unknown[0] != "hiccups" {
		t.Fatalf("expected hiccups reported unknown, got %v", res.Unknown)
	}
	if len(res.Ranked) != 2 {
		t.Fatalf("expected only sneezing conditions, got %+v", res.Ranked)
	}
	// Denominator still includes the unknown symptom's severity.
	if res.Confidence != 50 {
		t.Fatalf("expected confidence 50, got %v", res.Confidence)
	}
}

func TestScoreOnlyUnknownSymptoms(t *testing.T) {
	res, err := Score(catalog.Default().Symptoms, []Symptom{{Name: "hiccups", Severity: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Ranked) != 0 || res.Confidence != 0 {
		t.Fatalf("expected empty ranking, got %+v", res)
	}
	if _, ok := res.TopCondition(); ok {
		t.Fatal("expected no top condition")
	}
}

func TestScoreEmptyInput(t *testing.T) {
	_, err := Score(catalog.Default().Symptoms, nil)
	if !errors.Is(err, ErrNoSymptoms) {
		t.Fatalf("expected ErrNoSymptoms, got %v", err)
	}
	if IsValidationError(err) {
		t.Fatal("empty selection is a warning, not a validation error")
	}
}

func TestScoreRejectsBadSeverity(t *testing.T) {
	for _, sev := range []int{0, 6, -1} {
		_, err := Score(catalog.Default().Symptoms, []Symptom{{Name: "fever", Severity: sev}})
		if !IsValidationError(err) {
			t.Fatalf("severity %d: expected validation error, got %v", sev, err)
		}
		if !errors.Is(err, errSeverityRange) {
			t.Fatalf("severity %d: expected range error, got %v", sev, err)
		}
	}
}

func TestConfidenceNotClamped(t *testing.T) {
	symptoms, err := catalog.NewSymptomCatalog([]catalog.SymptomEntry{
		{Name: "cough", Conditions: []string{"Flu", "Flu"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := Score(symptoms, []Symptom{{Name: "cough", Severity: 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Confidence != 200 {
		t.Fatalf("expected 200, got %v", res.Confidence)
	}
}

func TestConfidenceRounding(t *testing.T) {
	cases := []struct {
		score, total int
		want         float64
	}{
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 7, 71.43},
		{0, 4, 0},
		{3, 0, 0},
	}
	for _, tc := range cases {
		if got := Confidence(tc.score, tc.total); got != tc.want {
			t.Fatalf("Confidence(%d,%d) = %v, want %v", tc.score, tc.total, got, tc.want)
		}
	}
}

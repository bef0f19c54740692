package llm

import (
	"reflect"
	"testing"

	"github.com/synaptica-ai/symptomcheck/pkg/catalog"
)

func TestExtractCanonicalOrderedDistinct(t *testing.T) {
	e := NewExtractor(catalog.Default().Conditions())

	text := "Likely causes: covid-19, then the FLU, possibly a common cold. Flu is most common; pneumonia is less likely."
	got := e.Extract(text, 3)
	want := []string{"COVID-19", "Flu", "Common Cold"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractNoMatch(t *testing.T) {
	e := NewExtractor([]string{"Flu", "Asthma"})
	if got := e.Extract("The patient should rest.", 3); len(got) != 0 {
		t.Fatalf("expected nothing, got %v", got)
	}
	// Word boundaries keep "influenza" from matching "Flu".
	if got := e.Extract("influenza", 3); len(got) != 0 {
		t.Fatalf("expected no partial-word match, got %v", got)
	}
}

func TestExtractEmptyCatalog(t *testing.T) {
	if got := NewExtractor(nil).Extract("flu", 3); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

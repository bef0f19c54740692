package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalogMappings(t *testing.T) {
	cat := Default()

	conds, ok := cat.Symptoms.ConditionsFor("Fever ")
	if !ok {
		t.Fatal("expected fever to be known")
	}
	want := []string{"Flu", "Pneumonia", "COVID-19"}
	if len(conds) != len(want) {
		t.Fatalf("expected %v, got %v", want, conds)
	}
	for i := range want {
		if conds[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, conds)
		}
	}

	if _, ok := cat.Symptoms.ConditionsFor("hiccups"); ok {
		t.Fatal("hiccups should not be in the catalog")
	}
	if cat.Symptoms.Len() != 9 {
		t.Fatalf("expected 9 symptoms, got %d", cat.Symptoms.Len())
	}
}

func TestConditionsForReturnsCopy(t *testing.T) {
	cat := Default()
	conds, _ := cat.Symptoms.ConditionsFor("fever")
	conds[0] = "Mutated"

	again, _ := cat.Symptoms.ConditionsFor("fever")
	if again[0] != "Flu" {
		t.Fatalf("catalog was mutated through returned slice: %v", again)
	}
}

func TestDescribeFallback(t *testing.T) {
	cat := Default()

	if got := cat.Describe("flu"); got.Treatment != "Rest, fluids, antiviral medications if prescribed." {
		t.Fatalf("expected case-insensitive info lookup, got %+v", got)
	}

	got := cat.Describe("Bronchitis")
	if got != FallbackDetails() {
		t.Fatalf("expected fallback details, got %+v", got)
	}
}

func TestValidateReportsMissingInfo(t *testing.T) {
	missing := Default().Validate()
	if len(missing) != 2 || missing[0] != "Bronchitis" || missing[1] != "Arthritis" {
		t.Fatalf("expected Bronchitis and Arthritis, got %v", missing)
	}
}

func TestConditionsOrdered(t *testing.T) {
	conds := Default().Conditions()
	if conds[0] != "Flu" || conds[1] != "Pneumonia" || conds[2] != "Bronchitis" {
		t.Fatalf("unexpected condition order %v", conds)
	}
	canonical, ok := Default().CanonicalCondition("covid-19")
	if !ok || canonical != "COVID-19" {
		t.Fatalf("expected COVID-19, got %q", canonical)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := []byte(`
symptoms:
  - name: rash
    conditions: [Allergies, Eczema]
  - name: itching
    conditions: [Allergies]
conditions:
  Allergies:
    description: Immune reaction.
    treatment: Antihistamines.
    advice: Avoid triggers.
`)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cat.Symptoms.Symptoms(); len(got) != 2 || got[0] != "rash" {
		t.Fatalf("unexpected symptoms %v", got)
	}
	if cat.Describe("Allergies").Advice != "Avoid triggers." {
		t.Fatalf("expected loaded advice, got %+v", cat.Describe("Allergies"))
	}
	if cat.Describe("Eczema") != FallbackDetails() {
		t.Fatal("expected fallback for Eczema")
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Symptoms.Len() != Default().Symptoms.Len() {
		t.Fatal("expected default catalog")
	}
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
	}{
		{"empty", "symptoms: []", ErrEmptyCatalog},
		{"no conditions", "symptoms:\n  - name: cough\n    conditions: []", ErrEmptySymptom},
		{"duplicate", "symptoms:\n  - name: cough\n    conditions: [Flu]\n  - name: Cough\n    conditions: [Asthma]", ErrDuplicateEntry},
		{"duplicate condition info", "symptoms:\n  - name: cough\n    conditions: [Flu]\nconditions:\n  Flu:\n    advice: Rest.\n  flu:\n    advice: Fluids.", ErrDuplicateEntry},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.content))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFingerprintTracksContents(t *testing.T) {
	base := `
symptoms:
  - name: cough
    conditions: [Flu, Asthma]
conditions:
  Flu:
    advice: Rest.
`
	a, err := Parse([]byte(base))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	again, _ := Parse([]byte(base))
	if a.Fingerprint() != again.Fingerprint() {
		t.Fatal("identical catalogs should share a fingerprint")
	}

	reordered, _ := Parse([]byte(strings.Replace(base, "[Flu, Asthma]", "[Asthma, Flu]", 1)))
	if reordered.Fingerprint() == a.Fingerprint() {
		t.Fatal("condition order must change the fingerprint")
	}

	advice, _ := Parse([]byte(strings.Replace(base, "Rest.", "Fluids.", 1)))
	if advice.Fingerprint() == a.Fingerprint() {
		t.Fatal("display text must change the fingerprint")
	}

	if Default().Fingerprint() != Default().Fingerprint() {
		t.Fatal("default fingerprint should be stable")
	}
}

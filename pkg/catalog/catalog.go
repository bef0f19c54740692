package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyCatalog   = errors.New("symptom catalog empty")
	ErrEmptySymptom   = errors.New("symptom has no conditions")
	ErrDuplicateEntry = errors.New("duplicate symptom entry")
)

// Fallback text returned for conditions without an info entry.
const (
	FallbackDescription = "No description available."
	FallbackTreatment   = "No treatment information available."
	FallbackAdvice      = "Consult a healthcare professional."
)

type Details struct {
	Description string `yaml:"description" json:"description"`
	Treatment   string `yaml:"treatment" json:"treatment"`
	Advice      string `yaml:"advice" json:"advice"`
}

func FallbackDetails() Details {
	return Details{
		Description: FallbackDescription,
		Treatment:   FallbackTreatment,
		Advice:      FallbackAdvice,
	}
}

// SymptomCatalog maps a symptom to the ordered conditions it can indicate.
// It is immutable once built; lookups are case-insensitive.
type SymptomCatalog struct {
	order      []string
	conditions map[string][]string
}

type SymptomEntry struct {
	Name       string   `yaml:"name" json:"name"`
	Conditions []string `yaml:"conditions" json:"conditions"`
}

func NewSymptomCatalog(entries []SymptomEntry) (SymptomCatalog, error) {
	if len(entries) == 0 {
		return SymptomCatalog{}, ErrEmptyCatalog
	}
	sc := SymptomCatalog{conditions: make(map[string][]string, len(entries))}
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return SymptomCatalog{}, fmt.Errorf("symptom name required")
		}
		key := normalize(name)
		if _, exists := sc.conditions[key]; exists {
			return SymptomCatalog{}, fmt.Errorf("%s: %w", name, ErrDuplicateEntry)
		}
		var conds []string
		for _, c := range entry.Conditions {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				conds = append(conds, trimmed)
			}
		}
		if len(conds) == 0 {
			return SymptomCatalog{}, fmt.Errorf("%s: %w", name, ErrEmptySymptom)
		}
		sc.order = append(sc.order, name)
		sc.conditions[key] = conds
	}
	return sc, nil
}

// ConditionsFor returns the conditions a symptom indicates. The returned
// slice is a copy.
func (s SymptomCatalog) ConditionsFor(symptom string) ([]string, bool) {
	conds, ok := s.conditions[normalize(symptom)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(conds))
	copy(out, conds)
	return out, true
}

func (s SymptomCatalog) Symptoms() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s SymptomCatalog) Len() int {
	return len(s.order)
}

// ConditionInfo holds display metadata per condition.
type ConditionInfo map[string]Details

// Lookup mirrors the terminology catalog: exact key first, then a
// case-insensitive scan.
func (c ConditionInfo) Lookup(name string) (Details, bool) {
	if c == nil {
		return Details{}, false
	}
	if d, ok := c[name]; ok {
		return d, true
	}
	key := normalize(name)
	for k, v := range c {
		if normalize(k) == key {
			return v, true
		}
	}
	return Details{}, false
}

type Catalog struct {
	Symptoms SymptomCatalog
	Info     ConditionInfo
}

type fileFormat struct {
	Symptoms   []SymptomEntry     `yaml:"symptoms"`
	Conditions map[string]Details `yaml:"conditions"`
}

// Load reads a catalog from a YAML file. An empty path yields the built-in
// catalog.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(content)
}

func Parse(content []byte) (Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(content, &f); err != nil {
		return Catalog{}, fmt.Errorf("decoding catalog: %w", err)
	}
	symptoms, err := NewSymptomCatalog(f.Symptoms)
	if err != nil {
		return Catalog{}, err
	}
	info := make(ConditionInfo, len(f.Conditions))
	seen := make(map[string]string, len(f.Conditions))
	for name, d := range f.Conditions {
		name = strings.TrimSpace(name)
		key := normalize(name)
		if other, ok := seen[key]; ok {
			return Catalog{}, fmt.Errorf("conditions %q and %q: %w", other, name, ErrDuplicateEntry)
		}
		seen[key] = name
		info[name] = d
	}
	return Catalog{Symptoms: symptoms, Info: info}, nil
}

// Describe returns display metadata, substituting the fallback triple for
// conditions that have no entry.
func (c Catalog) Describe(condition string) Details {
	if d, ok := c.Info.Lookup(condition); ok {
		return d
	}
	return FallbackDetails()
}

// Conditions lists every condition known to the catalog: those referenced by
// symptoms in first-seen order, then info-only entries alphabetically.
func (c Catalog) Conditions() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, symptom := range c.Symptoms.order {
		for _, cond := range c.Symptoms.conditions[normalize(symptom)] {
			key := normalize(cond)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, cond)
		}
	}
	var extra []string
	for name := range c.Info {
		if _, ok := seen[normalize(name)]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Fingerprint identifies the catalog contents. It changes when a symptom,
// its condition list or any display text changes.
func (c Catalog) Fingerprint() string {
	h := xxhash.New()
	for _, symptom := range c.Symptoms.order {
		key := normalize(symptom)
		h.WriteString(key)
		for _, cond := range c.Symptoms.conditions[key] {
			h.WriteString("\x1f")
			h.WriteString(cond)
		}
		h.WriteString("\x1e")
	}

	names := make([]string, 0, len(c.Info))
	for name := range c.Info {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d := c.Info[name]
		for _, field := range []string{name, d.Description, d.Treatment, d.Advice} {
			h.WriteString(field)
			h.WriteString("\x1f")
		}
		h.WriteString("\x1e")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// CanonicalCondition resolves a condition name to its catalog spelling.
func (c Catalog) CanonicalCondition(name string) (string, bool) {
	key := normalize(name)
	for _, cond := range c.Conditions() {
		if normalize(cond) == key {
			return cond, true
		}
	}
	return "", false
}

// Validate reports conditions referenced by symptoms that lack display
// metadata. These are served with fallback text, so they are warnings only.
func (c Catalog) Validate() []string {
	var missing []string
	for _, cond := range c.Conditions() {
		if _, ok := c.Info.Lookup(cond); !ok {
			missing = append(missing, cond)
		}
	}
	return missing
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

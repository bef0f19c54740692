package llm

import (
	"regexp"
	"sort"
	"strings"
)

// Extractor finds known condition names in free-form model output.
type Extractor struct {
	pattern   *regexp.Regexp
	canonical map[string]string
}

func NewExtractor(conditions []string) *Extractor {
	canonical := make(map[string]string, len(conditions))
	var alts []string
	for _, c := range conditions {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := canonical[key]; dup {
			continue
		}
		canonical[key] = c
		alts = append(alts, regexp.QuoteMeta(c))
	}
	if len(alts) == 0 {
		return &Extractor{canonical: canonical}
	}
	// Longest first so "Common Cold" wins over a shorter overlapping name.
	sort.SliceStable(alts, func(i, j int) bool { return len(alts[i]) > len(alts[j]) })
	return &Extractor{
		pattern:   regexp.MustCompile(`(?i)\b(` + strings.Join(alts, "|") + `)\b`),
		canonical: canonical,
	}
}

// Extract returns up to limit distinct conditions in order of first mention.
func (e *Extractor) Extract(text string, limit int) []string {
	if e.pattern == nil {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, m := range e.pattern.FindAllString(text, -1) {
		key := strings.ToLower(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e.canonical[key])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

package dlp

import (
	"regexp"
	"sort"
)

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

type Finding struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Redactor masks personal identifiers in free text before it leaves the
// service.
type Redactor struct {
	rules []compiledRule
}

func NewRedactor(cfg RulesConfig) (*Redactor, error) {
	var compiled []compiledRule
	for _, rule := range cfg.Rules {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}
	return &Redactor{rules: compiled}, nil
}

// Redact returns text with every rule match replaced by its mask, and the
// per-type match counts sorted by type.
func (r *Redactor) Redact(text string) (string, []Finding) {
	if r == nil || text == "" {
		return text, nil
	}

	counts := make(map[string]int)
	masked := text
	for _, rule := range r.rules {
		matches := rule.re.FindAllStringIndex(masked, -1)
		if len(matches) == 0 {
			continue
		}
		counts[rule.rule.Type] += len(matches)
		masked = rule.re.ReplaceAllLiteralString(masked, rule.rule.Mask)
	}

	if len(counts) == 0 {
		return text, nil
	}
	findings := make([]Finding, 0, len(counts))
	for t, n := range counts {
		findings = append(findings, Finding{Type: t, Count: n})
	}
	sort.Slice(findings, func(i, j int) bool { return findings[i].Type < findings[j].Type })
	return masked, findings
}

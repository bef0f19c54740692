package scoring

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/synaptica-ai/symptomcheck/pkg/catalog"
)

type Symptom struct {
	Name     string
	Severity int
}

type Entry struct {
	Condition  string
	Score      int
	Confidence float64
}

// ScoreBoard accumulates severities per condition in first-seen order.
type ScoreBoard struct {
	order  []string
	index  map[string]int
	scores []int
}

func NewScoreBoard() *ScoreBoard {
	return &ScoreBoard{index: make(map[string]int)}
}

func (b *ScoreBoard) Add(condition string, severity int) {
	key := strings.ToLower(condition)
	idx, ok := b.index[key]
	if !ok {
		idx = len(b.order)
		b.index[key] = idx
		b.order = append(b.order, condition)
		b.scores = append(b.scores, 0)
	}
	b.scores[idx] += severity
}

// Ranked returns entries sorted by score descending. Equal scores keep
// insertion order.
func (b *ScoreBoard) Ranked() []Entry {
	entries := make([]Entry, len(b.order))
	for i, cond := range b.order {
		entries[i] = Entry{Condition: cond, Score: b.scores[i]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

type Result struct {
	Ranked        []Entry
	TotalSeverity int
	// Confidence of the top entry; zero when nothing ranked.
	Confidence float64
	Unknown    []string
}

func (r Result) Top(k int) []Entry {
	if k <= 0 || k > len(r.Ranked) {
		k = len(r.Ranked)
	}
	return r.Ranked[:k]
}

func (r Result) TopCondition() (Entry, bool) {
	if len(r.Ranked) == 0 {
		return Entry{}, false
	}
	return r.Ranked[0], true
}

// Score ranks candidate conditions by summed symptom severity. Symptoms
// missing from the catalog contribute nothing but still count towards the
// confidence denominator.
func Score(symptoms catalog.SymptomCatalog, input []Symptom) (Result, error) {
	if err := Validate(input); err != nil {
		return Result{}, err
	}

	board := NewScoreBoard()
	total := 0
	var unknown []string
	for _, s := range input {
		total += s.Severity
		conds, ok := symptoms.ConditionsFor(s.Name)
		if !ok {
			unknown = append(unknown, s.Name)
			continue
		}
		for _, cond := range conds {
			board.Add(cond, s.Severity)
		}
	}

	ranked := board.Ranked()
	for i := range ranked {
		ranked[i].Confidence = Confidence(ranked[i].Score, total)
	}

	res := Result{Ranked: ranked, TotalSeverity: total, Unknown: unknown}
	if top, ok := res.TopCondition(); ok {
		res.Confidence = top.Confidence
	}
	return res, nil
}

// Confidence is score / total * 100 rounded to two decimals. The value is not
// clamped: a catalog listing a condition twice under one symptom yields more
// than 100.
func Confidence(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(score)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 2)
	f, _ := pct.Float64()
	return f
}

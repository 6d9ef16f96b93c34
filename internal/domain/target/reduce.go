package target

// Hit is one database molecule that survived scoring, with the targets it is
// annotated with.
type Hit struct {
	DatabaseID string
	Targets    []string
	Score      float64
}

// Match is the best-scoring database molecule recorded for a target.
type Match struct {
	DatabaseID string  `json:"database_id"`
	Score      float64 `json:"score"`
}

// PerTargetBest maps target ids to their matches, remembering the order in
// which targets were first seen.  It only grows.
type PerTargetBest struct {
	order   []string
	matches map[string][]Match
}

// NewPerTargetBest returns an empty map.
func NewPerTargetBest() *PerTargetBest {
	return &PerTargetBest{matches: make(map[string][]Match)}
}

// Len returns the number of targets.
func (b *PerTargetBest) Len() int {
	if b == nil {
		return 0
	}
	return len(b.order)
}

// Targets returns the target ids in first-seen order.
func (b *PerTargetBest) Targets() []string {
	if b == nil {
		return nil
	}
	return b.order
}

// Matches returns the matches of a target.
func (b *PerTargetBest) Matches(target string) []Match {
	if b == nil {
		return nil
	}
	return b.matches[target]
}

// Offer records m for target.  The first match of a target is always kept.
// Afterwards keepAll appends every match, otherwise m replaces the current
// one only when its score is strictly greater.
func (b *PerTargetBest) Offer(target string, m Match, keepAll bool) {
	cur, ok := b.matches[target]
	if !ok {
		b.order = append(b.order, target)
		b.matches[target] = []Match{m}
		return
	}
	if keepAll {
		b.matches[target] = append(cur, m)
		return
	}
	if m.Score > cur[0].Score {
		cur[0] = m
	}
}

// Reduce folds hits, in order, into a PerTargetBest.
func Reduce(hits []Hit, keepAll bool) *PerTargetBest {
	best := NewPerTargetBest()
	for _, h := range hits {
		for _, t := range h.Targets {
			best.Offer(t, Match{DatabaseID: h.DatabaseID, Score: h.Score}, keepAll)
		}
	}
	return best
}

// Row is one flattened (target, match) pair.
type Row struct {
	Target     string  `json:"target"`
	DatabaseID string  `json:"database_id"`
	Score      float64 `json:"score"`
}

// Flatten lists every match in target order, then match order.
func (b *PerTargetBest) Flatten() []Row {
	if b == nil {
		return nil
	}
	var rows []Row
	for _, t := range b.order {
		for _, m := range b.matches[t] {
			rows = append(rows, Row{Target: t, DatabaseID: m.DatabaseID, Score: m.Score})
		}
	}
	return rows
}

//Personal.AI order the ending

// Package tanimoto scores a query molecule against fingerprint database blobs
// with the Tanimoto coefficient and, when several fingerprint types are
// combined, a z-score consensus.
package tanimoto

import (
	"context"
	"math"
	"math/bits"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/domain/similarity"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Scorer implements similarity.Scorer in process.
type Scorer struct{}

// NewScorer returns a Scorer.
func NewScorer() *Scorer { return &Scorer{} }

var _ similarity.Scorer = (*Scorer)(nil)

// Coefficient returns c/(A+B-c) for two equally sized fingerprints, or 0 when
// both are empty.
func Coefficient(a, b []byte) float64 {
	return coefficient(popcount(a), a, b)
}

func coefficient(onA int, a, b []byte) float64 {
	var onB, common int
	for k := range a {
		onB += bits.OnesCount8(b[k])
		common += bits.OnesCount8(a[k] & b[k])
	}
	denom := onA + onB - common
	if denom == 0 {
		return 0
	}
	return float64(common) / float64(denom)
}

func popcount(p []byte) int {
	n := 0
	for _, b := range p {
		n += bits.OnesCount8(b)
	}
	return n
}

// orderedScores is a score list per id that keeps first-insertion order.
type orderedScores struct {
	ids    []string
	index  map[string]int
	scores [][]float64
	alive  []bool
}

func newOrderedScores(capacity int) *orderedScores {
	return &orderedScores{index: make(map[string]int, capacity)}
}

func (o *orderedScores) get(id string) (int, bool) {
	i, ok := o.index[id]
	return i, ok
}

func (o *orderedScores) set(id string, v float64) {
	if i, ok := o.index[id]; ok {
		o.scores[i] = []float64{v}
		return
	}
	o.index[id] = len(o.ids)
	o.ids = append(o.ids, id)
	o.scores = append(o.scores, []float64{v})
	o.alive = append(o.alive, true)
}

func (o *orderedScores) add(id string, v float64) {
	if i, ok := o.index[id]; ok {
		o.scores[i] = append(o.scores[i], v)
		return
	}
	o.set(id, v)
}

func (o *orderedScores) drop(id string) {
	if i, ok := o.index[id]; ok {
		o.alive[i] = false
	}
}

func (o *orderedScores) entries() []similarity.Entry {
	out := make([]similarity.Entry, 0, len(o.ids))
	for i, id := range o.ids {
		if o.alive[i] {
			out = append(out, similarity.Entry{ID: id, Scores: o.scores[i]})
		}
	}
	return out
}

type scored struct {
	id string
	tc float64
}

// Score reads the query file and compares its i-th fingerprint with every
// record of req.Databases[i].
//
// Tanimoto lists are created from the first database and extended only for
// ids already present.  In consensus mode every coefficient is turned into a
// z-score against its own database, ids holding one z-score per type get
// their mean appended and the others are discarded.  An id is then removed
// if any of its coefficients is below the threshold of its type, or, in
// consensus mode with a non-zero ConsensusThreshold, if its mean z-score is
// not above that threshold.
func (s *Scorer) Score(ctx context.Context, req *similarity.Request) ([]similarity.Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	frags, err := fingerprint.ReadQueryFile(req.QueryPath)
	if err != nil {
		return nil, err
	}
	if len(frags) != len(req.Databases) {
		return nil, errors.Newf(errors.CodeScoringFailed,
			"query holds %d fingerprints, %d databases supplied", len(frags), len(req.Databases)).
			WithDetail(req.QueryPath)
	}

	tanimotos := newOrderedScores(0)
	zscores := newOrderedScores(0)
	var row []scored

	for i, frag := range frags {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		size := fingerprint.PayloadSize(frag.BitLength)
		onQuery := popcount(frag.Bytes)

		row = row[:0]
		it := fingerprint.NewDatabaseIterator(req.Databases[i], size)
		for it.Next() {
			e := it.Entry()
			tc := coefficient(onQuery, frag.Bytes, e.Bytes)
			if i == 0 {
				tanimotos.set(e.ID, tc)
			} else if _, ok := tanimotos.get(e.ID); ok {
				tanimotos.add(e.ID, tc)
			}
			row = append(row, scored{id: e.ID, tc: tc})
		}
		if err := it.Err(); err != nil {
			return nil, errors.Wrapf(err, errors.CodeScoringFailed, "database %d", i)
		}

		if req.Consensus {
			mean, stdev := meanStdev(row)
			for _, r := range row {
				z := 0.0
				if stdev != 0 && !math.IsNaN(stdev) {
					z = (r.tc - mean) / stdev
				}
				zscores.add(r.id, z)
			}
		}
	}

	result := tanimotos
	if req.Consensus {
		for j, id := range zscores.ids {
			zs := zscores.scores[j]
			if len(zs) != len(frags) {
				zscores.drop(id)
				continue
			}
			sum := 0.0
			for _, z := range zs {
				sum += z
			}
			zscores.scores[j] = append(zs, sum/float64(len(zs)))
		}
		result = zscores
	}

	for j, id := range tanimotos.ids {
		for i, tc := range tanimotos.scores[j] {
			if tc < req.Thresholds[i] {
				result.drop(id)
				break
			}
		}
	}
	if req.Consensus && req.ConsensusThreshold != 0 {
		for j, id := range zscores.ids {
			zs := zscores.scores[j]
			if zscores.alive[j] && zs[len(zs)-1] <= req.ConsensusThreshold {
				zscores.drop(id)
			}
		}
	}
	return result.entries(), nil
}

// meanStdev returns the mean and the sample standard deviation of the
// coefficients.  The deviation is NaN for fewer than two values.
func meanStdev(row []scored) (float64, float64) {
	n := float64(len(row))
	if len(row) == 0 {
		return 0, math.NaN()
	}
	sum := 0.0
	for _, r := range row {
		sum += r.tc
	}
	mean := sum / n
	if len(row) < 2 {
		return mean, math.NaN()
	}
	sq := 0.0
	for _, r := range row {
		d := r.tc - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / (n - 1))
}

//Personal.AI order the ending

// Package similarity defines the contract between the prediction pipeline and
// the component that compares one query molecule with the reference database.
package similarity

import (
	"context"
	"fmt"

	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Request carries everything a Scorer needs for one query molecule.  The
// slices are index-aligned with the fragments of the query file: Databases[i]
// and Thresholds[i] belong to the i-th fingerprint type.
type Request struct {
	// QueryPath is the .qbfp file of the molecule.
	QueryPath string

	// Databases holds one raw .bfp blob per fingerprint type.
	Databases [][]byte

	// Thresholds are the per-type minimum Tanimoto coefficients.
	Thresholds []float64

	// ConsensusThreshold is the minimum mean z-score; zero disables it.
	ConsensusThreshold float64

	// Consensus selects z-score aggregation across several types.
	Consensus bool
}

// Validate checks the alignment of the per-type slices.
func (r *Request) Validate() error {
	if r == nil {
		return errors.New(errors.CodeInvalidArg, "nil similarity request")
	}
	if r.QueryPath == "" {
		return errors.New(errors.CodeInvalidArg, "query path is empty")
	}
	if len(r.Databases) == 0 {
		return errors.New(errors.CodeInvalidArg, "no database blobs")
	}
	if len(r.Thresholds) != len(r.Databases) {
		return errors.Newf(errors.CodeInvalidArg, "%d thresholds for %d databases",
			len(r.Thresholds), len(r.Databases))
	}
	return nil
}

// Entry is the score list of one database molecule.  The last element is
// the representative score: the Tanimoto coefficient of the only type, or
// the mean z-score in consensus mode.
type Entry struct {
	ID     string    `json:"id"`
	Scores []float64 `json:"scores"`
}

// Score returns the representative score, or 0 for an empty list.
func (e Entry) Score() float64 {
	if len(e.Scores) == 0 {
		return 0
	}
	return e.Scores[len(e.Scores)-1]
}

func (e Entry) String() string {
	return fmt.Sprintf("Entry{id=%s, score=%.4f}", e.ID, e.Score())
}

// Scorer compares one query molecule with the database and returns the
// surviving entries in database order.
type Scorer interface {
	Score(ctx context.Context, req *Request) ([]Entry, error)
}

// ScorerFunc adapts an ordinary function to the Scorer interface.
type ScorerFunc func(ctx context.Context, req *Request) ([]Entry, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, req *Request) ([]Entry, error) {
	return f(ctx, req)
}

//Personal.AI order the ending

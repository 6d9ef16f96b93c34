// Package prediction orchestrates a target prediction run: it collects
// generated fingerprints, encodes one query file per molecule, fans scoring
// out to parallel workers and streams progress and results to the output
// while the workers are still running.
package prediction

import (
	"os"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Merged holds the fingerprints of every molecule, in request order per
// molecule and first-seen order across molecules.
type Merged struct {
	Order     []string
	Fragments map[string][]fingerprint.Fragment
}

// Len returns the number of molecules.
func (m *Merged) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Order)
}

func (m *Merged) add(f fingerprint.Fragment) {
	if _, ok := m.Fragments[f.Molecule]; !ok {
		m.Order = append(m.Order, f.Molecule)
	}
	m.Fragments[f.Molecule] = append(m.Fragments[f.Molecule], f)
}

// CollectFingerprints merges generator outputs.  Any failed or missing
// output aborts the collection before a single file is parsed.
func CollectFingerprints(files []fingerprint.GeneratedFile) (*Merged, error) {
	for _, f := range files {
		if f.Err != nil {
			return nil, errors.Wrapf(f.Err, errors.CodeFingerprintGenerationFailed,
				"%s fingerprint generation failed", f.Type)
		}
		if _, err := os.Stat(f.Path); err != nil {
			return nil, errors.Newf(errors.CodeFingerprintGenerationFailed,
				"%s fingerprint output missing", f.Type).WithDetail(f.Path).WithCause(err)
		}
	}

	merged := &Merged{Fragments: make(map[string][]fingerprint.Fragment)}
	for _, f := range files {
		frags, err := readGenerated(f)
		if err != nil {
			return nil, err
		}
		for _, fr := range frags {
			merged.add(fr)
		}
	}
	return merged, nil
}

func readGenerated(f fingerprint.GeneratedFile) ([]fingerprint.Fragment, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, errors.New(errors.CodeFingerprintParseFailed, "open fingerprint output").
			WithDetail(f.Path).WithCause(err)
	}
	defer fh.Close()

	frags, err := fingerprint.ReadText(fh, f.BitLength)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeFingerprintParseFailed, "parse %s", f.Path)
	}
	return frags, nil
}

//Personal.AI order the ending

// Package fingerprint holds the fingerprint type registry and the binary
// formats exchanged with the similarity scorer: per-molecule query files
// (.qbfp) and per-type database blobs (.bfp).
package fingerprint

import (
	"sort"
	"strings"

	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Type names a supported fingerprint kind.
type Type string

const (
	ECFP4 Type = "ECFP4"
	ECFP6 Type = "ECFP6"
	MACCS Type = "MACCS"
	PL    Type = "PL"
)

// Spec describes one fingerprint type: its bit width, its default Tanimoto
// threshold and the MayaChemTools script that generates it.
type Spec struct {
	Type             Type
	BitLength        uint32
	DefaultThreshold float64
	Script           string
	ScriptArgs       []string
}

// PayloadSize is the number of fingerprint bytes stored per record.
func (s Spec) PayloadSize() int {
	return PayloadSize(s.BitLength)
}

// PayloadSize converts a bit length to the byte count the scorer reads.
func PayloadSize(bitLength uint32) int {
	return int(bitLength / 8)
}

var registry = map[Type]Spec{
	ECFP4: {
		Type:             ECFP4,
		BitLength:        1024,
		DefaultThreshold: 0.6,
		Script:           "ExtendedConnectivityFingerprints.pl",
		ScriptArgs:       []string{"-m", "ExtendedConnectivityBits", "-n", "2"},
	},
	ECFP6: {
		Type:             ECFP6,
		BitLength:        1024,
		DefaultThreshold: 0.6,
		Script:           "ExtendedConnectivityFingerprints.pl",
		ScriptArgs:       []string{"-m", "ExtendedConnectivityBits", "-n", "3"},
	},
	MACCS: {
		Type:             MACCS,
		BitLength:        328,
		DefaultThreshold: 0.8,
		Script:           "MACCSKeysFingerprints.pl",
		ScriptArgs:       []string{"-s", "322", "-b", "HexadecimalString"},
	},
	PL: {
		Type:             PL,
		BitLength:        1024,
		DefaultThreshold: 0.7,
		Script:           "PathLengthFingerprints.pl",
		ScriptArgs:       []string{"-m", "PathLengthBits", "-b", "HexadecimalString"},
	},
}

// Lookup returns the Spec for name, matched case-insensitively.
func Lookup(name string) (Spec, error) {
	spec, ok := registry[Type(strings.ToUpper(strings.TrimSpace(name)))]
	if !ok {
		return Spec{}, errors.Newf(errors.CodeFingerprintUnknown, "unknown fingerprint %q", name).
			WithDetail("accepted: " + strings.Join(KnownNames(), ", "))
	}
	return spec, nil
}

// Resolve maps names to Specs in request order, rejecting unknown and
// duplicate names.
func Resolve(names []string) ([]Spec, error) {
	if len(names) == 0 {
		return nil, errors.New(errors.CodeFingerprintUnknown, "at least one fingerprint type is required")
	}
	seen := make(map[Type]bool, len(names))
	specs := make([]Spec, 0, len(names))
	for _, n := range names {
		spec, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		if seen[spec.Type] {
			return nil, errors.Newf(errors.CodeFingerprintUnknown, "fingerprint %s requested twice", spec.Type)
		}
		seen[spec.Type] = true
		specs = append(specs, spec)
	}
	return specs, nil
}

// KnownNames lists the registered fingerprint names in sorted order.
func KnownNames() []string {
	names := make([]string, 0, len(registry))
	for t := range registry {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

// IsConsensus reports whether a request combines several fingerprint types,
// in which case the scorer returns z-score consensus values.
func IsConsensus(specs []Spec) bool {
	return len(specs) > 1
}

//Personal.AI order the ending

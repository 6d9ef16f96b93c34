package generator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// MoleculeDelimiter separates molecules in an SD file.
const MoleculeDelimiter = "\n$$$$\n"

// MergedStructureName is the file MergeStructureFiles writes.
const MergedStructureName = "target_prediction_merged_sdf.sdf"

// MergeStructureFiles writes the non-empty molecules of every SD file, in
// order, into one file under dir and returns its path.
func MergeStructureFiles(paths []string, dir string) (string, error) {
	var mols []string
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", errors.New(errors.CodeInvalidArg, "read structure file").WithDetail(p).WithCause(err)
		}
		for _, m := range strings.Split(string(data), MoleculeDelimiter) {
			if m != "" {
				mols = append(mols, m)
			}
		}
	}
	if len(mols) == 0 {
		return "", errors.New(errors.CodeNoMolecules, "no molecule found in the structure files").
			WithDetail(strings.Join(paths, ", "))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CodeInvalidArg, "create structure directory")
	}
	out := filepath.Join(dir, MergedStructureName)
	content := strings.Join(mols, MoleculeDelimiter) + MoleculeDelimiter
	if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, errors.CodeInvalidArg, "write merged structure file")
	}
	return out, nil
}

//Personal.AI order the ending

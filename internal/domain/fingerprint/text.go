package fingerprint

import (
	"bufio"
	"encoding/hex"
	"io"
	"strings"

	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// CommentMarker starts the header lines of generator text output.
const CommentMarker = '#'

// ReadText parses generator text output: leading comment lines, then one
// "name hexFingerprint" pair per line.  Blank lines are ignored.  Every
// fragment is stamped with bitLength.
func ReadText(r io.Reader, bitLength uint32) ([]Fragment, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		out    []Fragment
		header = true
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if header && line[0] == CommentMarker {
			continue
		}
		header = false

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Newf(errors.CodeFingerprintParseFailed,
				"line %d: expected \"name hex\", got %d fields", lineNo, len(fields))
		}
		raw, err := hex.DecodeString(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeFingerprintParseFailed, "line %d: bad hex fingerprint", lineNo)
		}
		out = append(out, Fragment{Molecule: fields[0], Bytes: raw, BitLength: bitLength})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeFingerprintParseFailed, "read fingerprint text")
	}
	return out, nil
}

//Personal.AI order the ending

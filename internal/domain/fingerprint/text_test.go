package fingerprint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/pkg/errors"
)

func TestReadText(t *testing.T) {
	input := "# MayaChemTools\n# ExtendedConnectivityBits\nMOL1 ff00\n\nMOL2   0f0f\n"
	frags, err := ReadText(strings.NewReader(input), 16)
	require.NoError(t, err)
	require.Len(t, frags, 2)
	assert.Equal(t, Fragment{Molecule: "MOL1", Bytes: []byte{0xff, 0x00}, BitLength: 16}, frags[0])
	assert.Equal(t, "MOL2", frags[1].Molecule)
}

func TestReadText_CommentsOnlyLeading(t *testing.T) {
	_, err := ReadText(strings.NewReader("MOL1 ff\n# late comment\n"), 8)
	assert.True(t, errors.IsCode(err, errors.CodeFingerprintParseFailed))
}

func TestReadText_Malformed(t *testing.T) {
	_, err := ReadText(strings.NewReader("MOL1 zz\n"), 8)
	assert.True(t, errors.IsCode(err, errors.CodeFingerprintParseFailed))

	_, err = ReadText(strings.NewReader("MOL1\n"), 8)
	assert.True(t, errors.IsCode(err, errors.CodeFingerprintParseFailed))
}

//Personal.AI order the ending

package fingerprint

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/pkg/errors"
)

func newFragment(name string, bits uint32, fill byte) Fragment {
	b := bytes.Repeat([]byte{fill}, PayloadSize(bits))
	return Fragment{Molecule: name, Bytes: b, BitLength: bits}
}

func TestEncodeQuery_Layout(t *testing.T) {
	var buf bytes.Buffer
	f := Fragment{Molecule: "AB", Bytes: []byte{0xde, 0xad}, BitLength: 16}
	require.NoError(t, EncodeQuery(&buf, []Fragment{f}))

	want := []byte{2, 'A', 'B', 0, 0, 0, 16, 0xde, 0xad}
	assert.Equal(t, want, buf.Bytes())
}

func TestQuery_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-."

	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(MaxNameLength)
		var sb strings.Builder
		for j := 0; j < n; j++ {
			sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		name := sb.String()

		var frags []Fragment
		for _, bits := range []uint32{1024, 328, 1024} {
			payload := make([]byte, PayloadSize(bits))
			rng.Read(payload)
			frags = append(frags, Fragment{Molecule: name, Bytes: payload, BitLength: bits})
		}

		var buf bytes.Buffer
		require.NoError(t, EncodeQuery(&buf, frags))
		got, err := DecodeQuery(&buf)
		require.NoError(t, err)
		require.Equal(t, frags, got)
	}
}

func TestQuery_MaxLengthName(t *testing.T) {
	name := strings.Repeat("x", MaxNameLength)
	var buf bytes.Buffer
	require.NoError(t, EncodeQuery(&buf, []Fragment{newFragment(name, 1024, 0xff)}))
	assert.Equal(t, byte(127), buf.Bytes()[0])

	got, err := DecodeQuery(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, name, got[0].Molecule)
}

func TestEncodeQuery_RejectsBadNames(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"too long":  strings.Repeat("x", MaxNameLength+1),
		"non ascii": "molécule",
	}
	for label, name := range cases {
		t.Run(label, func(t *testing.T) {
			err := EncodeQuery(&bytes.Buffer{}, []Fragment{newFragment(name, 1024, 1)})
			assert.True(t, errors.IsCode(err, errors.CodeQueryEncodingFailed))
		})
	}
}

func TestEncodeQuery_RejectsPayloadMismatch(t *testing.T) {
	f := Fragment{Molecule: "M", Bytes: []byte{1, 2, 3}, BitLength: 1024}
	err := EncodeQuery(&bytes.Buffer{}, []Fragment{f})
	assert.True(t, errors.IsCode(err, errors.CodeQueryEncodingFailed))
}

func TestDecodeQuery_Empty(t *testing.T) {
	got, err := DecodeQuery(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeQuery_Truncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeQuery(&buf, []Fragment{newFragment("MOL1", 1024, 0x0f)}))
	data := buf.Bytes()

	for _, cut := range []int{1, 3, 7, len(data) - 1} {
		_, err := DecodeQuery(bytes.NewReader(data[:cut]))
		assert.True(t, errors.IsCode(err, errors.CodeQueryDecodingFailed), "cut at %d", cut)
	}
}

func TestWriteQueryFile_AtomicAndReadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MOL1"+QueryExt)
	frags := []Fragment{newFragment("MOL1", 1024, 0xaa), newFragment("MOL1", 328, 0x55)}

	require.NoError(t, WriteQueryFile(path, frags))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary file may be left behind")

	got, err := ReadQueryFile(path)
	require.NoError(t, err)
	assert.Equal(t, frags, got)
}

func TestWriteQueryFile_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "BAD"+QueryExt)

	err := WriteQueryFile(path, []Fragment{{Molecule: "BAD", Bytes: []byte{1}, BitLength: 1024}})
	require.Error(t, err)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestWriteQueryFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "M"+QueryExt)
	err := WriteQueryFile(path, []Fragment{newFragment("M", 1024, 1)})
	assert.True(t, errors.IsCode(err, errors.CodeQueryEncodingFailed))
}

//Personal.AI order the ending

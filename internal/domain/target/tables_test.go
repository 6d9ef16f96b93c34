package target

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/FastTargetPred/internal/testutil"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

func TestParseTable(t *testing.T) {
	input := "CHEMBL1 T1 T2\n\nCHEMBL2\nCHEMBL3   T3\n"
	tbl, err := ParseTable(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2"}, tbl.Targets("CHEMBL1"))
	assert.Equal(t, []string{}, tbl.Targets("CHEMBL2"))
	assert.Equal(t, []string{"T3"}, tbl.Targets("CHEMBL3"))
	assert.Nil(t, tbl.Targets("CHEMBL9"))
	assert.Len(t, tbl, 3)
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "chembl")
	testutil.WriteFile(t, dir, "chembl"+LookupSuffix, "D1 T1\n")

	tbl, err := LoadTable(LookupPath(prefix))
	require.NoError(t, err)
	assert.Equal(t, []string{"T1"}, tbl.Targets("D1"))

	_, err = LoadTable(filepath.Join(dir, "missing.tlt"))
	assert.True(t, errors.IsCode(err, errors.CodeLookupLoadFailed))
}

const infoFixture = "Uniprot\tGene\tCHEMBL\n" +
	"P1\tGA\tT1\n" +
	"P2\tGB\tT2\n" +
	"P3\tGC\tT1\n"

func TestParseInfo_GroupsInFileOrder(t *testing.T) {
	info, err := ParseInfo(strings.NewReader(infoFixture), InfoOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Uniprot", "Gene", "CHEMBL"}, info.Columns)
	assert.Equal(t, [][]string{{"P1", "GA", "T1"}, {"P3", "GC", "T1"}}, info.Lookup("T1"))
	assert.Nil(t, info.Lookup("T9"))
}

func TestParseInfo_CompactColumns(t *testing.T) {
	info, err := ParseInfo(strings.NewReader(infoFixture), InfoOptions{Keep: CompactColumns("")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Uniprot", "CHEMBL"}, info.Columns)
	assert.Equal(t, [][]string{{"P2", "T2"}}, info.Lookup("T2"))
}

func TestParseInfo_CustomDelimiter(t *testing.T) {
	info, err := ParseInfo(strings.NewReader("id;name\nX;first\n"), InfoOptions{Delimiter: ';', IDColumn: "id"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"X", "first"}}, info.Lookup("X"))
}

func TestParseInfo_Malformed(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"no id column": "Uniprot\tGene\nP1\tGA\n",
		"width":        "Uniprot\tCHEMBL\nP1\tT1\textra\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseInfo(strings.NewReader(input), InfoOptions{})
			assert.True(t, errors.IsCode(err, errors.CodeLookupMalformed))
		})
	}
}

func TestInfoTable_NilLookup(t *testing.T) {
	var info *InfoTable
	assert.Nil(t, info.Lookup("T1"))
}

//Personal.AI order the ending

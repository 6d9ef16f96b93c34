// Package target holds the read-only lookup tables that map database
// molecules to biological targets and targets to descriptive records, and
// the reduction of scored hits to the best match per target.
package target

import (
	"bufio"
	"encoding/csv"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/turtacn/FastTargetPred/pkg/errors"
)

const (
	// LookupSuffix completes a database prefix into its target lookup file.
	LookupSuffix = "_all.tlt"

	// DefaultIDColumn is the info column that groups records by target.
	DefaultIDColumn = "CHEMBL"

	// UniprotColumn is kept alongside the id column when extra info is hidden.
	UniprotColumn = "Uniprot"
)

// LookupPath returns the target lookup file of a database prefix.
func LookupPath(dbPrefix string) string {
	return dbPrefix + LookupSuffix
}

// Table maps a database molecule id to the targets it is active on.
type Table map[string][]string

// Targets returns the targets of id; an unknown id yields nil.
func (t Table) Targets(id string) []string {
	return t[id]
}

// ParseTable reads whitespace-separated "dbID target1 target2 ..." lines.
// Blank lines are skipped and an id without targets maps to an empty list.
func ParseTable(r io.Reader) (Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	t := make(Table)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		targets := make([]string, len(fields)-1)
		copy(targets, fields[1:])
		t[fields[0]] = targets
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeLookupLoadFailed, "read target lookup")
	}
	return t, nil
}

// LoadTable opens and parses a target lookup file.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.CodeLookupLoadFailed, "open target lookup").WithDetail(path).WithCause(err)
	}
	defer f.Close()
	return ParseTable(f)
}

// InfoOptions controls how an info file is parsed.
type InfoOptions struct {
	// Delimiter separates fields; zero means tab.
	Delimiter rune

	// IDColumn groups records; empty means DefaultIDColumn.
	IDColumn string

	// Keep restricts the parsed columns.  Nil keeps every column.
	Keep []string
}

// InfoTable groups the records of an info file by target id.  Every record
// is aligned with Columns.
type InfoTable struct {
	Columns []string
	Records map[string][][]string
}

// Lookup returns the records of a target, or nil.
func (t *InfoTable) Lookup(id string) [][]string {
	if t == nil {
		return nil
	}
	return t.Records[id]
}

// ParseInfo reads a delimited info file with a header row.  Rows sharing an
// id are appended in file order.  A row whose width differs from the header
// is malformed.
func ParseInfo(r io.Reader, opts InfoOptions) (*InfoTable, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = '\t'
	}
	if opts.IDColumn == "" {
		opts.IDColumn = DefaultIDColumn
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.CodeLookupMalformed, "info file is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLookupMalformed, "read info header")
	}

	idIdx := -1
	var keepIdx []int
	var cols []string
	for i, name := range header {
		if name == opts.IDColumn {
			idIdx = i
		}
		if opts.Keep == nil || contains(opts.Keep, name) {
			keepIdx = append(keepIdx, i)
			cols = append(cols, name)
		}
	}
	if idIdx < 0 {
		return nil, errors.Newf(errors.CodeLookupMalformed, "info file has no %q column", opts.IDColumn)
	}

	t := &InfoTable{Columns: cols, Records: make(map[string][][]string)}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if stderrors.As(err, &pe) && stderrors.Is(pe.Err, csv.ErrFieldCount) {
				return nil, errors.Newf(errors.CodeLookupMalformed,
					"info line %d has %d fields, header has %d", pe.Line, len(row), len(header))
			}
			return nil, errors.Wrap(err, errors.CodeLookupMalformed, "read info row")
		}
		rec := make([]string, len(keepIdx))
		for j, i := range keepIdx {
			rec[j] = row[i]
		}
		id := row[idIdx]
		t.Records[id] = append(t.Records[id], rec)
	}
	return t, nil
}

// LoadInfo opens and parses an info file.
func LoadInfo(path string, opts InfoOptions) (*InfoTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.CodeLookupLoadFailed, "open info file").WithDetail(path).WithCause(err)
	}
	defer f.Close()
	return ParseInfo(f, opts)
}

// CompactColumns is the column set used when extra target info is hidden.
func CompactColumns(idColumn string) []string {
	if idColumn == "" {
		idColumn = DefaultIDColumn
	}
	return []string{UniprotColumn, idColumn}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

//Personal.AI order the ending

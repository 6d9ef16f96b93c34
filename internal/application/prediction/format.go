package prediction

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/FastTargetPred/internal/domain/target"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// Format selects the rendering of result messages.
type Format int

const (
	FormatText Format = iota
	FormatCSV
)

var formatNames = map[string]Format{
	"txt":  FormatText,
	"text": FormatText,
	"csv":  FormatCSV,
}

// ParseFormat maps a configuration value to a Format.
func ParseFormat(s string) (Format, error) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, errors.Newf(errors.CodeConfigInvalid, "unknown output format %q", s).
			WithDetail("accepted: txt, csv")
	}
	return f, nil
}

func (f Format) String() string {
	if f == FormatCSV {
		return "csv"
	}
	return "txt"
}

// DefaultCSVDelimiter separates CSV fields.
const DefaultCSVDelimiter = "\t"

const rowIndent = "               "

// renderContext is everything a formatter needs besides the message.
type renderContext struct {
	info       *target.InfoTable
	delimiter  string
	maxTargets int
	header     bool
}

type formatter func(rc *renderContext, msg ResultMessage) string

var formatters = map[Format]formatter{
	FormatText: formatText,
	FormatCSV:  formatCSV,
}

// rankRows sorts rows by descending score, keeping the flatten order among
// ties, and keeps the first maxTargets when maxTargets is above 1.
func rankRows(best *target.PerTargetBest, maxTargets int) []target.Row {
	rows := best.Flatten()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	if maxTargets > 1 && len(rows) > maxTargets {
		rows = rows[:maxTargets]
	}
	return rows
}

// infoRecords returns the info records of a target, or one empty record.
func infoRecords(info *target.InfoTable, id string) [][]string {
	if recs := info.Lookup(id); len(recs) > 0 {
		return recs
	}
	return [][]string{nil}
}

func formatText(rc *renderContext, msg ResultMessage) string {
	var lines []string
	switch {
	case msg.Err != nil:
		lines = append(lines, rowIndent+"Scoring failed: "+msg.Err.Error())
	default:
		rows := rankRows(msg.Best, rc.maxTargets)
		if len(rows) == 0 {
			lines = append(lines, rowIndent+"No hit.")
		}
		for rank, r := range rows {
			score := fmt.Sprintf("% .3f", r.Score)
			for _, rec := range infoRecords(rc.info, r.Target) {
				lines = append(lines, rowIndent+fmt.Sprintf("%-10d %-10s %7s  %-10s %s",
					rank+1, r.DatabaseID, score, r.Target, strings.Join(rec, " ")))
			}
		}
	}
	header := fmt.Sprintf("%-35s%5s", "Compound : >"+msg.Molecule+"<", "")
	return header + "\n" + strings.Join(lines, "\n") + "\n"
}

// csvHeader lists the fixed columns followed by the info columns.
func csvHeader(info *target.InfoTable) []string {
	h := []string{"query_name", "database_molecule_id", "target_id", "score"}
	if info != nil {
		h = append(h, info.Columns...)
	}
	return h
}

func formatCSV(rc *renderContext, msg ResultMessage) string {
	var sb strings.Builder
	header := csvHeader(rc.info)
	if rc.header {
		sb.WriteString(strings.Join(header, rc.delimiter))
		sb.WriteByte('\n')
	}
	if msg.Err != nil {
		return sb.String()
	}
	for _, r := range rankRows(msg.Best, rc.maxTargets) {
		for _, rec := range infoRecords(rc.info, r.Target) {
			row := make([]string, 0, len(header))
			row = append(row, msg.Molecule, r.DatabaseID, r.Target, formatScore(r.Score))
			row = append(row, rec...)
			for len(row) < len(header) {
				row = append(row, "")
			}
			sb.WriteString(strings.Join(row, rc.delimiter))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// formatScore prints the shortest exact decimal, always with a fractional
// part: 0.5 -> "0.5", 1 -> "1.0".
func formatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

//Personal.AI order the ending

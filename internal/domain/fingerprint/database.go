package fingerprint

import (
	"fmt"
	"io"

	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// DatabaseExt is the file extension of per-type database blobs.
const DatabaseExt = ".bfp"

// DatabaseObjectName returns the blob name for a database prefix and type,
// e.g. "db/chembl25_active" + ECFP4 -> "db/chembl25_active_ECFP4.bfp".
func DatabaseObjectName(prefix string, t Type) string {
	return fmt.Sprintf("%s_%s%s", prefix, t, DatabaseExt)
}

// DatabaseEntry is one reference molecule inside a database blob.
type DatabaseEntry struct {
	ID    string
	Bytes []byte
}

// DatabaseIterator walks a database blob without copying fingerprints.
// Layout: repeated [uint8 id length][ASCII id][payload bytes].
type DatabaseIterator struct {
	blob    []byte
	payload int
	pos     int
	err     error
	cur     DatabaseEntry
}

// NewDatabaseIterator iterates blob whose records carry payloadSize bytes.
func NewDatabaseIterator(blob []byte, payloadSize int) *DatabaseIterator {
	return &DatabaseIterator{blob: blob, payload: payloadSize}
}

// Next advances to the next record.  It returns false at the end of the blob
// or on a malformed record; check Err afterwards.
func (it *DatabaseIterator) Next() bool {
	if it.err != nil || it.pos >= len(it.blob) {
		return false
	}
	idLen := int(it.blob[it.pos])
	start := it.pos + 1
	end := start + idLen + it.payload
	if idLen == 0 || end > len(it.blob) {
		it.err = errors.Newf(errors.CodeDatabaseBlobMalformed,
			"truncated record at offset %d", it.pos)
		return false
	}
	it.cur = DatabaseEntry{
		ID:    string(it.blob[start : start+idLen]),
		Bytes: it.blob[start+idLen : end],
	}
	it.pos = end
	return true
}

// Entry returns the current record.  Bytes aliases the blob.
func (it *DatabaseIterator) Entry() DatabaseEntry { return it.cur }

// Err returns the first error met while iterating.
func (it *DatabaseIterator) Err() error { return it.err }

// ParseDatabase decodes a whole blob.
func ParseDatabase(blob []byte, payloadSize int) ([]DatabaseEntry, error) {
	var out []DatabaseEntry
	it := NewDatabaseIterator(blob, payloadSize)
	for it.Next() {
		out = append(out, it.Entry())
	}
	return out, it.Err()
}

// EncodeDatabase writes entries in database-blob layout.  Every entry must
// carry exactly payloadSize bytes.
func EncodeDatabase(w io.Writer, entries []DatabaseEntry, payloadSize int) error {
	for _, e := range entries {
		if len(e.ID) == 0 || len(e.ID) > MaxNameLength {
			return errors.Newf(errors.CodeDatabaseBlobMalformed, "database id length %d outside 1..%d", len(e.ID), MaxNameLength).
				WithDetail(e.ID)
		}
		if len(e.Bytes) != payloadSize {
			return errors.Newf(errors.CodeDatabaseBlobMalformed,
				"entry %s has %d bytes, expected %d", e.ID, len(e.Bytes), payloadSize)
		}
		if _, err := w.Write([]byte{byte(len(e.ID))}); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseBlobMalformed, "write id length")
		}
		if _, err := io.WriteString(w, e.ID); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseBlobMalformed, "write id")
		}
		if _, err := w.Write(e.Bytes); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseBlobMalformed, "write fingerprint")
		}
	}
	return nil
}

//Personal.AI order the ending

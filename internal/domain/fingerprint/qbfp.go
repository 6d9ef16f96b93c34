package fingerprint

import (
	"bufio"
	"encoding/binary"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// QueryExt is the file extension of per-molecule query files.
const QueryExt = ".qbfp"

// MaxNameLength is the longest molecule name that fits the signed length byte.
const MaxNameLength = 127

// Fragment is one fingerprint of one molecule.
type Fragment struct {
	Molecule  string
	Bytes     []byte
	BitLength uint32
}

// ValidateMoleculeName checks that name is 1..127 ASCII bytes.
func ValidateMoleculeName(name string) error {
	if len(name) == 0 || len(name) > MaxNameLength {
		return errors.Newf(errors.CodeQueryEncodingFailed,
			"molecule name length %d outside 1..%d", len(name), MaxNameLength).WithDetail(name)
	}
	for i := 0; i < len(name); i++ {
		if name[i] > 0x7f {
			return errors.New(errors.CodeQueryEncodingFailed, "molecule name is not ASCII").WithDetail(name)
		}
	}
	return nil
}

// EncodeQuery writes fragments in query-file layout:
//
//	[int8 name length][ASCII name][uint32 BE bit length][bitLength/8 bytes]
//
// one record per fragment, no header and no trailer.
func EncodeQuery(w io.Writer, fragments []Fragment) error {
	var lenBuf [4]byte
	for _, f := range fragments {
		if err := ValidateMoleculeName(f.Molecule); err != nil {
			return err
		}
		if len(f.Bytes) != PayloadSize(f.BitLength) {
			return errors.Newf(errors.CodeQueryEncodingFailed,
				"fingerprint of %s has %d bytes, bit length %d needs %d",
				f.Molecule, len(f.Bytes), f.BitLength, PayloadSize(f.BitLength))
		}
		if _, err := w.Write([]byte{byte(int8(len(f.Molecule)))}); err != nil {
			return errors.Wrap(err, errors.CodeQueryEncodingFailed, "write name length")
		}
		if _, err := io.WriteString(w, f.Molecule); err != nil {
			return errors.Wrap(err, errors.CodeQueryEncodingFailed, "write name")
		}
		binary.BigEndian.PutUint32(lenBuf[:], f.BitLength)
		if _, err := w.Write(lenBuf[:]); err != nil {
			return errors.Wrap(err, errors.CodeQueryEncodingFailed, "write bit length")
		}
		if _, err := w.Write(f.Bytes); err != nil {
			return errors.Wrap(err, errors.CodeQueryEncodingFailed, "write fingerprint")
		}
	}
	return nil
}

// DecodeQuery reads records until end of input.  A record cut short is an
// error; a clean end between records is not.
func DecodeQuery(r io.Reader) ([]Fragment, error) {
	br := bufio.NewReader(r)
	var out []Fragment
	for {
		lb, err := br.ReadByte()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeQueryDecodingFailed, "read name length")
		}
		nameLen := int(int8(lb))
		if nameLen <= 0 {
			return nil, errors.Newf(errors.CodeQueryDecodingFailed, "invalid name length %d", nameLen)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(br, name); err != nil {
			return nil, errors.Wrap(truncated(err), errors.CodeQueryDecodingFailed, "read name")
		}
		var lenBuf [4]byte
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			return nil, errors.Wrap(truncated(err), errors.CodeQueryDecodingFailed, "read bit length")
		}
		bits := binary.BigEndian.Uint32(lenBuf[:])
		payload := make([]byte, PayloadSize(bits))
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, errors.Wrap(truncated(err), errors.CodeQueryDecodingFailed, "read fingerprint")
		}
		out = append(out, Fragment{Molecule: string(name), Bytes: payload, BitLength: bits})
	}
}

func truncated(err error) error {
	if stderrors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// WriteQueryFile writes fragments to path.  The content is staged in a
// temporary file in the same directory and renamed into place, so readers
// never observe a partially written query.
func WriteQueryFile(path string, fragments []Fragment) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".qbfp-*")
	if err != nil {
		return errors.Wrap(err, errors.CodeQueryEncodingFailed, "create query file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = EncodeQuery(bw, fragments); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return errors.Wrap(err, errors.CodeQueryEncodingFailed, "flush query file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, errors.CodeQueryEncodingFailed, "close query file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, errors.CodeQueryEncodingFailed, "publish query file")
	}
	return nil
}

// ReadQueryFile decodes the query file at path.
func ReadQueryFile(path string) ([]Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeQueryDecodingFailed, "open query file")
	}
	defer f.Close()
	return DecodeQuery(f)
}

//Personal.AI order the ending

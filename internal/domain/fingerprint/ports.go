package fingerprint

import (
	"context"
)

// GeneratedFile is the text output of one fingerprint generation run.  Err
// is set when the generator failed for that type.
type GeneratedFile struct {
	Type      Type
	BitLength uint32
	Path      string
	Err       error
}

// Generator computes fingerprints of every molecule of a structure file,
// one text file per requested type.  One entry is returned per spec, in
// spec order, even when some of them failed.
type Generator interface {
	Generate(ctx context.Context, structurePath string, specs []Spec) []GeneratedFile
}

// BlobSource fetches database blobs by object name.
type BlobSource interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// BlobSourceFunc adapts a function to BlobSource.
type BlobSourceFunc func(ctx context.Context, name string) ([]byte, error)

// Fetch calls f.
func (f BlobSourceFunc) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

// BlobStore is a BlobSource that can also store blobs.
type BlobStore interface {
	BlobSource
	Put(ctx context.Context, name string, data []byte) error
}

//Personal.AI order the ending

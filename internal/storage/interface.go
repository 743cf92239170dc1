package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when the ref does not exist.
var ErrNotFound = errors.New("evidence not found")

// EvidenceStore keeps uploaded payment slips. Supports the local filesystem
// and S3.
type EvidenceStore interface {
	// Exists reports whether ref was uploaded.
	Exists(ctx context.Context, ref string) (bool, error)

	// Save stores the body under ref, replacing any previous upload.
	Save(ctx context.Context, ref string, body io.Reader, contentType string) error

	// Open returns the stored body; the caller closes it.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

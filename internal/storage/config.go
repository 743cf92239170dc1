package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Config holds storage configuration
type Config struct {
	Type    string // "local" or "s3"
	RootDir string // Directory for local storage
	Bucket  string // S3 bucket
	Region  string // S3 region; empty uses the AWS default chain
	Prefix  string // Key prefix inside the bucket
}

// New builds the store named by cfg.Type.
func New(ctx context.Context, cfg Config) (EvidenceStore, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStore(cfg.RootDir)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// NewRef returns a fresh reference for a slip uploaded by uploaderID,
// keeping the extension of the original filename.
func NewRef(uploaderID int32, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 8 {
		ext = ""
	}
	return path.Join("slips", strconv.FormatInt(int64(uploaderID), 10), uuid.New().String()+ext)
}

// RefUploader returns the user a ref was issued to by NewRef.
func RefUploader(ref string) (int32, bool) {
	parts := strings.Split(ref, "/")
	if len(parts) != 3 || parts[0] != "slips" || !ValidRef(ref) {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// ValidRef rejects refs that could escape the storage root.
func ValidRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "/") || strings.Contains(ref, "\\") {
		return false
	}
	clean := path.Clean(ref)
	return clean == ref && clean != "." && !strings.HasPrefix(clean, "../") && clean != ".."
}

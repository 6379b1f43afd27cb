package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"harvesthub/internal/config"
)

// ErrObjectNotFound is returned by Open when no object has the given name.
var ErrObjectNotFound = errors.New("object not found")

// Storage persists uploaded listing photos by name.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// New builds the backend selected by cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverLocal:
		store, err := NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageDriverS3:
		store, err := NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces a client supplied filename to a flat ASCII name
// that cannot escape the upload directory. It returns "" when nothing safe
// remains.
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

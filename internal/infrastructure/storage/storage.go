// Package storage keeps uploaded document bytes on the local filesystem or
// in an S3-compatible bucket. Both drivers return a relative object key as
// the locator persisted on the document record.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/legaltech/case-management/internal/core/ports"
)

// Driver selects a backend.
type Driver string

const (
	DriverLocal Driver = "local"
	DriverS3    Driver = "s3"
)

// Config holds the settings of every driver; only the selected driver's
// fields are read.
type Config struct {
	Driver    Driver
	LocalPath string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3PathStyle       bool
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// New builds the configured driver.
func New(ctx context.Context, cfg Config) (ports.FileStorage, error) {
	switch cfg.Driver {
	case DriverLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case DriverS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

// objectKey builds "<prefix>/<uuid>_<sanitized name>". The uuid keeps keys
// unique even for identical file names.
func objectKey(meta ports.FileMeta) string {
	name := sanitize(meta.FileName)
	if name == "" {
		name = "file"
	}
	key := uuid.NewString() + "_" + name
	if prefix := strings.Trim(sanitizePath(meta.Prefix), "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

func sanitize(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20, r == '/', r == '\\', r == ':':
			return -1
		}
		return r
	}, name)
}

func sanitizePath(p string) string {
	parts := strings.Split(strings.ReplaceAll(p, "\\", "/"), "/")
	out := parts[:0]
	for _, part := range parts {
		if s := sanitize(part); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

// validKey rejects locators that could escape the storage root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

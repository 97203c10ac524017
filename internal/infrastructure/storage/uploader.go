// Package storage stores media uploads in an object store (GCS, MinIO or S3)
// behind a retrying, time-bounded uploader.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
)

// Backend is a single-bucket object store.
type Backend interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}

var ErrForeignURL = errors.New("storage: url does not belong to this bucket")

// Uploader implements repository.MediaStore on top of a Backend.
type Uploader struct {
	backend    Backend
	baseURL    string
	timeout    time.Duration
	maxTries   uint
	initialGap time.Duration
	logger     logrus.FieldLogger
}

type Options struct {
	// BaseURL is the public prefix objects are served under, without trailing slash.
	BaseURL string
	// Timeout bounds a single upload attempt.
	Timeout time.Duration
	// MaxTries bounds the number of attempts, including the first.
	MaxTries int
	// InitialBackoff is the first retry delay; defaults to 500ms.
	InitialBackoff time.Duration
	Logger         logrus.FieldLogger
}

func NewUploader(b Backend, opts Options) *Uploader {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.MaxTries < 1 {
		opts.MaxTries = 1
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Uploader{
		backend:    b,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		maxTries:   uint(opts.MaxTries),
		initialGap: opts.InitialBackoff,
		logger:     opts.Logger,
	}
}

// Upload stores f under folder/<uuid><ext>. Each attempt reopens the file and
// runs under its own timeout; failed attempts are retried with exponential backoff.
func (u *Uploader) Upload(ctx context.Context, folder string, f entity.MediaFile) (entity.MediaAsset, error) {
	if f.Open == nil {
		return entity.MediaAsset{}, errors.New("storage: file has no content")
	}
	key := path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(f.Name)))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attempt := 0
	op := func() (struct{}, error) {
		attempt++
		rc, err := f.Open()
		if err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("open %s: %w", f.Name, err))
		}
		defer func() { _ = rc.Close() }()

		actx, cancel := context.WithTimeout(ctx, u.timeout)
		defer cancel()
		if err := u.backend.Put(actx, key, contentType, rc, f.Size); err != nil {
			u.logger.WithError(err).WithFields(logrus.Fields{"key": key, "attempt": attempt}).Warn("media upload attempt failed")
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = u.initialGap
	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(u.maxTries),
	)
	if err != nil {
		return entity.MediaAsset{}, fmt.Errorf("upload %s after %d attempt(s): %w", f.Name, attempt, err)
	}
	return entity.MediaAsset{Key: key, URL: u.URL(key)}, nil
}

// Delete removes the object behind url. Empty urls are ignored.
func (u *Uploader) Delete(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	key, ok := u.KeyFromURL(url)
	if !ok {
		return fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.backend.Delete(ctx, key)
}

func (u *Uploader) URL(key string) string {
	return u.baseURL + "/" + key
}

// KeyFromURL recovers the object key from a URL built by URL.
func (u *Uploader) KeyFromURL(url string) (string, bool) {
	prefix := u.baseURL + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

var _ repository.MediaStore = (*Uploader)(nil)

package repository

import (
	"context"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
)

// MediaStore persists user uploads and returns durable URLs.
type MediaStore interface {
	Upload(ctx context.Context, folder string, f entity.MediaFile) (entity.MediaAsset, error)
	// Delete removes the object behind a URL previously returned by Upload.
	Delete(ctx context.Context, url string) error
}

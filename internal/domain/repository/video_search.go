package repository

import (
	"context"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
)

// VideoSearchIndex is a full-text index over videos.
type VideoSearchIndex interface {
	Index(ctx context.Context, v *entity.Video) error
	Remove(ctx context.Context, id string) error
	// Search returns the ids of matching published videos, best match first.
	Search(ctx context.Context, q string, from, size int) ([]string, int64, error)
}

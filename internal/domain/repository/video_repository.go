package repository

import (
	"context"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/pkg/pagination"
)

type VideoRepository interface {
	Create(ctx context.Context, v *entity.Video) error
	GetByID(ctx context.Context, id string) (*entity.Video, error)
	// RecordView increments the view counter and returns the updated video.
	RecordView(ctx context.Context, id string) (*entity.Video, error)
	Update(ctx context.Context, v *entity.Video) error
	TogglePublished(ctx context.Context, id string) (bool, error)
	// Delete removes the video and every like on it or on its comments.
	Delete(ctx context.Context, id string) error
	// ListByOwner filters by owner and, when p.Search is set, title/description.
	ListByOwner(ctx context.Context, ownerID string, p pagination.Params) ([]entity.Video, int64, error)
	SearchPublished(ctx context.Context, p pagination.Params) ([]entity.Video, int64, error)
	GetManyPublished(ctx context.Context, ids []string) ([]entity.Video, error)
	Exists(ctx context.Context, id string) (bool, error)
}

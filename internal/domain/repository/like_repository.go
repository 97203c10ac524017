package repository

import (
	"context"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
)

type LikeRepository interface {
	// Toggle atomically removes the (user, target) like if present, else adds it.
	// A missing target yields a not-found error.
	Toggle(ctx context.Context, userID string, target entity.LikeTarget, targetID string) (entity.ToggleAction, *entity.Like, error)
	Count(ctx context.Context, target entity.LikeTarget, targetID string) (int64, error)
	LikedVideos(ctx context.Context, userID string) ([]entity.Video, error)
}

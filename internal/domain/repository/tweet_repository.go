package repository

import (
	"context"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/pkg/pagination"
)

type TweetRepository interface {
	Create(ctx context.Context, t *entity.Tweet) error
	GetByID(ctx context.Context, id string) (*entity.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) (*entity.Tweet, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string, p pagination.Params) ([]entity.Tweet, int64, error)
	AllByOwner(ctx context.Context, ownerID string) ([]entity.Tweet, error)
}

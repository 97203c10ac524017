package repository

import (
	"context"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
)

type PlaylistRepository interface {
	Create(ctx context.Context, p *entity.Playlist) error
	GetByID(ctx context.Context, id string) (*entity.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Playlist, error)
	Update(ctx context.Context, id, name, description string) (*entity.Playlist, error)
	Delete(ctx context.Context, id string) error
	// AddVideo appends videoID unless already present.
	AddVideo(ctx context.Context, playlistID, videoID string) (*entity.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID string) (*entity.Playlist, error)
}

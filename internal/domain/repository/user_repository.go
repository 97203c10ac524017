package repository

import (
	"context"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByLogin finds a user whose username or email matches the given values.
	GetByLogin(ctx context.Context, username, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	SetRefreshToken(ctx context.Context, id, token string) error
	ChannelProfile(ctx context.Context, username, viewerID string) (*entity.ChannelProfile, error)
	AddToWatchHistory(ctx context.Context, userID, videoID string) error
	WatchHistory(ctx context.Context, userID string) ([]entity.WatchedVideo, error)
	Exists(ctx context.Context, id string) (bool, error)
}

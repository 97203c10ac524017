package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	repo "github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
)

type PlaylistService struct {
	Playlists repo.PlaylistRepository
	Videos    repo.VideoRepository
	Logger    logrus.FieldLogger
}

func NewPlaylistService(playlists repo.PlaylistRepository, videos repo.VideoRepository, logger logrus.FieldLogger) *PlaylistService {
	return &PlaylistService{Playlists: playlists, Videos: videos, Logger: logger}
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, actorID, name, description string) (*entity.Playlist, error) {
	name, description, err := playlistText(name, description)
	if err != nil {
		return nil, err
	}
	p := &entity.Playlist{Name: name, Description: description, OwnerID: actorID, Videos: []string{}}
	if err := s.Playlists.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlaylistService) GetUserPlaylists(ctx context.Context, userID string) ([]entity.Playlist, error) {
	if err := parseID("userId", userID); err != nil {
		return nil, err
	}
	return s.Playlists.ListByOwner(ctx, userID)
}

func (s *PlaylistService) GetPlaylist(ctx context.Context, playlistID string) (*entity.Playlist, error) {
	if err := parseID("playlistId", playlistID); err != nil {
		return nil, err
	}
	return s.Playlists.GetByID(ctx, playlistID)
}

func (s *PlaylistService) UpdatePlaylist(ctx context.Context, actorID, playlistID, name, description string) (*entity.Playlist, error) {
	if err := parseID("playlistId", playlistID); err != nil {
		return nil, err
	}
	name, description, err := playlistText(name, description)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actorID, playlistID); err != nil {
		return nil, err
	}
	return s.Playlists.Update(ctx, playlistID, name, description)
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, actorID, playlistID string) error {
	if err := parseID("playlistId", playlistID); err != nil {
		return err
	}
	if _, err := s.owned(ctx, actorID, playlistID); err != nil {
		return err
	}
	return s.Playlists.Delete(ctx, playlistID)
}

// AddVideo appends videoID to the playlist. Adding a video twice is a no-op.
func (s *PlaylistService) AddVideo(ctx context.Context, actorID, videoID, playlistID string) (*entity.Playlist, error) {
	if err := parseIDs(videoID, playlistID); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actorID, playlistID); err != nil {
		return nil, err
	}
	ok, err := s.Videos.Exists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("video", videoID)
	}
	return s.Playlists.AddVideo(ctx, playlistID, videoID)
}

// RemoveVideo pulls videoID from the playlist. Removing an absent video is a no-op.
func (s *PlaylistService) RemoveVideo(ctx context.Context, actorID, videoID, playlistID string) (*entity.Playlist, error) {
	if err := parseIDs(videoID, playlistID); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actorID, playlistID); err != nil {
		return nil, err
	}
	return s.Playlists.RemoveVideo(ctx, playlistID, videoID)
}

func (s *PlaylistService) owned(ctx context.Context, actorID, playlistID string) (*entity.Playlist, error) {
	p, err := s.Playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, apperror.Forbidden("You are not allowed to modify this playlist")
	}
	return p, nil
}

func parseIDs(videoID, playlistID string) error {
	if err := parseID("videoId", videoID); err != nil {
		return err
	}
	return parseID("playlistId", playlistID)
}

func playlistText(name, description string) (string, string, error) {
	name, err := requireText("name", name, "Name and description are required")
	if err != nil {
		return "", "", err
	}
	description, err = requireText("description", description, "Name and description are required")
	if err != nil {
		return "", "", err
	}
	return name, description, nil
}

package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	repo "github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/events"
	"github.com/oksasatya/vidtube-api/pkg/pagination"
)

type VideoService struct {
	Videos repo.VideoRepository
	Users  repo.UserRepository
	Media  repo.MediaStore
	Index  repo.VideoSearchIndex // optional
	Events EventPublisher        // optional
	Stats  repo.StatsCache       // optional
	Logger logrus.FieldLogger
}

func NewVideoService(videos repo.VideoRepository, users repo.UserRepository, media repo.MediaStore, index repo.VideoSearchIndex, pub EventPublisher, logger logrus.FieldLogger) *VideoService {
	return &VideoService{Videos: videos, Users: users, Media: media, Index: index, Events: pub, Logger: logger}
}

type PublishVideoInput struct {
	Title       string
	Description string
	Duration    float64
	VideoFile   *entity.MediaFile
	Thumbnail   *entity.MediaFile
}

// PublishStatus is the result of flipping a video's visibility.
type PublishStatus struct {
	VideoID     string `json:"videoId"`
	IsPublished bool   `json:"isPublished"`
}

// ListVideos pages through the actor's own videos.
func (s *VideoService) ListVideos(ctx context.Context, actorID string, p pagination.Params) (pagination.Page[entity.Video], error) {
	videos, total, err := s.Videos.ListByOwner(ctx, actorID, p)
	if err != nil {
		return pagination.Page[entity.Video]{}, err
	}
	return pagination.NewPage(videos, p, total), nil
}

// Publish uploads the video then the thumbnail and stores the row. Uploaded
// objects are removed again when a later step fails.
func (s *VideoService) Publish(ctx context.Context, actorID string, in PublishVideoInput) (*entity.Video, error) {
	title, err := requireText("title", in.Title, "Title and description are required")
	if err != nil {
		return nil, err
	}
	description, err := requireText("description", in.Description, "Title and description are required")
	if err != nil {
		return nil, err
	}
	if in.VideoFile == nil {
		return nil, apperror.Validation("videoFile", "Video file is required")
	}
	if in.Thumbnail == nil {
		return nil, apperror.Validation("thumbnail", "Thumbnail is required")
	}
	if in.Duration < 0 {
		return nil, apperror.Validation("duration", "Duration must not be negative")
	}

	videoAsset, err := s.Media.Upload(ctx, "videos", *in.VideoFile)
	if err != nil {
		return nil, apperror.Upstream("Error while uploading video", err)
	}
	thumbAsset, err := s.Media.Upload(ctx, "thumbnails", *in.Thumbnail)
	if err != nil {
		discardMedia(ctx, s.Media, s.Logger, videoAsset.URL)
		return nil, apperror.Upstream("Error while uploading thumbnail", err)
	}

	v := &entity.Video{
		Title:        title,
		Description:  description,
		VideoFileURL: videoAsset.URL,
		ThumbnailURL: thumbAsset.URL,
		Duration:     in.Duration,
		IsPublished:  true,
		OwnerID:      actorID,
	}
	if err := s.Videos.Create(ctx, v); err != nil {
		discardMedia(ctx, s.Media, s.Logger, videoAsset.URL, thumbAsset.URL)
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"video_id": v.ID, "owner_id": actorID}).Info("video published")
	dropStats(ctx, s.Stats, actorID)

	s.index(ctx, v)
	publish(ctx, s.Events, s.Logger, events.VideoPublished, events.VideoPublishedPayload{
		VideoID:      v.ID,
		Title:        v.Title,
		ThumbnailURL: v.ThumbnailURL,
		ChannelID:    v.OwnerID,
	})
	return v, nil
}

// GetVideo counts a view and records it in the actor's watch history.
// Unpublished videos are only visible to their owner.
func (s *VideoService) GetVideo(ctx context.Context, actorID, videoID string) (*entity.Video, error) {
	if err := parseID("videoId", videoID); err != nil {
		return nil, err
	}
	v, err := s.Videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !v.IsPublished && v.OwnerID != actorID {
		return nil, apperror.NotFound("video", videoID)
	}
	if v, err = s.Videos.RecordView(ctx, videoID); err != nil {
		return nil, err
	}
	if actorID != "" {
		if err := s.Users.AddToWatchHistory(ctx, actorID, videoID); err != nil {
			s.Logger.WithError(err).WithField("video_id", videoID).Warn("watch history update failed")
		}
	}
	return v, nil
}

func (s *VideoService) UpdateVideo(ctx context.Context, actorID, videoID, title, description string, thumbnail *entity.MediaFile) (*entity.Video, error) {
	if err := parseID("videoId", videoID); err != nil {
		return nil, err
	}
	title, err := requireText("title", title, "Title and description are required")
	if err != nil {
		return nil, err
	}
	description, err = requireText("description", description, "Title and description are required")
	if err != nil {
		return nil, err
	}
	if thumbnail == nil {
		return nil, apperror.Validation("thumbnail", "Thumbnail is required")
	}
	v, err := s.owned(ctx, actorID, videoID)
	if err != nil {
		return nil, err
	}

	asset, err := s.Media.Upload(ctx, "thumbnails", *thumbnail)
	if err != nil {
		return nil, apperror.Upstream("Error while uploading thumbnail", err)
	}
	old := v.ThumbnailURL
	v.Title, v.Description, v.ThumbnailURL = title, description, asset.URL
	if err := s.Videos.Update(ctx, v); err != nil {
		discardMedia(ctx, s.Media, s.Logger, asset.URL)
		return nil, err
	}
	discardMedia(ctx, s.Media, s.Logger, old)
	s.index(ctx, v)
	return v, nil
}

// DeleteVideo removes the row, its likes and its media.
func (s *VideoService) DeleteVideo(ctx context.Context, actorID, videoID string) error {
	if err := parseID("videoId", videoID); err != nil {
		return err
	}
	v, err := s.owned(ctx, actorID, videoID)
	if err != nil {
		return err
	}
	if err := s.Videos.Delete(ctx, videoID); err != nil {
		return err
	}
	discardMedia(ctx, s.Media, s.Logger, v.VideoFileURL, v.ThumbnailURL)
	dropStats(ctx, s.Stats, v.OwnerID)
	if s.Index != nil {
		c, cancel := detached(ctx)
		defer cancel()
		if err := s.Index.Remove(c, videoID); err != nil {
			s.Logger.WithError(err).WithField("video_id", videoID).Warn("search index remove failed")
		}
	}
	return nil
}

func (s *VideoService) TogglePublishStatus(ctx context.Context, actorID, videoID string) (*PublishStatus, error) {
	if err := parseID("videoId", videoID); err != nil {
		return nil, err
	}
	v, err := s.owned(ctx, actorID, videoID)
	if err != nil {
		return nil, err
	}
	published, err := s.Videos.TogglePublished(ctx, videoID)
	if err != nil {
		return nil, err
	}
	v.IsPublished = published
	s.index(ctx, v)
	return &PublishStatus{VideoID: videoID, IsPublished: published}, nil
}

// Search finds published videos. The search index is used when available;
// the store's text match serves when it is not or when it fails.
func (s *VideoService) Search(ctx context.Context, p pagination.Params) (pagination.Page[entity.Video], error) {
	if s.Index != nil && p.Search != "" {
		ids, total, err := s.Index.Search(ctx, p.Search, p.Offset(), p.Limit)
		if err == nil {
			videos, err := s.Videos.GetManyPublished(ctx, ids)
			if err != nil {
				return pagination.Page[entity.Video]{}, err
			}
			return pagination.NewPage(videos, p, total), nil
		}
		s.Logger.WithError(err).Warn("search index query failed, falling back to store")
	}
	videos, total, err := s.Videos.SearchPublished(ctx, p)
	if err != nil {
		return pagination.Page[entity.Video]{}, err
	}
	return pagination.NewPage(videos, p, total), nil
}

func (s *VideoService) owned(ctx context.Context, actorID, videoID string) (*entity.Video, error) {
	v, err := s.Videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != actorID {
		return nil, apperror.Forbidden("You are not allowed to modify this video")
	}
	return v, nil
}

func (s *VideoService) index(ctx context.Context, v *entity.Video) {
	if s.Index == nil {
		return
	}
	c, cancel := detached(ctx)
	defer cancel()
	if err := s.Index.Index(c, v); err != nil {
		s.Logger.WithError(err).WithField("video_id", v.ID).Warn("search index update failed")
	}
}

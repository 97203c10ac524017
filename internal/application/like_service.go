package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	repo "github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
)

type LikeService struct {
	Likes  repo.LikeRepository
	// Videos and Stats are optional; with both set, video like toggles clear
	// the owner's cached channel stats.
	Videos repo.VideoRepository
	Stats  repo.StatsCache
	Logger logrus.FieldLogger
}

func NewLikeService(likes repo.LikeRepository, logger logrus.FieldLogger) *LikeService {
	return &LikeService{Likes: likes, Logger: logger}
}

// LikeToggle is the outcome of a like toggle.
type LikeToggle struct {
	Action entity.ToggleAction `json:"action"`
	Like   *entity.Like        `json:"like"`
}

func (r LikeToggle) Message() string {
	if r.Action == entity.ToggleRemoved {
		return "Like removed successfully"
	}
	return "Like added successfully"
}

var likeParams = map[entity.LikeTarget]string{
	entity.LikeTargetVideo:   "videoId",
	entity.LikeTargetComment: "commentId",
	entity.LikeTargetTweet:   "tweetId",
}

// Toggle removes the actor's like on the target if present, else adds it.
func (s *LikeService) Toggle(ctx context.Context, actorID string, target entity.LikeTarget, targetID string) (*LikeToggle, error) {
	if !target.Valid() {
		return nil, apperror.Validation("targetType", "unknown like target")
	}
	if err := parseID(likeParams[target], targetID); err != nil {
		return nil, err
	}
	action, like, err := s.Likes.Toggle(ctx, actorID, target, targetID)
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"target": target, "target_id": targetID, "action": action}).Debug("like toggled")
	if target == entity.LikeTargetVideo {
		s.dropOwnerStats(ctx, targetID)
	}
	return &LikeToggle{Action: action, Like: like}, nil
}

func (s *LikeService) dropOwnerStats(ctx context.Context, videoID string) {
	if s.Stats == nil || s.Videos == nil {
		return
	}
	v, err := s.Videos.GetByID(ctx, videoID)
	if err != nil {
		s.Logger.WithError(err).WithField("video_id", videoID).Warn("stats invalidate lookup failed")
		return
	}
	dropStats(ctx, s.Stats, v.OwnerID)
}

func (s *LikeService) ToggleVideoLike(ctx context.Context, actorID, videoID string) (*LikeToggle, error) {
	return s.Toggle(ctx, actorID, entity.LikeTargetVideo, videoID)
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, actorID, commentID string) (*LikeToggle, error) {
	return s.Toggle(ctx, actorID, entity.LikeTargetComment, commentID)
}

func (s *LikeService) ToggleTweetLike(ctx context.Context, actorID, tweetID string) (*LikeToggle, error) {
	return s.Toggle(ctx, actorID, entity.LikeTargetTweet, tweetID)
}

func (s *LikeService) Count(ctx context.Context, target entity.LikeTarget, targetID string) (*entity.LikeCount, error) {
	if !target.Valid() {
		return nil, apperror.Validation("targetType", "unknown like target")
	}
	if err := parseID(likeParams[target], targetID); err != nil {
		return nil, err
	}
	n, err := s.Likes.Count(ctx, target, targetID)
	if err != nil {
		return nil, err
	}
	return &entity.LikeCount{TargetType: target, TargetID: targetID, Likes: n}, nil
}

func (s *LikeService) LikedVideos(ctx context.Context, actorID string) ([]entity.Video, error) {
	return s.Likes.LikedVideos(ctx, actorID)
}

package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	repo "github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/pagination"
)

type CommentService struct {
	Comments repo.CommentRepository
	Videos   repo.VideoRepository
	Logger   logrus.FieldLogger
}

func NewCommentService(comments repo.CommentRepository, videos repo.VideoRepository, logger logrus.FieldLogger) *CommentService {
	return &CommentService{Comments: comments, Videos: videos, Logger: logger}
}

// ListVideoComments pages through a video's comments, newest first.
func (s *CommentService) ListVideoComments(ctx context.Context, videoID string, p pagination.Params) (pagination.Page[entity.Comment], error) {
	if err := parseID("videoId", videoID); err != nil {
		return pagination.Page[entity.Comment]{}, err
	}
	if err := s.videoExists(ctx, videoID); err != nil {
		return pagination.Page[entity.Comment]{}, err
	}
	comments, total, err := s.Comments.ListByVideo(ctx, videoID, p)
	if err != nil {
		return pagination.Page[entity.Comment]{}, err
	}
	return pagination.NewPage(comments, p, total), nil
}

func (s *CommentService) AddComment(ctx context.Context, actorID, videoID, content string) (*entity.Comment, error) {
	if err := parseID("videoId", videoID); err != nil {
		return nil, err
	}
	content, err := requireText("content", content, "Comment content is required")
	if err != nil {
		return nil, err
	}
	if err := s.videoExists(ctx, videoID); err != nil {
		return nil, err
	}
	c := &entity.Comment{Content: content, VideoID: videoID, OwnerID: actorID}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, actorID, commentID, content string) (*entity.Comment, error) {
	if err := parseID("commentId", commentID); err != nil {
		return nil, err
	}
	content, err := requireText("content", content, "Comment content is required")
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actorID, commentID); err != nil {
		return nil, err
	}
	return s.Comments.UpdateContent(ctx, commentID, content)
}

func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID string) error {
	if err := parseID("commentId", commentID); err != nil {
		return err
	}
	if _, err := s.owned(ctx, actorID, commentID); err != nil {
		return err
	}
	return s.Comments.Delete(ctx, commentID)
}

func (s *CommentService) owned(ctx context.Context, actorID, commentID string) (*entity.Comment, error) {
	c, err := s.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != actorID {
		return nil, apperror.Forbidden("You are not allowed to modify this comment")
	}
	return c, nil
}

func (s *CommentService) videoExists(ctx context.Context, videoID string) error {
	ok, err := s.Videos.Exists(ctx, videoID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("video", videoID)
	}
	return nil
}

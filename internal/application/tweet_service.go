package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	repo "github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/pagination"
)

type TweetService struct {
	Tweets repo.TweetRepository
	Users  repo.UserRepository
	Logger logrus.FieldLogger
}

func NewTweetService(tweets repo.TweetRepository, users repo.UserRepository, logger logrus.FieldLogger) *TweetService {
	return &TweetService{Tweets: tweets, Users: users, Logger: logger}
}

func (s *TweetService) CreateTweet(ctx context.Context, actorID, content string) (*entity.Tweet, error) {
	content, err := requireText("content", content, "Tweet content is required")
	if err != nil {
		return nil, err
	}
	t := &entity.Tweet{Content: content, OwnerID: actorID}
	if err := s.Tweets.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetUserTweets returns every tweet of userID, newest first.
func (s *TweetService) GetUserTweets(ctx context.Context, userID string) ([]entity.Tweet, error) {
	if err := parseID("userId", userID); err != nil {
		return nil, err
	}
	ok, err := s.Users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("user", userID)
	}
	return s.Tweets.AllByOwner(ctx, userID)
}

// ListTweets pages through the actor's tweets, matching query against content.
func (s *TweetService) ListTweets(ctx context.Context, actorID string, p pagination.Params) (pagination.Page[entity.Tweet], error) {
	tweets, total, err := s.Tweets.ListByOwner(ctx, actorID, p)
	if err != nil {
		return pagination.Page[entity.Tweet]{}, err
	}
	return pagination.NewPage(tweets, p, total), nil
}

func (s *TweetService) UpdateTweet(ctx context.Context, actorID, tweetID, content string) (*entity.Tweet, error) {
	if err := parseID("tweetId", tweetID); err != nil {
		return nil, err
	}
	content, err := requireText("content", content, "Tweet content is required")
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, actorID, tweetID); err != nil {
		return nil, err
	}
	return s.Tweets.UpdateContent(ctx, tweetID, content)
}

func (s *TweetService) DeleteTweet(ctx context.Context, actorID, tweetID string) error {
	if err := parseID("tweetId", tweetID); err != nil {
		return err
	}
	if err := s.checkOwner(ctx, actorID, tweetID); err != nil {
		return err
	}
	return s.Tweets.Delete(ctx, tweetID)
}

func (s *TweetService) checkOwner(ctx context.Context, actorID, tweetID string) error {
	t, err := s.Tweets.GetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if t.OwnerID != actorID {
		return apperror.Forbidden("You are not allowed to modify this tweet")
	}
	return nil
}

package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	repo "github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
)

type SubscriptionService struct {
	Subscriptions repo.SubscriptionRepository
	Users         repo.UserRepository
	Stats         repo.StatsCache // optional
	Logger        logrus.FieldLogger
}

func NewSubscriptionService(subs repo.SubscriptionRepository, users repo.UserRepository, logger logrus.FieldLogger) *SubscriptionService {
	return &SubscriptionService{Subscriptions: subs, Users: users, Logger: logger}
}

type SubscriptionToggle struct {
	Action       entity.ToggleAction  `json:"action"`
	Subscription *entity.Subscription `json:"subscription"`
}

func (r SubscriptionToggle) Message() string {
	if r.Action == entity.ToggleRemoved {
		return "Subscribe removed Successfully"
	}
	return "Subscription added Successfully"
}

func (s *SubscriptionService) ToggleSubscription(ctx context.Context, actorID, channelID string) (*SubscriptionToggle, error) {
	if err := parseID("channelId", channelID); err != nil {
		return nil, err
	}
	if actorID == channelID {
		return nil, apperror.Validation("channelId", "You can't subscribe to yourself")
	}
	action, sub, err := s.Subscriptions.Toggle(ctx, actorID, channelID)
	if err != nil {
		return nil, err
	}
	dropStats(ctx, s.Stats, channelID)
	return &SubscriptionToggle{Action: action, Subscription: sub}, nil
}

// ChannelSubscribers lists who subscribes to channelID.
func (s *SubscriptionService) ChannelSubscribers(ctx context.Context, channelID string) ([]entity.Subscriber, error) {
	if err := s.userExists(ctx, "channelId", channelID); err != nil {
		return nil, err
	}
	return s.Subscriptions.Subscribers(ctx, channelID)
}

// SubscribedChannels lists the channels subscriberID follows.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID string) ([]entity.SubscribedChannel, error) {
	if err := s.userExists(ctx, "subscriberId", subscriberID); err != nil {
		return nil, err
	}
	return s.Subscriptions.SubscribedChannels(ctx, subscriberID)
}

func (s *SubscriptionService) userExists(ctx context.Context, field, id string) error {
	if err := parseID(field, id); err != nil {
		return err
	}
	ok, err := s.Users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("user", id)
	}
	return nil
}

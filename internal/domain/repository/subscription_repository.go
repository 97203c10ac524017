package repository

import (
	"context"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
)

type SubscriptionRepository interface {
	// Toggle atomically removes the subscription if present, else adds it.
	Toggle(ctx context.Context, subscriberID, channelID string) (entity.ToggleAction, *entity.Subscription, error)
	Subscribers(ctx context.Context, channelID string) ([]entity.Subscriber, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]entity.SubscribedChannel, error)
	// SubscriberUsers returns the full user rows of a channel's subscribers, for notifications.
	SubscriberUsers(ctx context.Context, channelID string) ([]entity.User, error)
}

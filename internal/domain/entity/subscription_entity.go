package entity

import "time"

// Subscription links a subscriber to a channel. SubscriberID never equals ChannelID.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriber"`
	ChannelID    string    `json:"channel"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Subscriber is a subscription row joined with the subscribing user.
type Subscriber struct {
	Subscription
	User UserSummary `json:"subscriberDetails"`
}

// SubscribedChannel is a subscription row joined with the channel.
type SubscribedChannel struct {
	Subscription
	Channel UserSummary `json:"channelDetails"`
}

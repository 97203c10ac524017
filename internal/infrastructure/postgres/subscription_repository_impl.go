package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
)

const subscriptionColumns = `id, subscriber_id, channel_id, created_at`

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

func scanSubscription(row pgx.Row) (*entity.Subscription, error) {
	s := &entity.Subscription{}
	if err := row.Scan(&s.ID, &s.SubscriberID, &s.ChannelID, &s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// Toggle follows the same delete-else-insert transaction as likes.
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (entity.ToggleAction, *entity.Subscription, error) {
	var (
		action entity.ToggleAction
		sub    *entity.Subscription
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		removed, err := scanSubscription(tx.QueryRow(ctx, `
			DELETE FROM subscriptions
			WHERE subscriber_id = $1 AND channel_id = $2
			RETURNING `+subscriptionColumns, subscriberID, channelID))
		if err == nil {
			action, sub = entity.ToggleRemoved, removed
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, channelID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}

		added, err := scanSubscription(tx.QueryRow(ctx, `
			INSERT INTO subscriptions (subscriber_id, channel_id)
			VALUES ($1, $2)
			ON CONFLICT (subscriber_id, channel_id) DO NOTHING
			RETURNING `+subscriptionColumns, subscriberID, channelID))
		if errors.Is(err, pgx.ErrNoRows) {
			added, err = scanSubscription(tx.QueryRow(ctx, `
				SELECT `+subscriptionColumns+` FROM subscriptions
				WHERE subscriber_id = $1 AND channel_id = $2
			`, subscriberID, channelID))
		}
		if err != nil {
			return err
		}
		action, sub = entity.ToggleAdded, added
		return nil
	})
	if err != nil {
		return "", nil, mapErr(err, "channel", channelID)
	}
	return action, sub, nil
}

func (r *SubscriptionRepository) Subscribers(ctx context.Context, channelID string) ([]entity.Subscriber, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.subscriber_id, s.channel_id, s.created_at,
		       u.id, u.username, u.fullname, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`, channelID)
	if err != nil {
		return nil, mapErr(err, "subscribers", channelID)
	}
	defer rows.Close()

	out := make([]entity.Subscriber, 0)
	for rows.Next() {
		var s entity.Subscriber
		if err := rows.Scan(&s.ID, &s.SubscriberID, &s.ChannelID, &s.CreatedAt,
			&s.User.ID, &s.User.Username, &s.User.Fullname, &s.User.AvatarURL); err != nil {
			return nil, mapErr(err, "subscribers", channelID)
		}
		out = append(out, s)
	}
	return out, mapErr(rows.Err(), "subscribers", channelID)
}

func (r *SubscriptionRepository) SubscribedChannels(ctx context.Context, subscriberID string) ([]entity.SubscribedChannel, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.subscriber_id, s.channel_id, s.created_at,
		       u.id, u.username, u.fullname, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`, subscriberID)
	if err != nil {
		return nil, mapErr(err, "subscriptions", subscriberID)
	}
	defer rows.Close()

	out := make([]entity.SubscribedChannel, 0)
	for rows.Next() {
		var s entity.SubscribedChannel
		if err := rows.Scan(&s.ID, &s.SubscriberID, &s.ChannelID, &s.CreatedAt,
			&s.Channel.ID, &s.Channel.Username, &s.Channel.Fullname, &s.Channel.AvatarURL); err != nil {
			return nil, mapErr(err, "subscriptions", subscriberID)
		}
		out = append(out, s)
	}
	return out, mapErr(rows.Err(), "subscriptions", subscriberID)
}

func (r *SubscriptionRepository) SubscriberUsers(ctx context.Context, channelID string) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.username, u.email, u.fullname, u.avatar_url, u.cover_image_url, u.password,
		       COALESCE(u.refresh_token, ''), u.created_at, u.updated_at
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
	`, channelID)
	if err != nil {
		return nil, mapErr(err, "subscribers", channelID)
	}
	defer rows.Close()

	out := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr(err, "subscribers", channelID)
		}
		out = append(out, *u)
	}
	return out, mapErr(rows.Err(), "subscribers", channelID)
}

var _ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)

package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/events"
)

// EventPublisher publishes domain events. *helpers.RabbitPublisher implements it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, body any) error
}

// SessionStore tracks the single active session of each user.
type SessionStore interface {
	Save(ctx context.Context, userID, sid string, ttl time.Duration) error
	Current(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

const sideEffectTimeout = 5 * time.Second

func parseID(field, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return apperror.InvalidID(field, value)
	}
	return nil
}

// requireText trims value and rejects it when blank.
func requireText(field, value, message string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", apperror.Validation(field, message)
	}
	return v, nil
}

// detached returns a context that survives the request for best-effort work.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
}

func publish(ctx context.Context, pub EventPublisher, logger logrus.FieldLogger, typ string, payload any) {
	if pub == nil {
		return
	}
	env, err := events.New(typ, payload)
	if err != nil {
		logger.WithError(err).WithField("event", typ).Warn("encode event failed")
		return
	}
	c, cancel := detached(ctx)
	defer cancel()
	if err := pub.PublishJSON(c, typ, env); err != nil {
		logger.WithError(err).WithField("event", typ).Warn("publish event failed")
	}
}

// dropStats clears the cached dashboard stats of channelID.
func dropStats(ctx context.Context, stats repository.StatsCache, channelID string) {
	if stats == nil || channelID == "" {
		return
	}
	c, cancel := detached(ctx)
	defer cancel()
	stats.Invalidate(c, channelID)
}

// discardMedia deletes uploaded objects, logging failures.
func discardMedia(ctx context.Context, media repository.MediaStore, logger logrus.FieldLogger, urls ...string) {
	c, cancel := detached(ctx)
	defer cancel()
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := media.Delete(c, u); err != nil {
			logger.WithError(err).WithField("url", u).Warn("media cleanup failed")
		}
	}
}

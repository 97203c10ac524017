package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/config"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/events"
	"github.com/oksasatya/vidtube-api/pkg/mailer"
	mailtpl "github.com/oksasatya/vidtube-api/pkg/mailer/templates"
)

// errDrop marks messages that can never succeed; they are not requeued.
var errDrop = errors.New("drop message")

type notifier struct {
	cfg    *config.Config
	users  repository.UserRepository
	subs   repository.SubscriptionRepository
	sender mailer.Sender
	logger logrus.FieldLogger
}

// handle processes one event body. A nil error acks, errDrop nacks without
// requeue and anything else is requeued.
func (n *notifier) handle(ctx context.Context, body []byte) error {
	var env events.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: decode envelope: %v", errDrop, err)
	}
	jobs, err := n.jobs(ctx, env)
	if err != nil {
		return err
	}
	return n.deliver(ctx, env, jobs)
}

func (n *notifier) jobs(ctx context.Context, env events.Envelope) ([]mailer.EmailJob, error) {
	switch env.Type {
	case events.UserRegistered:
		var p events.UserRegisteredPayload
		if err := env.Decode(&p); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", errDrop, env.Type, err)
		}
		return []mailer.EmailJob{{
			To:       p.Email,
			Template: mailtpl.Welcome,
			Data:     mailtpl.NewWelcomeData(n.cfg, p.Fullname, p.Username, p.Email, mailtpl.WithTime(env.OccurredAt)),
		}}, nil

	case events.VideoPublished:
		var p events.VideoPublishedPayload
		if err := env.Decode(&p); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", errDrop, env.Type, err)
		}
		channel, err := n.users.GetByID(ctx, p.ChannelID)
		if err != nil {
			return nil, fmt.Errorf("load channel %s: %w", p.ChannelID, err)
		}
		subscribers, err := n.subs.SubscriberUsers(ctx, p.ChannelID)
		if err != nil {
			return nil, fmt.Errorf("load subscribers of %s: %w", p.ChannelID, err)
		}
		jobs := make([]mailer.EmailJob, 0, len(subscribers))
		for _, s := range subscribers {
			jobs = append(jobs, mailer.EmailJob{
				To:       s.Email,
				Template: mailtpl.NewVideo,
				Data: mailtpl.NewVideoData(n.cfg, s.Fullname, s.Email, channel.Username,
					p.VideoID, p.Title, p.ThumbnailURL, mailtpl.WithTime(env.OccurredAt)),
			})
		}
		return jobs, nil

	default:
		n.logger.WithField("type", env.Type).Debug("ignoring event")
		return nil, nil
	}
}

// deliver sends every job. A render failure drops the message. Send failures
// requeue it only when nothing was delivered, so recipients already reached
// are not mailed twice.
func (n *notifier) deliver(ctx context.Context, env events.Envelope, jobs []mailer.EmailJob) error {
	var sent, failed int
	var lastErr error
	for _, job := range jobs {
		err := mailer.Deliver(ctx, n.sender, job)
		if errors.Is(err, mailer.ErrRender) {
			return fmt.Errorf("%w: %v", errDrop, err)
		}
		if err != nil {
			failed++
			lastErr = err
			n.logger.WithError(err).WithFields(logrus.Fields{"event_id": env.ID, "to": job.To}).Warn("send failed")
			continue
		}
		sent++
	}
	if failed > 0 && sent == 0 {
		return lastErr
	}
	n.logger.WithFields(logrus.Fields{
		"event_id": env.ID,
		"type":     env.Type,
		"sent":     sent,
		"failed":   failed,
	}).Info("event processed")
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vidtube-api/config"
	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/events"
)

type stubUsers struct {
	repository.UserRepository
	byID map[string]*entity.User
}

func (s stubUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user", id)
}

type stubSubs struct {
	repository.SubscriptionRepository
	users []entity.User
	err   error
}

func (s stubSubs) SubscriberUsers(context.Context, string) ([]entity.User, error) {
	return s.users, s.err
}

type sentMail struct{ to, subject string }

type fakeSender struct {
	sent   []sentMail
	failTo map[string]bool
}

func (f *fakeSender) Send(_ context.Context, to, subject, _, _ string) error {
	if f.failTo[to] {
		return errors.New("mailgun unavailable")
	}
	f.sent = append(f.sent, sentMail{to, subject})
	return nil
}

func newNotifier(subs stubSubs, sender *fakeSender) *notifier {
	logger, _ := test.NewNullLogger()
	channel := &entity.User{ID: "chan-1", Username: "janedoe", Fullname: "Jane Doe"}
	return &notifier{
		cfg:    &config.Config{AppName: "VidTube", AppBaseURL: "https://vidtube.example"},
		users:  stubUsers{byID: map[string]*entity.User{channel.ID: channel}},
		subs:   subs,
		sender: sender,
		logger: logger,
	}
}

func body(t *testing.T, typ string, payload any) []byte {
	t.Helper()
	env, err := events.New(typ, payload)
	require.NoError(t, err)
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return b
}

func TestHandle_UserRegistered(t *testing.T) {
	sender := &fakeSender{}
	n := newNotifier(stubSubs{}, sender)

	err := n.handle(context.Background(), body(t, events.UserRegistered, events.UserRegisteredPayload{
		UserID: "u1", Username: "bob", Email: "bob@example.com", Fullname: "Bob",
	}))
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "bob@example.com", sender.sent[0].to)
	assert.Equal(t, "Welcome to VidTube, Bob!", sender.sent[0].subject)
}

func TestHandle_VideoPublishedFansOut(t *testing.T) {
	sender := &fakeSender{}
	n := newNotifier(stubSubs{users: []entity.User{
		{Email: "a@example.com", Fullname: "A"},
		{Email: "b@example.com", Fullname: "B"},
	}}, sender)

	err := n.handle(context.Background(), body(t, events.VideoPublished, events.VideoPublishedPayload{
		VideoID: "v1", Title: "Intro", ChannelID: "chan-1",
	}))
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "janedoe uploaded: Intro", sender.sent[0].subject)
}

func TestHandle_PartialSendFailureAcks(t *testing.T) {
	sender := &fakeSender{failTo: map[string]bool{"b@example.com": true}}
	n := newNotifier(stubSubs{users: []entity.User{{Email: "a@example.com"}, {Email: "b@example.com"}}}, sender)

	err := n.handle(context.Background(), body(t, events.VideoPublished, events.VideoPublishedPayload{VideoID: "v1", ChannelID: "chan-1"}))
	assert.NoError(t, err)
	assert.Len(t, sender.sent, 1)
}

func TestHandle_TotalSendFailureRequeues(t *testing.T) {
	sender := &fakeSender{failTo: map[string]bool{"bob@example.com": true}}
	n := newNotifier(stubSubs{}, sender)

	err := n.handle(context.Background(), body(t, events.UserRegistered, events.UserRegisteredPayload{Email: "bob@example.com"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errDrop)
}

func TestHandle_Drops(t *testing.T) {
	n := newNotifier(stubSubs{}, &fakeSender{})

	err := n.handle(context.Background(), []byte("not json"))
	assert.ErrorIs(t, err, errDrop)

	bad, _ := json.Marshal(events.Envelope{Type: events.UserRegistered, Payload: json.RawMessage(`"oops"`)})
	assert.ErrorIs(t, n.handle(context.Background(), bad), errDrop)
}

func TestHandle_StoreErrorRequeues(t *testing.T) {
	n := newNotifier(stubSubs{err: errors.New("db down")}, &fakeSender{})
	err := n.handle(context.Background(), body(t, events.VideoPublished, events.VideoPublishedPayload{ChannelID: "chan-1"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errDrop)
}

func TestHandle_UnknownTypeAcks(t *testing.T) {
	sender := &fakeSender{}
	n := newNotifier(stubSubs{}, sender)
	assert.NoError(t, n.handle(context.Background(), body(t, "comment.added", map[string]string{})))
	assert.Empty(t, sender.sent)
}

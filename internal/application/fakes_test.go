package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/pagination"
)

func nullLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

func mediaFile(name string) *entity.MediaFile {
	return &entity.MediaFile{
		Name:        name,
		ContentType: "application/octet-stream",
		Size:        4,
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("data")), nil },
	}
}

// ---- users ----

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[string]*entity.User
	history map[string][]string
	updates int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*entity.User{}, history: map[string][]string{}}
}

func (f *fakeUsers) add(username string) *entity.User {
	u := &entity.User{ID: uuid.NewString(), Username: username, Email: username + "@example.com", Fullname: username}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if x.Username == u.Username || x.Email == u.Email {
			return apperror.Conflict("duplicate")
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByLogin(_ context.Context, username, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUsers) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return apperror.NotFound("user", u.ID)
	}
	f.updates++
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) SetRefreshToken(_ context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.RefreshToken = token
	return nil
}

func (f *fakeUsers) ChannelProfile(_ context.Context, username, _ string) (*entity.ChannelProfile, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return &entity.ChannelProfile{ID: u.ID, Username: u.Username}, nil
		}
	}
	return nil, apperror.NotFound("channel", username)
}

func (f *fakeUsers) AddToWatchHistory(_ context.Context, userID, videoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history[userID] = append(f.history[userID], videoID)
	return nil
}

func (f *fakeUsers) WatchHistory(_ context.Context, userID string) ([]entity.WatchedVideo, error) {
	out := []entity.WatchedVideo{}
	for _, id := range f.history[userID] {
		out = append(out, entity.WatchedVideo{Video: entity.Video{ID: id}})
	}
	return out, nil
}

func (f *fakeUsers) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byID[id]
	return ok, nil
}

// ---- videos ----

type fakeVideos struct {
	mu        sync.Mutex
	byID      map[string]*entity.Video
	createErr error
	creates   int
}

func newFakeVideos() *fakeVideos {
	return &fakeVideos{byID: map[string]*entity.Video{}}
}

func (f *fakeVideos) add(owner string, published bool) *entity.Video {
	v := &entity.Video{ID: uuid.NewString(), Title: "t", Description: "d", OwnerID: owner, IsPublished: published,
		VideoFileURL: "https://cdn.test/videos/a.mp4", ThumbnailURL: "https://cdn.test/thumbnails/a.png", CreatedAt: time.Now()}
	f.byID[v.ID] = v
	return v
}

func (f *fakeVideos) Create(_ context.Context, v *entity.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	v.ID = uuid.NewString()
	cp := *v
	f.byID[v.ID] = &cp
	return nil
}

func (f *fakeVideos) GetByID(_ context.Context, id string) (*entity.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("video", id)
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVideos) RecordView(_ context.Context, id string) (*entity.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("video", id)
	}
	v.Views++
	cp := *v
	return &cp, nil
}

func (f *fakeVideos) Update(_ context.Context, v *entity.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[v.ID]; !ok {
		return apperror.NotFound("video", v.ID)
	}
	cp := *v
	f.byID[v.ID] = &cp
	return nil
}

func (f *fakeVideos) TogglePublished(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.byID[id]
	if !ok {
		return false, apperror.NotFound("video", id)
	}
	v.IsPublished = !v.IsPublished
	return v.IsPublished, nil
}

func (f *fakeVideos) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperror.NotFound("video", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeVideos) filter(keep func(*entity.Video) bool, p pagination.Params) ([]entity.Video, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := []entity.Video{}
	for _, v := range f.byID {
		if keep(v) {
			all = append(all, *v)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	start := p.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total
}

func (f *fakeVideos) ListByOwner(_ context.Context, ownerID string, p pagination.Params) ([]entity.Video, int64, error) {
	items, total := f.filter(func(v *entity.Video) bool { return v.OwnerID == ownerID }, p)
	return items, total, nil
}

func (f *fakeVideos) SearchPublished(_ context.Context, p pagination.Params) ([]entity.Video, int64, error) {
	items, total := f.filter(func(v *entity.Video) bool {
		return v.IsPublished && strings.Contains(strings.ToLower(v.Title), strings.ToLower(p.Search))
	}, p)
	return items, total, nil
}

func (f *fakeVideos) GetManyPublished(_ context.Context, ids []string) ([]entity.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Video{}
	for _, id := range ids {
		if v, ok := f.byID[id]; ok && v.IsPublished {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVideos) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byID[id]
	return ok, nil
}

// ---- comments ----

type fakeComments struct {
	byID    map[string]*entity.Comment
	mutated int
}

func newFakeComments() *fakeComments { return &fakeComments{byID: map[string]*entity.Comment{}} }

func (f *fakeComments) Create(_ context.Context, c *entity.Comment) error {
	f.mutated++
	c.ID = uuid.NewString()
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeComments) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeComments) UpdateContent(_ context.Context, id, content string) (*entity.Comment, error) {
	f.mutated++
	c, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	c.Content = content
	cp := *c
	return &cp, nil
}

func (f *fakeComments) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperror.NotFound("comment", id)
	}
	f.mutated++
	delete(f.byID, id)
	return nil
}

func (f *fakeComments) ListByVideo(_ context.Context, videoID string, _ pagination.Params) ([]entity.Comment, int64, error) {
	out := []entity.Comment{}
	for _, c := range f.byID {
		if c.VideoID == videoID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

// ---- tweets ----

type fakeTweets struct {
	byID    map[string]*entity.Tweet
	mutated int
}

func newFakeTweets() *fakeTweets { return &fakeTweets{byID: map[string]*entity.Tweet{}} }

func (f *fakeTweets) Create(_ context.Context, t *entity.Tweet) error {
	f.mutated++
	t.ID = uuid.NewString()
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTweets) GetByID(_ context.Context, id string) (*entity.Tweet, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("tweet", id)
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTweets) UpdateContent(_ context.Context, id, content string) (*entity.Tweet, error) {
	f.mutated++
	t, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("tweet", id)
	}
	t.Content = content
	cp := *t
	return &cp, nil
}

func (f *fakeTweets) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperror.NotFound("tweet", id)
	}
	f.mutated++
	delete(f.byID, id)
	return nil
}

func (f *fakeTweets) add(ownerID, content string, created, updated time.Time) *entity.Tweet {
	t := &entity.Tweet{ID: uuid.NewString(), Content: content, OwnerID: ownerID, CreatedAt: created, UpdatedAt: updated}
	f.byID[t.ID] = t
	return t
}

// tweetSortFields mirrors the sortBy values the store accepts for tweets.
var tweetSortFields = map[string]string{"createdAt": "createdAt", "updatedAt": "updatedAt"}

// ListByOwner filters on content, sorts with an id tiebreak and slices one page.
func (f *fakeTweets) ListByOwner(_ context.Context, ownerID string, p pagination.Params) ([]entity.Tweet, int64, error) {
	q := strings.ToLower(p.Search)
	matched := []entity.Tweet{}
	for _, t := range f.byID {
		if t.OwnerID == ownerID && (q == "" || strings.Contains(strings.ToLower(t.Content), q)) {
			matched = append(matched, *t)
		}
	}
	field := p.Column(tweetSortFields, "createdAt")
	key := func(t entity.Tweet) time.Time {
		if field == "updatedAt" {
			return t.UpdatedAt
		}
		return t.CreatedAt
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !key(a).Equal(key(b)) {
			return key(a).Before(key(b)) != p.Desc
		}
		return (a.ID < b.ID) != p.Desc
	})
	total := int64(len(matched))
	start := min(p.Offset(), len(matched))
	end := min(start+p.Limit, len(matched))
	return matched[start:end], total, nil
}

func (f *fakeTweets) AllByOwner(_ context.Context, ownerID string) ([]entity.Tweet, error) {
	out := []entity.Tweet{}
	for _, t := range f.byID {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

// ---- likes ----

type fakeLikes struct {
	mu    sync.Mutex
	likes map[string]*entity.Like
}

func newFakeLikes() *fakeLikes { return &fakeLikes{likes: map[string]*entity.Like{}} }

func likeKey(user string, target entity.LikeTarget, id string) string {
	return user + "|" + string(target) + "|" + id
}

func (f *fakeLikes) Toggle(_ context.Context, userID string, target entity.LikeTarget, targetID string) (entity.ToggleAction, *entity.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := likeKey(userID, target, targetID)
	if l, ok := f.likes[k]; ok {
		delete(f.likes, k)
		return entity.ToggleRemoved, l, nil
	}
	l := &entity.Like{ID: uuid.NewString(), LikedBy: userID, TargetType: target, TargetID: targetID}
	f.likes[k] = l
	return entity.ToggleAdded, l, nil
}

func (f *fakeLikes) Count(_ context.Context, target entity.LikeTarget, targetID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, l := range f.likes {
		if l.TargetType == target && l.TargetID == targetID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLikes) LikedVideos(context.Context, string) ([]entity.Video, error) {
	return []entity.Video{}, nil
}

// ---- subscriptions ----

type fakeSubs struct {
	pairs map[string]*entity.Subscription
}

func newFakeSubs() *fakeSubs { return &fakeSubs{pairs: map[string]*entity.Subscription{}} }

func (f *fakeSubs) Toggle(_ context.Context, subscriberID, channelID string) (entity.ToggleAction, *entity.Subscription, error) {
	k := subscriberID + "|" + channelID
	if s, ok := f.pairs[k]; ok {
		delete(f.pairs, k)
		return entity.ToggleRemoved, s, nil
	}
	s := &entity.Subscription{ID: uuid.NewString(), SubscriberID: subscriberID, ChannelID: channelID}
	f.pairs[k] = s
	return entity.ToggleAdded, s, nil
}

func (f *fakeSubs) Subscribers(_ context.Context, channelID string) ([]entity.Subscriber, error) {
	out := []entity.Subscriber{}
	for _, s := range f.pairs {
		if s.ChannelID == channelID {
			out = append(out, entity.Subscriber{Subscription: *s})
		}
	}
	return out, nil
}

func (f *fakeSubs) SubscribedChannels(_ context.Context, subscriberID string) ([]entity.SubscribedChannel, error) {
	out := []entity.SubscribedChannel{}
	for _, s := range f.pairs {
		if s.SubscriberID == subscriberID {
			out = append(out, entity.SubscribedChannel{Subscription: *s})
		}
	}
	return out, nil
}

func (f *fakeSubs) SubscriberUsers(context.Context, string) ([]entity.User, error) {
	return nil, nil
}

// ---- playlists ----

type fakePlaylists struct {
	byID map[string]*entity.Playlist
}

func newFakePlaylists() *fakePlaylists { return &fakePlaylists{byID: map[string]*entity.Playlist{}} }

func (f *fakePlaylists) Create(_ context.Context, p *entity.Playlist) error {
	p.ID = uuid.NewString()
	cp := *p
	cp.Videos = append([]string{}, p.Videos...)
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePlaylists) GetByID(_ context.Context, id string) (*entity.Playlist, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("playlist", id)
	}
	cp := *p
	cp.Videos = append([]string{}, p.Videos...)
	return &cp, nil
}

func (f *fakePlaylists) ListByOwner(_ context.Context, ownerID string) ([]entity.Playlist, error) {
	out := []entity.Playlist{}
	for _, p := range f.byID {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlaylists) Update(_ context.Context, id, name, description string) (*entity.Playlist, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("playlist", id)
	}
	p.Name, p.Description = name, description
	return f.GetByID(context.Background(), id)
}

func (f *fakePlaylists) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperror.NotFound("playlist", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePlaylists) AddVideo(_ context.Context, playlistID, videoID string) (*entity.Playlist, error) {
	p, ok := f.byID[playlistID]
	if !ok {
		return nil, apperror.NotFound("playlist", playlistID)
	}
	for _, v := range p.Videos {
		if v == videoID {
			return f.GetByID(context.Background(), playlistID)
		}
	}
	p.Videos = append(p.Videos, videoID)
	return f.GetByID(context.Background(), playlistID)
}

func (f *fakePlaylists) RemoveVideo(_ context.Context, playlistID, videoID string) (*entity.Playlist, error) {
	p, ok := f.byID[playlistID]
	if !ok {
		return nil, apperror.NotFound("playlist", playlistID)
	}
	kept := p.Videos[:0]
	for _, v := range p.Videos {
		if v != videoID {
			kept = append(kept, v)
		}
	}
	p.Videos = kept
	return f.GetByID(context.Background(), playlistID)
}

// ---- dashboard ----

// fakeDashboard derives counters from the video and like fakes.
type fakeDashboard struct {
	videos *fakeVideos
	subs   *fakeSubs
	likes  *fakeLikes
	calls  int
	mu     sync.Mutex
}

func (f *fakeDashboard) hit() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeDashboard) CountVideos(_ context.Context, channelID string) (int64, error) {
	f.hit()
	_, n := f.videos.filter(func(v *entity.Video) bool { return v.OwnerID == channelID }, pagination.Params{Page: 1, Limit: 1})
	return n, nil
}

func (f *fakeDashboard) CountSubscribers(_ context.Context, channelID string) (int64, error) {
	f.hit()
	s, _ := f.subs.Subscribers(context.Background(), channelID)
	return int64(len(s)), nil
}

func (f *fakeDashboard) SumViews(_ context.Context, channelID string) (int64, error) {
	f.hit()
	var sum int64
	f.videos.mu.Lock()
	defer f.videos.mu.Unlock()
	for _, v := range f.videos.byID {
		if v.OwnerID == channelID {
			sum += v.Views
		}
	}
	return sum, nil
}

func (f *fakeDashboard) CountVideoLikes(_ context.Context, channelID string) (int64, error) {
	f.hit()
	var n int64
	f.likes.mu.Lock()
	defer f.likes.mu.Unlock()
	f.videos.mu.Lock()
	defer f.videos.mu.Unlock()
	for _, l := range f.likes.likes {
		if v, ok := f.videos.byID[l.TargetID]; ok && l.TargetType == entity.LikeTargetVideo && v.OwnerID == channelID {
			n++
		}
	}
	return n, nil
}

type memStatsCache struct {
	m map[string]entity.ChannelStats
}

func (c *memStatsCache) Get(_ context.Context, id string) (*entity.ChannelStats, bool) {
	s, ok := c.m[id]
	if !ok {
		return nil, false
	}
	return &s, true
}

func (c *memStatsCache) Set(_ context.Context, id string, s *entity.ChannelStats) {
	c.m[id] = *s
}

func (c *memStatsCache) Invalidate(_ context.Context, id string) {
	delete(c.m, id)
}

// ---- media, index, events, sessions ----

type fakeMedia struct {
	mu       sync.Mutex
	failOn   map[string]bool // folder -> fail
	uploaded []string
	deleted  []string
}

func newFakeMedia() *fakeMedia { return &fakeMedia{failOn: map[string]bool{}} }

func (f *fakeMedia) Upload(_ context.Context, folder string, file entity.MediaFile) (entity.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[folder] {
		return entity.MediaAsset{}, fmt.Errorf("upload %s: %w", folder, errors.New("host down"))
	}
	key := folder + "/" + uuid.NewString() + "-" + file.Name
	url := "https://cdn.test/" + key
	f.uploaded = append(f.uploaded, url)
	return entity.MediaAsset{Key: key, URL: url}, nil
}

func (f *fakeMedia) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeIndex struct {
	docs      map[string]entity.Video
	searchErr error
	hits      []string
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]entity.Video{}} }

func (f *fakeIndex) Index(_ context.Context, v *entity.Video) error {
	f.docs[v.ID] = *v
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int, int) ([]string, int64, error) {
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	return f.hits, int64(len(f.hits)), nil
}

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakePublisher) PublishJSON(_ context.Context, routingKey string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, routingKey)
	return nil
}

type fakeSessions struct {
	sids map[string]string
}

func newFakeSessions() *fakeSessions { return &fakeSessions{sids: map[string]string{}} }

func (f *fakeSessions) Save(_ context.Context, userID, sid string, _ time.Duration) error {
	f.sids[userID] = sid
	return nil
}

func (f *fakeSessions) Current(_ context.Context, userID string) (string, error) {
	return f.sids[userID], nil
}

func (f *fakeSessions) Delete(_ context.Context, userID string) error {
	delete(f.sids, userID)
	return nil
}

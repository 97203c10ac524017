package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/events"
	"github.com/oksasatya/vidtube-api/pkg/pagination"
)

type videoFixture struct {
	svc    *VideoService
	videos *fakeVideos
	users  *fakeUsers
	media  *fakeMedia
	index  *fakeIndex
	pub    *fakePublisher
}

func newVideoFixture() videoFixture {
	f := videoFixture{videos: newFakeVideos(), users: newFakeUsers(), media: newFakeMedia(), index: newFakeIndex(), pub: &fakePublisher{}}
	f.svc = NewVideoService(f.videos, f.users, f.media, f.index, f.pub, nullLogger())
	return f
}

func publishInput() PublishVideoInput {
	return PublishVideoInput{Title: "Cats", Description: "cats being cats", Duration: 12.5,
		VideoFile: mediaFile("cats.mp4"), Thumbnail: mediaFile("cats.png")}
}

func TestPublishVideo(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.NewString()
	v, err := f.svc.Publish(context.Background(), owner, publishInput())
	require.NoError(t, err)
	assert.True(t, v.IsPublished)
	assert.Equal(t, owner, v.OwnerID)
	assert.Len(t, f.media.uploaded, 2)
	assert.Contains(t, f.index.docs, v.ID)
	assert.Equal(t, []string{events.VideoPublished}, f.pub.keys)
}

func TestPublishRejectsBlankTextBeforeUpload(t *testing.T) {
	f := newVideoFixture()
	in := publishInput()
	in.Title = "   "
	_, err := f.svc.Publish(context.Background(), uuid.NewString(), in)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Empty(t, f.media.uploaded)
	assert.Zero(t, f.videos.creates)

	in = publishInput()
	in.Thumbnail = nil
	_, err = f.svc.Publish(context.Background(), uuid.NewString(), in)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Empty(t, f.media.uploaded)
}

func TestPublishThumbnailFailureDiscardsVideo(t *testing.T) {
	f := newVideoFixture()
	f.media.failOn["thumbnails"] = true
	_, err := f.svc.Publish(context.Background(), uuid.NewString(), publishInput())
	assert.ErrorIs(t, err, apperror.ErrUpstream)
	require.Len(t, f.media.uploaded, 1)
	assert.Equal(t, f.media.uploaded, f.media.deleted)
	assert.Zero(t, f.videos.creates)
	assert.Empty(t, f.pub.keys)
}

func TestPublishStoreFailureDiscardsBothAssets(t *testing.T) {
	f := newVideoFixture()
	f.videos.createErr = errors.New("db down")
	_, err := f.svc.Publish(context.Background(), uuid.NewString(), publishInput())
	require.Error(t, err)
	assert.ElementsMatch(t, f.media.uploaded, f.media.deleted)
	assert.Len(t, f.media.deleted, 2)
}

func TestGetVideoCountsViewAndHistory(t *testing.T) {
	f := newVideoFixture()
	v := f.videos.add(uuid.NewString(), true)
	viewer := uuid.NewString()

	got, err := f.svc.GetVideo(context.Background(), viewer, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
	assert.Equal(t, []string{v.ID}, f.users.history[viewer])

	_, err = f.svc.GetVideo(context.Background(), viewer, "not-a-uuid")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	hidden := f.videos.add(uuid.NewString(), false)
	_, err = f.svc.GetVideo(context.Background(), viewer, hidden.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateVideoOwnerOnly(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.NewString()
	v := f.videos.add(owner, true)

	_, err := f.svc.UpdateVideo(context.Background(), uuid.NewString(), v.ID, "New", "desc", mediaFile("t.png"))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, f.media.uploaded)

	got, err := f.svc.UpdateVideo(context.Background(), owner, v.ID, "New", "desc", mediaFile("t.png"))
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, []string{v.ThumbnailURL}, f.media.deleted)
}

func TestDeleteVideo(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.NewString()
	v := f.videos.add(owner, true)
	f.index.docs[v.ID] = *v

	err := f.svc.DeleteVideo(context.Background(), owner, uuid.NewString())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, f.svc.DeleteVideo(context.Background(), owner, v.ID))
	assert.NotContains(t, f.videos.byID, v.ID)
	assert.NotContains(t, f.index.docs, v.ID)
	assert.ElementsMatch(t, []string{v.VideoFileURL, v.ThumbnailURL}, f.media.deleted)
}

func TestTogglePublishStatus(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.NewString()
	v := f.videos.add(owner, true)

	st, err := f.svc.TogglePublishStatus(context.Background(), owner, v.ID)
	require.NoError(t, err)
	assert.False(t, st.IsPublished)
	assert.False(t, f.index.docs[v.ID].IsPublished)

	st, err = f.svc.TogglePublishStatus(context.Background(), owner, v.ID)
	require.NoError(t, err)
	assert.True(t, st.IsPublished)

	_, err = f.svc.TogglePublishStatus(context.Background(), uuid.NewString(), v.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSearchFallsBackWhenIndexFails(t *testing.T) {
	f := newVideoFixture()
	v := f.videos.add(uuid.NewString(), true)
	v.Title = "Funny cats"
	f.index.searchErr = errors.New("cluster red")

	page, err := f.svc.Search(context.Background(), pagination.Params{Page: 1, Limit: 10, Search: "cats"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, v.ID, page.Items[0].ID)
}

func TestSearchUsesIndexHits(t *testing.T) {
	f := newVideoFixture()
	a := f.videos.add(uuid.NewString(), true)
	b := f.videos.add(uuid.NewString(), true)
	f.index.hits = []string{b.ID, a.ID}

	page, err := f.svc.Search(context.Background(), pagination.Params{Page: 1, Limit: 10, Search: "anything"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, []string{b.ID, a.ID}, []string{page.Items[0].ID, page.Items[1].ID})
	assert.Equal(t, int64(2), page.Total)
}

func TestListVideosOnlyOwn(t *testing.T) {
	f := newVideoFixture()
	me := uuid.NewString()
	for i := 0; i < 3; i++ {
		f.videos.add(me, true)
	}
	f.videos.add(uuid.NewString(), true)

	page, err := f.svc.ListVideos(context.Background(), me, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)
	for _, v := range page.Items {
		assert.Equal(t, me, v.OwnerID)
	}
}

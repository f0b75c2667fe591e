package video

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/model"
	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/store"
)

// countingStore records mutations and can be switched to fail every call
type countingStore struct {
	*store.MemoryStore
	mutations atomic.Int32
	fail      atomic.Bool
}

var errBoom = errors.New("connection reset by peer")

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: store.NewMemoryStore()}
}

func (c *countingStore) ListVideos(ctx context.Context) ([]*model.Video, error) {
	if c.fail.Load() {
		return nil, errBoom
	}
	return c.MemoryStore.ListVideos(ctx)
}

func (c *countingStore) InsertVideo(ctx context.Context, v *model.Video) error {
	c.mutations.Add(1)
	if c.fail.Load() {
		return errBoom
	}
	return c.MemoryStore.InsertVideo(ctx, v)
}

func (c *countingStore) AppendComment(ctx context.Context, id string, cm model.Comment) (*model.Video, error) {
	c.mutations.Add(1)
	if c.fail.Load() {
		return nil, errBoom
	}
	return c.MemoryStore.AppendComment(ctx, id, cm)
}

func (c *countingStore) AppendRating(ctx context.Context, id string, r int) (*model.Video, error) {
	c.mutations.Add(1)
	if c.fail.Load() {
		return nil, errBoom
	}
	return c.MemoryStore.AppendRating(ctx, id, r)
}

func (c *countingStore) DeleteVideo(ctx context.Context, id string) error {
	c.mutations.Add(1)
	if c.fail.Load() {
		return errBoom
	}
	return c.MemoryStore.DeleteVideo(ctx, id)
}

func (c *countingStore) DeleteByURLHosts(ctx context.Context, hosts []string) (int64, error) {
	c.mutations.Add(1)
	if c.fail.Load() {
		return 0, errBoom
	}
	return c.MemoryStore.DeleteByURLHosts(ctx, hosts)
}

func newTestService(t *testing.T) (*Service, *countingStore) {
	t.Helper()
	st := newCountingStore()
	svc := NewService(st, time.Second)
	return svc, st
}

func mustCreate(t *testing.T, svc *Service, input map[string]any) ExposedVideo {
	t.Helper()
	v, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	return v
}

func TestService_CreateStartsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	v := mustCreate(t, svc, map[string]any{"title": " Intro ", "url": "https://cdn.example.com/a.mp4"})

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "Intro", v.Title)
	assert.Equal(t, "https://cdn.example.com/a.mp4", v.PlaybackURL)
	assert.Equal(t, "PG", v.Age)
	assert.Equal(t, "EduTalk", v.Publisher)
	assert.NotNil(t, v.Comments)
	assert.NotNil(t, v.Ratings)
	assert.Empty(t, v.Comments)
	assert.Empty(t, v.Ratings)
	assert.False(t, v.CreatedAt.IsZero())
}

func TestService_CreateDerivesExternal(t *testing.T) {
	svc, _ := newTestService(t)

	yt := mustCreate(t, svc, map[string]any{"title": "YT", "url": "https://youtu.be/abc", "external": false})
	assert.True(t, yt.External, "YouTube URL must be external regardless of client flag")

	self := mustCreate(t, svc, map[string]any{"title": "Self", "url": "https://cdn.example.com/a.mp4", "external": true})
	assert.False(t, self.External, "client flag must not mark a self-hosted URL external")
}

func TestService_CreateValidationDoesNotTouchStore(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.Create(context.Background(), map[string]any{"title": "  ", "url": "http://x"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ReasonMissingRequiredField, ve.Reason)
	assert.Equal(t, int32(0), st.mutations.Load())
}

func TestService_AddRatingAppends(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v := mustCreate(t, svc, map[string]any{"title": "T", "url": "http://x"})

	_, err := svc.AddRating(ctx, v.ID, map[string]any{"value": float64(5)})
	require.NoError(t, err)
	updated, err := svc.AddRating(ctx, v.ID, map[string]any{"value": "3"})
	require.NoError(t, err)

	assert.Equal(t, []int{5, 3}, updated.Ratings)
}

func TestService_AddRatingRejectsInvalid(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	v := mustCreate(t, svc, map[string]any{"title": "T", "url": "http://x"})
	before := st.mutations.Load()

	for _, value := range []any{float64(0), float64(6), float64(2.5), "abc", nil, true} {
		_, err := svc.AddRating(ctx, v.ID, map[string]any{"value": value})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "value %v", value)
		assert.Equal(t, ReasonOutOfRange, ve.Reason)
	}
	assert.Equal(t, before, st.mutations.Load(), "invalid ratings must not reach the store")
}

func TestService_AddCommentTrimsAndPreservesOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v := mustCreate(t, svc, map[string]any{"title": "T", "url": "http://x"})

	_, err := svc.AddComment(ctx, v.ID, map[string]any{"text": "first"})
	require.NoError(t, err)
	updated, err := svc.AddComment(ctx, v.ID, map[string]any{"text": "  hello  "})
	require.NoError(t, err)

	require.Len(t, updated.Comments, 2)
	assert.Equal(t, "first", updated.Comments[0].Text)
	assert.Equal(t, "hello", updated.Comments[1].Text)
	assert.False(t, updated.Comments[1].CreatedAt.IsZero())
}

func TestService_AddCommentRejectsEmpty(t *testing.T) {
	svc, st := newTestService(t)
	v := mustCreate(t, svc, map[string]any{"title": "T", "url": "http://x"})
	before := st.mutations.Load()

	_, err := svc.AddComment(context.Background(), v.ID, map[string]any{"text": "   "})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ReasonEmptyText, ve.Reason)
	assert.Equal(t, before, st.mutations.Load())
}

func TestService_UnknownIDIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var nf *NotFoundError
	_, err := svc.AddComment(ctx, "missing", map[string]any{"text": "hi"})
	assert.ErrorAs(t, err, &nf)
	_, err = svc.AddRating(ctx, "missing", map[string]any{"value": float64(3)})
	assert.ErrorAs(t, err, &nf)
	err = svc.DeleteOne(ctx, "missing")
	assert.ErrorAs(t, err, &nf)
}

func TestService_DeleteOne(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v := mustCreate(t, svc, map[string]any{"title": "T", "url": "http://x"})

	require.NoError(t, svc.DeleteOne(ctx, v.ID))

	var nf *NotFoundError
	assert.ErrorAs(t, svc.DeleteOne(ctx, v.ID), &nf)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_BulkDeleteByProvider(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, map[string]any{"title": "a", "url": "https://www.youtube.com/watch?v=1"})
	mustCreate(t, svc, map[string]any{"title": "b", "url": "https://youtu.be/2"})
	mustCreate(t, svc, map[string]any{"title": "c", "url": "https://vimeo.com/3"})
	mustCreate(t, svc, map[string]any{"title": "d", "url": "https://cdn.example.com/4.mp4"})

	deleted, err := svc.BulkDeleteByProvider(ctx, "youtube")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = svc.BulkDeleteByProvider(ctx, "youtube")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, v := range list {
		assert.NotContains(t, v.PlaybackURL, "youtu")
	}
}

func TestService_BulkDeleteUnsupportedFilter(t *testing.T) {
	svc, st := newTestService(t)

	for _, tag := range []string{"", "vimeo", "all"} {
		_, err := svc.BulkDeleteByProvider(context.Background(), tag)
		var fe *UnsupportedFilterError
		require.ErrorAs(t, err, &fe, "tag %q", tag)
		assert.Equal(t, tag, fe.Tag)
	}
	assert.Equal(t, int32(0), st.mutations.Load())
}

func TestService_ListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	mustCreate(t, svc, map[string]any{"title": "first", "url": "http://x/1"})
	mustCreate(t, svc, map[string]any{"title": "second", "url": "http://x/2"})
	mustCreate(t, svc, map[string]any{"title": "third", "url": "http://x/3"})

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{list[0].Title, list[1].Title, list[2].Title})
}

func TestService_StoreFailures(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	v := mustCreate(t, svc, map[string]any{"title": "T", "url": "https://youtu.be/x"})
	st.fail.Store(true)

	checks := map[string]error{}
	_, checks["list"] = svc.List(ctx)
	_, checks["create"] = svc.Create(ctx, map[string]any{"title": "T", "url": "http://x"})
	_, checks["comment"] = svc.AddComment(ctx, v.ID, map[string]any{"text": "hi"})
	_, checks["rating"] = svc.AddRating(ctx, v.ID, map[string]any{"value": float64(4)})
	checks["delete"] = svc.DeleteOne(ctx, v.ID)
	_, checks["bulk"] = svc.BulkDeleteByProvider(ctx, "youtube")

	for name, err := range checks {
		var se *StoreError
		if assert.ErrorAs(t, err, &se, name) {
			assert.ErrorIs(t, err, errBoom, name)
			assert.NotContains(t, se.Error(), "connection reset", "%s leaks the cause", name)
		}
	}
}

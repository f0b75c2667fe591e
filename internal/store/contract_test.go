package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/model"
)

// newTestVideo builds a valid video with the given title and URL
func newTestVideo(title, url string, createdAt time.Time) *model.Video {
	return &model.Video{
		Title:       title,
		Publisher:   model.DefaultPublisher,
		Producer:    model.DefaultProducer,
		Genre:       model.DefaultGenre,
		Age:         model.DefaultAge,
		PlaybackURL: url,
		Comments:    []model.Comment{},
		Ratings:     []int{},
		CreatedAt:   createdAt.UTC().Truncate(time.Millisecond),
	}
}

// readableStore is a Store that can also load a single video
type readableStore interface {
	Store
	GetVideo(ctx context.Context, id string) (*model.Video, error)
}

// testStoreContract exercises behavior every Store implementation must share.
// newStore must return an empty store.
func testStoreContract(t *testing.T, newStore func(t *testing.T) readableStore) {
	t.Run("insert assigns id and list is newest first", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		base := time.Now().Add(-time.Hour)

		older := newTestVideo("older", "https://cdn.example.com/a.mp4", base)
		newer := newTestVideo("newer", "https://cdn.example.com/b.mp4", base.Add(time.Minute))
		for _, v := range []*model.Video{older, newer} {
			if err := s.InsertVideo(ctx, v); err != nil {
				t.Fatalf("InsertVideo() error = %v", err)
			}
			if v.ID == "" {
				t.Fatal("InsertVideo() did not assign an ID")
			}
		}

		list, err := s.ListVideos(ctx)
		if err != nil {
			t.Fatalf("ListVideos() error = %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("ListVideos() len = %d, want 2", len(list))
		}
		if list[0].ID != newer.ID || list[1].ID != older.ID {
			t.Errorf("ListVideos() order = [%s %s], want [%s %s]", list[0].Title, list[1].Title, newer.Title, older.Title)
		}
		if list[0].Comments == nil || list[0].Ratings == nil {
			t.Error("ListVideos() returned nil comments or ratings")
		}

		count, err := s.CountVideos(ctx)
		if err != nil {
			t.Fatalf("CountVideos() error = %v", err)
		}
		if count != 2 {
			t.Errorf("CountVideos() = %d, want 2", count)
		}
	})

	t.Run("appends preserve order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		v := newTestVideo("appends", "https://cdn.example.com/c.mp4", time.Now())
		if err := s.InsertVideo(ctx, v); err != nil {
			t.Fatalf("InsertVideo() error = %v", err)
		}

		for _, r := range []int{5, 3} {
			if _, err := s.AppendRating(ctx, v.ID, r); err != nil {
				t.Fatalf("AppendRating(%d) error = %v", r, err)
			}
		}
		now := time.Now().UTC().Truncate(time.Millisecond)
		for _, text := range []string{"first", "second"} {
			if _, err := s.AppendComment(ctx, v.ID, model.Comment{Text: text, CreatedAt: now}); err != nil {
				t.Fatalf("AppendComment(%q) error = %v", text, err)
			}
		}

		got, err := s.GetVideo(ctx, v.ID)
		if err != nil {
			t.Fatalf("GetVideo() error = %v", err)
		}
		if len(got.Ratings) != 2 || got.Ratings[0] != 5 || got.Ratings[1] != 3 {
			t.Errorf("Ratings = %v, want [5 3]", got.Ratings)
		}
		if len(got.Comments) != 2 || got.Comments[0].Text != "first" || got.Comments[1].Text != "second" {
			t.Errorf("Comments = %+v, want [first second]", got.Comments)
		}
		if !got.Comments[0].CreatedAt.Equal(now) {
			t.Errorf("Comment CreatedAt = %v, want %v", got.Comments[0].CreatedAt, now)
		}
	})

	t.Run("concurrent appends are not lost", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		v := newTestVideo("concurrent", "https://cdn.example.com/d.mp4", time.Now())
		if err := s.InsertVideo(ctx, v); err != nil {
			t.Fatalf("InsertVideo() error = %v", err)
		}

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := s.AppendRating(ctx, v.ID, i%5+1); err != nil {
					t.Errorf("AppendRating() error = %v", err)
				}
			}(i)
		}
		wg.Wait()

		got, err := s.GetVideo(ctx, v.ID)
		if err != nil {
			t.Fatalf("GetVideo() error = %v", err)
		}
		if len(got.Ratings) != workers {
			t.Errorf("len(Ratings) = %d, want %d", len(got.Ratings), workers)
		}
	})

	t.Run("unknown ids are not found", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, id := range []string{"", "nope", "507f1f77bcf86cd799439011", "999999"} {
			if _, err := s.GetVideo(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetVideo(%q) error = %v, want ErrNotFound", id, err)
			}
			if _, err := s.AppendRating(ctx, id, 3); !errors.Is(err, ErrNotFound) {
				t.Errorf("AppendRating(%q) error = %v, want ErrNotFound", id, err)
			}
			if _, err := s.AppendComment(ctx, id, model.Comment{Text: "x", CreatedAt: time.Now()}); !errors.Is(err, ErrNotFound) {
				t.Errorf("AppendComment(%q) error = %v, want ErrNotFound", id, err)
			}
			if err := s.DeleteVideo(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Errorf("DeleteVideo(%q) error = %v, want ErrNotFound", id, err)
			}
		}
	})

	t.Run("delete is terminal", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		v := newTestVideo("doomed", "https://cdn.example.com/e.mp4", time.Now())
		if err := s.InsertVideo(ctx, v); err != nil {
			t.Fatalf("InsertVideo() error = %v", err)
		}
		if err := s.DeleteVideo(ctx, v.ID); err != nil {
			t.Fatalf("DeleteVideo() error = %v", err)
		}
		if err := s.DeleteVideo(ctx, v.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second DeleteVideo() error = %v, want ErrNotFound", err)
		}
		if _, err := s.AppendRating(ctx, v.ID, 4); !errors.Is(err, ErrNotFound) {
			t.Errorf("AppendRating() after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete by hosts removes only matches", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		now := time.Now()

		videos := []*model.Video{
			newTestVideo("yt", "https://www.youtube.com/watch?v=abc", now),
			newTestVideo("short", "https://YOUTU.BE/abc", now),
			newTestVideo("self", "https://cdn.example.com/f.mp4", now),
			newTestVideo("vimeo", "https://vimeo.com/123", now),
		}
		for _, v := range videos {
			if err := s.InsertVideo(ctx, v); err != nil {
				t.Fatalf("InsertVideo() error = %v", err)
			}
		}

		hosts := []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}
		deleted, err := s.DeleteByURLHosts(ctx, hosts)
		if err != nil {
			t.Fatalf("DeleteByURLHosts() error = %v", err)
		}
		if deleted != 2 {
			t.Errorf("DeleteByURLHosts() = %d, want 2", deleted)
		}

		deleted, err = s.DeleteByURLHosts(ctx, hosts)
		if err != nil {
			t.Fatalf("second DeleteByURLHosts() error = %v", err)
		}
		if deleted != 0 {
			t.Errorf("second DeleteByURLHosts() = %d, want 0", deleted)
		}

		list, err := s.ListVideos(ctx)
		if err != nil {
			t.Fatalf("ListVideos() error = %v", err)
		}
		if len(list) != 2 {
			t.Errorf("remaining videos = %d, want 2", len(list))
		}
	})
}

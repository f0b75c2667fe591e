package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/model"
)

// MemoryStore implements Store in process memory.
// It backs the tests and the "memory" backend for local development.
type MemoryStore struct {
	mu     sync.Mutex
	videos map[string]*memoryEntry
	seq    uint64
	closed bool
}

type memoryEntry struct {
	video *model.Video
	seq   uint64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		videos: make(map[string]*memoryEntry),
	}
}

// ListVideos returns copies of all videos, newest first
func (s *MemoryStore) ListVideos(ctx context.Context) ([]*model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]*memoryEntry, 0, len(s.videos))
	for _, e := range s.videos {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.video.CreatedAt.Equal(b.video.CreatedAt) {
			return a.video.CreatedAt.After(b.video.CreatedAt)
		}
		return a.seq > b.seq
	})

	videos := make([]*model.Video, 0, len(entries))
	for _, e := range entries {
		videos = append(videos, cloneVideo(e.video))
	}
	return videos, nil
}

// InsertVideo stores a copy of video and assigns its ID
func (s *MemoryStore) InsertVideo(ctx context.Context, video *model.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	video.ID = uuid.NewString()
	s.videos[video.ID] = &memoryEntry{video: cloneVideo(video), seq: s.seq}
	return nil
}

// GetVideo returns a copy of the video with the given id
func (s *MemoryStore) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneVideo(e.video), nil
}

// CountVideos returns the number of stored videos
func (s *MemoryStore) CountVideos(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.videos)), nil
}

// AppendComment appends comment under the store lock
func (s *MemoryStore) AppendComment(ctx context.Context, id string, comment model.Comment) (*model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.video.Comments = append(e.video.Comments, comment)
	return cloneVideo(e.video), nil
}

// AppendRating appends rating under the store lock
func (s *MemoryStore) AppendRating(ctx context.Context, id string, rating int) (*model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.video.Ratings = append(e.video.Ratings, rating)
	return cloneVideo(e.video), nil
}

// DeleteVideo removes the video with the given id
func (s *MemoryStore) DeleteVideo(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[id]; !ok {
		return ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

// DeleteByURLHosts removes every video whose playback URL contains one of hosts
func (s *MemoryStore) DeleteByURLHosts(ctx context.Context, hosts []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, e := range s.videos {
		if urlContainsAnyHost(e.video.PlaybackURL, hosts) {
			delete(s.videos, id)
			deleted++
		}
	}
	return deleted, nil
}

// Ping always succeeds until the store is closed
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed
	}
	return nil
}

// Close marks the store as closed; data is kept
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// urlContainsAnyHost reports whether rawURL contains any of hosts (case-insensitive)
func urlContainsAnyHost(rawURL string, hosts []string) bool {
	lower := strings.ToLower(rawURL)
	for _, h := range hosts {
		if h != "" && strings.Contains(lower, strings.ToLower(h)) {
			return true
		}
	}
	return false
}

func cloneVideo(v *model.Video) *model.Video {
	c := *v
	c.Comments = append(make([]model.Comment, 0, len(v.Comments)), v.Comments...)
	c.Ratings = append(make([]int, 0, len(v.Ratings)), v.Ratings...)
	return &c
}

package video

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/model"
	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/store"
)

// Service implements the video resource operations on top of a Store.
// Input is normalized and validated before any store call, so rejected
// requests never mutate the store.
type Service struct {
	store   store.Store
	timeout time.Duration
	now     func() time.Time
}

// NewService creates a video service. Every store call is bounded by timeout.
func NewService(st store.Store, timeout time.Duration) *Service {
	return &Service{
		store:   st,
		timeout: timeout,
		now:     time.Now,
	}
}

// List returns every video, newest first
func (s *Service) List(ctx context.Context) ([]ExposedVideo, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	videos, err := s.store.ListVideos(ctx)
	if err != nil {
		return nil, storeFailure("fetch videos", "", err)
	}
	return ExposeAll(videos), nil
}

// Create normalizes and validates input, then inserts a new video.
// The external flag is derived from the playback URL; the client value is not trusted.
func (s *Service) Create(ctx context.Context, input map[string]any) (ExposedVideo, error) {
	draft := Normalize(input)
	if err := ValidateDraft(draft); err != nil {
		return ExposedVideo{}, err
	}

	external := IsThirdParty(draft.PlaybackURL)
	if draft.External != external {
		log.Debug().
			Bool("clientExternal", draft.External).
			Bool("external", external).
			Str("playbackUrl", draft.PlaybackURL).
			Msg("Ignoring client-supplied external flag")
	}

	v := &model.Video{
		Title:       draft.Title,
		Publisher:   draft.Publisher,
		Producer:    draft.Producer,
		Genre:       draft.Genre,
		Age:         draft.Age,
		PlaybackURL: draft.PlaybackURL,
		External:    external,
		Comments:    []model.Comment{},
		Ratings:     []int{},
		CreatedAt:   s.timestamp(),
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.store.InsertVideo(ctx, v); err != nil {
		return ExposedVideo{}, storeFailure("create video", "", err)
	}

	log.Info().Str("id", v.ID).Str("title", v.Title).Bool("external", v.External).Msg("Video created")
	return Expose(v), nil
}

// AddComment appends a trimmed comment to the video with the given id
func (s *Service) AddComment(ctx context.Context, id string, input map[string]any) (ExposedVideo, error) {
	text, err := ValidateComment(NormalizeCommentText(input))
	if err != nil {
		return ExposedVideo{}, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	v, err := s.store.AppendComment(ctx, id, model.Comment{Text: text, CreatedAt: s.timestamp()})
	if err != nil {
		return ExposedVideo{}, storeFailure("add comment", id, err)
	}
	return Expose(v), nil
}

// AddRating appends a rating in [1,5] to the video with the given id
func (s *Service) AddRating(ctx context.Context, id string, input map[string]any) (ExposedVideo, error) {
	rating, err := ValidateRating(NormalizeRatingValue(input))
	if err != nil {
		return ExposedVideo{}, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	v, err := s.store.AppendRating(ctx, id, rating)
	if err != nil {
		return ExposedVideo{}, storeFailure("add rating", id, err)
	}
	return Expose(v), nil
}

// DeleteOne removes the video with the given id
func (s *Service) DeleteOne(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.store.DeleteVideo(ctx, id); err != nil {
		return storeFailure("delete video", id, err)
	}

	log.Info().Str("id", id).Msg("Video deleted")
	return nil
}

// BulkDeleteByProvider removes every video hosted by the tagged provider
// and returns how many were removed
func (s *Service) BulkDeleteByProvider(ctx context.Context, tag string) (int64, error) {
	hosts, ok := BulkDeleteHosts(tag)
	if !ok {
		return 0, &UnsupportedFilterError{Tag: tag}
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	deleted, err := s.store.DeleteByURLHosts(ctx, hosts)
	if err != nil {
		return 0, storeFailure("delete videos", "", err)
	}

	log.Info().Str("provider", tag).Int64("deleted", deleted).Msg("Bulk delete by provider")
	return deleted, nil
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// timestamp is truncated to milliseconds, the precision every backend keeps
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func storeFailure(op, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{ID: id}
	}
	return &StoreError{Op: op, Err: err}
}

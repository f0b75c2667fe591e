package store

import (
	"context"
	"errors"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/model"
)

// ErrNotFound is returned when an id does not resolve to a persisted video.
// Malformed ids are reported the same way.
var ErrNotFound = errors.New("video not found")

var errStoreClosed = errors.New("store is closed")

// Store defines the interface for video persistence.
// Implementations must be safe for concurrent use and must apply
// AppendComment and AppendRating as atomic single-record updates.
type Store interface {
	// Video operations
	ListVideos(ctx context.Context) ([]*model.Video, error)
	InsertVideo(ctx context.Context, video *model.Video) error
	CountVideos(ctx context.Context) (int64, error)

	// Append-only sub-resources; both return the updated video
	AppendComment(ctx context.Context, id string, comment model.Comment) (*model.Video, error)
	AppendRating(ctx context.Context, id string, rating int) (*model.Video, error)

	// Deletion
	DeleteVideo(ctx context.Context, id string) error
	DeleteByURLHosts(ctx context.Context, hosts []string) (int64, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}

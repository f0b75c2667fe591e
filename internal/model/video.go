package model

import (
	"time"
)

// Default metadata applied when a create request leaves a field blank
const (
	DefaultPublisher = "EduTalk"
	DefaultProducer  = "Admin"
	DefaultGenre     = "General"
	DefaultAge       = "PG"
)

// Rating bounds (inclusive)
const (
	MinRating = 1
	MaxRating = 5
)

// Comment is a single viewer comment attached to a video
type Comment struct {
	Text      string
	CreatedAt time.Time
}

// Video represents a persisted video record.
// Comments and Ratings are append-only; the other fields never change after creation.
type Video struct {
	ID          string
	Title       string
	Publisher   string
	Producer    string
	Genre       string
	Age         string
	PlaybackURL string
	External    bool
	Comments    []Comment
	Ratings     []int
	CreatedAt   time.Time
}

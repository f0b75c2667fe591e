package video

import (
	"time"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/model"
)

// ExposedComment is the client-facing comment shape
type ExposedComment struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExposedVideo is the client-facing video shape.
// Comments and Ratings are never nil so they always encode as arrays.
type ExposedVideo struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Publisher   string           `json:"publisher"`
	Producer    string           `json:"producer"`
	Genre       string           `json:"genre"`
	Age         string           `json:"age"`
	PlaybackURL string           `json:"playbackUrl"`
	External    bool             `json:"external"`
	Comments    []ExposedComment `json:"comments"`
	Ratings     []int            `json:"ratings"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Expose converts a stored video into its client-facing shape.
// Records written before external was stored still report it from their URL.
func Expose(v *model.Video) ExposedVideo {
	out := ExposedVideo{
		ID:          v.ID,
		Title:       v.Title,
		Publisher:   v.Publisher,
		Producer:    v.Producer,
		Genre:       v.Genre,
		Age:         v.Age,
		PlaybackURL: v.PlaybackURL,
		External:    v.External || IsThirdParty(v.PlaybackURL),
		Comments:    make([]ExposedComment, 0, len(v.Comments)),
		Ratings:     make([]int, 0, len(v.Ratings)),
		CreatedAt:   v.CreatedAt.UTC(),
	}
	for _, c := range v.Comments {
		out.Comments = append(out.Comments, ExposedComment{Text: c.Text, CreatedAt: c.CreatedAt.UTC()})
	}
	out.Ratings = append(out.Ratings, v.Ratings...)
	return out
}

// ExposeAll converts a list of stored videos, preserving order
func ExposeAll(videos []*model.Video) []ExposedVideo {
	out := make([]ExposedVideo, 0, len(videos))
	for _, v := range videos {
		out = append(out, Expose(v))
	}
	return out
}

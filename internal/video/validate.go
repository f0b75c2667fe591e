package video

import (
	"math"
	"strings"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/model"
)

// ValidateDraft rejects drafts without a title or playback URL
func ValidateDraft(d Draft) error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.PlaybackURL) == "" {
		return &ValidationError{Reason: ReasonMissingRequiredField}
	}
	return nil
}

// ValidateRating returns value as an int when it is a whole number in [1,5].
// NaN, infinities and fractions are out of range.
func ValidateRating(value float64) (int, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) ||
		value < model.MinRating || value > model.MaxRating ||
		value != math.Trunc(value) {
		return 0, &ValidationError{Reason: ReasonOutOfRange}
	}
	return int(value), nil
}

// ValidateComment returns the trimmed text, rejecting blank comments
func ValidateComment(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &ValidationError{Reason: ReasonEmptyText}
	}
	return trimmed, nil
}

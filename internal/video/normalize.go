package video

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/model"
)

// Draft is a create payload mapped onto the canonical record shape
type Draft struct {
	Title       string
	Publisher   string
	Producer    string
	Genre       string
	Age         string
	PlaybackURL string
	External    bool
}

// Normalize maps a decoded JSON body onto a Draft.
// Each field reads its preferred key, then its legacy alias; a blank value
// counts as absent. Strings are trimmed and optional fields get defaults.
// Normalize never fails: missing required fields are left empty for Validate.
func Normalize(input map[string]any) Draft {
	return Draft{
		Title:       stringField(input, "title"),
		Publisher:   withDefault(stringField(input, "publisher"), model.DefaultPublisher),
		Producer:    withDefault(stringField(input, "producer"), model.DefaultProducer),
		Genre:       withDefault(stringField(input, "genre"), model.DefaultGenre),
		Age:         withDefault(stringField(input, "age", "ageRating"), model.DefaultAge),
		PlaybackURL: stringField(input, "playbackUrl", "url"),
		External:    Truthy(input["external"]),
	}
}

// NormalizeCommentText reads the comment body from "text" or legacy "comment"
func NormalizeCommentText(input map[string]any) string {
	return stringField(input, "text", "comment")
}

// NormalizeRatingValue reads the rating from "value" or legacy "rating".
// Anything that is not a number or a numeric string yields NaN.
func NormalizeRatingValue(input map[string]any) float64 {
	for _, key := range []string{"value", "rating"} {
		if v, ok := input[key]; ok && v != nil {
			return toFloat(v)
		}
	}
	return math.NaN()
}

// Truthy coerces a decoded JSON value to a boolean.
// Booleans pass through, numbers are true when non-zero, and strings are
// true for "true", "1", "yes", "on" (any case).
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true
		}
	}
	return false
}

func stringField(input map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := input[key]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(toString(v)); s != "" {
			return s
		}
	}
	return ""
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		// objects and arrays are not meaningful metadata
		return ""
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

func withDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

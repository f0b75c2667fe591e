package video

import (
	"strings"
)

// ProviderYouTube is the only tag accepted by bulk delete
const ProviderYouTube = "youtube"

// providerHosts lists the host patterns that identify third-party video platforms.
// A playback URL matches when it contains one of the patterns, ignoring case.
var providerHosts = map[string][]string{
	ProviderYouTube: {"youtube.com", "youtu.be", "youtube-nocookie.com"},
	"vimeo":         {"vimeo.com"},
	"dailymotion":   {"dailymotion.com", "dai.ly"},
}

// bulkDeletable are the provider tags BulkDeleteByProvider accepts
var bulkDeletable = map[string]bool{
	ProviderYouTube: true,
}

// IsThirdParty reports whether rawURL points at a known external video platform
func IsThirdParty(rawURL string) bool {
	return DetectProvider(rawURL) != ""
}

// DetectProvider returns the provider tag for rawURL, or "" when the URL is self-hosted
func DetectProvider(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for tag, hosts := range providerHosts {
		for _, h := range hosts {
			if strings.Contains(lower, h) {
				return tag
			}
		}
	}
	return ""
}

// BulkDeleteHosts returns the host patterns for a bulk-delete tag.
// Tags must match exactly; ok is false for unsupported tags.
func BulkDeleteHosts(tag string) (hosts []string, ok bool) {
	if !bulkDeletable[tag] {
		return nil, false
	}
	return append([]string(nil), providerHosts[tag]...), true
}

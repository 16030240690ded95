// Package video maps shareable video links to their embeddable form.
package video

import (
	"net/url"
	"strings"
)

const embedBase = "https://www.youtube.com/embed/"

// EmbedURL returns the embed URL for youtu.be and youtube.com watch links.
// Embed links and anything it does not recognize are returned unchanged.
func EmbedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "youtu.be"):
		id := strings.TrimSpace(strings.TrimPrefix(u.Path, "/"))
		if id == "" {
			return raw
		}
		return embedBase + id
	case strings.Contains(host, "youtube.com"):
		if strings.HasPrefix(u.Path, "/embed/") {
			return raw
		}
		if id := u.Query().Get("v"); id != "" {
			return embedBase + id
		}
	}
	return raw
}

package model

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PublishedLayout is the date format the remote API uses for published_at.
const PublishedLayout = "Jan 2, 2006"

// Channel represents the channel that published a video
type Channel struct {
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	SubscriberCount string `json:"subscriberCount,omitempty"`
}

// Video represents a video summary as listed on the home, trending and gaming screens
type Video struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	PublishedAt  string  `json:"publishedAt,omitempty"`
	ViewCount    string  `json:"viewCount"`
	Channel      Channel `json:"channel"`
}

// VideoDetail is a Video with the fields only the detail endpoint returns
type VideoDetail struct {
	Video
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
}

// PostedAgo renders PublishedAt relative to now, e.g. "3 years ago".
// The raw value is returned when it cannot be parsed.
func (v Video) PostedAgo() string {
	return postedAgo(v.PublishedAt, time.Now())
}

func postedAgo(publishedAt string, now time.Time) string {
	raw := strings.TrimSpace(publishedAt)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{PublishedLayout, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return humanize.RelTime(t, now, "ago", "from now")
		}
	}
	return raw
}

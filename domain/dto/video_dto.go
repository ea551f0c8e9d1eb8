package dto

import "nxt-watch/domain/model"

// ReqVideoList is the query for GET /videos/all
type ReqVideoList struct {
	Search string `url:"search"`
}

// ResChannel is the channel object as the remote API sends it
type ResChannel struct {
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url"`
	SubscriberCount string `json:"subscriber_count,omitempty"`
}

// ResVideo is a video object as the remote API sends it
type ResVideo struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	ThumbnailURL string      `json:"thumbnail_url"`
	PublishedAt  string      `json:"published_at"`
	ViewCount    string      `json:"view_count"`
	Channel      *ResChannel `json:"channel,omitempty"`
}

// ResVideoDetail adds the detail-only fields
type ResVideoDetail struct {
	ResVideo
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
}

// ResVideos is the body of GET /videos/all, /videos/trending and /videos/gaming
type ResVideos struct {
	Videos []ResVideo `json:"videos"`
	Total  int        `json:"total,omitempty"`
}

// ResVideoDetails is the body of GET /videos/:id
type ResVideoDetails struct {
	VideoDetails *ResVideoDetail `json:"video_details"`
}

// ToModel normalizes the snake_case payload
func (r ResVideo) ToModel() model.Video {
	v := model.Video{
		ID:           r.ID,
		Title:        r.Title,
		ThumbnailURL: r.ThumbnailURL,
		PublishedAt:  r.PublishedAt,
		ViewCount:    r.ViewCount,
	}
	if r.Channel != nil {
		v.Channel = model.Channel{
			Name:            r.Channel.Name,
			ProfileImageURL: r.Channel.ProfileImageURL,
			SubscriberCount: r.Channel.SubscriberCount,
		}
	}
	return v
}

// ToModel normalizes the snake_case payload
func (r ResVideoDetail) ToModel() model.VideoDetail {
	return model.VideoDetail{
		Video:       r.ResVideo.ToModel(),
		Description: r.Description,
		VideoURL:    r.VideoURL,
	}
}

// ToModel normalizes every video of the list, keeping order
func (r ResVideos) ToModel() []model.Video {
	out := make([]model.Video, 0, len(r.Videos))
	for _, v := range r.Videos {
		out = append(out, v.ToModel())
	}
	return out
}

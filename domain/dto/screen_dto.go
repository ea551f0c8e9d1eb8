package dto

import (
	"nxt-watch/domain/model"
)

// ReqSearch is the body of POST /api/screens/:screen/search
type ReqSearch struct {
	Search string `json:"search" form:"search"`
}

// ResScreen is the JSON rendering of a screen snapshot
type ResScreen struct {
	Screen   string              `json:"screen"`
	Status   model.RequestStatus `json:"status"`
	View     model.View          `json:"view"`
	Search   string              `json:"search,omitempty"`
	Videos   []model.Video       `json:"videos,omitempty"`
	Video    *model.VideoDetail  `json:"video,omitempty"`
	Saved    *bool               `json:"saved,omitempty"`
	Reaction model.Reaction      `json:"reaction,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// ResSavedVideos is the body of GET /api/saved-videos
type ResSavedVideos struct {
	View   model.View          `json:"view"`
	Videos []model.VideoDetail `json:"videos"`
}

// ResToggleSave is the body returned after pressing save
type ResToggleSave struct {
	VideoID string `json:"videoId"`
	Saved   bool   `json:"saved"`
	Count   int    `json:"count"`
}

// ResReaction is the body returned after pressing like/dislike
type ResReaction struct {
	VideoID  string         `json:"videoId"`
	Reaction model.Reaction `json:"reaction"`
	Liked    bool           `json:"liked"`
	Disliked bool           `json:"disliked"`
}

// ResTheme is the body of the theme endpoints
type ResTheme struct {
	Dark  bool   `json:"dark"`
	Theme string `json:"theme"`
}

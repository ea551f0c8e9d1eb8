package model

import "time"

// UserState is everything a session keeps besides its token
type UserState struct {
	Theme           Theme               `json:"theme"`
	SavedVideos     SavedVideos         `json:"savedVideos"`
	Reactions       map[string]Reaction `json:"reactions,omitempty"`
	BannerDismissed bool                `json:"bannerDismissed"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// NewUserState returns the state of a fresh session: light theme, nothing saved
func NewUserState() *UserState {
	return &UserState{Reactions: make(map[string]Reaction)}
}

// Reaction returns the reaction for videoID
func (u *UserState) Reaction(videoID string) Reaction {
	if u.Reactions == nil {
		return ReactionNone
	}
	return u.Reactions[videoID]
}

// React applies next to the reaction held for videoID and returns the result
func (u *UserState) React(videoID string, next Reaction) Reaction {
	if u.Reactions == nil {
		u.Reactions = make(map[string]Reaction)
	}
	r := u.Reactions[videoID].Apply(next)
	if r == ReactionNone {
		delete(u.Reactions, videoID)
	} else {
		u.Reactions[videoID] = r
	}
	return r
}

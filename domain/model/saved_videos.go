package model

// SavedVideos is an ordered set of videos keyed by id.
// Insertion order is preserved and an id appears at most once.
// It is not safe for concurrent use; callers serialize writes.
type SavedVideos struct {
	Items []VideoDetail `json:"items"`
}

// Add appends video unless its id is already present. It reports whether the video was added.
func (s *SavedVideos) Add(video VideoDetail) bool {
	if s.IsSaved(video.ID) {
		return false
	}
	s.Items = append(s.Items, video)
	return true
}

// Remove drops the video with the given id. Absent ids are a no-op.
func (s *SavedVideos) Remove(videoID string) bool {
	for i := range s.Items {
		if s.Items[i].ID == videoID {
			s.Items = append(s.Items[:i:i], s.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle adds video when it is absent and removes it when present.
// The returned value is the membership after the call.
func (s *SavedVideos) Toggle(video VideoDetail) bool {
	if s.Remove(video.ID) {
		return false
	}
	s.Items = append(s.Items, video)
	return true
}

// IsSaved reports membership by id
func (s *SavedVideos) IsSaved(videoID string) bool {
	for i := range s.Items {
		if s.Items[i].ID == videoID {
			return true
		}
	}
	return false
}

// List returns a copy of the saved videos in insertion order
func (s *SavedVideos) List() []VideoDetail {
	out := make([]VideoDetail, len(s.Items))
	copy(out, s.Items)
	return out
}

// Len returns the number of saved videos
func (s *SavedVideos) Len() int {
	return len(s.Items)
}

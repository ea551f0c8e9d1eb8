package model

// Reaction is the like/dislike state a user holds for one video
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Apply returns the reaction after pressing the button for next.
// Pressing the active button clears it; like and dislike exclude each other.
func (r Reaction) Apply(next Reaction) Reaction {
	if next == ReactionNone || r == next {
		return ReactionNone
	}
	return next
}

func (r Reaction) Liked() bool    { return r == ReactionLike }
func (r Reaction) Disliked() bool { return r == ReactionDislike }

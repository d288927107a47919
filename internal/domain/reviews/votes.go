package reviews

type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// ApplyVote returns the vote sets after one user's action. Casting the same
// vote twice toggles it off; casting the opposite vote moves the voter
// across sets.
func ApplyVote(upvotes, downvotes []string, voter string, dir VoteDirection) ([]string, []string) {
	switch dir {
	case VoteUp:
		if contains(upvotes, voter) {
			upvotes = remove(upvotes, voter)
		} else {
			downvotes = remove(downvotes, voter)
			upvotes = append(upvotes, voter)
		}
	case VoteDown:
		if contains(downvotes, voter) {
			downvotes = remove(downvotes, voter)
		} else {
			upvotes = remove(upvotes, voter)
			downvotes = append(downvotes, voter)
		}
	}
	return upvotes, downvotes
}

// Score is the display score and never goes negative.
func Score(upvotes, downvotes []string) int {
	score := len(upvotes) - len(downvotes)
	if score < 0 {
		return 0
	}
	return score
}

func contains(set []string, member string) bool {
	for _, m := range set {
		if m == member {
			return true
		}
	}
	return false
}

func remove(set []string, member string) []string {
	out := set[:0]
	for _, m := range set {
		if m != member {
			out = append(out, m)
		}
	}
	return out
}

package reviews

import (
	"reflect"
	"testing"
)

func TestApplyVoteToggle(t *testing.T) {
	up, down := ApplyVote(nil, nil, "a@x.com", VoteUp)
	if !reflect.DeepEqual(up, []string{"a@x.com"}) || len(down) != 0 {
		t.Fatalf("after first upvote: up=%v down=%v", up, down)
	}

	up, down = ApplyVote(up, down, "a@x.com", VoteUp)
	if len(up) != 0 || len(down) != 0 {
		t.Fatalf("second upvote should toggle off: up=%v down=%v", up, down)
	}
}

func TestApplyVoteSwitchesSides(t *testing.T) {
	up, down := ApplyVote(nil, nil, "a@x.com", VoteUp)

	up, down = ApplyVote(up, down, "a@x.com", VoteDown)
	if len(up) != 0 {
		t.Errorf("upvotes should be empty after switching, got %v", up)
	}
	if !reflect.DeepEqual(down, []string{"a@x.com"}) {
		t.Errorf("downvotes = %v, want [a@x.com]", down)
	}
}

func TestApplyVotePreservesOtherVoters(t *testing.T) {
	up := []string{"a@x.com", "b@x.com"}
	down := []string{"c@x.com"}

	up, down = ApplyVote(up, down, "b@x.com", VoteDown)
	if !reflect.DeepEqual(up, []string{"a@x.com"}) {
		t.Errorf("up = %v, want [a@x.com]", up)
	}
	if !reflect.DeepEqual(down, []string{"c@x.com", "b@x.com"}) {
		t.Errorf("down = %v, want [c@x.com b@x.com]", down)
	}
}

func TestScoreFloorsAtZero(t *testing.T) {
	tests := []struct {
		up, down int
		want     int
	}{
		{3, 1, 2},
		{1, 1, 0},
		{0, 4, 0},
		{0, 0, 0},
	}
	for _, tc := range tests {
		up := make([]string, tc.up)
		down := make([]string, tc.down)
		if got := Score(up, down); got != tc.want {
			t.Errorf("Score(%d up, %d down) = %d, want %d", tc.up, tc.down, got, tc.want)
		}
	}
}

func TestVoteDirectionValid(t *testing.T) {
	if !VoteUp.Valid() || !VoteDown.Valid() {
		t.Error("up/down should be valid")
	}
	if VoteDirection("sideways").Valid() {
		t.Error("unknown direction should be invalid")
	}
}

package domain

import (
	"errors"
	"testing"
)

func TestPlanVote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		current   VoteStatus
		requested VoteStatus
		want      VoteChange
		wantErr   error
	}{
		{"none to up", VoteNone, VoteUp, ChangeAdded, nil},
		{"none to down", VoteNone, VoteDown, ChangeAdded, nil},
		{"none to none", VoteNone, VoteNone, "", ErrNothingToRemove},
		{"up to up", VoteUp, VoteUp, ChangeNoop, nil},
		{"up to down", VoteUp, VoteDown, ChangeSwapped, nil},
		{"down to up", VoteDown, VoteUp, ChangeSwapped, nil},
		{"down to none", VoteDown, VoteNone, ChangeRemoved, nil},
		{"bogus", VoteNone, VoteStatus("sideways"), "", ErrInvalidVoteStatus},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := PlanVote(tc.current, tc.requested)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlanVote error: %v", err)
			}
			if got.Change != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Change)
			}
		})
	}
}

func TestParseVoteStatus(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]VoteStatus{"upvote": VoteUp, " DOWNVOTE ": VoteDown, "none": VoteNone, "": VoteNone} {
		got, err := ParseVoteStatus(raw)
		if err != nil || got != want {
			t.Fatalf("ParseVoteStatus(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseVoteStatus("maybe"); !errors.Is(err, ErrInvalidVoteStatus) {
		t.Fatalf("expected ErrInvalidVoteStatus, got %v", err)
	}
}

func TestCountersApply(t *testing.T) {
	t.Parallel()

	var c VoteCounters
	up, _ := PlanVote(VoteNone, VoteUp)
	c = c.Apply(up)
	if c != (VoteCounters{Votes: 1, Upvotes: 1}) {
		t.Fatalf("after add: %+v", c)
	}

	swap, _ := PlanVote(VoteUp, VoteDown)
	c = c.Apply(swap)
	if c != (VoteCounters{Votes: 1, Downvotes: 1}) {
		t.Fatalf("after swap: %+v", c)
	}

	noop, _ := PlanVote(VoteDown, VoteDown)
	if got := c.Apply(noop); got != c {
		t.Fatalf("noop changed counters: %+v", got)
	}

	remove, _ := PlanVote(VoteDown, VoteNone)
	c = c.Apply(remove)
	if c != (VoteCounters{}) {
		t.Fatalf("after remove: %+v", c)
	}

	// removal against already-zero counters stays at zero
	if got := c.Apply(remove); got != (VoteCounters{}) {
		t.Fatalf("counters went negative: %+v", got)
	}
}

package domain

import (
	"fmt"
	"strings"
)

// VoteStatus is a user's stance on a bill. The empty value means no vote.
type VoteStatus string

const (
	VoteNone VoteStatus = ""
	VoteUp   VoteStatus = "upvote"
	VoteDown VoteStatus = "downvote"
)

// ParseVoteStatus accepts "upvote", "downvote" and "none" (or empty) for removal.
func ParseVoteStatus(raw string) (VoteStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "upvote":
		return VoteUp, nil
	case "downvote":
		return VoteDown, nil
	case "none", "":
		return VoteNone, nil
	default:
		return VoteNone, fmt.Errorf("%w: %q", ErrInvalidVoteStatus, raw)
	}
}

// String renders the status the way clients send it.
func (s VoteStatus) String() string {
	if s == VoteNone {
		return "none"
	}
	return string(s)
}

// VoteChange classifies a transition between two statuses.
type VoteChange string

const (
	ChangeAdded   VoteChange = "added"
	ChangeSwapped VoteChange = "swapped"
	ChangeRemoved VoteChange = "removed"
	ChangeNoop    VoteChange = "noop"
)

// Transition is the effect a requested vote has relative to the current one.
type Transition struct {
	From   VoteStatus
	To     VoteStatus
	Change VoteChange
}

// PlanVote resolves the requested status against the current one.
func PlanVote(current, requested VoteStatus) (Transition, error) {
	if requested != VoteNone && requested != VoteUp && requested != VoteDown {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidVoteStatus, string(requested))
	}

	t := Transition{From: current, To: requested}
	switch {
	case current == requested && current == VoteNone:
		return Transition{}, ErrNothingToRemove
	case current == requested:
		t.Change = ChangeNoop
	case current == VoteNone:
		t.Change = ChangeAdded
	case requested == VoteNone:
		t.Change = ChangeRemoved
	default:
		t.Change = ChangeSwapped
	}
	return t, nil
}

// Message is the user-facing description of the transition.
func (t Transition) Message() string {
	switch t.Change {
	case ChangeNoop:
		return "vote already recorded"
	case ChangeAdded:
		return "vote recorded"
	case ChangeSwapped:
		return "vote changed"
	case ChangeRemoved:
		return "vote removed"
	}
	return ""
}

// Apply returns the counters after the transition. Decrements never go below zero.
func (c VoteCounters) Apply(t Transition) VoteCounters {
	switch t.Change {
	case ChangeAdded:
		c.Votes++
		c.bump(t.To, 1)
	case ChangeRemoved:
		c.Votes = floor(c.Votes - 1)
		c.bump(t.From, -1)
	case ChangeSwapped:
		c.bump(t.From, -1)
		c.bump(t.To, 1)
	}
	return c
}

func (c *VoteCounters) bump(status VoteStatus, delta int64) {
	switch status {
	case VoteUp:
		c.Upvotes = floor(c.Upvotes + delta)
	case VoteDown:
		c.Downvotes = floor(c.Downvotes + delta)
	}
}

func floor(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// VoteResult is returned to callers after a vote has been applied.
type VoteResult struct {
	BillID       int64
	Transition   Transition
	Counters     VoteCounters
	Demographics VoteRecord
}

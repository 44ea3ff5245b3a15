package entities

import (
	"strings"
	"time"
)

type VotableKind string

const (
	VotableKindQuestion VotableKind = "question"
	VotableKindAnswer   VotableKind = "answer"
)

func IsValidVotableKind(kind VotableKind) bool {
	switch kind {
	case VotableKindQuestion, VotableKindAnswer:
		return true
	default:
		return false
	}
}

type VoteAction string

const (
	VoteActionUp     VoteAction = "up"
	VoteActionDown   VoteAction = "down"
	VoteActionRemove VoteAction = "remove"
)

func ParseVoteAction(raw string) (VoteAction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(VoteActionUp):
		return VoteActionUp, true
	case string(VoteActionDown):
		return VoteActionDown, true
	case string(VoteActionRemove):
		return VoteActionRemove, true
	default:
		return "", false
	}
}

// Votable is the vote-bearing projection of a question or answer: the two
// membership sets, the derived score, and the author the reputation deltas
// land on. Upvoters and Downvoters must stay disjoint and must never contain
// the author.
type Votable struct {
	Kind       VotableKind
	ID         string
	AuthorID   string
	Upvoters   []string
	Downvoters []string
	Score      int
	UpdatedAt  time.Time
}

func (v Votable) HasUpvoter(accountID string) bool {
	return contains(v.Upvoters, accountID)
}

func (v Votable) HasDownvoter(accountID string) bool {
	return contains(v.Downvoters, accountID)
}

func (v *Votable) AddUpvoter(accountID string) {
	if !contains(v.Upvoters, accountID) {
		v.Upvoters = append(v.Upvoters, accountID)
	}
}

func (v *Votable) AddDownvoter(accountID string) {
	if !contains(v.Downvoters, accountID) {
		v.Downvoters = append(v.Downvoters, accountID)
	}
}

func (v *Votable) RemoveUpvoter(accountID string) {
	v.Upvoters = remove(v.Upvoters, accountID)
}

func (v *Votable) RemoveDownvoter(accountID string) {
	v.Downvoters = remove(v.Downvoters, accountID)
}

// RecomputeScore derives the score from the post-mutation set state. Callers
// must never increment or decrement the stored score directly; concurrent
// writers would drift it.
func (v *Votable) RecomputeScore() {
	v.Score = len(v.Upvoters) - len(v.Downvoters)
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func remove(items []string, target string) []string {
	filtered := items[:0]
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

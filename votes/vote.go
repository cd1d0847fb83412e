package votes

import (
	"context"
	"fmt"
	"time"
)

type Kind string

const (
	KindUp   Kind = "U"
	KindDown Kind = "D"
)

func (kind Kind) IsValid() bool {
	switch kind {
	case KindUp, KindDown:
		return true
	default:
		return false
	}
}

// Vote is one user's up or down vote on one comment.
type Vote struct {
	ID        string
	Kind      Kind
	UserID    string
	CommentID string
	VotedAt   time.Time
}

type VoteRepository interface {
	Exists(ctx context.Context, userID, commentID string) (exists bool, err error)
	// Insert returns *VoteAlreadyExistsError when the (user, comment) pair is taken.
	Insert(ctx context.Context, vote *Vote) (err error)
	List(ctx context.Context, params *ListVotesParams) (votes []*Vote, err error)
}

type ListVotesParams struct {
	Kind      Kind
	CommentID string
	UserID    string
}

type VoteAlreadyExistsError struct {
	UserID    string
	CommentID string
}

func (err VoteAlreadyExistsError) Error() string {
	return fmt.Sprintf("user %q has already voted on comment %q", err.UserID, err.CommentID)
}

package votes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/talkboard/validation"
)

type Service interface {
	CreateVote(ctx context.Context, req CreateVoteRequest) (*Vote, error)
	ListVotes(ctx context.Context, params ListVotesParams) ([]*Vote, error)
	ListUpVotes(ctx context.Context) ([]*Vote, error)
	ListDownVotes(ctx context.Context) ([]*Vote, error)
}

// Manager enforces the one-vote-per-user-and-comment rule on top of a VoteRepository.
type Manager struct {
	voteRepo VoteRepository
}

var _ Service = (*Manager)(nil)

func NewManager(voteRepo VoteRepository) *Manager {
	return &Manager{voteRepo: voteRepo}
}

type CreateVoteRequest struct {
	UserID    string `validate:"required"`
	CommentID string `validate:"required"`
	Kind      Kind   `validate:"oneof=U D"`
}

func errAlreadyVoted() *validation.Error {
	return validation.NewError("CommentID", "user has already voted on comment")
}

func (mgr *Manager) CreateVote(ctx context.Context, req CreateVoteRequest) (*Vote, error) {
	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	exists, err := mgr.voteRepo.Exists(ctx, req.UserID, req.CommentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing vote: %w", err)
	}

	if exists {
		return nil, errAlreadyVoted()
	}

	vote := &Vote{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		UserID:    req.UserID,
		CommentID: req.CommentID,
		VotedAt:   time.Now(),
	}

	err = mgr.voteRepo.Insert(ctx, vote)
	if err != nil {
		// a concurrent vote won the race between the check and the insert
		var alreadyExistsErr *VoteAlreadyExistsError
		if errors.As(err, &alreadyExistsErr) {
			return nil, errAlreadyVoted()
		}

		return nil, fmt.Errorf("failed to insert vote: %w", err)
	}

	slog.DebugContext(ctx, "vote created", "voteID", vote.ID, "kind", vote.Kind)

	return vote, nil
}

func (mgr *Manager) ListVotes(ctx context.Context, params ListVotesParams) ([]*Vote, error) {
	if params.Kind != "" && !params.Kind.IsValid() {
		return nil, validation.NewError("Kind", fmt.Sprintf("invalid vote kind %q", params.Kind))
	}

	votes, err := mgr.voteRepo.List(ctx, &params)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	return votes, nil
}

func (mgr *Manager) ListUpVotes(ctx context.Context) ([]*Vote, error) {
	return mgr.ListVotes(ctx, ListVotesParams{Kind: KindUp})
}

func (mgr *Manager) ListDownVotes(ctx context.Context) ([]*Vote, error) {
	return mgr.ListVotes(ctx, ListVotesParams{Kind: KindDown})
}

package discuss

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/talkboard/validation"
)

type Service interface {
	CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error)
	EditComment(ctx context.Context, req EditCommentRequest) (*Comment, error)
	GetComment(ctx context.Context, id string) (*Comment, error)
	ListComments(ctx context.Context, params ListCommentsParams) ([]*Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// Manager enforces the comment creation rule on top of a CommentRepository.
type Manager struct {
	commentRepo CommentRepository
}

var _ Service = (*Manager)(nil)

func NewManager(commentRepo CommentRepository) *Manager {
	return &Manager{
		commentRepo: commentRepo,
	}
}

// CreateCommentRequest targets a talk or a parent comment; empty ids are absent.
type CreateCommentRequest struct {
	AuthorID string `validate:"required"`
	TalkID   string
	ParentID string
	Content  string
}

func (mgr *Manager) CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error) {
	switch {
	case req.TalkID == "" && req.ParentID == "":
		return nil, validation.NewError("TalkID", "either talk or comment required")
	case req.TalkID != "" && req.ParentID != "":
		return nil, validation.NewError("ParentID", "exactly one of talk or comment allowed")
	}

	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	var talkID, parentID *string
	if req.TalkID != "" {
		talkID = &req.TalkID
	} else {
		parentID = &req.ParentID
	}

	timeNow := time.Now()

	comment := &Comment{
		ID:        uuid.NewString(),
		AuthorID:  req.AuthorID,
		TalkID:    talkID,
		ParentID:  parentID,
		Content:   req.Content,
		CreatedAt: timeNow,
		UpdatedAt: timeNow,
	}

	err = mgr.commentRepo.Insert(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	slog.DebugContext(ctx, "comment created", "commentID", comment.ID, "root", comment.IsRoot())

	return comment, nil
}

type EditCommentRequest struct {
	ID      string `validate:"required"`
	Content string
}

func (mgr *Manager) EditComment(ctx context.Context, req EditCommentRequest) (*Comment, error) {
	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	comment, err := mgr.commentRepo.Find(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	comment.Content = req.Content
	comment.UpdatedAt = time.Now()

	err = mgr.commentRepo.Update(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

func (mgr *Manager) GetComment(ctx context.Context, id string) (*Comment, error) {
	comment, err := mgr.commentRepo.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	return comment, nil
}

func (mgr *Manager) ListComments(ctx context.Context, params ListCommentsParams) ([]*Comment, error) {
	comments, err := mgr.commentRepo.List(ctx, &params)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// DeleteComment removes the comment; replies and votes go with it.
func (mgr *Manager) DeleteComment(ctx context.Context, id string) error {
	err := mgr.commentRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

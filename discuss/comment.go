package discuss

import (
	"context"
	"fmt"
	"time"
)

// Comment is attached either to a talk (a root comment) or to another comment (a reply).
type Comment struct {
	ID        string
	AuthorID  string
	TalkID    *string
	ParentID  *string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (comment *Comment) IsRoot() bool {
	return comment.ParentID == nil
}

type CommentRepository interface {
	Insert(ctx context.Context, comment *Comment) (err error)
	Update(ctx context.Context, comment *Comment) (err error)
	Find(ctx context.Context, id string) (comment *Comment, err error)
	List(ctx context.Context, params *ListCommentsParams) (comments []*Comment, err error)
	Delete(ctx context.Context, id string) (err error)
}

// ListCommentsParams filters by talk (root comments) and/or by parent (replies).
type ListCommentsParams struct {
	TalkID   string
	ParentID string
}

type CommentNotFoundError struct {
	ID string
}

func (err CommentNotFoundError) Error() string {
	return fmt.Sprintf("comment with id %q not found", err.ID)
}

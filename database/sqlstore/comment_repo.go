package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/talkboard/discuss"
)

const tableComments = "comments"

type CommentRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ discuss.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(db *sql.DB, dialect Dialect) *CommentRepository {
	return &CommentRepository{db: db, builder: dialect.statementBuilder()}
}

const (
	commentFieldID        = "id"
	commentFieldAuthorID  = "author_id"
	commentFieldTalkID    = "talk_id"
	commentFieldParentID  = "parent_id"
	commentFieldContent   = "content"
	commentFieldCreatedAt = "created_at"
	commentFieldUpdatedAt = "updated_at"
)

func commentColumns() []string {
	return []string{
		commentFieldID,
		commentFieldAuthorID,
		commentFieldTalkID,
		commentFieldParentID,
		commentFieldContent,
		commentFieldCreatedAt,
		commentFieldUpdatedAt,
	}
}

func scanComment(row sq.RowScanner) (*discuss.Comment, error) {
	var comment discuss.Comment

	err := row.Scan(
		&comment.ID,
		&comment.AuthorID,
		&comment.TalkID,
		&comment.ParentID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &comment, nil
}

func (repo *CommentRepository) Insert(ctx context.Context, comment *discuss.Comment) error {
	q := repo.builder.Insert(tableComments).
		Columns(commentColumns()...).
		Values(
			comment.ID,
			comment.AuthorID,
			comment.TalkID,
			comment.ParentID,
			comment.Content,
			comment.CreatedAt,
			comment.UpdatedAt,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

// Update saves the mutable fields of a comment. Its target and author never change.
func (repo *CommentRepository) Update(ctx context.Context, comment *discuss.Comment) error {
	q := repo.builder.Update(tableComments).
		Set(commentFieldContent, comment.Content).
		Set(commentFieldUpdatedAt, comment.UpdatedAt).
		Where(sq.Eq{commentFieldID: comment.ID}).
		RunWith(repo.db)

	result, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return &discuss.CommentNotFoundError{ID: comment.ID}
	}

	return nil
}

func (repo *CommentRepository) Find(ctx context.Context, id string) (*discuss.Comment, error) {
	q := repo.builder.Select(commentColumns()...).
		From(tableComments).
		Where(sq.Eq{commentFieldID: id})

	q = q.RunWith(repo.db)

	comment, err := scanComment(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &discuss.CommentNotFoundError{ID: id}
		}

		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}

	return comment, nil
}

func (repo *CommentRepository) List(
	ctx context.Context,
	params *discuss.ListCommentsParams,
) ([]*discuss.Comment, error) {
	query := repo.builder.Select(commentColumns()...).
		From(tableComments).
		OrderBy(commentFieldCreatedAt+" ASC", commentFieldID+" ASC")

	if params.TalkID != "" {
		query = query.Where(sq.Eq{commentFieldTalkID: params.TalkID})
	}

	if params.ParentID != "" {
		query = query.Where(sq.Eq{commentFieldParentID: params.ParentID})
	}

	query = query.RunWith(repo.db)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	comments := make([]*discuss.Comment, 0)

	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}

		comments = append(comments, comment)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return comments, nil
}

func (repo *CommentRepository) Delete(ctx context.Context, id string) error {
	q := repo.builder.Delete(tableComments).
		Where(sq.Eq{commentFieldID: id}).
		RunWith(repo.db)

	result, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return &discuss.CommentNotFoundError{ID: id}
	}

	return nil
}

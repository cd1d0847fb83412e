package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/talkboard/votes"
)

const tableVotes = "votes"

type VoteRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ votes.VoteRepository = (*VoteRepository)(nil)

func NewVoteRepository(db *sql.DB, dialect Dialect) *VoteRepository {
	return &VoteRepository{db: db, builder: dialect.statementBuilder()}
}

const (
	voteFieldID        = "id"
	voteFieldKind      = "kind"
	voteFieldUserID    = "user_id"
	voteFieldCommentID = "comment_id"
	voteFieldVotedAt   = "voted_at"
)

func voteColumns() []string {
	return []string{
		voteFieldID,
		voteFieldKind,
		voteFieldUserID,
		voteFieldCommentID,
		voteFieldVotedAt,
	}
}

func scanVote(row sq.RowScanner) (*votes.Vote, error) {
	var vote votes.Vote

	err := row.Scan(
		&vote.ID,
		&vote.Kind,
		&vote.UserID,
		&vote.CommentID,
		&vote.VotedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &vote, nil
}

func (repo *VoteRepository) Exists(ctx context.Context, userID, commentID string) (bool, error) {
	q := repo.builder.Select("1").
		From(tableVotes).
		Where(sq.Eq{
			voteFieldUserID:    userID,
			voteFieldCommentID: commentID,
		}).
		Limit(1).
		RunWith(repo.db)

	var one int

	err := q.QueryRowContext(ctx).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("failed to query vote: %w", err)
	}

	return true, nil
}

func (repo *VoteRepository) Insert(ctx context.Context, vote *votes.Vote) error {
	q := repo.builder.Insert(tableVotes).
		Columns(voteColumns()...).
		Values(
			vote.ID,
			string(vote.Kind),
			vote.UserID,
			vote.CommentID,
			vote.VotedAt,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err, voteUserCommentKey) {
			return &votes.VoteAlreadyExistsError{UserID: vote.UserID, CommentID: vote.CommentID}
		}

		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *VoteRepository) List(ctx context.Context, params *votes.ListVotesParams) ([]*votes.Vote, error) {
	query := repo.builder.Select(voteColumns()...).
		From(tableVotes).
		OrderBy(voteFieldVotedAt+" ASC", voteFieldID+" ASC")

	if params.Kind != "" {
		query = query.Where(sq.Eq{voteFieldKind: string(params.Kind)})
	}

	if params.CommentID != "" {
		query = query.Where(sq.Eq{voteFieldCommentID: params.CommentID})
	}

	if params.UserID != "" {
		query = query.Where(sq.Eq{voteFieldUserID: params.UserID})
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

	result := make([]*votes.Vote, 0)

	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote failed: %w", err)
		}

		result = append(result, vote)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return result, nil
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/talkboard/talks"
)

const (
	tableTalks        = "talks"
	tableTalkSpeakers = "talk_speakers"
)

type TalkRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ talks.TalkRepository = (*TalkRepository)(nil)

func NewTalkRepository(db *sql.DB, dialect Dialect) *TalkRepository {
	return &TalkRepository{db: db, builder: dialect.statementBuilder()}
}

const (
	talkFieldID          = "id"
	talkFieldTitle       = "title"
	talkFieldRemark      = "remark"
	talkFieldDescription = "description"
	talkFieldOrder       = "sort_order"
	talkFieldSectionID   = "section_id"

	talkSpeakerFieldTalkID = "talk_id"
	talkSpeakerFieldUserID = "user_id"
)

func talkColumns() []string {
	return []string{
		talkFieldID,
		talkFieldTitle,
		talkFieldRemark,
		talkFieldDescription,
		talkFieldOrder,
		talkFieldSectionID,
	}
}

func scanTalk(row sq.RowScanner) (*talks.Talk, error) {
	var talk talks.Talk

	err := row.Scan(
		&talk.ID,
		&talk.Title,
		&talk.Remark,
		&talk.Description,
		&talk.Order,
		&talk.SectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &talk, nil
}

// Insert writes the talk row and its speakers in one transaction.
func (repo *TalkRepository) Insert(ctx context.Context, talk *talks.Talk) error {
	return WithTx(ctx, repo.db, func(tx *sql.Tx) error {
		q := repo.builder.Insert(tableTalks).
			Columns(talkColumns()...).
			Values(
				talk.ID,
				talk.Title,
				talk.Remark,
				talk.Description,
				talk.Order,
				talk.SectionID,
			).
			RunWith(tx)

		_, err := q.ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to exec insert: %w", err)
		}

		err = repo.insertSpeakers(ctx, tx, talk.ID, talk.SpeakerIDs)
		if err != nil {
			return fmt.Errorf("failed to attach speakers: %w", err)
		}

		return nil
	})
}

// insertSpeakers attaches all speakers in one statement, skipping pairs that already exist.
func (repo *TalkRepository) insertSpeakers(
	ctx context.Context,
	runner sq.BaseRunner,
	talkID string,
	speakerIDs []string,
) error {
	if len(speakerIDs) == 0 {
		return nil
	}

	q := repo.builder.Insert(tableTalkSpeakers).
		Columns(talkSpeakerFieldTalkID, talkSpeakerFieldUserID)

	for _, speakerID := range speakerIDs {
		q = q.Values(talkID, speakerID)
	}

	q = q.Suffix("ON CONFLICT DO NOTHING").RunWith(runner)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert speakers: %w", err)
	}

	return nil
}

func (repo *TalkRepository) AddSpeakers(ctx context.Context, talkID string, speakerIDs []string) error {
	return repo.insertSpeakers(ctx, repo.db, talkID, speakerIDs)
}

func (repo *TalkRepository) Find(ctx context.Context, id string) (*talks.Talk, error) {
	q := repo.builder.Select(talkColumns()...).
		From(tableTalks).
		Where(sq.Eq{talkFieldID: id})

	q = q.RunWith(repo.db)

	talk, err := scanTalk(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &talks.TalkNotFoundError{ID: id}
		}

		return nil, fmt.Errorf("failed to scan talk: %w", err)
	}

	speakers, err := repo.listSpeakers(ctx, []string{talk.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list speakers: %w", err)
	}

	talk.SpeakerIDs = speakers[talk.ID]

	return talk, nil
}

func (repo *TalkRepository) List(ctx context.Context, params *talks.ListTalksParams) ([]*talks.Talk, error) {
	result, err := repo.queryTalks(ctx, params)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result))
	for _, talk := range result {
		ids = append(ids, talk.ID)
	}

	speakers, err := repo.listSpeakers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list speakers: %w", err)
	}

	for _, talk := range result {
		talk.SpeakerIDs = speakers[talk.ID]
	}

	return result, nil
}

func (repo *TalkRepository) queryTalks(ctx context.Context, params *talks.ListTalksParams) ([]*talks.Talk, error) {
	query := repo.builder.Select(talkColumns()...).
		From(tableTalks).
		OrderBy(talkFieldOrder+" ASC", talkFieldTitle+" ASC")

	if params.SectionID != "" {
		query = query.Where(sq.Eq{talkFieldSectionID: params.SectionID})
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

	result := make([]*talks.Talk, 0)

	for rows.Next() {
		talk, err := scanTalk(rows)
		if err != nil {
			return nil, fmt.Errorf("scan talk failed: %w", err)
		}

		result = append(result, talk)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return result, nil
}

// listSpeakers returns the speaker ids of each of talkIDs, sorted by id.
func (repo *TalkRepository) listSpeakers(ctx context.Context, talkIDs []string) (map[string][]string, error) {
	speakers := make(map[string][]string, len(talkIDs))

	if len(talkIDs) == 0 {
		return speakers, nil
	}

	q := repo.builder.Select(talkSpeakerFieldTalkID, talkSpeakerFieldUserID).
		From(tableTalkSpeakers).
		Where(sq.Eq{talkSpeakerFieldTalkID: talkIDs}).
		OrderBy(talkSpeakerFieldUserID + " ASC").
		RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query speakers: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close speaker rows", "error", err)
		}
	}()

	for rows.Next() {
		var talkID, userID string

		err := rows.Scan(&talkID, &userID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan speaker row: %w", err)
		}

		speakers[talkID] = append(speakers[talkID], userID)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate speaker rows: %w", err)
	}

	return speakers, nil
}

func (repo *TalkRepository) Delete(ctx context.Context, id string) error {
	q := repo.builder.Delete(tableTalks).
		Where(sq.Eq{talkFieldID: id}).
		RunWith(repo.db)

	result, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete talk: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return &talks.TalkNotFoundError{ID: id}
	}

	return nil
}

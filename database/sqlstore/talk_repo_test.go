package sqlstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nasermirzaei89/talkboard/database/sqlstore"
	"github.com/nasermirzaei89/talkboard/talks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTalkRepository_InsertAndFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	seedUsers(t, db, "u2", "u1")
	seedSections(t, db, "s1")

	repo := sqlstore.NewTalkRepository(db, sqlstore.DialectSQLite)

	talk := &talks.Talk{
		ID:          "t1",
		Title:       "Concurrency in practice",
		Remark:      "keynote",
		Description: "channels and friends",
		Order:       3,
		SpeakerIDs:  []string{"u2", "u1"},
		SectionID:   ptr("s1"),
	}

	err := repo.Insert(ctx, talk)
	require.NoError(t, err)

	found, err := repo.Find(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, "Concurrency in practice", found.Title)
	assert.Equal(t, "keynote", found.Remark)
	assert.Equal(t, "channels and friends", found.Description)
	assert.Equal(t, int16(3), found.Order)
	assert.Equal(t, []string{"u1", "u2"}, found.SpeakerIDs)
	require.NotNil(t, found.SectionID)
	assert.Equal(t, "s1", *found.SectionID)
}

func TestTalkRepository_InsertWithUnknownSpeakerPersistsNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	seedUsers(t, db, "u1")

	repo := sqlstore.NewTalkRepository(db, sqlstore.DialectSQLite)

	err := repo.Insert(ctx, &talks.Talk{ID: "t1", Title: "Ghost", SpeakerIDs: []string{"u1", "missing"}})
	require.Error(t, err)

	_, err = repo.Find(ctx, "t1")

	var notFound *talks.TalkNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 0, countRows(t, db, "talk_speakers"))
}

func TestTalkRepository_FindNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := sqlstore.NewTalkRepository(db, sqlstore.DialectSQLite)

	_, err := repo.Find(context.Background(), "nope")

	var notFound *talks.TalkNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "nope", notFound.ID)
}

func TestTalkRepository_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	seedUsers(t, db, "u1", "u2")
	seedSections(t, db, "s1", "s2")

	repo := sqlstore.NewTalkRepository(db, sqlstore.DialectSQLite)

	for _, talk := range []*talks.Talk{
		{ID: "t1", Title: "Beta", Order: 1, SpeakerIDs: []string{"u1"}, SectionID: ptr("s1")},
		{ID: "t2", Title: "Alpha", Order: 1, SpeakerIDs: []string{"u2"}, SectionID: ptr("s2")},
		{ID: "t3", Title: "Gamma", Order: 0, SpeakerIDs: []string{"u1", "u2"}, SectionID: ptr("s1")},
		{ID: "t4", Title: "Delta", Order: 2, SpeakerIDs: []string{"u1"}},
	} {
		require.NoError(t, repo.Insert(ctx, talk))
	}

	t.Run("all talks ordered by order then title", func(t *testing.T) {
		t.Parallel()

		result, err := repo.List(ctx, &talks.ListTalksParams{})
		require.NoError(t, err)
		require.Len(t, result, 4)

		ids := make([]string, 0, len(result))
		for _, talk := range result {
			ids = append(ids, talk.ID)
		}

		assert.Equal(t, []string{"t3", "t2", "t1", "t4"}, ids)
		assert.Equal(t, []string{"u1", "u2"}, result[0].SpeakerIDs)
		assert.Nil(t, result[3].SectionID)
	})

	t.Run("filtered by section", func(t *testing.T) {
		t.Parallel()

		result, err := repo.List(ctx, &talks.ListTalksParams{SectionID: "s1"})
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "t3", result[0].ID)
		assert.Equal(t, "t1", result[1].ID)
	})

	t.Run("empty section", func(t *testing.T) {
		t.Parallel()

		result, err := repo.List(ctx, &talks.ListTalksParams{SectionID: "other"})
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestTalkRepository_AddSpeakers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	seedUsers(t, db, "u1", "u2", "u3")

	repo := sqlstore.NewTalkRepository(db, sqlstore.DialectSQLite)

	require.NoError(t, repo.Insert(ctx, &talks.Talk{ID: "t1", Title: "Talk", SpeakerIDs: []string{"u1"}}))

	err := repo.AddSpeakers(ctx, "t1", []string{"u1", "u3"})
	require.NoError(t, err)

	err = repo.AddSpeakers(ctx, "t1", []string{"u3"})
	require.NoError(t, err)

	found, err := repo.Find(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u3"}, found.SpeakerIDs)
	assert.Equal(t, 2, countRows(t, db, "talk_speakers"))
}

func TestTalkRepository_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	seedUsers(t, db, "u1")

	repo := sqlstore.NewTalkRepository(db, sqlstore.DialectSQLite)

	require.NoError(t, repo.Insert(ctx, &talks.Talk{ID: "t1", Title: "Talk", SpeakerIDs: []string{"u1"}}))

	err := repo.Delete(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 0, countRows(t, db, "talk_speakers"))

	err = repo.Delete(ctx, "t1")

	var notFound *talks.TalkNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestTalkRepository_SectionRemovalKeepsTalk(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	seedUsers(t, db, "u1")
	seedSections(t, db, "s1")

	repo := sqlstore.NewTalkRepository(db, sqlstore.DialectSQLite)

	require.NoError(t, repo.Insert(ctx, &talks.Talk{
		ID:         "t1",
		Title:      "Talk",
		SpeakerIDs: []string{"u1"},
		SectionID:  ptr("s1"),
	}))

	_, err := db.ExecContext(ctx, "DELETE FROM section_section WHERE id = ?", "s1")
	require.NoError(t, err)

	found, err := repo.Find(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, found.SectionID)
}

func TestTalkRepository_SpeakerRemovalDetachesSpeaker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	seedUsers(t, db, "u1", "u2")

	repo := sqlstore.NewTalkRepository(db, sqlstore.DialectSQLite)

	require.NoError(t, repo.Insert(ctx, &talks.Talk{ID: "t1", Title: "Talk", SpeakerIDs: []string{"u1", "u2"}}))

	_, err := db.ExecContext(ctx, "DELETE FROM account_user WHERE id = ?", "u2")
	require.NoError(t, err)

	found, err := repo.Find(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, found.SpeakerIDs)
}

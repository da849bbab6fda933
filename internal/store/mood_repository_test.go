package store

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"moodlog/internal/models"
)

var entryCols = []string{"id", "user_id", "entry_date", "mood", "sub_mood", "note", "health_data", "created_at", "updated_at"}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateFormat, s)
	require.NoError(t, err)
	return d
}

func TestMoodRepositoryUpsertInsertsWithNote(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMoodRepository(db, zap.NewNop())

	userID := uuid.New()
	entryID := uuid.New()
	day := mustDate(t, "2024-01-01")
	note := "first"
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (user_id, entry_date) DO UPDATE`)).
		WithArgs(sqlmock.AnyArg(), userID, day, "happy", nil, &note, nil, true).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(entryID.String(), userID.String(), day, "happy", nil, "first", nil, now, now))

	saved, err := repo.Upsert(context.Background(), models.MoodEntry{
		UserID: userID,
		Date:   day,
		Mood:   models.MoodHappy,
		Note:   &note,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, entryID, saved.ID)
	assert.Equal(t, models.MoodHappy, saved.Mood)
	require.NotNil(t, saved.Note)
	assert.Equal(t, "first", *saved.Note)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A create without a note must tell the database so: the noteProvided flag
// is what keeps the CASE expression from erasing a stored note.
func TestMoodRepositoryUpsertOmittedNotePreserved(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMoodRepository(db, zap.NewNop())

	userID := uuid.New()
	day := mustDate(t, "2024-01-01")
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`note = CASE WHEN $8 THEN EXCLUDED.note ELSE mood_entries.note END`)).
		WithArgs(sqlmock.AnyArg(), userID, day, "sad", nil, nil, nil, false).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(uuid.New().String(), userID.String(), day, "sad", nil, "first", nil, now, now))

	saved, err := repo.Upsert(context.Background(), models.MoodEntry{
		UserID: userID,
		Date:   day,
		Mood:   models.MoodSad,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, models.MoodSad, saved.Mood)
	require.NotNil(t, saved.Note)
	assert.Equal(t, "first", *saved.Note)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMoodRepository(db, zap.NewNop())

	userID, entryID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 AND id = $2`)).
		WithArgs(userID, entryID).
		WillReturnRows(sqlmock.NewRows(entryCols))

	_, err := repo.GetByID(context.Background(), userID, entryID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodRepositoryGetByDateScansHealthData(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMoodRepository(db, zap.NewNop())

	userID := uuid.New()
	day := mustDate(t, "2024-03-05")
	now := time.Now()
	health, err := json.Marshal(models.HealthData{Steps: intPtr(12000)})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 AND entry_date = $2`)).
		WithArgs(userID, day).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(uuid.New().String(), userID.String(), day, "calm", "relaxed", nil, health, now, now))

	entry, err := repo.GetByDate(context.Background(), userID, day)
	require.NoError(t, err)
	require.NotNil(t, entry.HealthData)
	require.NotNil(t, entry.HealthData.Steps)
	assert.Equal(t, 12000, *entry.HealthData.Steps)
	require.NotNil(t, entry.SubMood)
	assert.Equal(t, "relaxed", *entry.SubMood)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodRepositoryListByDateRangeEmpty(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMoodRepository(db, zap.NewNop())

	userID := uuid.New()
	start := mustDate(t, "2024-02-10")
	end := mustDate(t, "2024-02-01") // inverted on purpose

	mock.ExpectQuery(regexp.QuoteMeta(`entry_date >= $2 AND entry_date <= $3 ORDER BY entry_date ASC`)).
		WithArgs(userID, start, end).
		WillReturnRows(sqlmock.NewRows(entryCols))

	entries, err := repo.ListByDateRange(context.Background(), userID, start, end)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodRepositoryUpdateDateCollision(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMoodRepository(db, zap.NewNop())

	userID, entryID := uuid.New(), uuid.New()
	day := mustDate(t, "2024-01-02")

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE mood_entries SET`)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := repo.Update(context.Background(), userID, entryID, EntryPatch{Date: &day})
	assert.ErrorIs(t, err, ErrEntryDateConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodRepositoryUpdateNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMoodRepository(db, zap.NewNop())

	userID, entryID := uuid.New(), uuid.New()
	mood := models.MoodCalm

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE mood_entries SET`)).
		WillReturnRows(sqlmock.NewRows(entryCols))

	_, err := repo.Update(context.Background(), userID, entryID, EntryPatch{Mood: &mood})
	assert.ErrorIs(t, err, ErrEntryNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodRepositoryDeleteNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMoodRepository(db, zap.NewNop())

	userID, entryID := uuid.New(), uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM mood_entries WHERE user_id = $1 AND id = $2`)).
		WithArgs(userID, entryID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), userID, entryID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodRepositoryDelete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMoodRepository(db, zap.NewNop())

	userID, entryID := uuid.New(), uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM mood_entries`)).
		WithArgs(userID, entryID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), userID, entryID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodRepositoryStats(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMoodRepository(db, zap.NewNop())

	userID := uuid.New()
	ref := mustDate(t, "2024-04-15")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM mood_entries`)).
		WithArgs(userID, ref).
		WillReturnRows(sqlmock.NewRows([]string{"count", "coalesce"}).AddRow(12, 4))
	mock.ExpectQuery(regexp.QuoteMeta(`GROUP BY mood`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"mood", "count"}).
			AddRow("happy", 7).
			AddRow("sad", 5))
	mock.ExpectQuery(regexp.QuoteMeta(`WITH d AS`)).
		WithArgs(userID, ref).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))

	stats, err := repo.Stats(context.Background(), userID, ref)
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalEntries)
	assert.Equal(t, 4, stats.EntriesThisMonth)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, map[models.Mood]int{models.MoodHappy: 7, models.MoodSad: 5}, stats.MoodCounts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func intPtr(i int) *int { return &i }

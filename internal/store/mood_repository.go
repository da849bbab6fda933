package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"moodlog/internal/models"
)

const entryColumns = "id, user_id, entry_date, mood, sub_mood, note, health_data, created_at, updated_at"

// upsertEntry is the atomic create-or-update keyed on (user_id, entry_date).
// Mood, sub-mood and health data always take the incoming value; note is
// replaced only when the caller actually sent one ($8), so re-logging a mood
// without a note never erases an earlier journal note.
const upsertEntry = `INSERT INTO mood_entries (id, user_id, entry_date, mood, sub_mood, note, health_data)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id, entry_date) DO UPDATE SET
    mood = EXCLUDED.mood,
    sub_mood = EXCLUDED.sub_mood,
    health_data = EXCLUDED.health_data,
    note = CASE WHEN $8 THEN EXCLUDED.note ELSE mood_entries.note END,
    updated_at = NOW()
RETURNING ` + entryColumns

// EntryPatch carries the fields of a partial update. A nil field is left
// untouched; a pointer to the empty string clears sub_mood or note.
type EntryPatch struct {
	Date       *time.Time
	Mood       *models.Mood
	SubMood    *string
	Note       *string
	HealthData *models.HealthData
}

// Empty reports whether the patch would change nothing.
func (p EntryPatch) Empty() bool {
	return p.Date == nil && p.Mood == nil && p.SubMood == nil && p.Note == nil && p.HealthData == nil
}

// EntryStats aggregates a user's journal for the stats endpoint.
type EntryStats struct {
	TotalEntries     int                 `json:"totalEntries"`
	EntriesThisMonth int                 `json:"entriesThisMonth"`
	CurrentStreak    int                 `json:"currentStreakDays"`
	MoodCounts       map[models.Mood]int `json:"moodCounts"`
}

// MoodRepository persists mood entries. Every method is scoped to a single
// owner; no query can cross user boundaries.
type MoodRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MoodEntry, error)
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (models.MoodEntry, error)
	ListByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.MoodEntry, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (models.MoodEntry, error)
	Upsert(ctx context.Context, entry models.MoodEntry, noteProvided bool) (models.MoodEntry, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch EntryPatch) (models.MoodEntry, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID, refDate time.Time) (EntryStats, error)
}

type moodRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMoodRepository(db *sqlx.DB, logger *zap.Logger) MoodRepository {
	return &moodRepository{db: db, logger: logger}
}

func (r *moodRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MoodEntry, error) {
	entries := []models.MoodEntry{}
	err := r.db.SelectContext(ctx, &entries,
		`SELECT `+entryColumns+` FROM mood_entries WHERE user_id = $1 ORDER BY entry_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (r *moodRepository) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (models.MoodEntry, error) {
	var entry models.MoodEntry
	err := r.db.GetContext(ctx, &entry,
		`SELECT `+entryColumns+` FROM mood_entries WHERE user_id = $1 AND entry_date = $2`, userID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MoodEntry{}, ErrEntryNotFound
		}
		return models.MoodEntry{}, fmt.Errorf("get entry by date: %w", err)
	}
	return entry, nil
}

func (r *moodRepository) ListByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.MoodEntry, error) {
	// An inverted range matches nothing and falls out as an empty slice.
	entries := []models.MoodEntry{}
	err := r.db.SelectContext(ctx, &entries,
		`SELECT `+entryColumns+` FROM mood_entries WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3 ORDER BY entry_date ASC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list entries by range: %w", err)
	}
	return entries, nil
}

func (r *moodRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.MoodEntry, error) {
	var entry models.MoodEntry
	err := r.db.GetContext(ctx, &entry,
		`SELECT `+entryColumns+` FROM mood_entries WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MoodEntry{}, ErrEntryNotFound
		}
		return models.MoodEntry{}, fmt.Errorf("get entry by id: %w", err)
	}
	return entry, nil
}

func (r *moodRepository) Upsert(ctx context.Context, entry models.MoodEntry, noteProvided bool) (models.MoodEntry, error) {
	var saved models.MoodEntry
	err := r.db.QueryRowxContext(ctx, upsertEntry,
		uuid.New(), entry.UserID, entry.Date, entry.Mood, entry.SubMood, entry.Note, entry.HealthData, noteProvided,
	).StructScan(&saved)
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("upsert entry: %w", err)
	}
	return saved, nil
}

func (r *moodRepository) Update(ctx context.Context, userID, id uuid.UUID, patch EntryPatch) (models.MoodEntry, error) {
	b := sq.Update("mood_entries").
		PlaceholderFormat(sq.Dollar).
		Set("updated_at", sq.Expr("NOW()"))

	if patch.Date != nil {
		b = b.Set("entry_date", *patch.Date)
	}
	if patch.Mood != nil {
		b = b.Set("mood", *patch.Mood)
	}
	if patch.SubMood != nil {
		b = b.Set("sub_mood", nullableText(*patch.SubMood))
	}
	if patch.Note != nil {
		b = b.Set("note", nullableText(*patch.Note))
	}
	if patch.HealthData != nil {
		b = b.Set("health_data", *patch.HealthData)
	}

	query, args, err := b.
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + entryColumns).
		ToSql()
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("build update query: %w", err)
	}

	var entry models.MoodEntry
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MoodEntry{}, ErrEntryNotFound
		}
		if isUniqueViolation(err) {
			return models.MoodEntry{}, ErrEntryDateConflict
		}
		return models.MoodEntry{}, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

func (r *moodRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry rows affected: %w", err)
	}
	if rows == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *moodRepository) Stats(ctx context.Context, userID uuid.UUID, refDate time.Time) (EntryStats, error) {
	stats := EntryStats{MoodCounts: map[models.Mood]int{}}

	err := r.db.QueryRowxContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(COUNT(*) FILTER (WHERE date_trunc('month', entry_date) = date_trunc('month', $2::date)), 0)
		FROM mood_entries
		WHERE user_id = $1`, userID, refDate).Scan(&stats.TotalEntries, &stats.EntriesThisMonth)
	if err != nil {
		return EntryStats{}, fmt.Errorf("entry counts: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx,
		`SELECT mood, COUNT(*) FROM mood_entries WHERE user_id = $1 GROUP BY mood`, userID)
	if err != nil {
		return EntryStats{}, fmt.Errorf("mood counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var mood models.Mood
		var count int
		if err := rows.Scan(&mood, &count); err != nil {
			return EntryStats{}, fmt.Errorf("scan mood count: %w", err)
		}
		stats.MoodCounts[mood] = count
	}
	if err := rows.Err(); err != nil {
		return EntryStats{}, fmt.Errorf("mood counts: %w", err)
	}

	// Consecutive days logged, counting back from refDate: group dates by
	// (date - row_number) and take the run that ends on refDate.
	streakQuery := `
		WITH d AS (
			SELECT entry_date FROM mood_entries WHERE user_id = $1 AND entry_date <= $2
		), g AS (
			SELECT entry_date, entry_date - (ROW_NUMBER() OVER (ORDER BY entry_date))::int AS grp FROM d
		), c AS (
			SELECT COUNT(*) AS cnt, MAX(entry_date) AS maxd FROM g GROUP BY grp
		)
		SELECT COALESCE((SELECT cnt FROM c WHERE maxd = $2), 0)`
	if err := r.db.QueryRowxContext(ctx, streakQuery, userID, refDate).Scan(&stats.CurrentStreak); err != nil {
		return EntryStats{}, fmt.Errorf("streak: %w", err)
	}

	return stats, nil
}

// nullableText maps the empty string to SQL NULL.
func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"moodlog/internal/models"
	"moodlog/internal/store"
)

// CreateEntryInput is the payload of the upsert-by-date operation. A nil
// Note means the caller omitted the field, which preserves any stored note;
// a pointer to the empty string clears it.
type CreateEntryInput struct {
	Date       string
	Mood       string
	SubMood    *string
	Note       *string
	HealthData *models.HealthData
}

// UpdateEntryInput carries the fields of a partial update-by-id. Nil fields
// are left untouched.
type UpdateEntryInput struct {
	Date       *string
	Mood       *string
	SubMood    *string
	Note       *string
	HealthData *models.HealthData
}

// MoodService implements the mood-entry operations, all scoped to the
// authenticated owner.
type MoodService struct {
	entries store.MoodRepository
	logger  *zap.Logger
}

func NewMoodService(entries store.MoodRepository, logger *zap.Logger) *MoodService {
	return &MoodService{entries: entries, logger: logger}
}

func (s *MoodService) List(ctx context.Context, userID uuid.UUID) ([]models.MoodEntry, error) {
	return s.entries.ListByUser(ctx, userID)
}

// GetByDate returns the entry for a calendar date. Absence surfaces as
// store.ErrEntryNotFound; the HTTP layer renders that as a null body, not an
// error.
func (s *MoodService) GetByDate(ctx context.Context, userID uuid.UUID, date string) (models.MoodEntry, error) {
	day, err := parseDate(date)
	if err != nil {
		return models.MoodEntry{}, err
	}
	return s.entries.GetByDate(ctx, userID, day)
}

// GetByDateRange returns entries with date in [start, end], ascending. An
// inverted range yields an empty list.
func (s *MoodService) GetByDateRange(ctx context.Context, userID uuid.UUID, start, end string) ([]models.MoodEntry, error) {
	from, err := parseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(end)
	if err != nil {
		return nil, err
	}
	return s.entries.ListByDateRange(ctx, userID, from, to)
}

func (s *MoodService) GetByID(ctx context.Context, userID, id uuid.UUID) (models.MoodEntry, error) {
	return s.entries.GetByID(ctx, userID, id)
}

// Create upserts the entry for (userID, input.Date). The insert-or-update
// decision happens atomically in the store, so concurrent creates for the
// same day cannot produce two rows.
func (s *MoodService) Create(ctx context.Context, userID uuid.UUID, input CreateEntryInput) (models.MoodEntry, error) {
	day, err := parseDate(input.Date)
	if err != nil {
		return models.MoodEntry{}, err
	}
	mood := models.Mood(input.Mood)
	if !mood.Valid() {
		return models.MoodEntry{}, fmt.Errorf("%w: unknown mood %q", ErrValidation, input.Mood)
	}
	subMood, err := normalizeSubMood(mood, input.SubMood)
	if err != nil {
		return models.MoodEntry{}, err
	}

	entry := models.MoodEntry{
		UserID:     userID,
		Date:       day,
		Mood:       mood,
		SubMood:    subMood,
		Note:       normalizeText(input.Note),
		HealthData: input.HealthData,
	}
	noteProvided := input.Note != nil

	saved, err := s.entries.Upsert(ctx, entry, noteProvided)
	if err != nil {
		return models.MoodEntry{}, err
	}
	s.logger.Debug("entry saved",
		zap.String("user_id", userID.String()),
		zap.String("date", day.Format(models.DateFormat)))
	return saved, nil
}

// Update applies a partial update to an owned entry. Fields present in the
// input fully replace the stored value; absent fields are untouched.
func (s *MoodService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateEntryInput) (models.MoodEntry, error) {
	var patch store.EntryPatch

	if input.Date != nil {
		day, err := parseDate(*input.Date)
		if err != nil {
			return models.MoodEntry{}, err
		}
		patch.Date = &day
	}
	if input.Mood != nil {
		mood := models.Mood(*input.Mood)
		if !mood.Valid() {
			return models.MoodEntry{}, fmt.Errorf("%w: unknown mood %q", ErrValidation, *input.Mood)
		}
		patch.Mood = &mood
	}
	if input.SubMood != nil && *input.SubMood != "" {
		// Validate against the patched mood when one is given, otherwise
		// against the stored one.
		mood := patch.Mood
		if mood == nil {
			existing, err := s.entries.GetByID(ctx, userID, id)
			if err != nil {
				return models.MoodEntry{}, err
			}
			mood = &existing.Mood
		}
		if !mood.ValidSubMood(*input.SubMood) {
			return models.MoodEntry{}, fmt.Errorf("%w: %q is not a sub-mood of %q", ErrValidation, *input.SubMood, *mood)
		}
	}
	patch.SubMood = input.SubMood
	patch.Note = input.Note
	patch.HealthData = input.HealthData

	if patch.Empty() {
		return s.entries.GetByID(ctx, userID, id)
	}
	return s.entries.Update(ctx, userID, id, patch)
}

func (s *MoodService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.entries.Delete(ctx, userID, id)
}

// Stats aggregates the caller's journal relative to refDate ("" means the
// server's current UTC date).
func (s *MoodService) Stats(ctx context.Context, userID uuid.UUID, refDate string) (store.EntryStats, error) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if refDate != "" {
		var err error
		if day, err = parseDate(refDate); err != nil {
			return store.EntryStats{}, err
		}
	}
	return s.entries.Stats(ctx, userID, day)
}

func parseDate(s string) (time.Time, error) {
	day, err := time.Parse(models.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be %s", ErrValidation, models.DateFormat)
	}
	return day, nil
}

// normalizeSubMood validates a provided sub-mood against its parent mood and
// maps the empty string to nil.
func normalizeSubMood(mood models.Mood, sub *string) (*string, error) {
	if sub == nil || *sub == "" {
		return nil, nil
	}
	if !mood.ValidSubMood(*sub) {
		return nil, fmt.Errorf("%w: %q is not a sub-mood of %q", ErrValidation, *sub, mood)
	}
	return sub, nil
}

// normalizeText maps a pointer to the empty string to nil so cleared fields
// store as NULL.
func normalizeText(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"moodlog/internal/models"
	"moodlog/internal/store"
)

// fakeUserRepo is an in-memory store.UserRepository.
type fakeUserRepo struct {
	byEmail map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, email string, name *string, passwordHash string) (models.User, error) {
	if _, exists := f.byEmail[email]; exists {
		return models.User{}, store.ErrEmailTaken
	}
	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.byEmail[email] = user
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, store.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateName(_ context.Context, id uuid.UUID, name *string) (models.User, error) {
	for email, u := range f.byEmail {
		if u.ID == id {
			u.Name = name
			f.byEmail[email] = u
			return u, nil
		}
	}
	return models.User{}, store.ErrUserNotFound
}

// fakeMoodRepo is an in-memory store.MoodRepository implementing the same
// contract as the SQL version, including the atomic upsert's note rule.
type fakeMoodRepo struct {
	entries map[uuid.UUID]models.MoodEntry

	// lastNoteProvided records the flag of the most recent Upsert call.
	lastNoteProvided bool
}

func newFakeMoodRepo() *fakeMoodRepo {
	return &fakeMoodRepo{entries: map[uuid.UUID]models.MoodEntry{}}
}

func (f *fakeMoodRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.MoodEntry, error) {
	out := []models.MoodEntry{}
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeMoodRepo) GetByDate(_ context.Context, userID uuid.UUID, date time.Time) (models.MoodEntry, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.Date.Equal(date) {
			return e, nil
		}
	}
	return models.MoodEntry{}, store.ErrEntryNotFound
}

func (f *fakeMoodRepo) ListByDateRange(_ context.Context, userID uuid.UUID, start, end time.Time) ([]models.MoodEntry, error) {
	out := []models.MoodEntry{}
	for _, e := range f.entries {
		if e.UserID == userID && !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeMoodRepo) GetByID(_ context.Context, userID, id uuid.UUID) (models.MoodEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return models.MoodEntry{}, store.ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeMoodRepo) Upsert(_ context.Context, entry models.MoodEntry, noteProvided bool) (models.MoodEntry, error) {
	f.lastNoteProvided = noteProvided
	for id, e := range f.entries {
		if e.UserID == entry.UserID && e.Date.Equal(entry.Date) {
			e.Mood = entry.Mood
			e.SubMood = entry.SubMood
			e.HealthData = entry.HealthData
			if noteProvided {
				e.Note = entry.Note
			}
			e.UpdatedAt = time.Now()
			f.entries[id] = e
			return e, nil
		}
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeMoodRepo) Update(_ context.Context, userID, id uuid.UUID, patch store.EntryPatch) (models.MoodEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return models.MoodEntry{}, store.ErrEntryNotFound
	}
	if patch.Date != nil {
		for otherID, other := range f.entries {
			if otherID != id && other.UserID == userID && other.Date.Equal(*patch.Date) {
				return models.MoodEntry{}, store.ErrEntryDateConflict
			}
		}
		e.Date = *patch.Date
	}
	if patch.Mood != nil {
		e.Mood = *patch.Mood
	}
	if patch.SubMood != nil {
		e.SubMood = emptyToNil(*patch.SubMood)
	}
	if patch.Note != nil {
		e.Note = emptyToNil(*patch.Note)
	}
	if patch.HealthData != nil {
		e.HealthData = patch.HealthData
	}
	e.UpdatedAt = time.Now()
	f.entries[id] = e
	return e, nil
}

func (f *fakeMoodRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return store.ErrEntryNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeMoodRepo) Stats(_ context.Context, userID uuid.UUID, _ time.Time) (store.EntryStats, error) {
	stats := store.EntryStats{MoodCounts: map[models.Mood]int{}}
	for _, e := range f.entries {
		if e.UserID == userID {
			stats.TotalEntries++
			stats.MoodCounts[e.Mood]++
		}
	}
	return stats, nil
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

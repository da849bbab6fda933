package handlers

import (
	"time"

	"moodlog/internal/models"
)

// UserDTO is the wire shape of a user. The password hash never leaves the
// models layer.
type UserDTO struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

func toUserDTO(u models.User) UserDTO {
	return UserDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// MoodEntryDTO is the wire shape of a mood entry, with the calendar date as
// a plain YYYY-MM-DD string.
type MoodEntryDTO struct {
	ID         string             `json:"id"`
	Date       string             `json:"date"`
	Mood       models.Mood        `json:"mood"`
	SubMood    *string            `json:"subMood,omitempty"`
	Note       *string            `json:"note,omitempty"`
	HealthData *models.HealthData `json:"healthData,omitempty"`
	CreatedAt  string             `json:"createdAt"`
	UpdatedAt  string             `json:"updatedAt"`
}

func toEntryDTO(e models.MoodEntry) MoodEntryDTO {
	return MoodEntryDTO{
		ID:         e.ID.String(),
		Date:       e.Date.Format(models.DateFormat),
		Mood:       e.Mood,
		SubMood:    e.SubMood,
		Note:       e.Note,
		HealthData: e.HealthData,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  e.UpdatedAt.Format(time.RFC3339),
	}
}

func toEntryDTOs(entries []models.MoodEntry) []MoodEntryDTO {
	out := make([]MoodEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}
	return out
}

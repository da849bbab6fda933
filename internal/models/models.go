package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         *string   `db:"name" json:"name,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// MoodEntry is one row of the mood journal. At most one entry exists per
// (user, entry_date); the constraint lives in the schema and the write path
// upserts against it.
type MoodEntry struct {
	ID         uuid.UUID   `db:"id"`
	UserID     uuid.UUID   `db:"user_id"`
	Date       time.Time   `db:"entry_date"` // calendar date, no time component
	Mood       Mood        `db:"mood"`
	SubMood    *string     `db:"sub_mood"`
	Note       *string     `db:"note"`
	HealthData *HealthData `db:"health_data"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

// HealthData is the optional health snapshot attached to an entry at save
// time. Values come from the client's platform health API and are stored
// opaquely; no unit or plausibility checks happen server-side.
type HealthData struct {
	Steps    *int     `json:"steps,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
}

// Value implements driver.Valuer so HealthData persists as JSONB.
func (h HealthData) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan implements sql.Scanner for the JSONB column.
func (h *HealthData) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return fmt.Errorf("cannot scan %T into HealthData", src)
	}
}

// Mood is a value of the fixed mood enumeration.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodExcited Mood = "excited"
	MoodCalm    Mood = "calm"
	MoodNeutral Mood = "neutral"
	MoodAnxious Mood = "anxious"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
)

// subMoods lists the allowed finer-grained facet per primary mood.
var subMoods = map[Mood][]string{
	MoodHappy:   {"grateful", "proud", "content"},
	MoodExcited: {"energetic", "inspired", "hopeful"},
	MoodCalm:    {"relaxed", "peaceful"},
	MoodNeutral: {"bored", "tired"},
	MoodAnxious: {"stressed", "overwhelmed", "restless"},
	MoodSad:     {"lonely", "disappointed", "grieving"},
	MoodAngry:   {"frustrated", "irritated", "resentful"},
}

// Valid reports whether m is part of the enumeration.
func (m Mood) Valid() bool {
	_, ok := subMoods[m]
	return ok
}

// ValidSubMood reports whether sub is an allowed sub-mood of m.
func (m Mood) ValidSubMood(sub string) bool {
	for _, s := range subMoods[m] {
		if s == sub {
			return true
		}
	}
	return false
}

// DateFormat is the wire and storage format for calendar dates.
const DateFormat = "2006-01-02"

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"moodlog/internal/models"
	"moodlog/internal/service"
	"moodlog/internal/store"
)

// MoodService is the slice of the mood service the handlers need.
type MoodService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.MoodEntry, error)
	GetByDate(ctx context.Context, userID uuid.UUID, date string) (models.MoodEntry, error)
	GetByDateRange(ctx context.Context, userID uuid.UUID, start, end string) ([]models.MoodEntry, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (models.MoodEntry, error)
	Create(ctx context.Context, userID uuid.UUID, input service.CreateEntryInput) (models.MoodEntry, error)
	Update(ctx context.Context, userID, id uuid.UUID, input service.UpdateEntryInput) (models.MoodEntry, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID, refDate string) (store.EntryStats, error)
}

type MoodHandler struct {
	moods  MoodService
	logger *zap.Logger
}

func NewMoodHandler(moods MoodService, logger *zap.Logger) *MoodHandler {
	return &MoodHandler{moods: moods, logger: logger}
}

func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	entries, err := h.moods.List(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// GetByDate returns the entry for the date in the path, or a JSON null body
// when no entry exists. Absence is not an error on this route.
func (h *MoodHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	entry, err := h.moods.GetByDate(r.Context(), userID, chi.URLParam(r, "date"))
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			respondJSON(w, http.StatusOK, nil)
			return
		}
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toEntryDTO(entry))
}

func (h *MoodHandler) GetByDateRange(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	start, end := q.Get("startDate"), q.Get("endDate")
	if start == "" || end == "" {
		respondValidation(w, "startDate and endDate are required")
		return
	}

	entries, err := h.moods.GetByDateRange(r.Context(), userID, start, end)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toEntryDTOs(entries))
}

func (h *MoodHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, store.ErrEntryNotFound)
		return
	}

	entry, err := h.moods.GetByID(r.Context(), userID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toEntryDTO(entry))
}

type createEntryRequest struct {
	Date       string             `json:"date"`
	Mood       string             `json:"mood"`
	SubMood    *string            `json:"subMood"`
	Note       *string            `json:"note"`
	HealthData *models.HealthData `json:"healthData"`
}

// Create upserts the entry for the given date and returns the resulting row
// whether it was inserted or updated.
func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req createEntryRequest
	if err := decodeStrict(r, &req); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if req.Date == "" || req.Mood == "" {
		respondValidation(w, "date and mood are required")
		return
	}

	entry, err := h.moods.Create(r.Context(), userID, service.CreateEntryInput{
		Date:       req.Date,
		Mood:       req.Mood,
		SubMood:    req.SubMood,
		Note:       req.Note,
		HealthData: req.HealthData,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toEntryDTO(entry))
}

type updateEntryRequest struct {
	Date       *string            `json:"date"`
	Mood       *string            `json:"mood"`
	SubMood    *string            `json:"subMood"`
	Note       *string            `json:"note"`
	HealthData *models.HealthData `json:"healthData"`
}

func (h *MoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, store.ErrEntryNotFound)
		return
	}

	var req updateEntryRequest
	if err := decodeStrict(r, &req); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	entry, err := h.moods.Update(r.Context(), userID, id, service.UpdateEntryInput{
		Date:       req.Date,
		Mood:       req.Mood,
		SubMood:    req.SubMood,
		Note:       req.Note,
		HealthData: req.HealthData,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toEntryDTO(entry))
}

func (h *MoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, store.ErrEntryNotFound)
		return
	}

	if err := h.moods.Delete(r.Context(), userID, id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns journal aggregates. Accepts an optional local_date query
// param to use as the caller's "today".
func (h *MoodHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	stats, err := h.moods.Stats(r.Context(), userID, r.URL.Query().Get("local_date"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"worktime.service/internal/core"
	"worktime.service/internal/core/model"
)

type TrackerHandler struct {
	Service *core.TrackerService
}

type ToggleClockRequest struct {
	UserID string `json:"userId"`
}

type UpdateEntryRequest struct {
	UserID   string     `json:"userId"`
	Date     string     `json:"date"`
	CheckIn  time.Time  `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut,omitempty"`
}

type ScheduleRequest struct {
	UserID      string `json:"userId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
}

// ToggleClock records a check-in or check-out for the user, whichever applies.
func (h *TrackerHandler) ToggleClock(w http.ResponseWriter, r *http.Request) {
	var req ToggleClockRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.ToggleClock(r.Context(), req.UserID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("clock toggle failed")
		http.Error(w, "Service error processing event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Day returns the entries, checked-in state and live total for one work day.
func (h *TrackerHandler) Day(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	date := r.URL.Query().Get("date")
	if userID == "" || date == "" {
		http.Error(w, "userId and date are required", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "date must be yyyy-mm-dd", http.StatusBadRequest)
		return
	}

	overview, err := h.Service.Day(r.Context(), userID, date)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("date", date).Msg("failed to load day overview")
		http.Error(w, "Failed to load records", http.StatusInternalServerError)
		return
	}

	if overview.OpenCount > 1 {
		// Data-integrity anomaly from a concurrent check-in; the last entry
		// still decides the state but this should not go unnoticed.
		log.Ctx(r.Context()).Warn().Int("open_count", overview.OpenCount).Str("date", date).Msg("multiple open entries for day")
	}

	writeJSON(w, http.StatusOK, overview)
}

// UpdateEntry applies a manual edit to an entry's date and timestamps.
func (h *TrackerHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.CheckIn.IsZero() {
		http.Error(w, "userId and checkIn are required", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.UpdateEntry(r.Context(), req.UserID, id, req.Date, req.CheckIn, req.CheckOut)
	if err != nil {
		respondServiceError(w, r, err, "failed to update entry")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// DeleteEntry removes one of the user's entries.
func (h *TrackerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteEntry(r.Context(), userID, id); err != nil {
		respondServiceError(w, r, err, "failed to delete entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Month returns a month's planned schedule blocks with their rollup.
func (h *TrackerHandler) Month(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	year, errY := strconv.Atoi(r.URL.Query().Get("year"))
	month, errM := strconv.Atoi(r.URL.Query().Get("month"))
	if userID == "" || errY != nil || errM != nil || month < 1 || month > 12 {
		http.Error(w, "userId, year and month are required", http.StatusBadRequest)
		return
	}

	plan, err := h.Service.Month(r.Context(), userID, year, time.Month(month))
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int("year", year).Int("month", month).Msg("failed to load month plan")
		http.Error(w, "Failed to load records", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// CreateSchedule stores a new planned block.
func (h *TrackerHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSchedule(w, r)
	if !ok {
		return
	}

	schedule, err := h.Service.CreateSchedule(r.Context(), model.WorkSchedule{
		UserID:      req.UserID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, r, err, "failed to create schedule")
		return
	}

	writeJSON(w, http.StatusCreated, schedule)
}

// UpdateSchedule overwrites a planned block.
func (h *TrackerHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeSchedule(w, r)
	if !ok {
		return
	}

	schedule, err := h.Service.UpdateSchedule(r.Context(), req.UserID, model.WorkSchedule{
		ID:          id,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, r, err, "failed to update schedule")
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

// DeleteSchedule removes a planned block.
func (h *TrackerHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteSchedule(r.Context(), userID, id); err != nil {
		respondServiceError(w, r, err, "failed to delete schedule")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeSchedule(w http.ResponseWriter, r *http.Request) (ScheduleRequest, bool) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	if req.UserID == "" || req.Date == "" || req.StartTime == "" || req.EndTime == "" {
		http.Error(w, "userId, date, startTime and endTime are required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func respondServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, core.ErrNotFound) {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}
	log.Ctx(r.Context()).Error().Err(err).Msg(msg)
	http.Error(w, "Service error processing request", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

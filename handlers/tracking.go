package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"shopclock/config"
	"shopclock/middleware"
	"shopclock/models"
	"shopclock/timecalc"
	"shopclock/timetrack"

	"github.com/go-chi/chi/v5"
)

type TrackingHandler struct {
	config  *config.Config
	service *timetrack.Service
	logger  *slog.Logger
	now     func() time.Time
}

func NewTrackingHandler(cfg *config.Config, svc *timetrack.Service, logger *slog.Logger) *TrackingHandler {
	return &TrackingHandler{
		config:  cfg,
		service: svc,
		logger:  logger,
		now:     time.Now,
	}
}

type statusResponse struct {
	TechnicianID string            `json:"technician_id"`
	ClockedIn    bool              `json:"clocked_in"`
	ActiveEntry  *models.TimeEntry `json:"active_entry,omitempty"`
}

type clockInRequest struct {
	Notes string `json:"notes"`
}

type clockOutRequest struct {
	BreakDurationMinutes *int     `json:"break_duration_minutes"`
	Notes                string   `json:"notes"`
	AssociatedRepairIDs  []string `json:"associated_repair_ids"`
}

type adjustRequest struct {
	ClockInTime          *time.Time `json:"clock_in_time"`
	ClockOutTime         *time.Time `json:"clock_out_time"`
	BreakDurationMinutes *int       `json:"break_duration_minutes"`
	Notes                string     `json:"notes"`
	Reason               string     `json:"reason"`
}

type adjustResponse struct {
	Entry      *models.TimeEntry      `json:"entry"`
	Adjustment *models.TimeAdjustment `json:"adjustment"`
}

func (h *TrackingHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	techID, ok := h.targetTechnician(w, r, user)
	if !ok {
		return
	}

	entry, err := h.service.ActiveEntry(r.Context(), techID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		TechnicianID: techID,
		ClockedIn:    entry != nil,
		ActiveEntry:  entry,
	})
}

func (h *TrackingHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req clockInRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.service.ClockIn(r.Context(), user.ID, user.DisplayName(), req.Notes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *TrackingHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req clockOutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.service.ClockOut(r.Context(), user.ID, user.DisplayName(), timetrack.ClockOutInput{
		BreakMinutes: req.BreakDurationMinutes,
		Notes:        req.Notes,
		RepairIDs:    req.AssociatedRepairIDs,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Entries lists one technician's entries. Managers may pass technician_id to look at
// someone else.
func (h *TrackingHandler) Entries(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	techID, ok := h.targetTechnician(w, r, user)
	if !ok {
		return
	}

	entries, err := h.service.EntriesForTechnician(r.Context(), techID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// WeeklySummary reports the week containing week_start (YYYY-MM-DD), or the current
// week when omitted.
func (h *TrackingHandler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	techID, ok := h.targetTechnician(w, r, user)
	if !ok {
		return
	}

	loc := h.service.Location()
	weekStart := timecalc.StartOfWeek(h.now().In(loc), h.config.WeekStart())
	if s := r.URL.Query().Get("week_start"); s != "" {
		d, err := timecalc.ParseDay(s, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD")
			return
		}
		weekStart = d
	}

	summary, err := h.service.WeeklySummary(r.Context(), techID, weekStart)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Range lists every technician's entries clocked in between start and end. Both accept
// RFC 3339 or a bare day; a bare end day covers the whole day.
func (h *TrackingHandler) Range(w http.ResponseWriter, r *http.Request) {
	loc := h.service.Location()
	start, err := parseBound(r.URL.Query().Get("start"), loc, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start")
		return
	}
	end, err := parseBound(r.URL.Query().Get("end"), loc, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end is before start")
		return
	}

	entries, err := h.service.EntriesInRange(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *TrackingHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	entryID := chi.URLParam(r, "id")

	var req adjustRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, adj, err := h.service.Adjust(r.Context(), entryID, user.DisplayName(), timetrack.AdjustmentInput{
		ClockInTime:  req.ClockInTime,
		ClockOutTime: req.ClockOutTime,
		BreakMinutes: req.BreakDurationMinutes,
		Notes:        req.Notes,
	}, req.Reason)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, adjustResponse{Entry: entry, Adjustment: adj})
}

func (h *TrackingHandler) Adjustments(w http.ResponseWriter, r *http.Request) {
	adjustments, err := h.service.AdjustmentsForEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, adjustments)
}

// targetTechnician resolves whose data is requested and enforces that technicians only
// see their own.
func (h *TrackingHandler) targetTechnician(w http.ResponseWriter, r *http.Request, user *models.User) (string, bool) {
	techID := r.URL.Query().Get("technician_id")
	if techID == "" {
		return user.ID, true
	}
	if !user.CanViewTimeFor(techID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return "", false
	}
	return techID, true
}

func parseBound(s string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := timecalc.ParseDay(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return timecalc.EndOfDay(d), nil
	}
	return d, nil
}

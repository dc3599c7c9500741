package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/auth"
	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/service"
)

const dateLayout = "2006-01-02"

// CalendarHandler handles HTTP requests for calendar events
type CalendarHandler struct {
	calendarService *service.CalendarService
	logger          *zap.Logger
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(calendarService *service.CalendarService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		logger:          logger,
	}
}

// Create godoc
// @Summary Create event
// @Description Creates a calendar event and mirrors it to Outlook when a Microsoft session exists
// @Tags Calendar
// @Accept json
// @Produce json
// @Param request body domain.CreateEventRequest true "Event data"
// @Success 201 {object} domain.APIResponse{data=domain.CalendarEventDTO}
// @Failure 400 {object} domain.APIError "End time must be after start time"
// @Failure 401 {object} domain.APIError "Microsoft session expired"
// @Security BearerAuth
// @Router /calendar [post]
func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	event, err := h.calendarService.Create(r.Context(), &req, userCtx.UserID)
	if err != nil {
		h.handleCalendarError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/calendar/"+event.ID.String())
	respondSuccess(w, http.StatusCreated, event, "Event created")
}

// List godoc
// @Summary List events
// @Description Returns events overlapping the optional from/to range, ordered by start time
// @Tags Calendar
// @Produce json
// @Param from query string false "Range start (RFC 3339)"
// @Param to query string false "Range end (RFC 3339)"
// @Success 200 {object} domain.APIResponse{data=[]domain.CalendarEventDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /calendar [get]
func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid from timestamp")
			return
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid to timestamp")
			return
		}
		to = &t
	}

	events, err := h.calendarService.List(r.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to list events", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	respondSuccess(w, http.StatusOK, events, "")
}

// ByDay godoc
// @Summary List events for a day
// @Description Returns events starting on the given day, ordered by start time
// @Tags Calendar
// @Produce json
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {object} domain.APIResponse{data=[]domain.CalendarEventDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /calendar/day [get]
func (h *CalendarHandler) ByDay(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or missing date, expected YYYY-MM-DD")
		return
	}

	events, err := h.calendarService.ByDay(r.Context(), date)
	if err != nil {
		h.logger.Error("failed to list events by day", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	respondSuccess(w, http.StatusOK, events, "")
}

// ByWeek godoc
// @Summary List events for a week
// @Description Returns events starting within the seven days from the given start date
// @Tags Calendar
// @Produce json
// @Param start query string true "Week start day (YYYY-MM-DD)"
// @Success 200 {object} domain.APIResponse{data=[]domain.CalendarEventDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /calendar/week [get]
func (h *CalendarHandler) ByWeek(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(dateLayout, r.URL.Query().Get("start"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or missing start, expected YYYY-MM-DD")
		return
	}

	events, err := h.calendarService.ByWeek(r.Context(), start)
	if err != nil {
		h.logger.Error("failed to list events by week", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	respondSuccess(w, http.StatusOK, events, "")
}

// ByMonth godoc
// @Summary List events for a month
// @Description Returns events starting within the given calendar month
// @Tags Calendar
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} domain.APIResponse{data=[]domain.CalendarEventDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /calendar/month [get]
func (h *CalendarHandler) ByMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid or missing year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		respondWithError(w, http.StatusBadRequest, "Invalid or missing month")
		return
	}

	events, err := h.calendarService.ByMonth(r.Context(), year, time.Month(month))
	if err != nil {
		h.logger.Error("failed to list events by month", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	respondSuccess(w, http.StatusOK, events, "")
}

// GetByID godoc
// @Summary Get event
// @Description Returns a specific calendar event by ID
// @Tags Calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} domain.APIResponse{data=domain.CalendarEventDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /calendar/{id} [get]
func (h *CalendarHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	event, err := h.calendarService.GetByID(r.Context(), id)
	if err != nil {
		h.handleCalendarError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, event, "")
}

// Update godoc
// @Summary Update event
// @Description Partially updates an event. Start and end times are validated against each other, including stored values.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body domain.UpdateEventRequest true "Fields to update"
// @Success 200 {object} domain.APIResponse{data=domain.CalendarEventDTO}
// @Failure 400 {object} domain.APIError "End time must be after start time"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /calendar/{id} [patch]
func (h *CalendarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateEventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := h.calendarService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleCalendarError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, event, "Event updated")
}

// Delete godoc
// @Summary Delete event
// @Description Deletes an event and its Outlook mirror
// @Tags Calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} domain.APIResponse
// @Failure 401 {object} domain.APIError "Microsoft session expired"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /calendar/{id} [delete]
func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.calendarService.Delete(r.Context(), id); err != nil {
		h.handleCalendarError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, nil, "Event deleted")
}

// handleCalendarError maps service errors to HTTP responses
func (h *CalendarHandler) handleCalendarError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, "Invalid event data: "+err.Error())
	case errors.Is(err, service.ErrMicrosoftAuthExpired):
		respondWithError(w, http.StatusUnauthorized, "Microsoft session expired, please login again")
	default:
		h.logger.Error("calendar operation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

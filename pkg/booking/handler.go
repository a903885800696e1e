package booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/thewell/wellcal/internal/rest"
)

type DayDTO struct {
	Date      string   `json:"date"`
	Morning   int      `json:"morning"`
	Afternoon int      `json:"afternoon"`
	FullDay   int      `json:"fullday"`
	MyVotes   []string `json:"myVotes"`
}

type Handler struct {
	service  Service
	renderer *CsvMonthRenderer
}

func NewHandler(service Service, renderer *CsvMonthRenderer) *Handler {
	return &Handler{service, renderer}
}

// GetMonth godoc
// @Summary Bookings of a month
// @Tags Booking
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} MonthRecord
// @Failure 400 {object} rest.ErrorResponse "Invalid month"
// @Router /api/bookings/{month} [get]
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthKey(mux.Vars(r)["month"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
		return
	}
	log.Debugf("Getting bookings of %s", month)

	record, err := h.service.GetMonth(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, record)
}

// ClearMonth godoc
// @Summary Remove all bookings of a month
// @Tags Booking
// @Param month path string true "Month (YYYY-MM)"
// @Success 204
// @Failure 400 {object} rest.ErrorResponse "Invalid month"
// @Router /api/bookings/{month} [delete]
func (h *Handler) ClearMonth(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthKey(mux.Vars(r)["month"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
		return
	}

	if err := h.service.ClearMonth(r.Context(), month); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMonths godoc
// @Summary Months having bookings
// @Tags Booking
// @Produce json
// @Success 200 {array} string
// @Router /api/bookings [get]
func (h *Handler) ListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.service.ListMonths(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	result := make([]string, 0, len(months))
	for _, month := range months {
		result = append(result, month.String())
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

// ExportMonth godoc
// @Summary Bookings of a month as CSV
// @Tags Booking
// @Produce text/csv
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {string} string "CSV"
// @Router /api/bookings/{month}/export.csv [get]
func (h *Handler) ExportMonth(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthKey(mux.Vars(r)["month"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
		return
	}

	record, err := h.service.GetMonth(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	csv, err := h.renderer.Render(month, record)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=bookings-%s.csv", month))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Errorf("failed to write csv: %v", err)
	}
}

// GetDay godoc
// @Summary Bookings of a day and the slots booked from this device
// @Tags Booking
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} DayDTO
// @Router /api/day/{date} [get]
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := ParseDateKey(mux.Vars(r)["date"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", err.Error())
		return
	}

	day, err := h.service.GetDay(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeDay(w, r, http.StatusOK, date, day)
}

// Book godoc
// @Summary Book a slot of a day
// @Tags Booking
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param slot path string true "morning, afternoon or fullday"
// @Param confirm query bool false "Replace conflicting bookings"
// @Success 200 {object} DayDTO
// @Failure 409 {object} rest.ErrorResponse "Conflict"
// @Router /api/day/{date}/{slot} [post]
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	date, slot, ok := parseDaySlot(w, r)
	if !ok {
		return
	}
	confirm := false
	if value := r.URL.Query().Get("confirm"); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid confirm flag", err.Error())
			return
		}
		confirm = parsed
	}
	log.Debugf("Booking %s on %s (confirm: %v)", slot, date, confirm)

	day, err := h.service.Book(r.Context(), date, slot, confirm)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeDay(w, r, http.StatusOK, date, day)
}

// Undo godoc
// @Summary Remove a booking of a slot
// @Tags Booking
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param slot path string true "morning, afternoon or fullday"
// @Success 200 {object} DayDTO
// @Failure 409 {object} rest.ErrorResponse "Nothing to remove"
// @Router /api/day/{date}/{slot} [delete]
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	date, slot, ok := parseDaySlot(w, r)
	if !ok {
		return
	}

	day, err := h.service.Undo(r.Context(), date, slot)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeDay(w, r, http.StatusOK, date, day)
}

func (h *Handler) writeDay(w http.ResponseWriter, r *http.Request, status int, date DateKey, day DayBookings) {
	votes, err := h.service.MyVotes(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	myVotes := make([]string, 0, len(votes))
	for _, slot := range votes {
		myVotes = append(myVotes, string(slot))
	}
	rest.WriteJSON(w, status, DayDTO{
		Date:      string(date),
		Morning:   day.Morning,
		Afternoon: day.Afternoon,
		FullDay:   day.FullDay,
		MyVotes:   myVotes,
	})
}

func parseDaySlot(w http.ResponseWriter, r *http.Request) (DateKey, Slot, bool) {
	vars := mux.Vars(r)
	date, err := ParseDateKey(vars["date"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", err.Error())
		return "", "", false
	}
	slot, err := ParseSlot(vars["slot"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid slot", err.Error())
		return "", "", false
	}
	return date, slot, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &conflictErr):
		rest.WriteError(w, http.StatusConflict, conflictErr.Conflict.Message(), conflictErr.Conflict.String())
	case errors.Is(err, ErrAlreadyVoted), errors.Is(err, ErrAlreadyBooked),
		errors.Is(err, ErrNoVote), errors.Is(err, ErrNotBooked):
		rest.WriteError(w, http.StatusConflict, err.Error(), "")
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidMonth), errors.Is(err, ErrInvalidSlot):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	default:
		log.Errorf("booking request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

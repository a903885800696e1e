package calendar

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/thewell/wellcal/internal/rest"
	"github.com/thewell/wellcal/internal/utils"
	"github.com/thewell/wellcal/pkg/booking"
)

// MonthReader is the part of the booking service the grid needs.
type MonthReader interface {
	GetMonth(ctx context.Context, month booking.MonthKey) (booking.MonthRecord, error)
}

type Handler struct {
	bookings  MonthReader
	clock     utils.Clock
	weekStart time.Weekday
}

func NewHandler(bookings MonthReader, clock utils.Clock, weekStart time.Weekday) *Handler {
	return &Handler{bookings, clock, weekStart}
}

// GetGrid godoc
// @Summary Month laid out in weeks with the bookings of each day
// @Tags Calendar
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Param weekStart query int false "First day of the week, 0 = Sunday"
// @Param fixed query bool false "Always return six weeks"
// @Success 200 {object} MonthGrid
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/bookings/{month}/grid [get]
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	month, err := booking.ParseMonthKey(mux.Vars(r)["month"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", err.Error())
		return
	}

	weekStart := h.weekStart
	if value := r.URL.Query().Get("weekStart"); value != "" {
		day, err := strconv.Atoi(value)
		if err != nil || day < 0 || day > 6 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid weekStart", "'weekStart' must be a number from 0 (Sunday) to 6")
			return
		}
		weekStart = time.Weekday(day)
	}
	fixed := false
	if value := r.URL.Query().Get("fixed"); value != "" {
		fixed, err = strconv.ParseBool(value)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid fixed flag", err.Error())
			return
		}
	}

	record, err := h.bookings.GetMonth(r.Context(), month)
	if err != nil {
		log.Errorf("failed to read month %s: %v", month, err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}

	grid := NewMonthGrid(month, weekStart, h.clock.Now(), record)
	if fixed {
		grid = grid.FixedWeeks()
	}
	rest.WriteJSON(w, http.StatusOK, grid)
}

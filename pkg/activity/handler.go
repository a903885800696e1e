package activity

import (
	"net/http"
	"strconv"
	"time"

	"github.com/thewell/wellcal/internal/rest"
)

type EntryDTO struct {
	Id       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Month    string    `json:"month"`
	Date     string    `json:"date,omitempty"`
	Slot     string    `json:"slot,omitempty"`
	DeviceId string    `json:"deviceId,omitempty"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// GetRecent godoc
// @Summary Latest changes of the bookings
// @Tags Activity
// @Produce json
// @Param limit query int false "Maximum number of entries"
// @Success 200 {array} EntryDTO
// @Router /api/activity [get]
func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid limit", "'limit' must be a positive number")
			return
		}
		limit = parsed
	}

	entries := h.service.Recent(limit)
	result := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, EntryDTO{
			Id:       e.Id,
			Kind:     e.Kind,
			Month:    e.Month,
			Date:     e.Date,
			Slot:     e.Slot,
			DeviceId: e.DeviceId,
			Message:  e.Message(),
			At:       e.At,
		})
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

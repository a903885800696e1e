package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Bookings of a month
	r.HandleFunc("/api/bookings", deps.BookingHandler.ListMonths).Methods("GET")
	r.HandleFunc("/api/bookings/{month}", deps.BookingHandler.GetMonth).Methods("GET")
	r.HandleFunc("/api/bookings/{month}", deps.BookingHandler.ClearMonth).Methods("DELETE")
	r.HandleFunc("/api/bookings/{month}/grid", deps.CalendarHandler.GetGrid).Methods("GET")
	r.HandleFunc("/api/bookings/{month}/export.csv", deps.BookingHandler.ExportMonth).Methods("GET")

	// Day slots
	r.HandleFunc("/api/day/{date}", deps.BookingHandler.GetDay).Methods("GET")
	r.HandleFunc("/api/day/{date}/{slot}", deps.BookingHandler.Book).Methods("POST")
	r.HandleFunc("/api/day/{date}/{slot}", deps.BookingHandler.Undo).Methods("DELETE")

	// Activity and live updates
	r.HandleFunc("/api/activity", deps.ActivityHandler.GetRecent).Methods("GET")
	r.HandleFunc("/api/live", deps.LiveHub.ServeWS).Methods("GET")
}

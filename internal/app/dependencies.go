package app

import (
	"time"

	"github.com/thewell/wellcal/internal/config"
	"github.com/thewell/wellcal/internal/event_bus"
	"github.com/thewell/wellcal/internal/ratelimit"
	"github.com/thewell/wellcal/internal/utils"
	"github.com/thewell/wellcal/pkg/activity"
	"github.com/thewell/wellcal/pkg/booking"
	"github.com/thewell/wellcal/pkg/calendar"
	"github.com/thewell/wellcal/pkg/kvstore"
	"github.com/thewell/wellcal/pkg/live"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus
	Store    kvstore.Store

	MonthStore     *booking.MonthStore
	VoteStore      *booking.VoteStore
	BookingService *booking.ServiceImpl
	CsvRenderer    *booking.CsvMonthRenderer
	BookingHandler *booking.Handler

	CalendarHandler *calendar.Handler

	ActivityService *activity.ServiceImpl
	ActivityHandler *activity.Handler

	LiveHub *live.Hub

	RateLimiter *ratelimit.Limiter
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(store kvstore.Store, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	deps.Store = store

	deps.MonthStore = booking.NewMonthStore(store)
	deps.VoteStore = booking.NewVoteStore(store)
	deps.BookingService = booking.NewService(deps.MonthStore, deps.VoteStore, deps.EventBus, booking.Options{
		Mode:     booking.Mode(cfg.Ledger.Mode),
		VoteLock: cfg.Ledger.VoteLock,
	})
	deps.CsvRenderer = booking.NewCsvMonthRenderer()
	deps.BookingHandler = booking.NewHandler(deps.BookingService, deps.CsvRenderer)

	deps.CalendarHandler = calendar.NewHandler(deps.BookingService, deps.Clock, time.Weekday(cfg.Calendar.WeekStart))

	deps.ActivityService = activity.NewService(deps.EventBus, deps.Clock, cfg.Activity.Size)
	deps.ActivityHandler = activity.NewHandler(deps.ActivityService)

	deps.LiveHub = live.NewHub(deps.EventBus, cfg.Frontend.Origins)

	if cfg.RateLimit.RPS > 0 {
		deps.RateLimiter = ratelimit.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, deps.Clock)
	}

	return deps
}

package handlers

import (
	"barber-booking-server/internal/schedule"
	"barber-booking-server/internal/timegrid"
	"barber-booking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves the public read side of the calendar.
type AvailabilityHandler struct {
	Engine *schedule.Engine
	Logger *zap.Logger
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(engine *schedule.Engine, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine, Logger: logger}
}

// BookedTime is a booked start slot.
type BookedTime struct {
	Time timegrid.TimeOfDay `json:"time"`
}

// BlockedTime is an active blocked range, inclusive at both ends.
type BlockedTime struct {
	StartTime timegrid.TimeOfDay `json:"startTime"`
	EndTime   timegrid.TimeOfDay `json:"endTime"`
}

// ScheduleResponse lists what is taken on a date.
type ScheduleResponse struct {
	Date         string               `json:"date"`
	Appointments []BookedTime         `json:"appointments"`
	BlockedTimes []BlockedTime        `json:"blockedTimes"`
	PastTimes    []timegrid.TimeOfDay `json:"pastTimes"`
}

// AvailabilityResponse lists the bookable slots of a date and why the others
// are not.
type AvailabilityResponse struct {
	Date          string               `json:"date"`
	Window        schedule.Window      `json:"window"`
	Slots         []timegrid.TimeOfDay `json:"slots"`
	Booked        []timegrid.TimeOfDay `json:"booked"`
	Blocked       []timegrid.TimeOfDay `json:"blocked"`
	Past          []timegrid.TimeOfDay `json:"past"`
	Misconfigured bool                 `json:"misconfigured,omitempty"`
}

func nonNil(slots []timegrid.TimeOfDay) []timegrid.TimeOfDay {
	if slots == nil {
		return []timegrid.TimeOfDay{}
	}
	return slots
}

// GetSchedule handles GET /schedule?date=YYYY-MM-DD.
func (h *AvailabilityHandler) GetSchedule(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.BadRequest(c, "Missing date")
		return
	}

	day, err := schedule.ParseDate(date, h.Engine.Location)
	if err != nil {
		respondError(c, h.Logger, "fetch schedule", err)
		return
	}

	snap, err := h.Engine.Builder.Build(c.Request.Context(), schedule.FormatDate(day), h.Engine.Now())
	if err != nil {
		respondError(c, h.Logger, "fetch schedule", err)
		return
	}

	resp := ScheduleResponse{
		Date:         snap.Date,
		Appointments: make([]BookedTime, 0, len(snap.Appointments)),
		BlockedTimes: make([]BlockedTime, 0, len(snap.Blocks)),
		PastTimes:    nonNil(snap.Past),
	}
	for _, a := range snap.Appointments {
		resp.Appointments = append(resp.Appointments, BookedTime{Time: a.StartTime})
	}
	for _, b := range snap.Blocks {
		resp.BlockedTimes = append(resp.BlockedTimes, BlockedTime{StartTime: b.StartTime, EndTime: b.EndTime})
	}
	utils.Success(c, "Schedule fetched successfully", resp)
}

// GetAvailability handles GET /availability?date=YYYY-MM-DD.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.BadRequest(c, "Missing date")
		return
	}

	avail, err := h.Engine.Resolver.Resolve(c.Request.Context(), date, h.Engine.Now())
	if err != nil {
		respondError(c, h.Logger, "fetch availability", err)
		return
	}

	utils.Success(c, "Availability fetched successfully", AvailabilityResponse{
		Date:          avail.Date,
		Window:        avail.Window,
		Slots:         nonNil(avail.Slots),
		Booked:        nonNil(avail.Snapshot.Booked),
		Blocked:       nonNil(avail.Snapshot.Blocked),
		Past:          nonNil(avail.Snapshot.Past),
		Misconfigured: avail.Misconfigured,
	})
}

package handlers

import (
	"barber-booking-server/internal/models"
	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/schedule"
	"barber-booking-server/internal/timegrid"
	"barber-booking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SettingsHandler manages the opening hours.
type SettingsHandler struct {
	Engine *schedule.Engine
	Store  repository.Store
	Logger *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(engine *schedule.Engine, store repository.Store, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{Engine: engine, Store: store, Logger: logger}
}

// UpdateWindowRequest sets the opening hours of a day class.
type UpdateWindowRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// WindowsResponse is the opening hours in effect.
type WindowsResponse struct {
	Weekday schedule.Window      `json:"weekday"`
	Weekend schedule.Window      `json:"weekend"`
	Grid    []timegrid.TimeOfDay `json:"grid"`
}

// GetAvailabilityWindows returns the weekday and weekend windows in effect.
func (h *SettingsHandler) GetAvailabilityWindows(c *gin.Context) {
	weekday, weekend, err := h.Engine.Policy.Source.Windows(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, "fetch availability windows", err)
		return
	}
	utils.Success(c, "Availability windows fetched successfully", WindowsResponse{
		Weekday: weekday,
		Weekend: weekend,
		Grid:    h.Engine.Grid.Slots(),
	})
}

// UpdateAvailabilityWindow replaces the window of :class. Both ends must be
// grid slots; the change applies from the next request on.
func (h *SettingsHandler) UpdateAvailabilityWindow(c *gin.Context) {
	class := models.DayClass(c.Param("class"))
	if class != models.Weekday && class != models.Weekend {
		utils.BadRequest(c, "class must be weekday or weekend")
		return
	}

	var req UpdateWindowRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	start, err := timegrid.Parse(req.Start)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	end, err := timegrid.Parse(req.End)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if err := h.Engine.Policy.ValidateWindow(schedule.Window{Start: start, End: end}); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	row := &models.AvailabilityWindow{Class: class, Start: start, End: end}
	if err := h.Store.SaveAvailabilityWindow(c.Request.Context(), row); err != nil {
		respondError(c, h.Logger, "save availability window", err)
		return
	}
	h.Logger.Info("availability window changed",
		zap.String("class", string(class)),
		zap.Stringer("start", start),
		zap.Stringer("end", end))
	utils.Success(c, "Availability window updated successfully", row)
}

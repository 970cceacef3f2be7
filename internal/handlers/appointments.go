package handlers

import (
	"errors"
	"strings"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/schedule"
	"barber-booking-server/internal/timegrid"
	"barber-booking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Engine *schedule.Engine
	Store  repository.Store
	Logger *zap.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(engine *schedule.Engine, store repository.Store, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Engine: engine, Store: store, Logger: logger}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	ClientName      string         `json:"clientName" binding:"required"`
	ClientPhone     string         `json:"clientPhone" binding:"required"`
	SMSReminder     bool           `json:"smsReminder"`
	Date            string         `json:"date" binding:"required"`
	StartTime       string         `json:"startTime" binding:"required"`
	ServiceName     string         `json:"serviceName" binding:"required"`
	DurationMinutes int            `json:"durationMinutes" binding:"gte=0"`
	Price           float64        `json:"price" binding:"gte=0"`
	Addons          []models.Addon `json:"addons" binding:"omitempty,dive"`
	TotalPrice      float64        `json:"totalPrice" binding:"gte=0"`
}

func (r *CreateAppointmentRequest) toModel() (*models.Appointment, error) {
	start, err := timegrid.Parse(r.StartTime)
	if err != nil {
		return nil, err
	}
	return &models.Appointment{
		Date:            strings.TrimSpace(r.Date),
		StartTime:       start,
		ClientName:      strings.TrimSpace(r.ClientName),
		ClientPhone:     strings.TrimSpace(r.ClientPhone),
		ServiceName:     strings.TrimSpace(r.ServiceName),
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Addons:          r.Addons,
		TotalPrice:      r.TotalPrice,
		SMSReminder:     r.SMSReminder,
	}, nil
}

// UpdateAppointmentRequest carries the fields an admin may change. The id may
// come from the path or the body.
type UpdateAppointmentRequest struct {
	ID              string          `json:"id"`
	ClientName      *string         `json:"clientName"`
	ClientPhone     *string         `json:"clientPhone"`
	SMSReminder     *bool           `json:"smsReminder"`
	Date            *string         `json:"date"`
	StartTime       *string         `json:"startTime"`
	ServiceName     *string         `json:"serviceName"`
	DurationMinutes *int            `json:"durationMinutes" binding:"omitempty,gte=0"`
	Price           *float64        `json:"price" binding:"omitempty,gte=0"`
	Addons          *[]models.Addon `json:"addons"`
	TotalPrice      *float64        `json:"totalPrice" binding:"omitempty,gte=0"`
}

func (h *AppointmentHandler) toPatch(r *UpdateAppointmentRequest) (models.AppointmentPatch, error) {
	patch := models.AppointmentPatch{
		ClientName:      r.ClientName,
		ClientPhone:     r.ClientPhone,
		SMSReminder:     r.SMSReminder,
		ServiceName:     r.ServiceName,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Addons:          r.Addons,
		TotalPrice:      r.TotalPrice,
	}
	if r.Date != nil {
		day, err := schedule.ParseDate(*r.Date, h.Engine.Location)
		if err != nil {
			return patch, err
		}
		date := schedule.FormatDate(day)
		patch.Date = &date
	}
	if r.StartTime != nil {
		start, err := timegrid.Parse(*r.StartTime)
		if err != nil {
			return patch, err
		}
		if !h.Engine.Grid.Contains(start) {
			return patch, schedule.ErrOutsideHours
		}
		patch.StartTime = &start
	}
	return patch, nil
}

// DeleteRequest carries an id in the body for clients that do not put it in
// the path.
type DeleteRequest struct {
	ID string `json:"id"`
}

// CreateAppointment handles a public booking.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	h.create(c, schedule.BookOptions{})
}

// AdminCreateAppointment books on behalf of a client. Business hours and
// blocks are not enforced; the slot must still be free of appointments.
func (h *AppointmentHandler) AdminCreateAppointment(c *gin.Context) {
	h.create(c, schedule.BookOptions{Override: true})
}

func (h *AppointmentHandler) create(c *gin.Context, opts schedule.BookOptions) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, err := req.toModel()
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	booked, err := h.Engine.Guard.AttemptBook(c.Request.Context(), appt, h.Engine.Now(), opts)
	if err != nil {
		respondError(c, h.Logger, "create appointment", err)
		return
	}

	h.Logger.Info("appointment booked",
		zap.String("id", booked.ID),
		zap.String("date", booked.Date),
		zap.Stringer("start_time", booked.StartTime),
		zap.Bool("override", opts.Override))
	utils.Created(c, "Appointment created successfully", booked)
}

// GetAppointments lists appointments, optionally between ?from= and ?to=.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	filter := repository.AppointmentFilter{From: c.Query("from"), To: c.Query("to")}
	for _, d := range []string{filter.From, filter.To} {
		if d == "" {
			continue
		}
		if _, err := schedule.ParseDate(d, h.Engine.Location); err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
	}

	appointments, err := h.Store.ListAppointments(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Logger, "fetch appointments", err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// UpdateAppointment applies an admin edit. Moving onto a slot that already
// holds an appointment is a conflict; an unknown id changes nothing.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	id := resourceID(c, req.ID)
	if id == "" {
		utils.BadRequest(c, "Appointment ID is required")
		return
	}

	patch, err := h.toPatch(&req)
	if err != nil {
		respondError(c, h.Logger, "update appointment", err)
		return
	}

	updated, err := h.Store.UpdateAppointment(c.Request.Context(), id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		utils.Success(c, "No appointment with that ID; nothing updated", nil)
		return
	}
	if err != nil {
		respondError(c, h.Logger, "update appointment", err)
		return
	}
	utils.Success(c, "Appointment updated successfully", updated)
}

// DeleteAppointment removes an appointment. Deleting an unknown id succeeds.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	var req DeleteRequest
	if c.Param("id") == "" && c.Request.ContentLength != 0 {
		if !utils.BindAndValidate(c, &req) {
			return
		}
	}
	id := resourceID(c, req.ID)
	if id == "" {
		utils.BadRequest(c, "Appointment ID is required")
		return
	}

	if err := h.Store.DeleteAppointment(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, "delete appointment", err)
		return
	}
	utils.Success(c, "Appointment deleted successfully", nil)
}

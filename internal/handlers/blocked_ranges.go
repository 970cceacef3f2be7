package handlers

import (
	"errors"

	"barber-booking-server/internal/models"
	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/schedule"
	"barber-booking-server/internal/timegrid"
	"barber-booking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BlockedRangeHandler manages admin blocked time.
type BlockedRangeHandler struct {
	Engine *schedule.Engine
	Store  repository.Store
	Logger *zap.Logger
}

// NewBlockedRangeHandler creates a new BlockedRangeHandler.
func NewBlockedRangeHandler(engine *schedule.Engine, store repository.Store, logger *zap.Logger) *BlockedRangeHandler {
	return &BlockedRangeHandler{Engine: engine, Store: store, Logger: logger}
}

// CreateBlockedRangeRequest blocks one span on one date.
type CreateBlockedRangeRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Reason    string `json:"reason" binding:"max=255"`
}

// RecurringBlockRequest blocks the same span on several days counted from
// an anchor date. Without an anchor, offsets are days of the current week
// with 0 for Sunday.
type RecurringBlockRequest struct {
	AnchorDate string `json:"anchorDate"`
	DayOffsets []int  `json:"dayOffsets" binding:"required,min=1"`
	StartTime  string `json:"startTime" binding:"required"`
	EndTime    string `json:"endTime" binding:"required"`
	Reason     string `json:"reason" binding:"max=255"`
}

// UpdateBlockedRangeRequest carries the editable fields of a blocked range.
type UpdateBlockedRangeRequest struct {
	ID        string              `json:"id"`
	Date      *string             `json:"date"`
	StartTime *string             `json:"startTime"`
	EndTime   *string             `json:"endTime"`
	Reason    *string             `json:"reason" binding:"omitempty,max=255"`
	Status    *models.BlockStatus `json:"status" binding:"omitempty,oneof=active cancelled"`
}

func parseSpan(start, end string) (timegrid.TimeOfDay, timegrid.TimeOfDay, error) {
	r, err := schedule.ParseRange(start, end)
	if err != nil {
		return 0, 0, err
	}
	return r.Start, r.End, nil
}

// GetBlockedRanges lists blocked ranges, optionally filtered by ?date= and
// ?status=.
func (h *BlockedRangeHandler) GetBlockedRanges(c *gin.Context) {
	filter := repository.BlockFilter{
		Date:   c.Query("date"),
		Status: models.BlockStatus(c.Query("status")),
	}
	if filter.Date != "" {
		if _, err := schedule.ParseDate(filter.Date, h.Engine.Location); err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
	}
	switch filter.Status {
	case "", models.BlockActive, models.BlockCancelled:
	default:
		utils.BadRequest(c, "status must be active or cancelled")
		return
	}

	ranges, err := h.Store.ListBlockedRanges(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Logger, "fetch blocked times", err)
		return
	}
	utils.Success(c, "Blocked times fetched successfully", ranges)
}

// CreateBlockedRange blocks a single span.
func (h *BlockedRangeHandler) CreateBlockedRange(c *gin.Context) {
	var req CreateBlockedRangeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	start, end, err := parseSpan(req.StartTime, req.EndTime)
	if err != nil {
		respondError(c, h.Logger, "create blocked time", err)
		return
	}

	block, err := h.Engine.Blocks.Create(c.Request.Context(), req.Date, start, end, req.Reason)
	if err != nil {
		respondError(c, h.Logger, "create blocked time", err)
		return
	}
	utils.Created(c, "Blocked time created successfully", block)
}

// CreateRecurringBlockedRanges blocks the same span on several days at once.
func (h *BlockedRangeHandler) CreateRecurringBlockedRanges(c *gin.Context) {
	var req RecurringBlockRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	start, end, err := parseSpan(req.StartTime, req.EndTime)
	if err != nil {
		respondError(c, h.Logger, "create recurring blocked times", err)
		return
	}

	created, err := h.Engine.Blocks.CreateRecurring(c.Request.Context(), schedule.RecurringRequest{
		Anchor:  req.AnchorDate,
		Offsets: req.DayOffsets,
		Start:   start,
		End:     end,
		Reason:  req.Reason,
	}, h.Engine.Now())
	if err != nil {
		respondError(c, h.Logger, "create recurring blocked times", err)
		return
	}
	utils.Created(c, "Recurring blocked times created successfully", created)
}

// UpdateBlockedRange edits or cancels a blocked range. The resulting span
// must still line up with the time grid; an unknown id changes nothing.
func (h *BlockedRangeHandler) UpdateBlockedRange(c *gin.Context) {
	var req UpdateBlockedRangeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	id := resourceID(c, req.ID)
	if id == "" {
		utils.BadRequest(c, "Blocked time ID is required")
		return
	}
	ctx := c.Request.Context()

	current, err := h.Store.GetBlockedRange(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.Success(c, "No blocked time with that ID; nothing updated", nil)
		return
	}
	if err != nil {
		respondError(c, h.Logger, "update blocked time", err)
		return
	}

	patch := models.BlockedRangePatch{Reason: req.Reason, Status: req.Status}
	if req.Date != nil {
		day, err := schedule.ParseDate(*req.Date, h.Engine.Location)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		date := schedule.FormatDate(day)
		patch.Date = &date
	}
	for _, f := range []struct {
		raw *string
		dst **timegrid.TimeOfDay
	}{
		{req.StartTime, &patch.StartTime},
		{req.EndTime, &patch.EndTime},
	} {
		if f.raw == nil {
			continue
		}
		t, err := timegrid.Parse(*f.raw)
		if err != nil {
			respondError(c, h.Logger, "update blocked time", err)
			return
		}
		*f.dst = &t
	}

	next := *current
	patch.Apply(&next)
	if err := h.Engine.Blocks.ValidateRange(next.StartTime, next.EndTime); err != nil {
		respondError(c, h.Logger, "update blocked time", err)
		return
	}

	updated, err := h.Store.UpdateBlockedRange(ctx, id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		utils.Success(c, "No blocked time with that ID; nothing updated", nil)
		return
	}
	if err != nil {
		respondError(c, h.Logger, "update blocked time", err)
		return
	}
	utils.Success(c, "Blocked time updated successfully", updated)
}

// DeleteBlockedRange removes a blocked range. Deleting an unknown id
// succeeds.
func (h *BlockedRangeHandler) DeleteBlockedRange(c *gin.Context) {
	var req DeleteRequest
	if c.Param("id") == "" && c.Request.ContentLength != 0 {
		if !utils.BindAndValidate(c, &req) {
			return
		}
	}
	id := resourceID(c, req.ID)
	if id == "" {
		utils.BadRequest(c, "Blocked time ID is required")
		return
	}

	if err := h.Store.DeleteBlockedRange(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, "delete blocked time", err)
		return
	}
	utils.Success(c, "Blocked time deleted successfully", nil)
}

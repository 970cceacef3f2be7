package handlers

import (
	"errors"
	"fmt"

	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/schedule"
	"barber-booking-server/internal/timegrid"
	"barber-booking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slotTakenMessage = "This time slot is already booked. Please select another time."

// badInput lists errors caused by the request itself.
var badInput = []error{
	schedule.ErrMalformedDate,
	timegrid.ErrMalformedTime,
	schedule.ErrOutsideHours,
	schedule.ErrSlotInPast,
	schedule.ErrUnresolvedEndpoint,
	schedule.ErrInvalidRange,
	schedule.ErrWindowNotFound,
	schedule.ErrNoOffsets,
	schedule.ErrInvalidOffset,
}

// respondError maps engine and store errors onto the response envelope.
// Anything unexpected is logged and reported as a 500.
func respondError(c *gin.Context, logger *zap.Logger, action string, err error) {
	for _, target := range badInput {
		if errors.Is(err, target) {
			utils.BadRequest(c, err.Error())
			return
		}
	}

	var batchErr *schedule.BatchError
	switch {
	case errors.Is(err, schedule.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		utils.Conflict(c, slotTakenMessage)
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFound(c, "Record not found")
	case errors.As(err, &batchErr):
		logger.Error(action, zap.Ints("failed_offsets", batchErr.Failed), zap.Error(err))
		utils.InternalServerError(c, fmt.Sprintf("Failed to %s for day offsets %v", action, batchErr.Failed))
	case errors.Is(err, schedule.ErrScheduleUnavailable):
		logger.Error(action, zap.Error(err))
		utils.InternalServerError(c, "Failed to fetch schedule")
	default:
		logger.Error(action, zap.Error(err))
		utils.InternalServerError(c, "Failed to "+action)
	}
}

// resourceID reads the record id from the path, falling back to the id in
// the request body.
func resourceID(c *gin.Context, bodyID string) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return bodyID
}

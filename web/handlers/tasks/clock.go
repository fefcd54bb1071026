package tasks

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"staffport.io/staffport/attendance"
	"staffport.io/staffport/web/common"
	"staffport.io/staffport/web/middlewares"
)

func (ep *Endpoint) ClockIn(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var dto ClockInDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	loc := attendance.Location{
		Latitude:  *dto.Latitude,
		Longitude: *dto.Longitude,
		Accuracy:  dto.Accuracy,
	}

	task, err := attendance.ClockIn(db, id, middlewares.CurrentUserID(c), loc, time.Now())
	if err != nil {
		respondClockError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(task))
}

func (ep *Endpoint) ClockOut(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var dto ClockOutDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	task, err := attendance.ClockOut(db, id, middlewares.CurrentUserID(c), dto.WorkSummary, time.Now())
	if err != nil {
		respondClockError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(task))
}

// respondClockError maps attendance precondition failures onto status codes
// while keeping each message distinguishable for the staff client.
func respondClockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Task not found"))
	case errors.Is(err, attendance.ErrNotAssignee):
		c.JSON(http.StatusForbidden, common.NewErrorResponse(err.Error()))
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrNotClockedIn),
		errors.Is(err, attendance.ErrTaskClosed):
		c.JSON(http.StatusConflict, common.NewErrorResponse(err.Error()))
	case errors.Is(err, attendance.ErrImpreciseLocation),
		errors.Is(err, attendance.ErrOutsideWindow),
		errors.Is(err, attendance.ErrNoSiteLocation),
		errors.Is(err, attendance.ErrTooFarFromSite),
		errors.Is(err, attendance.ErrMissingWorkSummary):
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
	}
}

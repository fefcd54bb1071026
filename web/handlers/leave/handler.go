package leave

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"staffport.io/staffport/core"
	"staffport.io/staffport/core/models"
	"staffport.io/staffport/infrastructure/communication"
	"staffport.io/staffport/web/common"
	"staffport.io/staffport/web/middlewares"
)

type Endpoint struct {
	base   common.Handler
	mailer *communication.Mailer
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.POST("/leave", endpoint.Create)
	r.GET("/leave/mine", endpoint.ListMine)
}

func RegisterAdmin(r *gin.RouterGroup, dm *core.DatabaseManager, mailer *communication.Mailer) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}, mailer: mailer}
	r.GET("/leave", endpoint.List)
	r.POST("/leave/:id/decide", endpoint.Decide)
}

type LeaveCreateDTO struct {
	StartDate *common.DateOnly `json:"startDate" binding:"required"`
	EndDate   *common.DateOnly `json:"endDate" binding:"required"`
	Reason    string           `json:"reason"`
}

type LeaveDecideDTO struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto LeaveCreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	if dto.EndDate.Time.Before(dto.StartDate.Time) {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("endDate must not be before startDate"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	request := models.LeaveRequest{
		StaffID:   middlewares.CurrentUserID(c),
		StartDate: dto.StartDate.Time,
		EndDate:   dto.EndDate.Time,
		Reason:    dto.Reason,
		Status:    models.LeavePending,
	}
	if err := db.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(request))
}

func (ep *Endpoint) ListMine(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var list []models.LeaveRequest
	if err := db.Where("staff_id = ?", middlewares.CurrentUserID(c)).
		Order("id DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(list))
}

func (ep *Endpoint) List(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&models.LeaveRequest{}).Preload("Staff")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var list []models.LeaveRequest
	if err := query.Order("id DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(list))
}

func (ep *Endpoint) Decide(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	var dto LeaveDecideDTO
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

	var request models.LeaveRequest
	if err := db.Preload("Staff").First(&request, id).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Leave request not found"))
		return
	}
	if request.Status != models.LeavePending {
		c.JSON(http.StatusConflict, common.NewErrorResponse("leave request already decided"))
		return
	}

	adminID := middlewares.CurrentUserID(c)
	if err := db.Model(&request).Updates(map[string]interface{}{
		"status":        dto.Decision,
		"decided_by_id": adminID,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	if ep.mailer != nil && request.Staff != nil {
		subject := fmt.Sprintf("Leave request %s", dto.Decision)
		body := fmt.Sprintf("Your leave request for %s to %s has been %s.",
			request.StartDate.Format("2006-01-02"),
			request.EndDate.Format("2006-01-02"),
			dto.Decision)
		if err := ep.mailer.Send(c.Request.Context(), request.Staff.Email, subject, body); err != nil {
			// The decision is already recorded; a failed notification is
			// logged, not surfaced to the admin.
			log.Printf("leave decision email to %s failed: %v", request.Staff.Email, err)
		}
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

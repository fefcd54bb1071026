package tasks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"staffport.io/staffport/core"
	"staffport.io/staffport/core/models"
	"staffport.io/staffport/web/common"
	"staffport.io/staffport/web/middlewares"
)

type Endpoint struct {
	base common.Handler
}

// Register wires the staff-facing routes; RegisterAdmin wires the CRUD
// surface behind the admin guard.
func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.GET("/tasks/mine", endpoint.ListMine)
	r.POST("/tasks/:id/clock-in", endpoint.ClockIn)
	r.POST("/tasks/:id/clock-out", endpoint.ClockOut)
}

func RegisterAdmin(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.POST("/tasks", endpoint.Create)
	r.GET("/tasks", endpoint.List)
	r.GET("/tasks/:id", endpoint.Get)
	r.PUT("/tasks/:id", endpoint.Update)
	r.DELETE("/tasks/:id", endpoint.Delete)
	r.POST("/tasks/:id/assign", endpoint.Assign)
}

func taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return 0, false
	}
	return uint(id), true
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto TaskCreateDTO
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

	task := models.Task{
		Title:              dto.Title,
		Description:        dto.Description,
		ClientName:         dto.ClientName,
		Status:             models.TaskPending,
		Latitude:           dto.Latitude,
		Longitude:          dto.Longitude,
		ScheduledStartTime: dto.ScheduledStartTime,
		ScheduledEndTime:   dto.ScheduledEndTime,
		TotalHours:         dto.TotalHours,
		CreatedByID:        middlewares.CurrentUserID(c),
	}
	if dto.AssigneeID != nil {
		task.AssigneeID = dto.AssigneeID
		task.Status = models.TaskAssigned
	}

	if err := db.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(task))
}

func (ep *Endpoint) List(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&models.Task{}).Preload("Assignee")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	limit := 100
	offset := 0
	if val, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = val
	}
	if val, err := strconv.Atoi(c.Query("offset")); err == nil {
		offset = val
	}

	var list []models.Task
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(list, total))
}

func (ep *Endpoint) ListMine(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var list []models.Task
	if err := db.Where("assignee_id = ?", middlewares.CurrentUserID(c)).
		Order("scheduled_start_time").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(list))
}

func (ep *Endpoint) Get(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var task models.Task
	if err := db.Preload("Assignee").First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Task not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(task))
}

func (ep *Endpoint) Update(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var dto TaskUpdateDTO
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

	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Task not found"))
		return
	}

	// Clock fields are owned by the clock-in/out operations and the site
	// coordinates are immutable after creation, so only the editable fields
	// are mapped here.
	if err := db.Model(&task).Updates(dto.updates()).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

func (ep *Endpoint) Delete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	result := db.Delete(&models.Task{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Task not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

func (ep *Endpoint) Assign(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var dto TaskAssignDTO
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

	var staff models.User
	if err := db.First(&staff, dto.StaffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, common.NewErrorResponse("Staff member not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	if !staff.IsActive {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Staff member is not active"))
		return
	}

	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Task not found"))
		return
	}
	if task.Status.Terminal() {
		c.JSON(http.StatusConflict, common.NewErrorResponse("Task is cancelled or completed"))
		return
	}

	if err := db.Model(&task).Updates(map[string]interface{}{
		"assignee_id": dto.StaffID,
		"status":      models.TaskAssigned,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

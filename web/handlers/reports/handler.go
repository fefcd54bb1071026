package reports

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staffport.io/staffport/core"
	"staffport.io/staffport/core/models"
	"staffport.io/staffport/utils"
	"staffport.io/staffport/web/common"
	"staffport.io/staffport/web/middlewares"
)

type Endpoint struct {
	base common.Handler
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.POST("/reports", endpoint.Create)
	r.GET("/reports/mine", endpoint.ListMine)
}

func RegisterAdmin(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.GET("/reports", endpoint.List)
}

type ReportCreateDTO struct {
	Date    *common.DateOnly `json:"date" binding:"required"`
	Summary string           `json:"summary" binding:"required"`
	Hours   float64          `json:"hours" binding:"omitempty,min=0,max=24"`
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto ReportCreateDTO
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

	report := models.DailyReport{
		StaffID: middlewares.CurrentUserID(c),
		Date:    dto.Date.Time,
		Summary: dto.Summary,
		Hours:   dto.Hours,
	}
	if err := db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(report))
}

func (ep *Endpoint) ListMine(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var list []models.DailyReport
	if err := db.Where("staff_id = ?", middlewares.CurrentUserID(c)).
		Order("date DESC").Find(&list).Error; err != nil {
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

	query := db.Model(&models.DailyReport{}).Preload("Staff")
	if staffID := c.Query("staffId"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	if from := c.Query("from"); from != "" {
		day, err := utils.ParseDate(from)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
			return
		}
		query = query.Where("date >= ?", day)
	}
	if to := c.Query("to"); to != "" {
		day, err := utils.ParseDate(to)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
			return
		}
		query = query.Where("date <= ?", day)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var list []models.DailyReport
	if err := query.Order("date DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(list, total))
}

package payments

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staffport.io/staffport/core"
	"staffport.io/staffport/core/models"
	"staffport.io/staffport/web/common"
	"staffport.io/staffport/web/middlewares"
)

type Endpoint struct {
	base common.Handler
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.GET("/payments/mine", endpoint.ListMine)
}

func RegisterAdmin(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.POST("/payments", endpoint.Create)
	r.GET("/payments", endpoint.List)
}

type PaymentCreateDTO struct {
	StaffID     uint             `json:"staffId" binding:"required"`
	PeriodStart *common.DateOnly `json:"periodStart" binding:"required"`
	PeriodEnd   *common.DateOnly `json:"periodEnd" binding:"required"`
	Amount      float64          `json:"amount" binding:"required,min=0"`
	Reference   string           `json:"reference"`
	Notes       string           `json:"notes"`
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto PaymentCreateDTO
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
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Staff member not found"))
		return
	}

	payment := models.Payment{
		StaffID:     dto.StaffID,
		PeriodStart: dto.PeriodStart.Time,
		PeriodEnd:   dto.PeriodEnd.Time,
		Amount:      dto.Amount,
		Reference:   dto.Reference,
		Notes:       dto.Notes,
	}
	if err := db.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(payment))
}

func (ep *Endpoint) List(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&models.Payment{}).Preload("Staff")
	if staffID := c.Query("staffId"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}

	var list []models.Payment
	if err := query.Order("period_end DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(list))
}

func (ep *Endpoint) ListMine(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var list []models.Payment
	if err := db.Where("staff_id = ?", middlewares.CurrentUserID(c)).
		Order("period_end DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(list))
}

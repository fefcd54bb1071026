package messages

import (
	"net/http"
	"strconv"
	"time"

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
	r.GET("/messages", endpoint.Inbox)
	r.POST("/messages", endpoint.Send)
	r.POST("/messages/:id/read", endpoint.MarkRead)
}

type MessageSendDTO struct {
	RecipientID uint   `json:"recipientId" binding:"required"`
	Subject     string `json:"subject"`
	Body        string `json:"body" binding:"required"`
}

func (ep *Endpoint) Send(c *gin.Context) {
	var dto MessageSendDTO
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

	var recipient models.User
	if err := db.First(&recipient, dto.RecipientID).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Recipient not found"))
		return
	}

	msg := models.Message{
		SenderID:    middlewares.CurrentUserID(c),
		RecipientID: dto.RecipientID,
		Subject:     dto.Subject,
		Body:        dto.Body,
	}
	if err := db.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(msg))
}

func (ep *Endpoint) Inbox(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var list []models.Message
	if err := db.Preload("Sender").
		Where("recipient_id = ?", middlewares.CurrentUserID(c)).
		Order("id DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(list))
}

func (ep *Endpoint) MarkRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	result := db.Model(&models.Message{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", id, middlewares.CurrentUserID(c)).
		Update("read_at", time.Now())
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Message not found or already read"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

package review

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"staffport.io/staffport/core"
	"staffport.io/staffport/infrastructure/communication"
	"staffport.io/staffport/review"
	"staffport.io/staffport/web/common"
)

type Endpoint struct {
	base     common.Handler
	svc      *review.Service
	notifier *communication.Slack

	// ClientURL, when set, turns redemption into a redirect carrying the
	// session token; otherwise the token is returned directly.
	clientURL string
}

// RegisterAdmin wires link issuance behind the admin guard; RegisterPublic
// wires the unauthenticated redemption endpoint at the server root.
func RegisterAdmin(r *gin.RouterGroup, dm *core.DatabaseManager, svc *review.Service, notifier *communication.Slack) *Endpoint {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}, svc: svc, notifier: notifier}
	r.POST("/review/generate-link", endpoint.GenerateLink)
	return endpoint
}

func (ep *Endpoint) RegisterPublic(r *gin.Engine, clientURL string) {
	ep.clientURL = clientURL
	r.GET("/review-access", ep.Redeem)
}

type GenerateLinkDTO struct {
	Email      string `json:"email" binding:"omitempty,email"`
	UserID     uint   `json:"userId"`
	TTLSeconds int64  `json:"ttlSeconds" binding:"omitempty,min=0"`
}

type GenerateLinkResponse struct {
	Link             string   `json:"link"`
	ExpiresInSeconds int64    `json:"expiresInSeconds"`
	User             UserInfo `json:"user"`
}

type UserInfo struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (ep *Endpoint) GenerateLink(c *gin.Context) {
	var dto GenerateLinkDTO
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

	ttl := time.Duration(dto.TTLSeconds) * time.Second
	result, err := ep.svc.Issue(db, dto.Email, dto.UserID, ttl)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidTarget):
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		case errors.Is(err, review.ErrUserNotFound):
			c.JSON(http.StatusNotFound, common.NewErrorResponse(err.Error()))
		case errors.Is(err, review.ErrUserInactive):
			c.JSON(http.StatusConflict, common.NewErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		}
		return
	}

	if ep.notifier != nil {
		// Ops trail for a security-sensitive grant. The link itself is never
		// posted anywhere.
		go ep.notifier.Info(fmt.Sprintf("review link issued for user %d (%s), valid %s",
			result.User.ID, result.User.Email, result.ExpiresIn))
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(GenerateLinkResponse{
		Link:             result.Link,
		ExpiresInSeconds: int64(result.ExpiresIn.Seconds()),
		User: UserInfo{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  result.User.Role,
		},
	}))
}

func (ep *Endpoint) Redeem(c *gin.Context) {
	signed := c.Query("token")
	if signed == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(review.ErrInvalidLink.Error()))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	result, err := ep.svc.Redeem(db, signed, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidLink):
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		case errors.Is(err, review.ErrLinkSpent):
			c.JSON(http.StatusGone, common.NewErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse("unexpected server error"))
		}
		return
	}

	if ep.notifier != nil {
		go ep.notifier.Info(fmt.Sprintf("review link redeemed for user %d (%s); account deactivated",
			result.User.ID, result.User.Email))
	}

	if ep.clientURL != "" {
		redirect := fmt.Sprintf("%s/review?token=%s&expiresIn=%d",
			ep.clientURL, url.QueryEscape(result.SessionToken), int64(result.ExpiresIn.Seconds()))
		c.Redirect(http.StatusFound, redirect)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"token":            result.SessionToken,
		"expiresInSeconds": int64(result.ExpiresIn.Seconds()),
	}))
}

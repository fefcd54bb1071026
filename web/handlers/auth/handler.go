package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"staffport.io/staffport/core"
	"staffport.io/staffport/core/models"
	"staffport.io/staffport/security"
	"staffport.io/staffport/web/common"
)

const sessionTTL = 12 * time.Hour

type Endpoint struct {
	base   common.Handler
	secret []byte
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager, secret []byte) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}, secret: secret}
	r.POST("/auth/login", endpoint.Login)
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ep *Endpoint) Login(c *gin.Context) {
	var dto LoginDTO
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

	var user models.User
	if err := db.Where("email = ?", dto.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a bad password so login probing learns nothing.
			c.JSON(http.StatusUnauthorized, common.NewErrorResponse("invalid email or password"))
			return
		}
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(dto.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("invalid email or password"))
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, common.NewErrorResponse("account is deactivated"))
		return
	}

	token, err := security.CreateSessionToken(ep.secret, &user, sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"token": token,
		"user":  user,
	}))
}

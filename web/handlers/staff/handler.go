package staff

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"staffport.io/staffport/core"
	"staffport.io/staffport/core/models"
	"staffport.io/staffport/utils"
	"staffport.io/staffport/web/common"
)

type Endpoint struct {
	base common.Handler
}

func RegisterAdmin(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}
	r.POST("/staff", endpoint.Create)
	r.GET("/staff", endpoint.List)
	r.GET("/staff/:id", endpoint.Get)
	r.PUT("/staff/:id", endpoint.Update)
	r.DELETE("/staff/:id", endpoint.Deactivate)
	r.POST("/staff/import", endpoint.Import)
}

type StaffCreateDTO struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"omitempty,oneof=admin staff"`
}

type StaffUpdateDTO struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=admin staff"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto StaffCreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	role := dto.Role
	if role == "" {
		role = models.RoleStaff
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	user := models.User{
		Name:     dto.Name,
		Email:    strings.ToLower(dto.Email),
		Password: hash,
		Phone:    dto.Phone,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, common.NewErrorResponse("email already registered"))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(user))
}

func (ep *Endpoint) List(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&models.User{})
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var list []models.User
	if err := query.Order("name").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(list, total))
}

func (ep *Endpoint) Get(c *gin.Context) {
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

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Staff member not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(user))
}

func (ep *Endpoint) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	var dto StaffUpdateDTO
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

	result := db.Model(&models.User{}).Where("id = ?", id).Updates(dto)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Staff member not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

// Deactivate flips the active flag instead of deleting the row; tasks,
// reports and payments keep their history.
func (ep *Endpoint) Deactivate(c *gin.Context) {
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

	result := db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Staff member not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

// Import bulk-creates staff from a CSV upload: name,email,password,phone.
func (ep *Endpoint) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("CSV file is required"))
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}
	defer f.Close()

	rows, skipped, err := utils.ParseCSV(f, 3)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(fmt.Sprintf("invalid CSV: %v", err)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	created := 0
	for _, row := range rows {
		hash, err := bcrypt.GenerateFromPassword([]byte(row[2]), bcrypt.DefaultCost)
		if err != nil {
			skipped++
			continue
		}

		user := models.User{
			Name:     row[0],
			Email:    strings.ToLower(strings.TrimSpace(row[1])),
			Password: hash,
			Role:     models.RoleStaff,
			IsActive: true,
		}
		if len(row) > 3 {
			user.Phone = row[3]
		}
		if err := db.Create(&user).Error; err != nil {
			skipped++
			continue
		}
		created++
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"created": created,
		"skipped": skipped,
	}))
}

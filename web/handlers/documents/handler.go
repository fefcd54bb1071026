package documents

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffport.io/staffport/core"
	"staffport.io/staffport/core/models"
	"staffport.io/staffport/infrastructure/filesystem"
	"staffport.io/staffport/web/common"
	"staffport.io/staffport/web/middlewares"
)

const maxUploadBytes = 50 << 20

type Endpoint struct {
	base   common.Handler
	bucket string
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager, bucket string) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}, bucket: bucket}
	r.GET("/documents/mine", endpoint.ListMine)
	r.GET("/documents/:id/download", endpoint.Download)
}

func RegisterAdmin(r *gin.RouterGroup, dm *core.DatabaseManager, bucket string) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}, bucket: bucket}
	r.POST("/documents", endpoint.Upload)
	r.GET("/documents", endpoint.List)
	r.DELETE("/documents/:id", endpoint.Delete)
}

// Upload stores the file in S3 under a fresh key and records the metadata.
func (ep *Endpoint) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}

	ownerID, err := strconv.Atoi(c.PostForm("ownerId"))
	if err != nil || ownerID <= 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("ownerId is required"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("file is required"))
		return
	}

	ext := filepath.Ext(file.Filename)
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf", ".doc", ".docx", ".xlsx", ".csv":
	default:
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(fmt.Sprintf("file type %s is not allowed", ext)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var owner models.User
	if err := db.First(&owner, ownerID).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Owner not found"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	key := fmt.Sprintf("documents/%d/%s%s", owner.ID, uuid.NewString(), ext)
	if err := filesystem.WriteFile(ep.bucket, key, c.Request.Context(), contentType, src); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	doc := models.Document{
		OwnerID:      owner.ID,
		FileName:     file.Filename,
		ContentType:  contentType,
		StorageKey:   key,
		Size:         file.Size,
		UploadedByID: middlewares.CurrentUserID(c),
	}
	if err := db.Create(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(doc))
}

func (ep *Endpoint) List(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&models.Document{}).Preload("Owner")
	if ownerID := c.Query("ownerId"); ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}

	var list []models.Document
	if err := query.Order("id DESC").Find(&list).Error; err != nil {
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

	var list []models.Document
	if err := db.Where("owner_id = ?", middlewares.CurrentUserID(c)).
		Order("id DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(list))
}

// Delete removes the stored object first so a failed S3 delete never leaves
// an orphaned metadata row pointing at a live object.
func (ep *Endpoint) Delete(c *gin.Context) {
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

	var doc models.Document
	if err := db.First(&doc, id).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Document not found"))
		return
	}

	if err := filesystem.DeleteFile(ep.bucket, doc.StorageKey, c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	if err := db.Delete(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

// Download streams the S3 object back to its owner (admins may fetch any).
func (ep *Endpoint) Download(c *gin.Context) {
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

	var doc models.Document
	if err := db.First(&doc, id).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Document not found"))
		return
	}

	if middlewares.CurrentRole(c) != models.RoleAdmin && doc.OwnerID != middlewares.CurrentUserID(c) {
		c.JSON(http.StatusForbidden, common.NewErrorResponse("not your document"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	if doc.ContentType != "" {
		c.Header("Content-Type", doc.ContentType)
	}
	if err := filesystem.ReadFile(ep.bucket, doc.StorageKey, c.Request.Context(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
}

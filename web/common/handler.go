package common

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"staffport.io/staffport/core"
)

// Handler is the shared base every endpoint embeds: it hands out a request-
// scoped *gorm.DB from the pool.
type Handler struct {
	Dm *core.DatabaseManager
}

func (h *Handler) GetDB(c *gin.Context) (*gorm.DB, *sql.Conn, error) {
	return h.Dm.GetDB(c.Request.Context())
}

package exports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

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
	r.GET("/exports/attendance", endpoint.Attendance)
}

// Attendance writes an XLSX of completed clock-in/out records in a date range.
func (ep *Endpoint) Attendance(c *gin.Context) {
	from, err := utils.ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}
	to, err := utils.ParseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var tasks []models.Task
	if err := db.Preload("Assignee").
		Where("clock_in_time IS NOT NULL AND clock_in_time >= ? AND clock_in_time < ?", from, to.AddDate(0, 0, 1)).
		Order("clock_in_time").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Task", "Client", "Staff", "Clock In", "Clock Out", "Hours Spent", "Expected Hours", "Work Summary"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, task := range tasks {
		staffName := ""
		if task.Assignee != nil {
			staffName = task.Assignee.Name
		}
		clockOut := ""
		if task.ClockOutTime != nil {
			clockOut = task.ClockOutTime.Format(time.RFC3339)
		}

		values := []interface{}{
			task.Title,
			task.ClientName,
			staffName,
			task.ClockInTime.Format(time.RFC3339),
			clockOut,
			task.HoursSpent,
			task.TotalHours,
			task.WorkSummary,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	fileName := fmt.Sprintf("attendance_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
}

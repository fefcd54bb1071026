package attendance

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"staffport.io/staffport/core/models"
)

// ValidateClockIn runs every clock-in precondition against the task in the
// order the staff client presents them: ownership and lifecycle first, then
// the location checks.
func ValidateClockIn(task *models.Task, staffID uint, loc Location, now time.Time) error {
	if task.AssigneeID == nil || *task.AssigneeID != staffID {
		return ErrNotAssignee
	}
	if task.Status.Terminal() {
		return ErrTaskClosed
	}
	if loc.Accuracy != nil && *loc.Accuracy > MaxAccuracyMeters {
		return ErrImpreciseLocation
	}
	if task.ScheduledStartTime != nil && !WithinCheckInWindow(now, *task.ScheduledStartTime) {
		return ErrOutsideWindow
	}
	if !task.HasCoordinates() {
		return ErrNoSiteLocation
	}
	distance := HaversineMeters(loc.Latitude, loc.Longitude, *task.Latitude, *task.Longitude)
	if distance > GeofenceRadiusMeters {
		return ErrTooFarFromSite
	}
	if task.ClockInTime != nil {
		return ErrAlreadyClockedIn
	}
	return nil
}

// ValidateClockOut checks the clock-out preconditions. Geofence and schedule
// window are deliberately not re-checked here; only clock-in enforces them.
func ValidateClockOut(task *models.Task, staffID uint, workSummary string) error {
	if task.AssigneeID == nil || *task.AssigneeID != staffID {
		return ErrNotAssignee
	}
	if task.ClockInTime == nil {
		return ErrNotClockedIn
	}
	if task.ClockOutTime != nil {
		return ErrAlreadyClockedOut
	}
	if strings.TrimSpace(workSummary) == "" {
		return ErrMissingWorkSummary
	}
	return nil
}

// ClockIn validates and applies a staff check-in. The stored timestamp is the
// server clock, never the client's.
func ClockIn(db *gorm.DB, taskID uint, staffID uint, loc Location, now time.Time) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		return nil, err
	}

	if err := ValidateClockIn(&task, staffID, loc, now); err != nil {
		return nil, err
	}

	task.ClockInTime = &now
	task.Status = models.TaskInProgress
	if err := db.Model(&task).Updates(map[string]interface{}{
		"clock_in_time": now,
		"status":        models.TaskInProgress,
	}).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ClockOut validates and applies a staff check-out, storing the work summary
// and deriving the hours spent from the clock-in/out delta.
func ClockOut(db *gorm.DB, taskID uint, staffID uint, workSummary string, now time.Time) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		return nil, err
	}

	if err := ValidateClockOut(&task, staffID, workSummary); err != nil {
		return nil, err
	}

	hours := HoursBetween(*task.ClockInTime, now)

	task.ClockOutTime = &now
	task.WorkSummary = workSummary
	task.HoursSpent = hours
	task.Status = models.TaskCompleted
	if err := db.Model(&task).Updates(map[string]interface{}{
		"clock_out_time": now,
		"work_summary":   workSummary,
		"hours_spent":    hours,
		"status":         models.TaskCompleted,
	}).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

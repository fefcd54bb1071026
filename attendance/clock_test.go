package attendance

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"staffport.io/staffport/core/models"
	"staffport.io/staffport/utils"
)

const (
	siteLat = 6.5244
	siteLon = 3.3792
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))
	return db
}

func seedStaff(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := models.User{
		Name:     "Test Staff",
		Email:    email,
		Password: []byte("x"),
		Role:     models.RoleStaff,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedTask(t *testing.T, db *gorm.DB, staffID uint, start time.Time) *models.Task {
	t.Helper()

	task := models.Task{
		Title:              "Install site equipment",
		Status:             models.TaskAssigned,
		Latitude:           utils.Ptr(siteLat),
		Longitude:          utils.Ptr(siteLon),
		ScheduledStartTime: &start,
		AssigneeID:         &staffID,
		TotalHours:         8,
		CreatedByID:        1,
	}
	require.NoError(t, db.Create(&task).Error)
	return &task
}

func onsite() Location {
	// ~100m north of the site, well inside the 500m geofence.
	return Location{Latitude: 6.5253, Longitude: siteLon, Accuracy: utils.Ptr(10.0)}
}

func TestClockInSucceeds(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "clockin@staffport.local")
	start := time.Now().Add(-5 * time.Minute)
	task := seedTask(t, db, staff.ID, start)

	now := time.Now()
	updated, err := ClockIn(db, task.ID, staff.ID, onsite(), now)
	require.NoError(t, err)

	assert.Equal(t, models.TaskInProgress, updated.Status)
	require.NotNil(t, updated.ClockInTime)
	assert.WithinDuration(t, now, *updated.ClockInTime, time.Second)

	// Persisted, not just mutated in memory.
	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Equal(t, models.TaskInProgress, stored.Status)
	require.NotNil(t, stored.ClockInTime)
}

func TestClockInPreconditions(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "preconditions@staffport.local")
	intruder := seedStaff(t, db, "intruder@staffport.local")
	start := time.Now()

	tests := []struct {
		name     string
		mutate   func(task *models.Task)
		staffID  uint
		loc      Location
		now      time.Time
		expected error
	}{
		{
			name:     "Not the assignee",
			staffID:  intruder.ID,
			loc:      onsite(),
			now:      start,
			expected: ErrNotAssignee,
		},
		{
			name: "Cancelled task",
			mutate: func(task *models.Task) {
				db.Model(task).Update("status", models.TaskCancelled)
			},
			staffID:  staff.ID,
			loc:      onsite(),
			now:      start,
			expected: ErrTaskClosed,
		},
		{
			name:    "Imprecise location",
			staffID: staff.ID,
			loc: Location{
				Latitude: 6.5253, Longitude: siteLon,
				Accuracy: utils.Ptr(150.0),
			},
			now:      start,
			expected: ErrImpreciseLocation,
		},
		{
			name:     "Outside the check-in window",
			staffID:  staff.ID,
			loc:      onsite(),
			now:      start.Add(31 * time.Minute),
			expected: ErrOutsideWindow,
		},
		{
			name: "No site coordinates",
			mutate: func(task *models.Task) {
				db.Model(task).Updates(map[string]interface{}{
					"latitude":  nil,
					"longitude": nil,
				})
			},
			staffID:  staff.ID,
			loc:      onsite(),
			now:      start,
			expected: ErrNoSiteLocation,
		},
		{
			name:    "Outside the geofence",
			staffID: staff.ID,
			loc: Location{
				// ~600m north of the site.
				Latitude: 6.5298, Longitude: siteLon,
				Accuracy: utils.Ptr(10.0),
			},
			now:      start,
			expected: ErrTooFarFromSite,
		},
		{
			name: "Already clocked in",
			mutate: func(task *models.Task) {
				db.Model(task).Update("clock_in_time", start.Add(-time.Minute))
			},
			staffID:  staff.ID,
			loc:      onsite(),
			now:      start,
			expected: ErrAlreadyClockedIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := seedTask(t, db, staff.ID, start)
			if tt.mutate != nil {
				tt.mutate(task)
			}

			_, err := ClockIn(db, task.ID, tt.staffID, tt.loc, tt.now)
			assert.ErrorIs(t, err, tt.expected)

			// A rejected clock-in never mutates the clock fields.
			if tt.expected != ErrAlreadyClockedIn {
				var stored models.Task
				require.NoError(t, db.First(&stored, task.ID).Error)
				assert.Nil(t, stored.ClockInTime)
			}
		})
	}
}

func TestClockInUnknownTask(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "unknown@staffport.local")

	_, err := ClockIn(db, 9999, staff.ID, onsite(), time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClockInTwiceRejected(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "twice@staffport.local")
	task := seedTask(t, db, staff.ID, time.Now())

	_, err := ClockIn(db, task.ID, staff.ID, onsite(), time.Now())
	require.NoError(t, err)

	// Valid location and time make no difference the second time around.
	_, err = ClockIn(db, task.ID, staff.ID, onsite(), time.Now())
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)
}

func TestClockOutSucceeds(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "clockout@staffport.local")
	task := seedTask(t, db, staff.ID, time.Now().Add(-4*time.Hour))

	clockIn := time.Now().Add(-3*time.Hour - 30*time.Minute)
	require.NoError(t, db.Model(task).Updates(map[string]interface{}{
		"clock_in_time": clockIn,
		"status":        models.TaskInProgress,
	}).Error)

	now := time.Now()
	updated, err := ClockOut(db, task.ID, staff.ID, "replaced faulty breaker panel", now)
	require.NoError(t, err)

	assert.Equal(t, models.TaskCompleted, updated.Status)
	require.NotNil(t, updated.ClockOutTime)
	assert.Equal(t, "replaced faulty breaker panel", updated.WorkSummary)
	assert.InDelta(t, 3.5, updated.HoursSpent, 0.01)

	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Equal(t, models.TaskCompleted, stored.Status)
	assert.InDelta(t, 3.5, stored.HoursSpent, 0.01)
}

func TestClockOutPreconditions(t *testing.T) {
	db := newTestDB(t)
	staff := seedStaff(t, db, "outchecks@staffport.local")
	intruder := seedStaff(t, db, "outintruder@staffport.local")

	t.Run("Without prior clock-in", func(t *testing.T) {
		task := seedTask(t, db, staff.ID, time.Now())

		_, err := ClockOut(db, task.ID, staff.ID, "summary", time.Now())
		assert.ErrorIs(t, err, ErrNotClockedIn)
	})

	t.Run("Missing work summary", func(t *testing.T) {
		task := seedTask(t, db, staff.ID, time.Now())
		require.NoError(t, db.Model(task).Update("clock_in_time", time.Now()).Error)

		_, err := ClockOut(db, task.ID, staff.ID, "   ", time.Now())
		assert.ErrorIs(t, err, ErrMissingWorkSummary)
	})

	t.Run("Not the assignee", func(t *testing.T) {
		task := seedTask(t, db, staff.ID, time.Now())
		require.NoError(t, db.Model(task).Update("clock_in_time", time.Now()).Error)

		_, err := ClockOut(db, task.ID, intruder.ID, "summary", time.Now())
		assert.ErrorIs(t, err, ErrNotAssignee)
	})

	t.Run("Already clocked out", func(t *testing.T) {
		task := seedTask(t, db, staff.ID, time.Now())
		require.NoError(t, db.Model(task).Update("clock_in_time", time.Now().Add(-time.Hour)).Error)

		_, err := ClockOut(db, task.ID, staff.ID, "first summary", time.Now())
		require.NoError(t, err)

		_, err = ClockOut(db, task.ID, staff.ID, "second summary", time.Now())
		assert.ErrorIs(t, err, ErrAlreadyClockedOut)
	})
}

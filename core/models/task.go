package models

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Terminal reports whether no further lifecycle transitions are allowed.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskCancelled
}

type Task struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:190;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ClientName  string     `gorm:"size:190" json:"clientName"`
	Status      TaskStatus `gorm:"size:20;not null;default:pending" json:"status"`

	// Work site coordinates, set once at creation.
	Latitude  *float64 `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude *float64 `gorm:"type:decimal(10,7)" json:"longitude"`

	ScheduledStartTime *time.Time `json:"scheduledStartTime"`
	ScheduledEndTime   *time.Time `json:"scheduledEndTime"`

	// Set exactly once each, only by the clock-in / clock-out operations.
	ClockInTime  *time.Time `json:"clockInTime"`
	ClockOutTime *time.Time `json:"clockOutTime"`

	HoursSpent  float64 `gorm:"type:decimal(10,2)" json:"hoursSpent"`
	TotalHours  float64 `gorm:"type:decimal(10,2)" json:"totalHours"`
	WorkSummary string  `gorm:"type:text" json:"workSummary"`

	AssigneeID  *uint `gorm:"index" json:"assigneeId"`
	Assignee    *User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	CreatedByID uint  `json:"createdById"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) HasCoordinates() bool {
	return t.Latitude != nil && t.Longitude != nil
}

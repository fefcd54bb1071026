package models

import "time"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type LeaveRequest struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	StaffID     uint        `gorm:"index;not null" json:"staffId"`
	Staff       *User       `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	StartDate   time.Time   `gorm:"type:date;not null" json:"startDate"`
	EndDate     time.Time   `gorm:"type:date;not null" json:"endDate"`
	Reason      string      `gorm:"type:text" json:"reason"`
	Status      LeaveStatus `gorm:"size:20;not null;default:pending" json:"status"`
	DecidedByID *uint       `json:"decidedById"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

package tasks

import "time"

type TaskCreateDTO struct {
	Title              string     `json:"title" binding:"required"`
	Description        string     `json:"description"`
	ClientName         string     `json:"clientName"`
	Latitude           *float64   `json:"latitude" binding:"omitempty,latitude"`
	Longitude          *float64   `json:"longitude" binding:"omitempty,longitude"`
	ScheduledStartTime *time.Time `json:"scheduledStartTime"`
	ScheduledEndTime   *time.Time `json:"scheduledEndTime"`
	TotalHours         float64    `json:"totalHours" binding:"omitempty,min=0"`
	AssigneeID         *uint      `json:"assigneeId"`
}

type TaskUpdateDTO struct {
	Title              *string    `json:"title,omitempty"`
	Description        *string    `json:"description,omitempty"`
	ClientName         *string    `json:"clientName,omitempty"`
	Status             *string    `json:"status,omitempty" binding:"omitempty,oneof=pending assigned in-progress completed cancelled"`
	ScheduledStartTime *time.Time `json:"scheduledStartTime,omitempty"`
	ScheduledEndTime   *time.Time `json:"scheduledEndTime,omitempty"`
	TotalHours         *float64   `json:"totalHours,omitempty" binding:"omitempty,min=0"`
}

func (dto *TaskUpdateDTO) updates() map[string]interface{} {
	m := map[string]interface{}{}
	if dto.Title != nil {
		m["title"] = *dto.Title
	}
	if dto.Description != nil {
		m["description"] = *dto.Description
	}
	if dto.ClientName != nil {
		m["client_name"] = *dto.ClientName
	}
	if dto.Status != nil {
		m["status"] = *dto.Status
	}
	if dto.ScheduledStartTime != nil {
		m["scheduled_start_time"] = *dto.ScheduledStartTime
	}
	if dto.ScheduledEndTime != nil {
		m["scheduled_end_time"] = *dto.ScheduledEndTime
	}
	if dto.TotalHours != nil {
		m["total_hours"] = *dto.TotalHours
	}
	return m
}

type TaskAssignDTO struct {
	StaffID uint `json:"staffId" binding:"required"`
}

// Coordinates are pointers so 0.0 (equator, prime meridian) still binds;
// required on a plain float64 would reject it as missing.
type ClockInDTO struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
	Accuracy  *float64 `json:"accuracy" binding:"omitempty,min=0"`
}

type ClockOutDTO struct {
	Latitude    *float64 `json:"latitude" binding:"required,latitude"`
	Longitude   *float64 `json:"longitude" binding:"required,longitude"`
	WorkSummary string   `json:"workSummary" binding:"required"`
}

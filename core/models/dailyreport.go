package models

import "time"

type DailyReport struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StaffID uint      `gorm:"index;not null" json:"staffId"`
	Staff   *User     `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Date    time.Time `gorm:"type:date;not null" json:"date"`
	Summary string    `gorm:"type:text;not null" json:"summary"`
	Hours   float64   `gorm:"type:decimal(10,2)" json:"hours"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (DailyReport) TableName() string {
	return "daily_reports"
}

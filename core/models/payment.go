package models

import "time"

// Payment is a pay-stub record the staff member can view.
type Payment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StaffID     uint      `gorm:"index;not null" json:"staffId"`
	Staff       *User     `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	PeriodStart time.Time `gorm:"type:date;not null" json:"periodStart"`
	PeriodEnd   time.Time `gorm:"type:date;not null" json:"periodEnd"`
	Amount      float64   `gorm:"type:decimal(13,2);not null" json:"amount"`
	Reference   string    `gorm:"size:100" json:"reference"`
	Notes       string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Payment) TableName() string {
	return "payments"
}

package models

import "time"

// ReviewToken backs a single-use review-access link. The row is authoritative:
// a redemption only succeeds when UsedAt flips from NULL in one conditional
// update, regardless of what the signed credential says.
type ReviewToken struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Jti       string     `gorm:"size:36;uniqueIndex;not null" json:"jti"`
	UserID    uint       `gorm:"index;not null" json:"userId"`
	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	ExpiresAt time.Time  `gorm:"index;not null" json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ReviewToken) TableName() string {
	return "review_tokens"
}

package models

import "time"

// Document is file metadata; the content itself lives in S3 under StorageKey.
type Document struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID      uint   `gorm:"index;not null" json:"ownerId"`
	Owner        *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	FileName     string `gorm:"size:255;not null" json:"fileName"`
	ContentType  string `gorm:"size:100" json:"contentType"`
	StorageKey   string `gorm:"size:255;uniqueIndex;not null" json:"-"`
	Size         int64  `json:"size"`
	UploadedByID uint   `json:"uploadedById"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Document) TableName() string {
	return "documents"
}

package models

import "time"

// User rows mirror identity-provider subjects. They are created and deleted
// by lifecycle webhooks, never by direct API calls.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:100"`
	Username  string    `json:"username" gorm:"size:200;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// Associations
	Collections []Collection `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

package models

import "time"

// Collection names are unique per owner; only the owner may mutate one.
type Collection struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:200;not null;uniqueIndex:idx_collections_owner_name"`
	UserID    string    `json:"user_id" gorm:"size:100;not null;uniqueIndex:idx_collections_owner_name;index"`
	Public    bool      `json:"public" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// Associations
	User  *User            `json:"-" gorm:"foreignKey:UserID"`
	Books []CollectionBook `json:"-" gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
}

func (Collection) TableName() string {
	return "collections"
}

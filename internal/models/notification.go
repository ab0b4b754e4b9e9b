package models

import (
	"gorm.io/datatypes"
)

// Notification is one delivery attempt of an accident alert. Rows are
// append-only: the set of sent rows for an accident doubles as the
// recipient roster for the handled notice.
type Notification struct {
	BaseModel

	AccidentID uint           `gorm:"not null;index"`
	Channel    string         `gorm:"not null"` // "telegram", "whatsapp"
	Address    string         `gorm:"not null"`
	Status     string         `gorm:"not null"` // "sent", "failed"
	Detail     datatypes.JSON `gorm:"type:jsonb"` // raw provider response

	// Relationships
	Accident Accident `gorm:"foreignKey:AccidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

package models

import "time"

type Accident struct {
	BaseModel

	CameraID    uint    `gorm:"not null;index"`
	Severity    string  `gorm:"not null"` // "Fatal", "Serious", "Normal"
	Photo       string  `gorm:"not null"`
	Description string
	Confidence  float64

	// Handling state. Set exactly once by the resolver's conditional update.
	IsHandled bool    `gorm:"not null;default:false"`
	HandledBy *string
	HandledAt *time.Time

	// Relationships
	Camera        Camera         `gorm:"foreignKey:CameraID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications []Notification `gorm:"foreignKey:AccidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

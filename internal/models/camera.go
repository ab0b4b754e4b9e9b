package models

type Camera struct {
	BaseModel

	Name      string  `gorm:"not null"`
	IPAddress string  `gorm:"uniqueIndex;not null"`
	StreamURL string
	City      string  `gorm:"not null"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	Status    string  `gorm:"not null;default:online"` // "online", "offline"

	// Relationships
	Accidents []Accident `gorm:"foreignKey:CameraID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Contacts  []Contact  `gorm:"foreignKey:CameraID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

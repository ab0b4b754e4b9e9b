package models

type Contact struct {
	BaseModel

	CameraID uint   `gorm:"not null;uniqueIndex:idx_camera_channel_address"`
	Channel  string `gorm:"not null;uniqueIndex:idx_camera_channel_address"` // "telegram", "whatsapp"
	Address  string `gorm:"not null;uniqueIndex:idx_camera_channel_address"` // chat ID or phone number
	Name     string
	Active   bool `gorm:"not null;default:true"`

	// Relationships
	Camera Camera `gorm:"foreignKey:CameraID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

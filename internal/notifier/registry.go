package notifier

import (
	"errors"
	"strings"

	"github.com/sentra-dev/sentra/internal/models"
	"github.com/sentra-dev/sentra/internal/types"
	"gorm.io/gorm"
)

// ContactRegistry manages the per-camera, per-channel recipient lists.
// Removal is logical so historical notification rows keep their linkage.
type ContactRegistry struct {
	db *gorm.DB
}

func NewContactRegistry(db *gorm.DB) *ContactRegistry {
	return &ContactRegistry{db: db}
}

// List returns the active contacts of a camera for one channel.
func (r *ContactRegistry) List(cameraID uint, channel string) ([]models.Contact, error) {
	var contacts []models.Contact

	err := r.db.Where("camera_id = ? AND channel = ? AND active = ?", cameraID, channel, true).
		Find(&contacts).Error

	if err != nil {
		return nil, err
	}

	return contacts, nil
}

// Add registers an address for a camera's channel. Re-adding an existing
// address, active or not, reactivates it and refreshes the display name
// instead of creating a duplicate.
func (r *ContactRegistry) Add(cameraID uint, channel, address, name string) (*models.Contact, error) {
	address = strings.TrimSpace(address)

	if address == "" {
		return nil, ErrEmptyAddress
	}

	if channel == types.ChannelWhatsApp {
		address = FormatPhoneNumber(address)
	}

	var camera models.Camera

	if err := r.db.First(&camera, cameraID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var contact models.Contact

	err := r.db.Where("camera_id = ? AND channel = ? AND address = ?", cameraID, channel, address).
		First(&contact).Error

	if err == nil {
		contact.Active = true
		contact.Name = name

		if err := r.db.Save(&contact).Error; err != nil {
			return nil, err
		}

		return &contact, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	contact = models.Contact{
		CameraID: cameraID,
		Channel:  channel,
		Address:  address,
		Name:     name,
		Active:   true,
	}

	if err := r.db.Create(&contact).Error; err != nil {
		return nil, err
	}

	return &contact, nil
}

// Remove deactivates a contact. The row is kept for audit linkage.
func (r *ContactRegistry) Remove(contactID uint) error {
	result := r.db.Model(&models.Contact{}).Where("id = ?", contactID).Update("active", false)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

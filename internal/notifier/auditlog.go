package notifier

import (
	"github.com/sentra-dev/sentra/internal/models"
	"github.com/sentra-dev/sentra/internal/types"
	"gorm.io/gorm"
)

// AuditLog is the append-only record of every alert delivery attempt. Its
// sent rows are also the recipient roster for the handled notice.
type AuditLog struct {
	db *gorm.DB
}

func NewAuditLog(db *gorm.DB) *AuditLog {
	return &AuditLog{db: db}
}

// Append records one delivery attempt, successful or not.
func (l *AuditLog) Append(accidentID uint, channel, address, status string, detail []byte) error {
	record := models.Notification{
		AccidentID: accidentID,
		Channel:    channel,
		Address:    address,
		Status:     status,
		Detail:     detail,
	}

	return l.db.Create(&record).Error
}

// Recipient is one (channel, address) pair that received an alert.
type Recipient struct {
	Channel string
	Address string
}

// Recipients lists the distinct recipients whose original alert was sent
// successfully. Failed attempts are excluded: there is no point telling an
// address the accident is handled when it never heard about the accident.
func (l *AuditLog) Recipients(accidentID uint) ([]Recipient, error) {
	var recipients []Recipient

	err := l.db.Model(&models.Notification{}).
		Select("DISTINCT channel, address").
		Where("accident_id = ? AND status = ?", accidentID, types.StatusSent).
		Scan(&recipients).Error

	if err != nil {
		return nil, err
	}

	return recipients, nil
}

// ListByAccident returns the full audit trail for an accident.
func (l *AuditLog) ListByAccident(accidentID uint) ([]models.Notification, error) {
	var records []models.Notification

	err := l.db.Where("accident_id = ?", accidentID).
		Order("created_at ASC").
		Find(&records).Error

	if err != nil {
		return nil, err
	}

	return records, nil
}

package notifier

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/sentra-dev/sentra/internal/models"
	"gorm.io/gorm"
)

// Resolver arbitrates the race among responders claiming the same accident.
// The Open→Handled transition happens as a single conditional UPDATE, so it
// is safe across processes without any application-level lock.
type Resolver struct {
	db         *gorm.DB
	dispatcher Dispatcher
}

func NewResolver(db *gorm.DB, dispatcher Dispatcher) *Resolver {
	return &Resolver{db: db, dispatcher: dispatcher}
}

// Claim marks the accident as handled by actorAddress if and only if nobody
// got there first. The loser receives AlreadyHandledError naming the winner.
// On a win, everyone else who received the original alert gets a handled
// notice; those sends never affect the already-committed claim.
func (r *Resolver) Claim(ctx context.Context, accidentID uint, actorAddress string) (*models.Accident, error) {
	actorAddress = strings.TrimSpace(actorAddress)

	if actorAddress == "" {
		return nil, ErrEmptyAddress
	}

	result := r.db.Model(&models.Accident{}).
		Where("id = ? AND is_handled = ?", accidentID, false).
		Updates(map[string]interface{}{
			"is_handled": true,
			"handled_by": actorAddress,
			"handled_at": time.Now(),
		})

	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Either the accident does not exist or someone already claimed it.
		var existing models.Accident

		if err := r.db.First(&existing, accidentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		handler := ""
		if existing.HandledBy != nil {
			handler = *existing.HandledBy
		}

		return nil, &AlreadyHandledError{Handler: handler}
	}

	var accident models.Accident

	if err := r.db.Preload("Camera").First(&accident, accidentID).Error; err != nil {
		return nil, err
	}

	notified, err := r.dispatcher.NotifyResolved(ctx, &accident, actorAddress)

	if err != nil {
		log.Printf("Failed to broadcast handled notice for accident %d: %v", accidentID, err)
	} else {
		log.Printf("Accident %d claimed by %s, %d other recipients notified", accidentID, actorAddress, notified)
	}

	return &accident, nil
}

// Reject acknowledges that an actor declined the accident. It never touches
// the handling state.
func (r *Resolver) Reject(ctx context.Context, accidentID uint, actorAddress string) (*models.Accident, error) {
	var accident models.Accident

	if err := r.db.Preload("Camera").First(&accident, accidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	log.Printf("Accident %d rejected by %s", accidentID, actorAddress)

	return &accident, nil
}

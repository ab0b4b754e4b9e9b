package notifier

import (
	"context"
	"sync"
	"testing"

	"github.com/sentra-dev/sentra/internal/models"
	"github.com/sentra-dev/sentra/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingDispatcher captures NotifyResolved calls without any I/O.
type recordingDispatcher struct {
	mu       sync.Mutex
	resolved []string
}

func (d *recordingDispatcher) FanOut(_ context.Context, _ *models.Accident, _ *models.Camera) ([]Outcome, error) {
	return []Outcome{}, nil
}

func (d *recordingDispatcher) NotifyResolved(_ context.Context, _ *models.Accident, handlerAddress string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resolved = append(d.resolved, handlerAddress)

	return 0, nil
}

func newTestResolver(t *testing.T) (*Resolver, *recordingDispatcher, *gorm.DB) {
	t.Helper()

	db := setupDB(t)
	dispatcher := &recordingDispatcher{}

	return NewResolver(db, dispatcher), dispatcher, db
}

func TestClaimMarksAccidentHandled(t *testing.T) {
	resolver, dispatcher, db := newTestResolver(t)
	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)

	claimed, err := resolver.Claim(context.Background(), accident.ID, "111")
	require.NoError(t, err)
	require.True(t, claimed.IsHandled)
	require.NotNil(t, claimed.HandledBy)
	require.Equal(t, "111", *claimed.HandledBy)
	require.NotNil(t, claimed.HandledAt)
	require.Equal(t, camera.City, claimed.Camera.City)

	require.Equal(t, []string{"111"}, dispatcher.resolved)
}

func TestClaimLoserGetsWinner(t *testing.T) {
	resolver, dispatcher, db := newTestResolver(t)
	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)

	_, err := resolver.Claim(context.Background(), accident.ID, "111")
	require.NoError(t, err)

	_, err = resolver.Claim(context.Background(), accident.ID, "222")

	var alreadyHandled *AlreadyHandledError
	require.ErrorAs(t, err, &alreadyHandled)
	require.Equal(t, "111", alreadyHandled.Handler)

	// Only the winner triggered a handled broadcast.
	require.Equal(t, []string{"111"}, dispatcher.resolved)

	var stored models.Accident
	require.NoError(t, db.First(&stored, accident.ID).Error)
	require.Equal(t, "111", *stored.HandledBy)
}

func TestClaimValidation(t *testing.T) {
	resolver, _, db := newTestResolver(t)
	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)

	_, err := resolver.Claim(context.Background(), accident.ID, "  ")
	require.ErrorIs(t, err, ErrEmptyAddress)

	_, err = resolver.Claim(context.Background(), 999, "111")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentClaimsHaveOneWinner(t *testing.T) {
	resolver, dispatcher, db := newTestResolver(t)
	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)

	actors := []string{"111", "222", "333", "444", "555", "666", "777", "888"}

	var wg sync.WaitGroup

	var mu sync.Mutex
	results := map[string]error{}

	for _, actor := range actors {
		wg.Add(1)

		go func(actor string) {
			defer wg.Done()

			_, err := resolver.Claim(context.Background(), accident.ID, actor)

			mu.Lock()
			results[actor] = err
			mu.Unlock()
		}(actor)
	}

	wg.Wait()

	winners := []string{}

	for actor, err := range results {
		if err == nil {
			winners = append(winners, actor)
			continue
		}

		var alreadyHandled *AlreadyHandledError
		require.ErrorAs(t, err, &alreadyHandled)
	}

	require.Len(t, winners, 1)

	// Every loser was told the same, correct winner.
	for actor, err := range results {
		if actor == winners[0] {
			continue
		}

		var alreadyHandled *AlreadyHandledError
		require.ErrorAs(t, err, &alreadyHandled)
		require.Equal(t, winners[0], alreadyHandled.Handler)
	}

	var stored models.Accident
	require.NoError(t, db.First(&stored, accident.ID).Error)
	require.True(t, stored.IsHandled)
	require.Equal(t, winners[0], *stored.HandledBy)

	require.Equal(t, winners, dispatcher.resolved)
}

func TestRejectNeverMutates(t *testing.T) {
	resolver, dispatcher, db := newTestResolver(t)
	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)

	_, err := resolver.Reject(context.Background(), accident.ID, "111")
	require.NoError(t, err)

	var stored models.Accident
	require.NoError(t, db.First(&stored, accident.ID).Error)
	require.False(t, stored.IsHandled)
	require.Nil(t, stored.HandledBy)
	require.Nil(t, stored.HandledAt)
	require.Empty(t, dispatcher.resolved)

	// Rejecting after a claim leaves the winner untouched too.
	_, err = resolver.Claim(context.Background(), accident.ID, "111")
	require.NoError(t, err)

	_, err = resolver.Reject(context.Background(), accident.ID, "222")
	require.NoError(t, err)

	require.NoError(t, db.First(&stored, accident.ID).Error)
	require.Equal(t, "111", *stored.HandledBy)

	_, err = resolver.Reject(context.Background(), 999, "111")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClaimThenResolutionRoster(t *testing.T) {
	// End to end through the real dispatcher: fan out, claim, and check the
	// handled notices reach exactly the other successful recipients.
	db := setupDB(t)
	registry := NewContactRegistry(db)
	audit := NewAuditLog(db)
	telegram := newFakeGateway(types.ChannelTelegram)
	whatsapp := newFakeGateway(types.ChannelWhatsApp)
	dispatcher := NewDispatcher(registry, audit, "http://localhost:3000", telegram, whatsapp)
	resolver := NewResolver(db, dispatcher)

	camera := seedCamera(t, db)
	accident := seedAccident(t, db, camera.ID)

	_, err := registry.Add(camera.ID, types.ChannelTelegram, "111", "A")
	require.NoError(t, err)
	_, err = registry.Add(camera.ID, types.ChannelTelegram, "222", "B")
	require.NoError(t, err)
	_, err = registry.Add(camera.ID, types.ChannelWhatsApp, "628123", "C")
	require.NoError(t, err)

	outcomes, err := dispatcher.FanOut(context.Background(), &accident, &camera)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	_, err = resolver.Claim(context.Background(), accident.ID, "111")
	require.NoError(t, err)

	// 111 got only the original alert; 222 and the WhatsApp contact also got
	// the handled notice.
	require.ElementsMatch(t, []string{"111", "222", "222"}, telegram.addresses())
	require.ElementsMatch(t, []string{"628123", "628123"}, whatsapp.addresses())

	// The handled notices were not appended to the audit trail.
	records, err := audit.ListByAccident(accident.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
}

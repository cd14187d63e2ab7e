package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"courier-booking/models/asset"
	"courier-booking/models/shipment"
	"courier-booking/models/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo ShipmentRepository, n int, userID uint) {
	t.Helper()
	base := time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s := &shipment.Shipment{
			Code:        fmt.Sprintf("SH%010d", i),
			UserID:      userID,
			Sender:      shipment.Party{Name: fmt.Sprintf("Sender %d", i), City: "Pune"},
			Receiver:    shipment.Party{Name: fmt.Sprintf("Receiver %d", i), City: "Delhi"},
			BookingDate: base.Add(time.Duration(i) * time.Hour),
			Stage:       shipment.StageBooked,
		}
		require.NoError(t, repo.Create(context.Background(), s, shipment.ShipmentStatusEvent{Stage: shipment.StageBooked}))
	}
}

func TestMemoryUsers(t *testing.T) {
	users := NewMemoryStore().Users()
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &user.User{Uuid: "u1", Email: " Asha@Example.com "}))
	assert.ErrorIs(t, users.Create(ctx, &user.User{Uuid: "u2", Email: "asha@example.com"}), ErrDuplicate)

	found, err := users.FindByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.Uuid)

	_, err = users.FindByUUID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryShipmentsListPagination(t *testing.T) {
	repo := NewMemoryStore().Shipments()
	seed(t, repo, 25, 1)
	ctx := context.Background()

	page, err := repo.List(ctx, ShipmentFilter{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Shipments, 5)
	assert.EqualValues(t, 25, page.TotalCount)
	assert.EqualValues(t, 3, page.TotalPages())

	first, err := repo.List(ctx, ShipmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, "SH0000000024", first.Shipments[0].Code, "newest first")

	filtered, err := repo.List(ctx, ShipmentFilter{Query: "receiver 7"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, filtered.TotalCount)

	from := time.Date(2026, time.January, 1, 20, 0, 0, 0, time.UTC)
	ranged, err := repo.List(ctx, ShipmentFilter{From: &from, Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 14, ranged.TotalCount)
}

func TestMemoryShipmentsUpdateStage(t *testing.T) {
	repo := NewMemoryStore().Shipments()
	seed(t, repo, 1, 1)
	ctx := context.Background()

	updated, err := repo.UpdateStage(ctx, "sh0000000000", shipment.ShipmentStatusEvent{Stage: shipment.StageInTransit}, "ops")
	require.NoError(t, err)
	assert.Equal(t, shipment.StageInTransit, updated.Stage)
	assert.Equal(t, "ops", updated.UpdatedBy)

	_, err = repo.UpdateStage(ctx, "SH0000000000", shipment.ShipmentStatusEvent{Stage: shipment.StageBooked}, "ops")
	assert.ErrorIs(t, err, shipment.ErrIllegalTransition)

	_, err = repo.UpdateStage(ctx, "SH9999999999", shipment.ShipmentStatusEvent{Stage: shipment.StageInTransit}, "ops")
	assert.ErrorIs(t, err, ErrNotFound)

	events, err := repo.Events(ctx, updated.ID)
	require.NoError(t, err)
	require.Len(t, events, 2, "rejected transition must not append an event")
	assert.Equal(t, shipment.StageInTransit, events[1].Stage)
}

func TestMemoryQRCodes(t *testing.T) {
	qr := NewMemoryStore().QRCodes()
	ctx := context.Background()

	_, err := qr.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, qr.Create(ctx, &asset.PaymentQRCode{FileName: "a.png"}))
	require.NoError(t, qr.Create(ctx, &asset.PaymentQRCode{FileName: "b.png"}))
	latest, err := qr.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b.png", latest.FileName)
}

func TestMemoryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryStore().Shipments().FindByCode(ctx, "SH0000000000")
	assert.ErrorIs(t, err, context.Canceled)
}

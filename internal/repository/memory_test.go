package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-platform/internal/model"
	"github.com/iliyamo/movie-ticket-platform/internal/repository"
)

func seedShowtime(t *testing.T, store *repository.MemoryStore, capacity uint32) uint64 {
	t.Helper()
	theaterID := store.AddTheater("Grand Hall", "Main Street 1", capacity)
	starts := time.Now().UTC().Add(24 * time.Hour)
	return store.AddShowtime(theaterID, "Alien", starts, starts.Add(2*time.Hour), 1200)
}

func TestLedger_CreateBookedIsUnique(t *testing.T) {
	store := repository.NewMemoryStore()
	showtimeID := seedShowtime(t, store, 10)
	ledger := store.Ledger()
	ctx := context.Background()

	claim, err := ledger.CreateBooked(ctx, showtimeID, "A", "1", 1)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimBooked, claim.Status)
	assert.Equal(t, uint32(1), claim.Version)

	_, err = ledger.CreateBooked(ctx, showtimeID, "A", "1", 2)
	assert.ErrorIs(t, err, repository.ErrSeatAlreadyBooked)
}

func TestLedger_PromoteWithVersionIsCompareAndSwap(t *testing.T) {
	store := repository.NewMemoryStore()
	showtimeID := seedShowtime(t, store, 10)
	ledger := store.Ledger()
	ctx := context.Background()

	claim, err := ledger.AcquireLock(ctx, showtimeID, "A", "1", 1, time.Minute)
	require.NoError(t, err)

	// A write with the observed version wins and bumps the version.
	require.NoError(t, ledger.PromoteWithVersion(ctx, claim.ID, 1, claim.Version))

	// Replays with the old version lose.
	err = ledger.PromoteWithVersion(ctx, claim.ID, 2, claim.Version)
	assert.ErrorIs(t, err, repository.ErrStaleWrite)

	got, err := ledger.GetClaim(ctx, showtimeID, "A", "1")
	require.NoError(t, err)
	assert.Equal(t, model.ClaimBooked, got.Status)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, uint64(1), *got.CustomerID)
}

func TestLedger_AcquireLockRespectsLiveHolds(t *testing.T) {
	store := repository.NewMemoryStore()
	showtimeID := seedShowtime(t, store, 10)
	ledger := store.Ledger()
	ctx := context.Background()

	_, err := ledger.AcquireLock(ctx, showtimeID, "A", "1", 1, time.Minute)
	require.NoError(t, err)

	// Someone else is blocked while the hold is live.
	_, err = ledger.AcquireLock(ctx, showtimeID, "A", "1", 2, time.Minute)
	assert.ErrorIs(t, err, repository.ErrSeatLocked)

	// The owner re-acquiring extends the hold.
	again, err := ledger.AcquireLock(ctx, showtimeID, "A", "1", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimReserved, again.Status)
}

func TestLedger_ExpiredHoldIsTakeable(t *testing.T) {
	store := repository.NewMemoryStore()
	showtimeID := seedShowtime(t, store, 10)
	ledger := store.Ledger()
	ctx := context.Background()

	_, err := ledger.AcquireLock(ctx, showtimeID, "A", "1", 1, 10*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(25 * time.Millisecond)

	claim, err := ledger.AcquireLock(ctx, showtimeID, "A", "1", 2, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, claim.CustomerID)
	assert.Equal(t, uint64(2), *claim.CustomerID)
}

func TestLedger_ReleaseLockOwnership(t *testing.T) {
	store := repository.NewMemoryStore()
	showtimeID := seedShowtime(t, store, 10)
	ledger := store.Ledger()
	ctx := context.Background()

	_, err := ledger.AcquireLock(ctx, showtimeID, "A", "1", 1, time.Minute)
	require.NoError(t, err)

	assert.ErrorIs(t, ledger.ReleaseLock(ctx, showtimeID, "A", "1", 2), repository.ErrLockNotHeld)
	assert.NoError(t, ledger.ReleaseLock(ctx, showtimeID, "A", "1", 1))

	claim, err := ledger.GetClaim(ctx, showtimeID, "A", "1")
	require.NoError(t, err)
	assert.Equal(t, model.ClaimAvailable, claim.Status)
	assert.Nil(t, claim.CustomerID)
}

func TestShowtimes_CounterGuard(t *testing.T) {
	store := repository.NewMemoryStore()
	showtimeID := seedShowtime(t, store, 2)
	showtimes := store.Showtimes()
	ctx := context.Background()

	require.NoError(t, showtimes.AdjustAvailableSeats(ctx, showtimeID, -1))
	require.NoError(t, showtimes.AdjustAvailableSeats(ctx, showtimeID, -1))

	// Below zero and above capacity are both refused.
	assert.ErrorIs(t, showtimes.AdjustAvailableSeats(ctx, showtimeID, -1), repository.ErrCounterOutOfRange)
	require.NoError(t, showtimes.AdjustAvailableSeats(ctx, showtimeID, 2))
	assert.ErrorIs(t, showtimes.AdjustAvailableSeats(ctx, showtimeID, 1), repository.ErrCounterOutOfRange)
}

func TestTickets_OwnershipLookup(t *testing.T) {
	store := repository.NewMemoryStore()
	showtimeID := seedShowtime(t, store, 10)
	tickets := store.Tickets()
	ctx := context.Background()

	tk := &model.Ticket{
		ShowtimeID:  showtimeID,
		CustomerID:  1,
		RowLabel:    "A",
		SeatNumber:  "1",
		PriceCents:  1200,
		Status:      model.TicketConfirmed,
		PurchasedAt: time.Now().UTC(),
	}
	require.NoError(t, tickets.Create(ctx, tk))
	require.NotZero(t, tk.ID)

	_, err := tickets.GetByIDForCustomer(ctx, tk.ID, 2)
	assert.ErrorIs(t, err, repository.ErrTicketNotFound, "foreign tickets look missing")

	got, err := tickets.GetByIDForCustomer(ctx, tk.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", got.RowLabel)

	active, err := tickets.HasActive(ctx, showtimeID, "A", "1")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, tickets.SetStatus(ctx, tk.ID, model.TicketCancelled))
	active, err = tickets.HasActive(ctx, showtimeID, "A", "1")
	require.NoError(t, err)
	assert.False(t, active, "cancelled tickets do not block the seat")
}

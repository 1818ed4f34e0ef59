package services

import (
	"context"
	"errors"
	"testing"

	"parkslot/models"
	"parkslot/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putReservation(t *testing.T, st store.Store, res models.Reservation) {
	t.Helper()
	require.NoError(t, st.Set(context.Background(), "reservations/"+res.ID, res.ToDocument()))
}

func TestLedgerLoadEmptyStore(t *testing.T) {
	ledger := NewLedger(store.NewMemoryStore())

	reservations, err := ledger.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reservations, "empty store means empty ledger, no seeding")
}

func TestLedgerLoadAndLookups(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	putReservation(t, st, models.Reservation{
		ID: "r1", Name: "Alice", Slot: "3", Time: "10:00:00 AM",
		Gender: "Female", VehicleType: "Two-Wheeler",
		VehicleNumber: "KA01AB1234", PaymentMethod: "Cash",
	})
	putReservation(t, st, models.Reservation{
		ID: "r2", Name: "Bob", Slot: "5", Time: "11:30:00 AM",
		Gender: "Male", VehicleType: "Four-Wheeler",
		VehicleNumber: "KA02CD5678", PaymentMethod: "Online",
	})

	ledger := NewLedger(st)
	reservations, err := ledger.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reservations, 2)

	res, ok := ledger.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "Alice", res.Name)

	res, ok = ledger.ByName("Bob")
	require.True(t, ok)
	assert.Equal(t, "r2", res.ID)

	res, ok = ledger.BySlot("3")
	require.True(t, ok)
	assert.Equal(t, "Alice", res.Name)

	_, ok = ledger.BySlot("6")
	assert.False(t, ok)
}

func TestLedgerAllIsSorted(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	putReservation(t, st, models.Reservation{ID: "r2", Name: "Bob", Slot: "2", Time: "11:30:00 AM"})
	putReservation(t, st, models.Reservation{ID: "r1", Name: "Alice", Slot: "1", Time: "10:00:00 AM"})

	ledger := NewLedger(st)
	_, err := ledger.Load(ctx)
	require.NoError(t, err)

	all := ledger.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].Name)
	assert.Equal(t, "Bob", all[1].Name)
}

func TestLedgerRemove(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	putReservation(t, st, models.Reservation{ID: "r1", Name: "Alice", Slot: "3"})

	ledger := NewLedger(st)
	_, err := ledger.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, ledger.Remove(ctx, "r1"))
	_, ok := ledger.Get("r1")
	assert.False(t, ok)

	_, err = st.Get(ctx, "reservations/r1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLedgerLoadStoreFailure(t *testing.T) {
	st := &flakyStore{Store: store.NewMemoryStore(), getAllErr: errors.New("timeout")}
	ledger := NewLedger(st)

	_, err := ledger.Load(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

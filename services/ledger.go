package services

import (
	"context"
	"sort"
	"sync"

	"parkslot/models"
	"parkslot/store"
)

const reservationsTree = "reservations"

// Ledger materializes every active reservation from the store into an
// id-keyed projection, with name and slot lookups layered on top.
type Ledger struct {
	store store.Store

	mu           sync.RWMutex
	reservations map[string]models.Reservation
}

func NewLedger(st store.Store) *Ledger {
	return &Ledger{store: st, reservations: make(map[string]models.Reservation)}
}

// Load fetches all reservations. An empty store means an empty ledger;
// there is no seeding here.
func (l *Ledger) Load(ctx context.Context) ([]models.Reservation, error) {
	docs, err := l.store.GetAll(ctx, reservationsTree)
	if err != nil {
		return nil, storeFailure("load reservations", err)
	}

	reservations := make(map[string]models.Reservation, len(docs))
	for id, doc := range docs {
		reservations[id] = models.ReservationFromDocument(id, doc)
	}

	l.mu.Lock()
	l.reservations = reservations
	l.mu.Unlock()
	return l.All(), nil
}

// All returns the projection sorted by reservation time then id, so
// list views render in a stable order.
func (l *Ledger) All() []models.Reservation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Reservation, 0, len(l.reservations))
	for _, res := range l.reservations {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Get looks a reservation up by its generated id.
func (l *Ledger) Get(id string) (models.Reservation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	res, ok := l.reservations[id]
	return res, ok
}

// ByName finds a reservation by reserver name. Names are descriptive,
// not unique; the first match in id order wins.
func (l *Ledger) ByName(name string) (models.Reservation, bool) {
	return l.find(func(r models.Reservation) bool { return r.Name == name })
}

// BySlot finds the reservation occupying the given slot.
func (l *Ledger) BySlot(slotID string) (models.Reservation, bool) {
	return l.find(func(r models.Reservation) bool { return r.Slot == slotID })
}

// Remove deletes the store entry and drops it from the projection.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	if err := l.store.Remove(ctx, reservationsTree+"/"+id); err != nil {
		return storeFailure("remove reservation "+id, err)
	}
	l.forget(id)
	return nil
}

// add applies an already-persisted reservation to the projection.
func (l *Ledger) add(res models.Reservation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reservations[res.ID] = res
}

// forget drops a reservation from the projection only.
func (l *Ledger) forget(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.reservations, id)
}

func (l *Ledger) find(match func(models.Reservation) bool) (models.Reservation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.reservations))
	for id := range l.reservations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if res := l.reservations[id]; match(res) {
			return res, true
		}
	}
	return models.Reservation{}, false
}

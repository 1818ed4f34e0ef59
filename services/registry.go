package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"parkslot/models"
	"parkslot/store"
)

const parkingTree = "parking"

// defaultSlotOrder lists the canonical slots: seeded on an empty store
// and pinned to the front of the display order. Ids outside the list
// are appended after it, sorted, so the order stays deterministic.
var defaultSlotOrder = []string{"1", "2", "3", "4", "5", "6"}

// Registry materializes every slot from the store and keeps the ordered
// in-memory projection current as local mutations are applied.
type Registry struct {
	store store.Store

	mu    sync.RWMutex
	slots []models.Slot
}

func NewRegistry(st store.Store) *Registry {
	return &Registry{store: st}
}

// Load fetches all slots, seeding the canonical default set when the
// store is empty. On store failure the projection is cleared and the
// caller gets ErrStoreUnavailable.
func (r *Registry) Load(ctx context.Context) ([]models.Slot, error) {
	docs, err := r.store.GetAll(ctx, parkingTree)
	if err != nil {
		r.mu.Lock()
		r.slots = nil
		r.mu.Unlock()
		return nil, storeFailure("load slots", err)
	}

	if len(docs) == 0 {
		docs = make(map[string]store.Document, len(defaultSlotOrder))
		for _, id := range defaultSlotOrder {
			slot := models.VacantSlot(id)
			docs[id] = slot.ToDocument()
		}
		if err := r.store.SetAll(ctx, parkingTree, docs); err != nil {
			return nil, storeFailure("seed default slots", err)
		}
		log.Printf("Seeded %d default parking slots", len(docs))
	}

	slots := orderSlots(docs)

	r.mu.Lock()
	r.slots = slots
	r.mu.Unlock()
	return r.Slots(), nil
}

// Slots returns a copy of the ordered projection from the last Load.
func (r *Registry) Slots() []models.Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Slot, len(r.slots))
	copy(out, r.slots)
	return out
}

// Get performs a fresh single-slot read, bypassing the projection.
func (r *Registry) Get(ctx context.Context, id string) (models.Slot, error) {
	doc, err := r.store.Get(ctx, parkingTree+"/"+id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Slot{}, fmt.Errorf("slot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Slot{}, storeFailure("get slot "+id, err)
	}
	return models.SlotFromDocument(id, doc), nil
}

// AddSlot introduces a new vacant slot. The id must be non-empty and
// unused; the store-side Create closes the window where two admins add
// the same id at once.
func (r *Registry) AddSlot(ctx context.Context, id string) (models.Slot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Slot{}, &ValidationError{Fields: []string{"id"}}
	}
	if strings.Contains(id, "/") {
		return models.Slot{}, &ValidationError{Fields: []string{"id"}}
	}

	slot := models.VacantSlot(id)
	err := r.store.Create(ctx, parkingTree+"/"+id, slot.ToDocument())
	if errors.Is(err, store.ErrExists) {
		return models.Slot{}, &ValidationError{Fields: []string{"id"}}
	}
	if err != nil {
		return models.Slot{}, storeFailure("add slot "+id, err)
	}

	r.mu.Lock()
	r.slots = append(r.slots, slot)
	r.mu.Unlock()

	log.Printf("Added parking slot %s", id)
	return slot, nil
}

// MarkOccupied partial-updates the slot to occupied and syncs the
// projection. It does not check availability; callers that need the
// claim to be race-free go through the Workflow.
func (r *Registry) MarkOccupied(ctx context.Context, id string, details models.OccupancyDetails) error {
	err := r.store.Update(ctx, parkingTree+"/"+id, details.OccupiedFields())
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("slot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return storeFailure("mark slot "+id+" occupied", err)
	}
	r.noteOccupied(id, details)
	return nil
}

// MarkFree partial-updates the slot back to its vacant default and
// syncs the projection.
func (r *Registry) MarkFree(ctx context.Context, id string) error {
	err := r.store.Update(ctx, parkingTree+"/"+id, models.VacantFields())
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("slot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return storeFailure("mark slot "+id+" free", err)
	}
	r.noteFree(id)
	return nil
}

// noteOccupied applies an already-persisted claim to the projection.
func (r *Registry) noteOccupied(id string, details models.OccupancyDetails) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.slots {
		if r.slots[i].ID == id {
			r.slots[i] = models.Slot{
				ID:            id,
				Available:     false,
				User:          details.User,
				Time:          details.Time,
				Gender:        details.Gender,
				VehicleType:   details.VehicleType,
				VehicleNumber: details.VehicleNumber,
				PaymentMethod: details.PaymentMethod,
			}
			return
		}
	}
}

// noteFree applies an already-persisted release to the projection.
func (r *Registry) noteFree(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.slots {
		if r.slots[i].ID == id {
			r.slots[i] = models.VacantSlot(id)
			return
		}
	}
}

// orderSlots arranges documents into display order: the priority ids
// first, everything else after them sorted by id.
func orderSlots(docs map[string]store.Document) []models.Slot {
	slots := make([]models.Slot, 0, len(docs))
	seen := make(map[string]bool, len(defaultSlotOrder))

	for _, id := range defaultSlotOrder {
		if doc, ok := docs[id]; ok {
			slots = append(slots, models.SlotFromDocument(id, doc))
			seen[id] = true
		}
	}

	rest := make([]string, 0, len(docs))
	for id := range docs {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		slots = append(slots, models.SlotFromDocument(id, docs[id]))
	}
	return slots
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"parkslot/models"
	"parkslot/store"
	"parkslot/utils"
)

// Workflow is the one operation pair that must keep slot occupancy and
// reservation records mutually consistent: Reserve claims a slot and
// records who holds it, Release undoes both.
type Workflow struct {
	store    store.Store
	registry *Registry
	ledger   *Ledger
	guard    *slotGuard
}

func NewWorkflow(st store.Store, registry *Registry, ledger *Ledger) *Workflow {
	return &Workflow{
		store:    st,
		registry: registry,
		ledger:   ledger,
		guard:    newSlotGuard(),
	}
}

// ReserveInput carries the six required reservation fields.
type ReserveInput struct {
	Slot          string `json:"slot"`
	Name          string `json:"name"`
	Gender        string `json:"gender"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
	PaymentMethod string `json:"paymentMethod"`
}

func (in ReserveInput) missingFields() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"slot", in.Slot},
		{"name", in.Name},
		{"gender", in.Gender},
		{"vehicleType", in.VehicleType},
		{"vehicleNumber", in.VehicleNumber},
		{"paymentMethod", in.PaymentMethod},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Reserve claims the slot and records the reservation. The claim is a
// single conditional write guarded on available=true, so two callers
// racing for the same slot cannot both succeed; if the reservation
// record then fails to persist, the claim is rolled back.
func (w *Workflow) Reserve(ctx context.Context, in ReserveInput) (models.Reservation, error) {
	if missing := in.missingFields(); len(missing) > 0 {
		return models.Reservation{}, &ValidationError{Fields: missing}
	}

	if !w.guard.tryAcquire(in.Slot) {
		return models.Reservation{}, fmt.Errorf("slot %s has a request in flight: %w", in.Slot, ErrSlotUnavailable)
	}
	defer w.guard.release(in.Slot)

	res := models.Reservation{
		ID:            utils.NewReservationID(),
		Name:          in.Name,
		Slot:          in.Slot,
		Time:          utils.ReservationTime(),
		Gender:        in.Gender,
		VehicleType:   in.VehicleType,
		VehicleNumber: in.VehicleNumber,
		PaymentMethod: in.PaymentMethod,
	}
	details := res.Details()

	// Availability is re-checked inside the write itself rather than
	// with a separate read, so a stale dashboard can never double-book.
	err := w.store.UpdateIf(ctx, parkingTree+"/"+in.Slot,
		store.Document{"available": true}, details.OccupiedFields())
	switch {
	case errors.Is(err, store.ErrNotFound):
		return models.Reservation{}, fmt.Errorf("slot %s: %w", in.Slot, ErrNotFound)
	case errors.Is(err, store.ErrGuardFailed):
		return models.Reservation{}, fmt.Errorf("slot %s is already reserved: %w", in.Slot, ErrSlotUnavailable)
	case err != nil:
		return models.Reservation{}, storeFailure("claim slot "+in.Slot, err)
	}

	if err := w.store.Create(ctx, reservationsTree+"/"+res.ID, res.ToDocument()); err != nil {
		// Roll the claim back so the slot is not held without a ledger
		// entry. If even the rollback fails the reconciler picks the
		// orphan up on its next sweep.
		if revertErr := w.registry.MarkFree(ctx, in.Slot); revertErr != nil {
			log.Printf("Failed to revert claim on slot %s after reservation write failed: %v", in.Slot, revertErr)
		}
		return models.Reservation{}, storeFailure("record reservation for slot "+in.Slot, err)
	}

	w.registry.noteOccupied(in.Slot, details)
	w.ledger.add(res)
	log.Printf("Reserved slot %s for %s (reservation %s)", in.Slot, in.Name, res.ID)
	return res, nil
}

// Release frees the slot and deletes the reservation, given any of the
// reservation id, the slot id, or the reserver's name. Releasing a
// target that no longer resolves is a reported not-found, never a
// crash and never a store mutation.
func (w *Workflow) Release(ctx context.Context, ref string) (models.Reservation, error) {
	res, err := w.resolve(ctx, ref)
	if err != nil {
		return models.Reservation{}, err
	}

	if !w.guard.tryAcquire(res.Slot) {
		return models.Reservation{}, fmt.Errorf("slot %s has a request in flight: %w", res.Slot, ErrSlotUnavailable)
	}
	defer w.guard.release(res.Slot)

	// The vacate is conditional on the occupant this reservation put
	// there. A stale projection can resolve a record whose slot has
	// since been released and re-claimed; an unconditional write here
	// would evict the current holder.
	guard := store.Document{"available": false, "user": res.Name, "time": res.Time}
	slotErr := w.store.UpdateIf(ctx, parkingTree+"/"+res.Slot, guard, models.VacantFields())
	switch {
	case slotErr == nil:
		w.registry.noteFree(res.Slot)
	case errors.Is(slotErr, store.ErrNotFound):
		// The slot document is gone entirely; nothing left to clear.
		slotErr = nil
	case errors.Is(slotErr, store.ErrGuardFailed):
		// Someone else released this reservation and the slot moved on.
		// Drop the dead record from the projection and leave the
		// current occupant alone.
		w.ledger.forget(res.ID)
		return models.Reservation{}, fmt.Errorf("reservation %s no longer holds slot %s: %w", res.ID, res.Slot, ErrNotFound)
	default:
		slotErr = storeFailure("vacate slot "+res.Slot, slotErr)
	}
	resErr := w.ledger.Remove(ctx, res.ID)

	switch {
	case slotErr == nil && resErr == nil:
		log.Printf("Released slot %s (reservation %s)", res.Slot, res.ID)
		return res, nil
	case slotErr != nil && resErr != nil:
		return models.Reservation{}, storeFailure("release slot "+res.Slot, errors.Join(slotErr, resErr))
	default:
		cause := slotErr
		if cause == nil {
			cause = resErr
		}
		perr := &PartialReleaseError{
			SlotID:             res.Slot,
			ReservationID:      res.ID,
			SlotCleared:        slotErr == nil,
			ReservationRemoved: resErr == nil,
			Cause:              cause,
		}
		log.Printf("Partial release: %v", perr)
		return models.Reservation{}, perr
	}
}

// resolve maps a reservation id, slot id, or reserver name onto the
// reservation record, consulting the projection first and the store as
// a fallback for a cold or stale ledger.
func (w *Workflow) resolve(ctx context.Context, ref string) (models.Reservation, error) {
	if ref == "" {
		return models.Reservation{}, &ValidationError{Fields: []string{"ref"}}
	}

	if res, ok := w.ledger.Get(ref); ok {
		return res, nil
	}
	if res, ok := w.ledger.BySlot(ref); ok {
		return res, nil
	}
	if res, ok := w.ledger.ByName(ref); ok {
		return res, nil
	}

	docs, err := w.store.GetAll(ctx, reservationsTree)
	if err != nil {
		return models.Reservation{}, storeFailure("resolve reservation "+ref, err)
	}
	if doc, ok := docs[ref]; ok {
		return models.ReservationFromDocument(ref, doc), nil
	}
	for id, doc := range docs {
		res := models.ReservationFromDocument(id, doc)
		if res.Slot == ref || res.Name == ref {
			return res, nil
		}
	}
	return models.Reservation{}, fmt.Errorf("no reservation for %q: %w", ref, ErrNotFound)
}

package services

import (
	"context"
	"log"
	"sort"

	"parkslot/models"
	"parkslot/store"
)

// Reconciler sweeps the store for the two shapes a partial failure can
// leave behind: an occupied slot no reservation references, and a
// reservation pointing at a vacant or missing slot. Both are repaired
// toward the vacant state, since a half-finished pair cannot be
// completed on the occupant's behalf.
type Reconciler struct {
	store store.Store
}

func NewReconciler(st store.Store) *Reconciler {
	return &Reconciler{store: st}
}

// Run performs one sweep and returns the number of repairs applied.
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	// Reservations load before slots. A reserve writes the slot claim
	// before the reservation record, so every record in this snapshot
	// has its claim visible in the later slot load; loading the other
	// way round misreads an in-flight reserve as an orphaned record
	// and deletes a live reservation.
	resDocs, err := r.store.GetAll(ctx, reservationsTree)
	if err != nil {
		return 0, storeFailure("reconcile: load reservations", err)
	}
	slotDocs, err := r.store.GetAll(ctx, parkingTree)
	if err != nil {
		return 0, storeFailure("reconcile: load slots", err)
	}

	reservedSlots := make(map[string]bool, len(resDocs))
	repairs := 0

	for id, doc := range resDocs {
		res := models.ReservationFromDocument(id, doc)
		slotDoc, ok := slotDocs[res.Slot]
		if ok && !models.SlotFromDocument(res.Slot, slotDoc).Available {
			reservedSlots[res.Slot] = true
			continue
		}
		// Orphaned reservation: its slot is vacant or gone. The claim
		// predates the record, so a vacant slot here means the claim
		// was undone after the record was written.
		if err := r.store.Remove(ctx, reservationsTree+"/"+id); err != nil {
			log.Printf("Reconcile: failed to remove orphaned reservation %s: %v", id, err)
			continue
		}
		log.Printf("Reconcile: removed orphaned reservation %s (slot %s)", id, res.Slot)
		repairs++
	}

	var suspects []string
	for id, doc := range slotDocs {
		slot := models.SlotFromDocument(id, doc)
		if slot.Available || reservedSlots[id] {
			continue
		}
		suspects = append(suspects, id)
	}
	if len(suspects) == 0 {
		return repairs, nil
	}
	sort.Strings(suspects)

	// An occupied slot with no record in the first snapshot may be a
	// reserve that landed mid-sweep: its claim made the slot load but
	// its record postdates the reservation load. Re-reading the records
	// settles it before anything is freed.
	freshDocs, err := r.store.GetAll(ctx, reservationsTree)
	if err != nil {
		return repairs, storeFailure("reconcile: reload reservations", err)
	}
	backed := make(map[string]bool, len(freshDocs))
	for id, doc := range freshDocs {
		backed[models.ReservationFromDocument(id, doc).Slot] = true
	}

	for _, id := range suspects {
		if backed[id] {
			continue
		}
		slot := models.SlotFromDocument(id, slotDocs[id])
		// Orphaned occupancy: no reservation backs this slot. The guard
		// on the occupant keeps the sweep from clobbering a claim that
		// landed after the loads above.
		err := r.store.UpdateIf(ctx, parkingTree+"/"+id,
			store.Document{"available": false, "user": slot.User, "time": slot.Time},
			models.VacantFields())
		if err != nil {
			log.Printf("Reconcile: failed to free orphaned slot %s: %v", id, err)
			continue
		}
		log.Printf("Reconcile: freed orphaned slot %s (was held by %q)", id, slot.User)
		repairs++
	}

	if repairs > 0 {
		log.Printf("Reconcile: applied %d repairs", repairs)
	}
	return repairs, nil
}

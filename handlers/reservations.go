package handlers

import (
	"log"
	"net/http"

	"parkslot/models"
	"parkslot/services"

	"github.com/gin-gonic/gin"
)

// ReservationHandler serves the reserve form and reservation list
// surfaces.
type ReservationHandler struct {
	ledger   *services.Ledger
	workflow *services.Workflow
}

func NewReservationHandler(ledger *services.Ledger, workflow *services.Workflow) *ReservationHandler {
	return &ReservationHandler{ledger: ledger, workflow: workflow}
}

// CreateReservation reserves a slot. Field presence is validated by the
// workflow so the error can list every missing field at once.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var input services.ReserveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid reservation input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid input", err.Error(), "ERR_VALIDATION")
		return
	}

	res, err := h.workflow.Reserve(c.Request.Context(), input)
	if err != nil {
		log.Printf("Failed to reserve slot %q for %q: %v", input.Slot, input.Name, err)
		ServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Slot reserved", res.ToResponse())
}

// ListReservations returns every active reservation.
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	reservations, err := h.ledger.Load(c.Request.Context())
	if err != nil {
		log.Printf("Failed to load reservations: %v", err)
		ServiceError(c, err)
		return
	}

	responses := make([]models.ReservationResponse, len(reservations))
	for i, res := range reservations {
		responses[i] = res.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "Reservations loaded", responses)
}

// CancelReservation releases by reservation id (the list view's cancel
// button). The reserver's name also resolves, for callers still keyed
// the old way.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id := c.Param("id")
	res, err := h.workflow.Release(c.Request.Context(), id)
	if err != nil {
		log.Printf("Failed to cancel reservation %s: %v", id, err)
		ServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Reservation cancelled", res.ToResponse())
}

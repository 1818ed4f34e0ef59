package handlers

import (
	"log"
	"net/http"

	"parkslot/models"
	"parkslot/services"

	"github.com/gin-gonic/gin"
)

// SlotHandler serves the slot dashboard surface.
type SlotHandler struct {
	registry *services.Registry
	workflow *services.Workflow
}

func NewSlotHandler(registry *services.Registry, workflow *services.Workflow) *SlotHandler {
	return &SlotHandler{registry: registry, workflow: workflow}
}

// AddSlotInput binds the administrative add-slot request.
type AddSlotInput struct {
	ID string `json:"id"`
}

// ListSlots returns every slot in display order, refreshed from the
// store on each call so the dashboard never serves a stale projection.
func (h *SlotHandler) ListSlots(c *gin.Context) {
	slots, err := h.registry.Load(c.Request.Context())
	if err != nil {
		log.Printf("Failed to load slots: %v", err)
		ServiceError(c, err)
		return
	}

	responses := make([]models.SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = slot.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "Slots loaded", responses)
}

// GetSlot returns one slot by id, read fresh from the store.
func (h *SlotHandler) GetSlot(c *gin.Context) {
	id := c.Param("id")
	slot, err := h.registry.Get(c.Request.Context(), id)
	if err != nil {
		log.Printf("Failed to get slot %s: %v", id, err)
		ServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Slot loaded", slot.ToResponse())
}

// AddSlot creates a new vacant slot. Deliberately exposed as an
// administrative operation; the id must be unused.
func (h *SlotHandler) AddSlot(c *gin.Context) {
	var input AddSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid add-slot input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid input", err.Error(), "ERR_VALIDATION")
		return
	}

	slot, err := h.registry.AddSlot(c.Request.Context(), input.ID)
	if err != nil {
		log.Printf("Failed to add slot %q: %v", input.ID, err)
		ServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Slot added", slot.ToResponse())
}

// ReleaseSlot cancels whatever reservation occupies the slot, the
// dashboard's cancel button.
func (h *SlotHandler) ReleaseSlot(c *gin.Context) {
	id := c.Param("id")
	res, err := h.workflow.Release(c.Request.Context(), id)
	if err != nil {
		log.Printf("Failed to release slot %s: %v", id, err)
		ServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Reservation cancelled", res.ToResponse())
}

package routes

import (
	"parkslot/handlers"

	"github.com/gin-gonic/gin"
)

// Path wires the versioned API surface: the slot dashboard, the reserve
// operation, and the reservation list.
func Path(router *gin.RouterGroup, slots *handlers.SlotHandler, reservations *handlers.ReservationHandler) {
	v1 := router.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "pong"})
		})

		slotRoutes := v1.Group("/slots")
		{
			slotRoutes.GET("", slots.ListSlots)                      // dashboard view
			slotRoutes.POST("", slots.AddSlot)                       // administrative add
			slotRoutes.GET("/:id", slots.GetSlot)                    // fresh single-slot read
			slotRoutes.DELETE("/:id/reservation", slots.ReleaseSlot) // dashboard cancel
		}

		reservationRoutes := v1.Group("/reservations")
		{
			reservationRoutes.POST("", reservations.CreateReservation)
			reservationRoutes.GET("", reservations.ListReservations)
			reservationRoutes.DELETE("/:id", reservations.CancelReservation)
		}
	}
}

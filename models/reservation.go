package models

import "parkslot/store"

// Reservation binds a person and vehicle to an occupied slot. It is
// stored at reservations/{id}; the id is generated at creation and the
// reserver's name is purely descriptive, so two reservers may share a
// name without colliding.
type Reservation struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slot          string `json:"slot"`
	Time          string `json:"time"`
	Gender        string `json:"gender"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
	PaymentMethod string `json:"paymentMethod"`
}

func (r *Reservation) ToDocument() store.Document {
	return store.Document{
		"name":          r.Name,
		"slot":          r.Slot,
		"time":          r.Time,
		"gender":        r.Gender,
		"vehicleType":   r.VehicleType,
		"vehicleNumber": r.VehicleNumber,
		"paymentMethod": r.PaymentMethod,
	}
}

func ReservationFromDocument(id string, doc store.Document) Reservation {
	return Reservation{
		ID:            id,
		Name:          stringField(doc, "name"),
		Slot:          stringField(doc, "slot"),
		Time:          stringField(doc, "time"),
		Gender:        stringField(doc, "gender"),
		VehicleType:   stringField(doc, "vehicleType"),
		VehicleNumber: stringField(doc, "vehicleNumber"),
		PaymentMethod: stringField(doc, "paymentMethod"),
	}
}

// Details copies the reservation's descriptive fields into the shape a
// slot claim expects.
func (r *Reservation) Details() OccupancyDetails {
	return OccupancyDetails{
		User:          r.Name,
		Time:          r.Time,
		Gender:        r.Gender,
		VehicleType:   r.VehicleType,
		VehicleNumber: r.VehicleNumber,
		PaymentMethod: r.PaymentMethod,
	}
}

type ReservationResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slot          string `json:"slot"`
	Time          string `json:"time"`
	Gender        string `json:"gender"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
	PaymentMethod string `json:"paymentMethod"`
}

func (r *Reservation) ToResponse() ReservationResponse {
	return ReservationResponse(*r)
}

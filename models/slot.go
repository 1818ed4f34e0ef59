package models

import "parkslot/store"

// Slot is one parking space as stored at parking/{id}. Field names on
// the wire match the store documents exactly; occupancy fields are empty
// strings whenever the slot is available.
type Slot struct {
	ID            string `json:"id"`
	Available     bool   `json:"available"`
	User          string `json:"user"`
	Time          string `json:"time"`
	Gender        string `json:"gender"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
	PaymentMethod string `json:"paymentMethod"`
}

// OccupancyDetails is the set of fields written onto a slot when it is
// claimed, and copied onto the reservation record.
type OccupancyDetails struct {
	User          string
	Time          string
	Gender        string
	VehicleType   string
	VehicleNumber string
	PaymentMethod string
}

// VacantSlot returns a slot in its bootstrap state: available, every
// occupancy field empty.
func VacantSlot(id string) Slot {
	return Slot{ID: id, Available: true}
}

// ToDocument renders the slot as a store document (the id lives in the
// path, not the document).
func (s *Slot) ToDocument() store.Document {
	return store.Document{
		"available":     s.Available,
		"user":          s.User,
		"time":          s.Time,
		"gender":        s.Gender,
		"vehicleType":   s.VehicleType,
		"vehicleNumber": s.VehicleNumber,
		"paymentMethod": s.PaymentMethod,
	}
}

// SlotFromDocument rebuilds a slot from its store document.
func SlotFromDocument(id string, doc store.Document) Slot {
	return Slot{
		ID:            id,
		Available:     boolField(doc, "available"),
		User:          stringField(doc, "user"),
		Time:          stringField(doc, "time"),
		Gender:        stringField(doc, "gender"),
		VehicleType:   stringField(doc, "vehicleType"),
		VehicleNumber: stringField(doc, "vehicleNumber"),
		PaymentMethod: stringField(doc, "paymentMethod"),
	}
}

// OccupiedFields is the partial update that claims a slot.
func (d OccupancyDetails) OccupiedFields() store.Document {
	return store.Document{
		"available":     false,
		"user":          d.User,
		"time":          d.Time,
		"gender":        d.Gender,
		"vehicleType":   d.VehicleType,
		"vehicleNumber": d.VehicleNumber,
		"paymentMethod": d.PaymentMethod,
	}
}

// VacantFields is the partial update that returns a slot to its vacant
// default.
func VacantFields() store.Document {
	return store.Document{
		"available":     true,
		"user":          "",
		"time":          "",
		"gender":        "",
		"vehicleType":   "",
		"vehicleNumber": "",
		"paymentMethod": "",
	}
}

type SlotResponse struct {
	ID            string `json:"id"`
	Available     bool   `json:"available"`
	Reserved      bool   `json:"reserved"`
	User          string `json:"user,omitempty"`
	Time          string `json:"time,omitempty"`
	Gender        string `json:"gender,omitempty"`
	VehicleType   string `json:"vehicleType,omitempty"`
	VehicleNumber string `json:"vehicleNumber,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

func (s *Slot) ToResponse() SlotResponse {
	return SlotResponse{
		ID:            s.ID,
		Available:     s.Available,
		Reserved:      !s.Available,
		User:          s.User,
		Time:          s.Time,
		Gender:        s.Gender,
		VehicleType:   s.VehicleType,
		VehicleNumber: s.VehicleNumber,
		PaymentMethod: s.PaymentMethod,
	}
}

func stringField(doc store.Document, key string) string {
	v, _ := doc[key].(string)
	return v
}

func boolField(doc store.Document, key string) bool {
	v, _ := doc[key].(bool)
	return v
}

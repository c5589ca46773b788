// Package booking models pickup and dropoff reservations for sample collection.
package booking

import "time"

// Well-known Snapshot HK locations. A booking's collection type is derived
// from which of these it points at.
const (
	SnapshotHKCourierLocation          = "744d0914-57b1-4a61-a782-44a0be060d04"
	SnapshotHKDropoffLocation          = "eda40390-ae0c-46df-ada7-ae03403f9149"
	SnapshotHKDropoffShippingProfileID = "fc8042c3-ad2c-4f8e-85dd-dda7defc8863"
)

// CollectionType is how a sample leaves the customer.
type CollectionType string

const (
	CollectionPickup  CollectionType = "pickup"
	CollectionDropoff CollectionType = "dropoff"
	CollectionNone    CollectionType = "none"
)

// Slot is a reservable time window at a location.
type Slot struct {
	SlotID string    `json:"slotId" yaml:"slotId"`
	From   time.Time `json:"from" yaml:"from"`
	To     time.Time `json:"to" yaml:"to"`
	Filled int       `json:"filled" yaml:"filled"`
}

// Booking links a kit to a slot at a location.
type Booking struct {
	BookingID  string `json:"bookingId" yaml:"bookingId"`
	LocationID string `json:"locationId" yaml:"locationId"`
	Active     bool   `json:"active" yaml:"active"`
	Slot       Slot   `json:"slot" yaml:"slot"`
}

// Type derives the collection type from the booking location.
func (b Booking) Type() CollectionType {
	switch b.LocationID {
	case SnapshotHKCourierLocation:
		return CollectionPickup
	case SnapshotHKDropoffLocation:
		return CollectionDropoff
	default:
		return CollectionNone
	}
}

// First returns the booking that represents a kit. Only the first one is
// consulted even when the booking service returns several.
func First(bookings []Booking) (*Booking, bool) {
	if len(bookings) == 0 {
		return nil, false
	}
	b := bookings[0]
	return &b, true
}

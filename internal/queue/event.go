// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingDecidedEvent is published when an admin approves or rejects a
// booking request.  It carries enough detail for downstream consumers to
// log or notify without touching the primary database.
type BookingDecidedEvent struct {
	RequestID uint64      `json:"request_id"`
	UserID    uint64      `json:"user_id"`
	RoomID    uint64      `json:"room_id"`
	RoomName  string      `json:"room_name"`
	Category  string      `json:"category"`
	Status    string      `json:"status"` // APPROVED or REJECTED
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Slots     []EventSlot `json:"slots"`
	DecidedAt string      `json:"decided_at"`
}

// EventSlot is one weekly occurrence inside a decision event.
type EventSlot struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

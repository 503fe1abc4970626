package models

import "time"

// Appointment statuses. Only pending and confirmed appointments block slots.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment is a booked (or historical) visit.
// Date is "2006-01-02"; Start is minutes from midnight.
type Appointment struct {
	ID           string        `bson:"_id" json:"id"`
	ServiceID    string        `bson:"serviceId" json:"serviceId"`
	ServiceName  string        `bson:"serviceName" json:"serviceName"`
	Duration     int           `bson:"duration" json:"duration"` // minutes
	Date         string        `bson:"date" json:"date"`
	Start        int           `bson:"start" json:"start"`
	Status       string        `bson:"status" json:"status"`
	ClientID     string        `bson:"clientId,omitempty" json:"clientId,omitempty"`
	FamilyMember *FamilyMember `bson:"familyMember,omitempty" json:"familyMember,omitempty"`
	ClientInfo   *ContactInfo  `bson:"clientInfo,omitempty" json:"clientInfo,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
}

// End returns the appointment's end in minutes from midnight.
func (a Appointment) End() int {
	return a.Start + a.Duration
}

// Blocks reports whether the appointment occupies its interval.
func (a Appointment) Blocks() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// BookedInterval is the time range occupied by a blocking appointment,
// as consumed by the availability grid.
type BookedInterval struct {
	Start    int `bson:"start" json:"start"`
	Duration int `bson:"duration" json:"duration"`
}

// End returns the interval's exclusive end in minutes from midnight.
func (b BookedInterval) End() int {
	return b.Start + b.Duration
}

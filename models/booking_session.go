package models

import "time"

// WizardStep is the booking wizard's position. The numeric values match the
// step indicator the front-end renders: 4 and 5 are the authenticated/guest
// branch after time selection, 7 is terminal.
type WizardStep int

const (
	StepServiceSelect WizardStep = iota + 1
	StepDateSelect
	StepTimeSelect
	StepSubjectSelect
	StepContactInfo
	StepConfirm
	StepCompleted
)

func (s WizardStep) String() string {
	switch s {
	case StepServiceSelect:
		return "serviceSelect"
	case StepDateSelect:
		return "dateSelect"
	case StepTimeSelect:
		return "timeSelect"
	case StepSubjectSelect:
		return "subjectSelect"
	case StepContactInfo:
		return "contactInfo"
	case StepConfirm:
		return "confirm"
	case StepCompleted:
		return "completed"
	}
	return "unknown"
}

// BookingSelection accumulates what the user has picked so far.
// Start is nil until a time is chosen (0 is a valid minute of the day).
// Exactly one of BookForSelf / FamilyMember / ContactInfo may be set when the
// selection reaches the confirm step.
type BookingSelection struct {
	Service      *Service      `json:"service,omitempty"`
	Date         string        `json:"date,omitempty"`
	Start        *int          `json:"start,omitempty"`
	BookForSelf  bool          `json:"bookForSelf,omitempty"`
	FamilyMember *FamilyMember `json:"familyMember,omitempty"`
	ContactInfo  *ContactInfo  `json:"contactInfo,omitempty"`
}

// AvailabilityKey identifies which (date, service) pair a cached availability
// result was computed for.
type AvailabilityKey struct {
	Date      string `json:"date"`
	ServiceID string `json:"serviceId"`
}

// BookingSession holds wizard context between HTTP calls. Stored as a JSON
// blob in Redis keyed by SessionID; exclusively owned by one logical caller.
type BookingSession struct {
	SessionID string           `json:"sessionId"`
	UserID    string           `json:"userId,omitempty"` // empty for guests
	Step      WizardStep       `json:"step"`
	Selection BookingSelection `json:"selection"`

	// Availability caching: the slots last computed for AvailabilityFor.
	// AvailabilitySeq increases with every issued fetch; results from an
	// older sequence are discarded.
	Availability    []int           `json:"availability,omitempty"` // minutes from midnight
	AvailabilityFor AvailabilityKey `json:"availabilityFor,omitzero"`
	AvailabilitySeq uint64          `json:"availabilitySeq"`

	BookingRef string    `json:"bookingRef,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s *BookingSession) Authenticated() bool {
	return s.UserID != ""
}

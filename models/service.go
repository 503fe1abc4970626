package models

// Service is a bookable offering (haircut, beard trim, ...). Reference data;
// fetched once per booking session and never mutated by the booking flow.
type Service struct {
	ID          string  `bson:"_id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Duration    int     `bson:"duration" json:"duration"` // minutes, > 0
	Price       float64 `bson:"price" json:"price"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
}

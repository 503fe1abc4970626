package models

// FamilyMember is someone an authenticated client can book on behalf of.
type FamilyMember struct {
	ID       string `bson:"_id" json:"id"`
	UserID   string `bson:"userId" json:"userId"`
	Name     string `bson:"name" json:"name"`
	Relation string `bson:"relation,omitempty" json:"relation,omitempty"`
}

// ContactInfo identifies a guest (unauthenticated) client.
type ContactInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

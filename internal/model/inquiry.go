package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Inquiry represents a contact message sent to a listing's owner.
type Inquiry struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	PropertyID bson.ObjectID `bson:"property_id"`
	OwnerID    bson.ObjectID `bson:"owner_id"`
	Name       string        `bson:"name"`
	Email      string        `bson:"email"`
	Phone      string        `bson:"phone,omitempty"`
	Message    string        `bson:"message"`
	CreatedAt  time.Time     `bson:"created_at"`
}

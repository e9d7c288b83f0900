package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Property represents a real-estate listing. Owner is assigned at creation
// from the authenticated identity and is immutable afterwards.
type Property struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Title        string        `bson:"title"`
	Description  string        `bson:"description"`
	Price        float64       `bson:"price"`
	Location     string        `bson:"location"`
	Images       []string      `bson:"images"`
	PropertyType string        `bson:"property_type"`
	Bedrooms     int           `bson:"bedrooms"`
	Bathrooms    int           `bson:"bathrooms"`
	Area         float64       `bson:"area"`
	OwnerID      bson.ObjectID `bson:"owner_id"`
	Views        int64         `bson:"views"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

// PropertyOwner is the public-safe projection of a listing's owner.
type PropertyOwner struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// PropertyView is a Property with its owner reference resolved for responses.
type PropertyView struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Price        float64        `json:"price"`
	Location     string         `json:"location"`
	Images       []string       `json:"images"`
	PropertyType string         `json:"propertyType"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    int            `json:"bathrooms"`
	Area         float64        `json:"area"`
	Owner        *PropertyOwner `json:"listedBy,omitempty"`
	Views        int64          `json:"views"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// View resolves the property into its response projection.
func (p *Property) View(owner *PropertyOwner) PropertyView {
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return PropertyView{
		ID:           p.ID.Hex(),
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Location:     p.Location,
		Images:       images,
		PropertyType: p.PropertyType,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Owner:        owner,
		Views:        p.Views,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/estatehub/estate-hub-api/internal/model"
)

// PropertyRepository defines the interface for listing-related database
// operations. Update and Delete are filtered by owner as well as id, so an
// ownership mismatch is indistinguishable from an absent document.
type PropertyRepository interface {
	CreateProperty(ctx context.Context, property *model.Property) (*model.Property, error)
	GetProperty(ctx context.Context, id string) (*model.Property, error)
	GetProperties(ctx context.Context, ids []bson.ObjectID) ([]*model.Property, error)

	// IncrementViews bumps the view counter and returns the updated document.
	IncrementViews(ctx context.Context, id string) (*model.Property, error)

	ListProperties(ctx context.Context, params ListPropertiesParams) ([]*model.Property, error)
	UpdateProperty(ctx context.Context, id, ownerID string, params UpdatePropertyParams) (*model.Property, error)
	DeleteProperty(ctx context.Context, id, ownerID string) (*model.Property, error)

	ListByOwner(ctx context.Context, ownerID string, page, pageSize int64) ([]*model.Property, int64, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	SumViewsByOwner(ctx context.Context, ownerID string) (int64, error)
}

// ListPropertiesParams defines the filter, sort and limit parameters for the
// public listing query. All filters are independently optional.
type ListPropertiesParams struct {
	Location     *string
	PropertyType *string
	MinPrice     *float64
	MaxPrice     *float64
	Sort         string // "", "createdAt", "price", "price-desc"
	Limit        int64  // 0 = unbounded
}

// UpdatePropertyParams defines the optional parameters for updating a
// listing. Only the fields that are not nil will be updated. A non-nil
// Images slice fully replaces the previous image list.
type UpdatePropertyParams struct {
	Title        *string
	Description  *string
	Price        *float64
	Location     *string
	PropertyType *string
	Bedrooms     *int
	Bathrooms    *int
	Area         *float64
	Images       []string
}

const propertyCollection = "properties"

type propertyMongoRepository struct {
	db *mongo.Database
}

// NewPropertyMongoRepository creates a new MongoDB repository for listings.
func NewPropertyMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) PropertyRepository {
	collection := db.Collection(propertyCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "property_type", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "price", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create property indexes")
	}

	return &propertyMongoRepository{db: db}
}

func (r *propertyMongoRepository) CreateProperty(
	ctx context.Context,
	property *model.Property,
) (*model.Property, error) {
	now := time.Now()
	property.CreatedAt = now
	property.UpdatedAt = now
	if property.Images == nil {
		property.Images = []string{}
	}

	result, err := r.db.Collection(propertyCollection).InsertOne(ctx, property)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		property.ID = objectID
	}

	return property, nil
}

func (r *propertyMongoRepository) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var property model.Property
	err = r.db.Collection(propertyCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&property)
	if err != nil {
		return nil, err
	}

	return &property, nil
}

func (r *propertyMongoRepository) GetProperties(
	ctx context.Context,
	ids []bson.ObjectID,
) ([]*model.Property, error) {
	if len(ids) == 0 {
		return []*model.Property{}, nil
	}

	cursor, err := r.db.Collection(propertyCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	var properties []*model.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}

	// Preserve the order of the requested ids; $in returns documents in
	// collection order.
	byID := make(map[bson.ObjectID]*model.Property, len(properties))
	for _, p := range properties {
		byID[p.ID] = p
	}

	ordered := make([]*model.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}

func (r *propertyMongoRepository) IncrementViews(ctx context.Context, id string) (*model.Property, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(propertyCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var property model.Property
	if err := result.Decode(&property); err != nil {
		return nil, err
	}

	return &property, nil
}

// listPropertiesFilter translates the public query filters into a bson
// document. Each filter composes independently with the others.
func listPropertiesFilter(params ListPropertiesParams) bson.M {
	filter := bson.M{}
	if params.Location != nil {
		filter["location"] = bson.M{"$regex": *params.Location, "$options": "i"}
	}
	if params.PropertyType != nil {
		filter["property_type"] = *params.PropertyType
	}
	if params.MinPrice != nil || params.MaxPrice != nil {
		price := bson.M{}
		if params.MinPrice != nil {
			price["$gte"] = *params.MinPrice
		}
		if params.MaxPrice != nil {
			price["$lte"] = *params.MaxPrice
		}
		filter["price"] = price
	}

	return filter
}

// listPropertiesSort maps a sort key to its bson sort document. Empty or
// unrecognized keys mean natural collection order, which for an insert-only
// collection matches insertion order.
func listPropertiesSort(sort string) bson.D {
	switch sort {
	case "createdAt":
		return bson.D{{Key: "created_at", Value: -1}}
	case "price":
		return bson.D{{Key: "price", Value: 1}}
	case "price-desc":
		return bson.D{{Key: "price", Value: -1}}
	}

	return nil
}

func (r *propertyMongoRepository) ListProperties(
	ctx context.Context,
	params ListPropertiesParams,
) ([]*model.Property, error) {
	findOptions := options.Find()
	if sort := listPropertiesSort(params.Sort); sort != nil {
		findOptions.SetSort(sort)
	}
	if params.Limit > 0 {
		findOptions.SetLimit(params.Limit)
	}

	cursor, err := r.db.Collection(propertyCollection).Find(ctx, listPropertiesFilter(params), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	properties := []*model.Property{}
	for cursor.Next(ctx) {
		var property model.Property
		if err := cursor.Decode(&property); err != nil {
			return nil, err
		}
		properties = append(properties, &property)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return properties, nil
}

func (r *propertyMongoRepository) UpdateProperty(
	ctx context.Context,
	id, ownerID string,
	params UpdatePropertyParams,
) (*model.Property, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	ownerObjectID, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, err
	}

	updateMap := bson.M{}
	if params.Title != nil {
		updateMap["title"] = *params.Title
	}
	if params.Description != nil {
		updateMap["description"] = *params.Description
	}
	if params.Price != nil {
		updateMap["price"] = *params.Price
	}
	if params.Location != nil {
		updateMap["location"] = *params.Location
	}
	if params.PropertyType != nil {
		updateMap["property_type"] = *params.PropertyType
	}
	if params.Bedrooms != nil {
		updateMap["bedrooms"] = *params.Bedrooms
	}
	if params.Bathrooms != nil {
		updateMap["bathrooms"] = *params.Bathrooms
	}
	if params.Area != nil {
		updateMap["area"] = *params.Area
	}
	if params.Images != nil {
		updateMap["images"] = params.Images
	}
	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(propertyCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID, "owner_id": ownerObjectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var property model.Property
	if err := result.Decode(&property); err != nil {
		return nil, err
	}

	return &property, nil
}

func (r *propertyMongoRepository) DeleteProperty(ctx context.Context, id, ownerID string) (*model.Property, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	ownerObjectID, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(propertyCollection).FindOneAndDelete(
		ctx,
		bson.M{"_id": objectID, "owner_id": ownerObjectID},
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var property model.Property
	if err := result.Decode(&property); err != nil {
		return nil, err
	}

	return &property, nil
}

func (r *propertyMongoRepository) ListByOwner(
	ctx context.Context,
	ownerID string,
	page, pageSize int64,
) ([]*model.Property, int64, error) {
	ownerObjectID, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, 0, err
	}

	filter := bson.M{"owner_id": ownerObjectID}

	total, err := r.db.Collection(propertyCollection).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize)

	cursor, err := r.db.Collection(propertyCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}

	properties := []*model.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

func (r *propertyMongoRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ownerObjectID, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return 0, err
	}

	return r.db.Collection(propertyCollection).CountDocuments(ctx, bson.M{"owner_id": ownerObjectID})
}

func (r *propertyMongoRepository) SumViewsByOwner(ctx context.Context, ownerID string) (int64, error) {
	ownerObjectID, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerObjectID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$views"}}}},
	}

	cursor, err := r.db.Collection(propertyCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}

	return results[0].Total, nil
}

package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/estatehub/estate-hub-api/internal/model"
)

// InquiryRepository defines the interface for contact inquiry persistence.
type InquiryRepository interface {
	CreateInquiry(ctx context.Context, inquiry *model.Inquiry) (*model.Inquiry, error)
	CountByOwnerSince(ctx context.Context, ownerID string, since time.Time) (int64, error)
}

const inquiryCollection = "inquiries"

type inquiryMongoRepository struct {
	db *mongo.Database
}

// NewInquiryMongoRepository creates a new MongoDB repository for inquiries.
func NewInquiryMongoRepository(db *mongo.Database) InquiryRepository {
	return &inquiryMongoRepository{db: db}
}

func (r *inquiryMongoRepository) CreateInquiry(ctx context.Context, inquiry *model.Inquiry) (*model.Inquiry, error) {
	inquiry.CreatedAt = time.Now()

	result, err := r.db.Collection(inquiryCollection).InsertOne(ctx, inquiry)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		inquiry.ID = objectID
	}

	return inquiry, nil
}

func (r *inquiryMongoRepository) CountByOwnerSince(
	ctx context.Context,
	ownerID string,
	since time.Time,
) (int64, error) {
	ownerObjectID, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return 0, err
	}

	filter := bson.M{
		"owner_id":   ownerObjectID,
		"created_at": bson.M{"$gte": since},
	}

	return r.db.Collection(inquiryCollection).CountDocuments(ctx, filter)
}

package usecase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/estatehub/estate-hub-api/internal/model"
	"github.com/estatehub/estate-hub-api/internal/repository"
)

// PropertyUsecase defines the business logic for property listings. Mutation
// paths are ownership-gated: a mismatch and an absent listing are collapsed
// into the same ErrPropertyNotFound so existence is never leaked.
type PropertyUsecase interface {
	Create(ctx context.Context, ownerID string, params CreatePropertyParams) (*model.Property, error)
	Get(ctx context.Context, id string) (*model.PropertyView, error)
	List(ctx context.Context, params repository.ListPropertiesParams) ([]model.PropertyView, error)
	Update(ctx context.Context, id, requesterID string, params repository.UpdatePropertyParams) (*model.Property, error)
	Delete(ctx context.Context, id, requesterID string) error
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int64) (*OwnerPage, error)
	Stats(ctx context.Context, ownerID string) (*OwnerStats, error)
}

// CreatePropertyParams defines the parameters for creating a listing.
type CreatePropertyParams struct {
	Title        string
	Description  string
	Price        float64
	Location     string
	PropertyType string
	Bedrooms     int
	Bathrooms    int
	Area         float64
	Images       []string
}

// OwnerPage is one page of an owner's listings.
type OwnerPage struct {
	Properties  []model.PropertyView
	Total       int64
	TotalPages  int64
	CurrentPage int64
}

// OwnerStats summarizes an owner's dashboard figures.
type OwnerStats struct {
	TotalProperties int64
	ActiveListings  int64
	TotalViews      int64
	NewInquiries    int64
}

// ErrPropertyNotFound covers both an absent listing and an ownership
// mismatch on mutation paths.
var ErrPropertyNotFound = errors.New("property not found")

// newInquiryWindow is how far back Stats counts inquiries as "new".
const newInquiryWindow = 30 * 24 * time.Hour

type propertyUsecase struct {
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	inquiryRepo  repository.InquiryRepository
}

// NewPropertyUsecase creates a new instance of PropertyUsecase.
func NewPropertyUsecase(
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	inquiryRepo repository.InquiryRepository,
) PropertyUsecase {
	return &propertyUsecase{
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		inquiryRepo:  inquiryRepo,
	}
}

func (u *propertyUsecase) Create(
	ctx context.Context,
	ownerID string,
	params CreatePropertyParams,
) (*model.Property, error) {
	ownerObjectID, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, err
	}

	// The owner always comes from the authenticated identity; a
	// client-supplied owner field is never trusted.
	return u.propertyRepo.CreateProperty(ctx, &model.Property{
		Title:        params.Title,
		Description:  params.Description,
		Price:        params.Price,
		Location:     params.Location,
		PropertyType: params.PropertyType,
		Bedrooms:     params.Bedrooms,
		Bathrooms:    params.Bathrooms,
		Area:         params.Area,
		Images:       params.Images,
		OwnerID:      ownerObjectID,
	})
}

func (u *propertyUsecase) Get(ctx context.Context, id string) (*model.PropertyView, error) {
	property, err := u.propertyRepo.IncrementViews(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || bsonIDErr(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	views, err := resolveViews(ctx, u.userRepo, []*model.Property{property})
	if err != nil {
		return nil, err
	}

	return &views[0], nil
}

func (u *propertyUsecase) List(
	ctx context.Context,
	params repository.ListPropertiesParams,
) ([]model.PropertyView, error) {
	properties, err := u.propertyRepo.ListProperties(ctx, params)
	if err != nil {
		return nil, err
	}

	return resolveViews(ctx, u.userRepo, properties)
}

func (u *propertyUsecase) Update(
	ctx context.Context,
	id, requesterID string,
	params repository.UpdatePropertyParams,
) (*model.Property, error) {
	property, err := u.propertyRepo.UpdateProperty(ctx, id, requesterID, params)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || bsonIDErr(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	return property, nil
}

func (u *propertyUsecase) Delete(ctx context.Context, id, requesterID string) error {
	if _, err := u.propertyRepo.DeleteProperty(ctx, id, requesterID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || bsonIDErr(err) {
			return ErrPropertyNotFound
		}
		return err
	}

	return nil
}

func (u *propertyUsecase) ListByOwner(
	ctx context.Context,
	ownerID string,
	page, pageSize int64,
) (*OwnerPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	properties, total, err := u.propertyRepo.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, err
	}

	views, err := resolveViews(ctx, u.userRepo, properties)
	if err != nil {
		return nil, err
	}

	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &OwnerPage{
		Properties:  views,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

func (u *propertyUsecase) Stats(ctx context.Context, ownerID string) (*OwnerStats, error) {
	total, err := u.propertyRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	totalViews, err := u.propertyRepo.SumViewsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	newInquiries, err := u.inquiryRepo.CountByOwnerSince(ctx, ownerID, time.Now().Add(-newInquiryWindow))
	if err != nil {
		return nil, err
	}

	// Listings have no lifecycle state; every listed property is active.
	return &OwnerStats{
		TotalProperties: total,
		ActiveListings:  total,
		TotalViews:      totalViews,
		NewInquiries:    newInquiries,
	}, nil
}

// resolveViews attaches the public-safe owner projection to each property.
func resolveViews(
	ctx context.Context,
	userRepo repository.UserRepository,
	properties []*model.Property,
) ([]model.PropertyView, error) {
	ids := make([]bson.ObjectID, 0, len(properties))
	seen := make(map[bson.ObjectID]bool, len(properties))
	for _, p := range properties {
		if !seen[p.OwnerID] {
			seen[p.OwnerID] = true
			ids = append(ids, p.OwnerID)
		}
	}

	owners, err := userRepo.GetUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[bson.ObjectID]*model.PropertyOwner, len(owners))
	for _, owner := range owners {
		byID[owner.ID] = &model.PropertyOwner{
			ID:    owner.ID.Hex(),
			Email: owner.Email,
			Name:  owner.Name,
		}
	}

	views := make([]model.PropertyView, 0, len(properties))
	for _, p := range properties {
		views = append(views, p.View(byID[p.OwnerID]))
	}

	return views, nil
}

// bsonIDErr reports whether err came from parsing a malformed ObjectID hex
// string. Such ids cannot reference any document.
func bsonIDErr(err error) bool {
	return errors.Is(err, bson.ErrInvalidHex)
}

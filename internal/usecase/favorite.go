package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/estatehub/estate-hub-api/internal/model"
	"github.com/estatehub/estate-hub-api/internal/repository"
)

// FavoriteUsecase defines the business logic for a user's favorite listings.
type FavoriteUsecase interface {
	// Toggle adds the property to the user's favorites if absent, removes it
	// if present, and returns the resulting favorite ids in display order.
	Toggle(ctx context.Context, userID, propertyID string) ([]string, error)

	// List resolves the user's favorite ids to property documents. Favorites
	// whose listing has since been deleted are skipped.
	List(ctx context.Context, userID string) ([]model.PropertyView, error)
}

type favoriteUsecase struct {
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
}

// NewFavoriteUsecase creates a new instance of FavoriteUsecase.
func NewFavoriteUsecase(
	userRepo repository.UserRepository,
	propertyRepo repository.PropertyRepository,
) FavoriteUsecase {
	return &favoriteUsecase{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
	}
}

func (u *favoriteUsecase) Toggle(ctx context.Context, userID, propertyID string) ([]string, error) {
	propertyObjectID, err := bson.ObjectIDFromHex(propertyID)
	if err != nil {
		return nil, ErrPropertyNotFound
	}

	// Reject references to listings that do not exist so favorites never
	// accumulate dangling ids.
	if _, err := u.propertyRepo.GetProperty(ctx, propertyID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Read-modify-write on a single document; concurrent toggles from the
	// same account are last-write-wins at the store layer.
	favorites := make([]bson.ObjectID, 0, len(user.Favorites)+1)
	found := false
	for _, id := range user.Favorites {
		if id == propertyObjectID {
			found = true
			continue
		}
		favorites = append(favorites, id)
	}
	if !found {
		favorites = append(favorites, propertyObjectID)
	}

	updated, err := u.userRepo.SetFavorites(ctx, userID, favorites)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(updated.Favorites))
	for _, id := range updated.Favorites {
		result = append(result, id.Hex())
	}

	return result, nil
}

func (u *favoriteUsecase) List(ctx context.Context, userID string) ([]model.PropertyView, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	properties, err := u.propertyRepo.GetProperties(ctx, user.Favorites)
	if err != nil {
		return nil, err
	}

	return resolveViews(ctx, u.userRepo, properties)
}

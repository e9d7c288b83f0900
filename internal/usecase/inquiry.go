package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/estatehub/estate-hub-api/internal/model"
	"github.com/estatehub/estate-hub-api/internal/repository"
)

// InquiryUsecase defines the business logic for contact inquiries about a
// listing. Inquiries are persisted before the owner is notified so dashboard
// stats can count them.
type InquiryUsecase interface {
	Submit(ctx context.Context, params SubmitInquiryParams) error
}

// SubmitInquiryParams defines the parameters for submitting an inquiry.
type SubmitInquiryParams struct {
	Name       string
	Email      string
	Phone      string
	Message    string
	PropertyID string
}

type inquiryUsecase struct {
	inquiryRepo  repository.InquiryRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	sender       Sender
	logger       *zerolog.Logger
}

// NewInquiryUsecase creates a new instance of InquiryUsecase.
func NewInquiryUsecase(
	inquiryRepo repository.InquiryRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	sender Sender,
	logger *zerolog.Logger,
) InquiryUsecase {
	return &inquiryUsecase{
		inquiryRepo:  inquiryRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		sender:       sender,
		logger:       logger,
	}
}

func (u *inquiryUsecase) Submit(ctx context.Context, params SubmitInquiryParams) error {
	property, err := u.propertyRepo.GetProperty(ctx, params.PropertyID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || bsonIDErr(err) {
			return ErrPropertyNotFound
		}
		return err
	}

	owner, err := u.userRepo.GetUser(ctx, property.OwnerID.Hex())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrPropertyNotFound
		}
		return err
	}

	if _, err := u.inquiryRepo.CreateInquiry(ctx, &model.Inquiry{
		PropertyID: property.ID,
		OwnerID:    property.OwnerID,
		Name:       params.Name,
		Email:      params.Email,
		Phone:      params.Phone,
		Message:    params.Message,
	}); err != nil {
		return err
	}

	phone := params.Phone
	if phone == "" {
		phone = "N/A"
	}

	subject := fmt.Sprintf("Property Inquiry: %s", property.Title)
	htmlBody := fmt.Sprintf(`
		<p>You have a new inquiry for your property "%s":</p>

		<p>Name: %s<br>
		Email: %s<br>
		Phone: %s</p>

		<p>Message:</p>
		<p>%s</p>
	`, property.Title, params.Name, params.Email, phone, params.Message)

	// Reply-To points at the inquirer so the owner can answer directly.
	if err := u.sender.SendHTML([]string{owner.Email}, params.Email, subject, htmlBody); err != nil {
		// The inquiry is stored either way; the owner can still see it on
		// their dashboard.
		u.logger.Error().Err(err).Msg("failed to send inquiry notification email")
	}

	return nil
}

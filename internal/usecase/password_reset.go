package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/estatehub/estate-hub-api/internal/config"
	"github.com/estatehub/estate-hub-api/internal/repository"
	"github.com/estatehub/estate-hub-api/internal/security"
)

// PasswordResetUsecase defines the business logic for the password reset flow.
type PasswordResetUsecase interface {
	// RequestReset generates a single-use reset token for the account with
	// the given email and triggers the notification email.
	RequestReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and replaces the account password.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
)

// Sender is the outbound email collaborator. Delivery itself is out of scope;
// failures are logged, not surfaced.
type Sender interface {
	SendHTML(to []string, replyTo, subject, htmlBody string) error
}

type passwordResetUsecase struct {
	userRepo repository.UserRepository
	sender   Sender
	cfg      *config.Config
	logger   *zerolog.Logger
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	sender Sender,
	cfg *config.Config,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo: userRepo,
		sender:   sender,
		cfg:      cfg,
		logger:   logger,
	}
}

func (u *passwordResetUsecase) RequestReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(u.cfg.ResetTokenExpires)
	if err := u.userRepo.SetResetToken(ctx, user.ID.Hex(), token, expiresAt); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/%s", u.cfg.AppPasswordResetURL, token)
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>
	`, resetLink, resetLink, u.cfg.ResetTokenExpires)

	if err := u.sender.SendHTML([]string{user.Email}, "", "Password Reset Request", htmlBody); err != nil {
		// The token is already stored; a delivery failure should not undo
		// the request. Never log the token itself.
		u.logger.Error().Err(err).Msg("failed to send password reset email")
	}

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// The repository consumes the token atomically: it only matches an
	// unexpired token and clears it in the same update, so a second attempt
	// with the same token cannot succeed.
	if _, err := u.userRepo.ConsumeResetToken(ctx, token, passwordHash); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrResetTokenInvalid
		}
		return err
	}

	return nil
}

// generateResetToken creates an opaque random token with 256 bits of entropy.
func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

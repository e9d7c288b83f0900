package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is the authorization tier of a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// User represents a registered account. The password hash and any pending
// reset token never leave the server; JSON projection goes through PublicUser.
type User struct {
	ID                   bson.ObjectID   `bson:"_id,omitempty"`
	Email                string          `bson:"email"`
	PasswordHash         string          `bson:"password_hash"`
	Name                 string          `bson:"name,omitempty"`
	Role                 Role            `bson:"role"`
	Verified             bool            `bson:"verified"`
	ResetPasswordToken   string          `bson:"reset_password_token,omitempty"`
	ResetPasswordExpires *time.Time      `bson:"reset_password_expires,omitempty"`
	Favorites            []bson.ObjectID `bson:"favorites"`
	TrialExpires         time.Time       `bson:"trial_expires"`
	CreatedAt            time.Time       `bson:"created_at"`
	UpdatedAt            time.Time       `bson:"updated_at"`
}

// PublicUser is the client-safe projection of a User.
type PublicUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     Role   `json:"role"`
	Verified bool   `json:"verified"`
}

// Public returns the projection of the user that is safe to send to clients.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID.Hex(),
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		Verified: u.Verified,
	}
}

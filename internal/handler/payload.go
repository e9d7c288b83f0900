package handler

import (
	"github.com/estatehub/estate-hub-api/internal/model"
)

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type ContactRequest struct {
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"    validate:"required"`
	PropertyID string `json:"propertyId" validate:"required"`
}

type AuthResponse struct {
	Message string           `json:"message,omitempty"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

type FavoritesResponse struct {
	Favorites any `json:"favorites"`
}

type OwnerPageResponse struct {
	Properties  []model.PropertyView `json:"properties"`
	TotalPages  int64                `json:"totalPages"`
	CurrentPage int64                `json:"currentPage"`
	Total       int64                `json:"total"`
}

type OwnerStatsResponse struct {
	TotalProperties int64 `json:"totalProperties"`
	ActiveListings  int64 `json:"activeListings"`
	TotalViews      int64 `json:"totalViews"`
	NewInquiries    int64 `json:"newInquiries"`
}

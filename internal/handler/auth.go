package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/estatehub/estate-hub-api/internal/httputil"
	"github.com/estatehub/estate-hub-api/internal/middleware"
	"github.com/estatehub/estate-hub-api/internal/usecase"
)

// AuthHandler serves registration, login, password reset and favorites.
type AuthHandler struct {
	authUsecase     usecase.AuthUsecase
	resetUsecase    usecase.PasswordResetUsecase
	favoriteUsecase usecase.FavoriteUsecase
	pv              *payloadValidator
	logger          *zerolog.Logger
	devMode         bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	resetUsecase usecase.PasswordResetUsecase,
	favoriteUsecase usecase.FavoriteUsecase,
	logger *zerolog.Logger,
	devMode bool,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:     authUsecase,
		resetUsecase:    resetUsecase,
		favoriteUsecase: favoriteUsecase,
		pv:              newPayloadValidator(),
		logger:          logger,
		devMode:         devMode,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.pv.decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			httputil.WriteError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.logger.Error().Err(err).Msg("registration failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user.Public(),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.pv.decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, AuthResponse{
		Token: token,
		User:  user.Public(),
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.pv.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.resetUsecase.RequestReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error().Err(err).Msg("password reset request failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req ResetPasswordRequest
	if !h.pv.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.resetUsecase.ResetPassword(r.Context(), token, req.Password); err != nil {
		if errors.Is(err, usecase.ErrResetTokenInvalid) {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		h.logger.Error().Err(err).Msg("password reset failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}

func (h *AuthHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	propertyID := chi.URLParam(r, "propertyId")

	favorites, err := h.favoriteUsecase.Toggle(r.Context(), user.ID.Hex(), propertyID)
	if err != nil {
		if errors.Is(err, usecase.ErrPropertyNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "Property not found")
			return
		}
		h.logger.Error().Err(err).Msg("favorite toggle failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FavoritesResponse{Favorites: favorites})
}

func (h *AuthHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	favorites, err := h.favoriteUsecase.List(r.Context(), user.ID.Hex())
	if err != nil {
		h.logger.Error().Err(err).Msg("favorite listing failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FavoritesResponse{Favorites: favorites})
}

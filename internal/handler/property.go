package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/estatehub/estate-hub-api/internal/httputil"
	"github.com/estatehub/estate-hub-api/internal/middleware"
	"github.com/estatehub/estate-hub-api/internal/model"
	"github.com/estatehub/estate-hub-api/internal/repository"
	"github.com/estatehub/estate-hub-api/internal/storage"
	"github.com/estatehub/estate-hub-api/internal/usecase"
)

const (
	// maxImagesPerListing caps the number of images accepted per request.
	maxImagesPerListing = 10

	// maxUploadBytes bounds the in-memory multipart buffer.
	maxUploadBytes = 32 << 20
)

// PropertyHandler serves the listing CRUD, search, pagination, stats and
// contact endpoints.
type PropertyHandler struct {
	propertyUsecase usecase.PropertyUsecase
	inquiryUsecase  usecase.InquiryUsecase
	images          storage.ImageStore
	pv              *payloadValidator
	logger          *zerolog.Logger
	devMode         bool
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(
	propertyUsecase usecase.PropertyUsecase,
	inquiryUsecase usecase.InquiryUsecase,
	images storage.ImageStore,
	logger *zerolog.Logger,
	devMode bool,
) *PropertyHandler {
	return &PropertyHandler{
		propertyUsecase: propertyUsecase,
		inquiryUsecase:  inquiryUsecase,
		images:          images,
		pv:              newPayloadValidator(),
		logger:          logger,
		devMode:         devMode,
	}
}

// createPropertyForm mirrors the multipart fields of the create endpoint.
type createPropertyForm struct {
	Title        string  `validate:"required"`
	Description  string  `validate:"required"`
	Price        float64 `validate:"gte=0"`
	Location     string  `validate:"required"`
	PropertyType string  `validate:"required"`
	Bedrooms     int     `validate:"gte=0"`
	Bathrooms    int     `validate:"gte=0"`
	Area         float64 `validate:"gt=0"`
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	form := createPropertyForm{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Location:     r.FormValue("location"),
		PropertyType: r.FormValue("propertyType"),
	}

	var err error
	if form.Price, err = strconv.ParseFloat(r.FormValue("price"), 64); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "price must be a number")
		return
	}
	if form.Bedrooms, err = strconv.Atoi(r.FormValue("bedrooms")); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bedrooms must be an integer")
		return
	}
	if form.Bathrooms, err = strconv.Atoi(r.FormValue("bathrooms")); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bathrooms must be an integer")
		return
	}
	if form.Area, err = strconv.ParseFloat(r.FormValue("area"), 64); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "area must be a number")
		return
	}

	if !h.pv.check(w, &form) {
		return
	}

	imagePaths, ok := h.saveImages(w, r)
	if !ok {
		return
	}

	property, err := h.propertyUsecase.Create(r.Context(), user.ID.Hex(), usecase.CreatePropertyParams{
		Title:        form.Title,
		Description:  form.Description,
		Price:        form.Price,
		Location:     form.Location,
		PropertyType: form.PropertyType,
		Bedrooms:     form.Bedrooms,
		Bathrooms:    form.Bathrooms,
		Area:         form.Area,
		Images:       imagePaths,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("property creation failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	owner := &model.PropertyOwner{ID: user.ID.Hex(), Email: user.Email, Name: user.Name}
	httputil.WriteJSON(w, http.StatusCreated, property.View(owner))
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	params := repository.ListPropertiesParams{
		Sort: r.URL.Query().Get("sort"),
	}

	if location := r.URL.Query().Get("location"); location != "" {
		params.Location = &location
	}
	if propertyType := r.URL.Query().Get("type"); propertyType != "" {
		params.PropertyType = &propertyType
	}
	if minPrice := r.URL.Query().Get("minPrice"); minPrice != "" {
		v, err := strconv.ParseFloat(minPrice, 64)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "minPrice must be a number")
			return
		}
		params.MinPrice = &v
	}
	if maxPrice := r.URL.Query().Get("maxPrice"); maxPrice != "" {
		v, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "maxPrice must be a number")
			return
		}
		params.MaxPrice = &v
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		v, err := strconv.ParseInt(limit, 10, 64)
		if err != nil || v < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		params.Limit = v
	}

	properties, err := h.propertyUsecase.List(r.Context(), params)
	if err != nil {
		h.logger.Error().Err(err).Msg("property listing failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, properties)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	property, err := h.propertyUsecase.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrPropertyNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "Property not found")
			return
		}
		h.logger.Error().Err(err).Msg("property lookup failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, property)
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	params := repository.UpdatePropertyParams{}

	// Patch semantics: only fields present in the form are applied.
	if v, ok := formValue(r, "title"); ok {
		params.Title = &v
	}
	if v, ok := formValue(r, "description"); ok {
		params.Description = &v
	}
	if v, ok := formValue(r, "location"); ok {
		params.Location = &v
	}
	if v, ok := formValue(r, "propertyType"); ok {
		params.PropertyType = &v
	}
	if v, ok := formValue(r, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "price must be a non-negative number")
			return
		}
		params.Price = &price
	}
	if v, ok := formValue(r, "bedrooms"); ok {
		bedrooms, err := strconv.Atoi(v)
		if err != nil || bedrooms < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "bedrooms must be a non-negative integer")
			return
		}
		params.Bedrooms = &bedrooms
	}
	if v, ok := formValue(r, "bathrooms"); ok {
		bathrooms, err := strconv.Atoi(v)
		if err != nil || bathrooms < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "bathrooms must be a non-negative integer")
			return
		}
		params.Bathrooms = &bathrooms
	}
	if v, ok := formValue(r, "area"); ok {
		area, err := strconv.ParseFloat(v, 64)
		if err != nil || area <= 0 {
			httputil.WriteError(w, http.StatusBadRequest, "area must be a positive number")
			return
		}
		params.Area = &area
	}

	// New images, when provided, fully replace the previous list.
	if files := imageFiles(r); len(files) > 0 {
		imagePaths, ok := h.saveImages(w, r)
		if !ok {
			return
		}
		params.Images = imagePaths
	}

	property, err := h.propertyUsecase.Update(r.Context(), chi.URLParam(r, "id"), user.ID.Hex(), params)
	if err != nil {
		if errors.Is(err, usecase.ErrPropertyNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "Property not found or not authorized")
			return
		}
		h.logger.Error().Err(err).Msg("property update failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	owner := &model.PropertyOwner{ID: user.ID.Hex(), Email: user.Email, Name: user.Name}
	httputil.WriteJSON(w, http.StatusOK, property.View(owner))
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	err := h.propertyUsecase.Delete(r.Context(), chi.URLParam(r, "id"), user.ID.Hex())
	if err != nil {
		if errors.Is(err, usecase.ErrPropertyNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "Property not found or not authorized")
			return
		}
		h.logger.Error().Err(err).Msg("property deletion failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Property deleted"})
}

func (h *PropertyHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	page := int64(1)
	if v := r.URL.Query().Get("page"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 1 {
			httputil.WriteError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = parsed
	}

	pageSize := int64(10)
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 1 {
			httputil.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		pageSize = parsed
	}

	result, err := h.propertyUsecase.ListByOwner(r.Context(), userID, page, pageSize)
	if err != nil {
		h.logger.Error().Err(err).Msg("owner property listing failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, OwnerPageResponse{
		Properties:  result.Properties,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
		Total:       result.Total,
	})
}

func (h *PropertyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.propertyUsecase.Stats(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.logger.Error().Err(err).Msg("owner stats failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, OwnerStatsResponse{
		TotalProperties: stats.TotalProperties,
		ActiveListings:  stats.ActiveListings,
		TotalViews:      stats.TotalViews,
		NewInquiries:    stats.NewInquiries,
	})
}

func (h *PropertyHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.pv.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.inquiryUsecase.Submit(r.Context(), usecase.SubmitInquiryParams{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
		PropertyID: req.PropertyID,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrPropertyNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "Property not found")
			return
		}
		h.logger.Error().Err(err).Msg("inquiry submission failed")
		httputil.WriteInternalError(w, err, h.devMode)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// saveImages persists every uploaded image and returns their public paths.
// On failure it writes the error response and returns ok=false.
func (h *PropertyHandler) saveImages(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	files := imageFiles(r)
	if len(files) > maxImagesPerListing {
		httputil.WriteError(w, http.StatusBadRequest, "Too many images")
		return nil, false
	}

	imagePaths := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := h.saveImage(fh)
		if err != nil {
			h.logger.Error().Err(err).Msg("image upload failed")
			httputil.WriteInternalError(w, err, h.devMode)
			return nil, false
		}
		imagePaths = append(imagePaths, path)
	}

	return imagePaths, true
}

func (h *PropertyHandler) saveImage(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return h.images.Save(fh.Filename, f)
}

// imageFiles returns the uploaded "images" parts, if any.
func imageFiles(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File["images"]
}

// formValue reports a multipart field and whether it was present at all,
// so absent fields are distinguishable from empty ones.
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

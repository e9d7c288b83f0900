package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/estatehub/estate-hub-api/internal/model"
	"github.com/estatehub/estate-hub-api/internal/repository"
	"github.com/estatehub/estate-hub-api/internal/usecase"
)

func doMultipart(
	t *testing.T,
	router http.Handler,
	method, path string,
	fields map[string]string,
	imageNames []string,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range imageNames {
		part, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validListingFields() map[string]string {
	return map[string]string{
		"title":        "Downtown loft",
		"description":  "Bright two-bedroom loft",
		"price":        "250000",
		"location":     "Austin",
		"propertyType": "apartment",
		"bedrooms":     "2",
		"bathrooms":    "1",
		"area":         "86.5",
	}
}

func TestPropertyHandler_Create(t *testing.T) {
	env := newTestEnv(t)

	env.images.On("Save", "front.jpg", mock.Anything).Return("/uploads/abc-front.jpg", nil)

	var gotParams usecase.CreatePropertyParams
	env.properties.On("Create", mock.Anything, env.user.ID.Hex(), mock.AnythingOfType("usecase.CreatePropertyParams")).
		Run(func(args mock.Arguments) {
			gotParams = args.Get(2).(usecase.CreatePropertyParams)
		}).
		Return(&model.Property{ID: bson.NewObjectID(), Title: "Downtown loft", OwnerID: env.user.ID}, nil)

	rec := doMultipart(t, env.router, http.MethodPost, "/api/property/", validListingFields(), []string{"front.jpg"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Downtown loft", gotParams.Title)
	assert.Equal(t, 250000.0, gotParams.Price)
	assert.Equal(t, []string{"/uploads/abc-front.jpg"}, gotParams.Images)

	body := decodeBody(t, rec)
	listedBy, ok := body["listedBy"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, env.user.Email, listedBy["email"])
}

func TestPropertyHandler_Create_BadPrice(t *testing.T) {
	env := newTestEnv(t)

	fields := validListingFields()
	fields["price"] = "a lot"

	rec := doMultipart(t, env.router, http.MethodPost, "/api/property/", fields, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "price must be a number", decodeBody(t, rec)["message"])
	env.properties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestPropertyHandler_Create_MissingTitle(t *testing.T) {
	env := newTestEnv(t)

	fields := validListingFields()
	delete(fields, "title")

	rec := doMultipart(t, env.router, http.MethodPost, "/api/property/", fields, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.properties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestPropertyHandler_List_QueryFilters(t *testing.T) {
	env := newTestEnv(t)

	location := "austin"
	propertyType := "apartment"
	minPrice := 100000.0
	maxPrice := 300000.0
	expected := repository.ListPropertiesParams{
		Location:     &location,
		PropertyType: &propertyType,
		MinPrice:     &minPrice,
		MaxPrice:     &maxPrice,
		Sort:         "price-desc",
		Limit:        20,
	}

	env.properties.On("List", mock.Anything, expected).Return([]model.PropertyView{}, nil)

	rec := doJSON(t, env.router, http.MethodGet,
		"/api/property/?location=austin&type=apartment&minPrice=100000&maxPrice=300000&sort=price-desc&limit=20", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	env.properties.AssertExpectations(t)
}

func TestPropertyHandler_List_BadMinPrice(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodGet, "/api/property/?minPrice=cheap", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.properties.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestPropertyHandler_Get(t *testing.T) {
	env := newTestEnv(t)

	propertyID := bson.NewObjectID()
	env.properties.On("Get", mock.Anything, propertyID.Hex()).
		Return(&model.PropertyView{ID: propertyID.Hex(), Title: "Loft", Views: 7}, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/property/"+propertyID.Hex(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Loft", body["title"])
	assert.Equal(t, float64(7), body["views"])
}

func TestPropertyHandler_Get_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.properties.On("Get", mock.Anything, mock.Anything).Return(nil, usecase.ErrPropertyNotFound)

	rec := doJSON(t, env.router, http.MethodGet, "/api/property/"+bson.NewObjectID().Hex(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Property not found", decodeBody(t, rec)["message"])
}

func TestPropertyHandler_Update_PartialFields(t *testing.T) {
	env := newTestEnv(t)

	propertyID := bson.NewObjectID()
	var gotParams repository.UpdatePropertyParams
	env.properties.On("Update", mock.Anything, propertyID.Hex(), env.user.ID.Hex(), mock.AnythingOfType("repository.UpdatePropertyParams")).
		Run(func(args mock.Arguments) {
			gotParams = args.Get(3).(repository.UpdatePropertyParams)
		}).
		Return(&model.Property{ID: propertyID, Title: "Renovated loft", OwnerID: env.user.ID}, nil)

	rec := doMultipart(t, env.router, http.MethodPut, "/api/property/"+propertyID.Hex(),
		map[string]string{"title": "Renovated loft", "price": "275000"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	// Only the submitted fields are patched; everything else stays untouched.
	require.NotNil(t, gotParams.Title)
	assert.Equal(t, "Renovated loft", *gotParams.Title)
	require.NotNil(t, gotParams.Price)
	assert.Equal(t, 275000.0, *gotParams.Price)
	assert.Nil(t, gotParams.Description)
	assert.Nil(t, gotParams.Location)
	assert.Nil(t, gotParams.Images)
}

func TestPropertyHandler_Update_NotOwned(t *testing.T) {
	env := newTestEnv(t)
	env.properties.On("Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, usecase.ErrPropertyNotFound)

	rec := doMultipart(t, env.router, http.MethodPut, "/api/property/"+bson.NewObjectID().Hex(),
		map[string]string{"title": "Hijacked"}, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Property not found or not authorized", decodeBody(t, rec)["message"])
}

func TestPropertyHandler_Update_ReplacesImages(t *testing.T) {
	env := newTestEnv(t)

	propertyID := bson.NewObjectID()
	env.images.On("Save", "new.jpg", mock.Anything).Return("/uploads/xyz-new.jpg", nil)

	var gotParams repository.UpdatePropertyParams
	env.properties.On("Update", mock.Anything, propertyID.Hex(), env.user.ID.Hex(), mock.AnythingOfType("repository.UpdatePropertyParams")).
		Run(func(args mock.Arguments) {
			gotParams = args.Get(3).(repository.UpdatePropertyParams)
		}).
		Return(&model.Property{ID: propertyID, OwnerID: env.user.ID}, nil)

	rec := doMultipart(t, env.router, http.MethodPut, "/api/property/"+propertyID.Hex(),
		map[string]string{}, []string{"new.jpg"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"/uploads/xyz-new.jpg"}, gotParams.Images)
}

func TestPropertyHandler_Delete(t *testing.T) {
	env := newTestEnv(t)

	propertyID := bson.NewObjectID()
	env.properties.On("Delete", mock.Anything, propertyID.Hex(), env.user.ID.Hex()).Return(nil)

	rec := doJSON(t, env.router, http.MethodDelete, "/api/property/"+propertyID.Hex(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Property deleted", decodeBody(t, rec)["message"])
}

func TestPropertyHandler_Delete_NotOwned(t *testing.T) {
	env := newTestEnv(t)
	env.properties.On("Delete", mock.Anything, mock.Anything, mock.Anything).
		Return(usecase.ErrPropertyNotFound)

	rec := doJSON(t, env.router, http.MethodDelete, "/api/property/"+bson.NewObjectID().Hex(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPropertyHandler_ListByUser(t *testing.T) {
	env := newTestEnv(t)

	ownerID := bson.NewObjectID()
	env.properties.On("ListByOwner", mock.Anything, ownerID.Hex(), int64(2), int64(10)).
		Return(&usecase.OwnerPage{
			Properties:  []model.PropertyView{{ID: bson.NewObjectID().Hex()}},
			Total:       15,
			TotalPages:  2,
			CurrentPage: 2,
		}, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/property/user/"+ownerID.Hex()+"?page=2&limit=10", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(15), body["total"])
	assert.Equal(t, float64(2), body["totalPages"])
	assert.Equal(t, float64(2), body["currentPage"])
}

func TestPropertyHandler_ListByUser_BadPage(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodGet, "/api/property/user/"+bson.NewObjectID().Hex()+"?page=0", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.properties.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPropertyHandler_Stats(t *testing.T) {
	env := newTestEnv(t)

	ownerID := bson.NewObjectID()
	env.properties.On("Stats", mock.Anything, ownerID.Hex()).
		Return(&usecase.OwnerStats{
			TotalProperties: 8,
			ActiveListings:  8,
			TotalViews:      120,
			NewInquiries:    3,
		}, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/property/stats/"+ownerID.Hex(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(8), body["totalProperties"])
	assert.Equal(t, float64(120), body["totalViews"])
	assert.Equal(t, float64(3), body["newInquiries"])
}

func TestPropertyHandler_Contact(t *testing.T) {
	env := newTestEnv(t)

	propertyID := bson.NewObjectID()
	env.inquiries.On("Submit", mock.Anything, usecase.SubmitInquiryParams{
		Name:       "Alex",
		Email:      "alex@example.com",
		Message:    "Is this still available?",
		PropertyID: propertyID.Hex(),
	}).Return(nil)

	rec := doJSON(t, env.router, http.MethodPost, "/api/property/contact", map[string]string{
		"name":       "Alex",
		"email":      "alex@example.com",
		"message":    "Is this still available?",
		"propertyId": propertyID.Hex(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestPropertyHandler_Contact_MissingProperty(t *testing.T) {
	env := newTestEnv(t)
	env.inquiries.On("Submit", mock.Anything, mock.Anything).Return(usecase.ErrPropertyNotFound)

	rec := doJSON(t, env.router, http.MethodPost, "/api/property/contact", map[string]string{
		"name":       "Alex",
		"email":      "alex@example.com",
		"message":    "Hello",
		"propertyId": bson.NewObjectID().Hex(),
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Property not found", decodeBody(t, rec)["message"])
}

func TestPropertyHandler_Contact_InvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/api/property/contact", map[string]string{
		"name": "Alex",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.inquiries.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

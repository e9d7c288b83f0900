package handler

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/estatehub/estate-hub-api/internal/middleware"
	"github.com/estatehub/estate-hub-api/internal/model"
	"github.com/estatehub/estate-hub-api/internal/repository"
	"github.com/estatehub/estate-hub-api/internal/usecase"
)

// --- Mocks ---

type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) Register(ctx context.Context, params usecase.RegisterParams) (*model.User, string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthUsecase) Login(ctx context.Context, params usecase.LoginParams) (*model.User, string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

type MockPasswordResetUsecase struct {
	mock.Mock
}

func (m *MockPasswordResetUsecase) RequestReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockPasswordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

type MockFavoriteUsecase struct {
	mock.Mock
}

func (m *MockFavoriteUsecase) Toggle(ctx context.Context, userID, propertyID string) ([]string, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFavoriteUsecase) List(ctx context.Context, userID string) ([]model.PropertyView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PropertyView), args.Error(1)
}

type MockPropertyUsecase struct {
	mock.Mock
}

func (m *MockPropertyUsecase) Create(
	ctx context.Context,
	ownerID string,
	params usecase.CreatePropertyParams,
) (*model.Property, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyUsecase) Get(ctx context.Context, id string) (*model.PropertyView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PropertyView), args.Error(1)
}

func (m *MockPropertyUsecase) List(
	ctx context.Context,
	params repository.ListPropertiesParams,
) ([]model.PropertyView, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PropertyView), args.Error(1)
}

func (m *MockPropertyUsecase) Update(
	ctx context.Context,
	id, requesterID string,
	params repository.UpdatePropertyParams,
) (*model.Property, error) {
	args := m.Called(ctx, id, requesterID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyUsecase) Delete(ctx context.Context, id, requesterID string) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

func (m *MockPropertyUsecase) ListByOwner(
	ctx context.Context,
	ownerID string,
	page, pageSize int64,
) (*usecase.OwnerPage, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.OwnerPage), args.Error(1)
}

func (m *MockPropertyUsecase) Stats(ctx context.Context, ownerID string) (*usecase.OwnerStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.OwnerStats), args.Error(1)
}

type MockInquiryUsecase struct {
	mock.Mock
}

func (m *MockInquiryUsecase) Submit(ctx context.Context, params usecase.SubmitInquiryParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(filename string, r io.Reader) (string, error) {
	args := m.Called(filename, r)
	return args.String(0), args.Error(1)
}

// stubAuth replaces the bearer-token middleware with one that attaches a
// fixed account, so handlers can be exercised without minting tokens.
func stubAuth(user *model.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), user)))
		})
	}
}

// testEnv wires the full router against mocked use cases.
type testEnv struct {
	auth       *MockAuthUsecase
	reset      *MockPasswordResetUsecase
	favorites  *MockFavoriteUsecase
	properties *MockPropertyUsecase
	inquiries  *MockInquiryUsecase
	images     *MockImageStore
	user       *model.User
	router     chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		auth:       new(MockAuthUsecase),
		reset:      new(MockPasswordResetUsecase),
		favorites:  new(MockFavoriteUsecase),
		properties: new(MockPropertyUsecase),
		inquiries:  new(MockInquiryUsecase),
		images:     new(MockImageStore),
		user: &model.User{
			ID:    bson.NewObjectID(),
			Email: "jane@example.com",
			Name:  "Jane",
			Role:  model.RoleUser,
		},
	}

	logger := zerolog.Nop()
	authHandler := NewAuthHandler(env.auth, env.reset, env.favorites, &logger, false)
	propertyHandler := NewPropertyHandler(env.properties, env.inquiries, env.images, &logger, false)
	env.router = NewRouter(authHandler, propertyHandler, stubAuth(env.user), &logger, t.TempDir())

	return env
}

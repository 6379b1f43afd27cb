package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"harvesthub/internal/auth"
	"harvesthub/internal/config"
	"harvesthub/internal/db"
	apperrors "harvesthub/internal/errors"
	"harvesthub/internal/handler"
	"harvesthub/internal/metrics"
	"harvesthub/internal/model"
	"harvesthub/internal/repository"
	"harvesthub/internal/service"
	"harvesthub/internal/storage"
)

type testServer struct {
	e    *echo.Echo
	conn *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conn, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })

	store, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	listingRepo := repository.NewListingRepository(conn)
	identity := service.NewIdentityService(repository.NewUserRepository(conn), auth.NewJWTService("test-secret", 0), nil)
	listings := service.NewListingService(listingRepo, store, m)
	matches := service.NewMatchService(listingRepo, m)

	e := echo.New()
	cfg := &config.Config{CORSOrigins: []string{"*"}}
	Register(e, cfg, zerolog.Nop(), registry, identity, Handlers{
		Auth:   handler.NewAuthHandler(identity),
		User:   handler.NewUserHandler(),
		Food:   handler.NewFoodHandler(listings),
		Match:  handler.NewMatchHandler(matches),
		Upload: handler.NewUploadHandler(store),
	})

	return &testServer{e: e, conn: conn}
}

func (s *testServer) do(method, path, token, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return s.do(method, path, token, echo.MIMEApplicationJSON, bytes.NewReader(body))
}

func (s *testServer) register(t *testing.T, name, email string, role model.Role) string {
	t.Helper()
	rec := s.doJSON(t, http.MethodPost, "/register", "", echo.Map{
		"name": name, "email": email, "password": "pw123", "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp handler.AuthResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (s *testServer) postFood(t *testing.T, token string, fields map[string]string, photoName string, photo []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if photoName != "" {
		part, err := w.CreateFormFile("photo", photoName)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return s.do(http.MethodPost, "/food", token, w.FormDataContentType(), &buf)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	decode(t, rec, &resp)
	return resp
}

func TestClaimFlow(t *testing.T) {
	s := newTestServer(t)
	farmer := s.register(t, "Alice", "alice@farm.test", model.RoleFarmer)

	rec := s.postFood(t, farmer, map[string]string{
		"description": "Rice 20kg",
		"location":    "Depot A",
		"quantity":    "20kg",
	}, "rice bag.jpg", []byte("jpeg-bytes"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created handler.CreateFoodResponse
	decode(t, rec, &created)
	assert.Equal(t, "Food listing added!", created.Message)
	require.NotNil(t, created.Food)

	ngo := s.register(t, "Feed Co", "ngo@feed.test", model.RoleNGO)

	var list handler.ListFoodResponse
	rec = s.do(http.MethodGet, "/food", ngo, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	require.Len(t, list.Food, 1)
	item := list.Food[0]
	assert.Equal(t, created.Food.ID, item.ID)
	assert.Equal(t, model.ListingStatusAvailable, item.Status)
	assert.Equal(t, "Alice", item.PosterName)
	require.NotNil(t, item.PhotoURL)
	assert.Equal(t, "/uploads/rice_bag.jpg", *item.PhotoURL)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, "20kg", *item.Quantity)
	assert.Nil(t, item.ShelfLife)

	rec = s.doJSON(t, http.MethodPost, "/match", ngo, echo.Map{"food_id": item.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var claimed handler.ClaimResponse
	decode(t, rec, &claimed)
	assert.Equal(t, "Food claimed!", claimed.Message)
	require.NotNil(t, claimed.Match)
	assert.Equal(t, model.MatchStatusPending, claimed.Match.Status)

	rec = s.do(http.MethodGet, "/food", ngo, "", nil)
	decode(t, rec, &list)
	require.Len(t, list.Food, 1)
	assert.Equal(t, model.ListingStatusMatched, list.Food[0].Status)

	rec = s.doJSON(t, http.MethodPost, "/match", ngo, echo.Map{"food_id": item.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "food not available", errorBody(t, rec).Message)

	var matchCount int64
	require.NoError(t, s.conn.Model(&model.Match{}).Count(&matchCount).Error)
	assert.Equal(t, int64(1), matchCount)

	rec = s.do(http.MethodGet, "/uploads/rice_bag.jpg", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg-bytes", rec.Body.String())
	assert.Equal(t, "image/jpeg", rec.Header().Get(echo.HeaderContentType))
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Sam", "sam@supply.test", model.RoleSupplier)

	rec := s.do(http.MethodGet, "/profile", token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var user model.User
	decode(t, rec, &user)
	assert.Equal(t, "sam@supply.test", user.Email)
	assert.Equal(t, model.RoleSupplier, user.Role)
}

func TestBearerAuth(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Gone", "gone@test.test", model.RoleLogistics)
	require.NoError(t, s.conn.Where("email = ?", "gone@test.test").Delete(&model.User{}).Error)

	tests := []struct {
		name        string
		header      string
		wantMessage string
	}{
		{name: "no header", header: "", wantMessage: "token is missing"},
		{name: "garbage token", header: "Bearer not-a-jwt", wantMessage: "token is invalid"},
		{name: "wrong scheme", header: "Basic dXNlcjpwdw==", wantMessage: "token is invalid"},
		{name: "user deleted", header: "Bearer " + token, wantMessage: "token is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/food", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			s.e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantMessage, errorBody(t, rec).Message)
		})
	}
}

func TestRegisterAndLoginErrors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Alice", "alice@farm.test", model.RoleFarmer)

	tests := []struct {
		name     string
		path     string
		payload  interface{}
		wantCode int
	}{
		{
			name:     "duplicate email",
			path:     "/register",
			payload:  echo.Map{"name": "Other", "email": "alice@farm.test", "password": "x", "role": "ngo"},
			wantCode: http.StatusConflict,
		},
		{
			name:     "missing password",
			path:     "/register",
			payload:  echo.Map{"name": "Bob", "email": "bob@test.test", "role": "ngo"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown role",
			path:     "/register",
			payload:  echo.Map{"name": "Bob", "email": "bob@test.test", "password": "x", "role": "admin"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "empty body",
			path:     "/register",
			payload:  echo.Map{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "wrong password",
			path:     "/login",
			payload:  echo.Map{"email": "alice@farm.test", "password": "nope"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown email",
			path:     "/login",
			payload:  echo.Map{"email": "nobody@test.test", "password": "pw123"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "login missing email",
			path:     "/login",
			payload:  echo.Map{"password": "pw123"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.doJSON(t, http.MethodPost, tt.path, "", tt.payload)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}

	rec := s.doJSON(t, http.MethodPost, "/login", "", echo.Map{"email": "alice@farm.test", "password": "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.AuthResponse
	decode(t, rec, &resp)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.NotEmpty(t, resp.Token)
}

func TestCreateFood(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Alice", "alice@farm.test", model.RoleFarmer)

	rec := s.postFood(t, token, map[string]string{"description": "Apples"}, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.postFood(t, token, map[string]string{"description": "   ", "location": "Barn"}, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.postFood(t, token, map[string]string{"description": "Apples", "location": "Barn", "shelf_life": "3 days"}, "", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created handler.CreateFoodResponse
	decode(t, rec, &created)
	assert.Nil(t, created.Food.PhotoURL)
	assert.Nil(t, created.Food.Quantity)
	require.NotNil(t, created.Food.ShelfLife)
	assert.Equal(t, "3 days", *created.Food.ShelfLife)

	form := strings.NewReader("description=Pears&location=Orchard")
	rec = s.do(http.MethodPost, "/food", token, echo.MIMEApplicationForm, form)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestClaimErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Feed Co", "ngo@feed.test", model.RoleNGO)

	rec := s.doJSON(t, http.MethodPost, "/match", token, echo.Map{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.doJSON(t, http.MethodPost, "/match", token, echo.Map{"food_id": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.doJSON(t, http.MethodPost, "/match", token, echo.Map{"food_id": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FOOD_NOT_AVAILABLE", errorBody(t, rec).Code)
}

func TestServeUploadNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/uploads/missing.jpg", "/uploads/.hidden", "/uploads/a%20b.jpg"} {
		rec := s.do(http.MethodGet, path, "", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg handler.MessageResponse
	decode(t, rec, &msg)
	assert.Equal(t, "Welcome to HarvestHub API!", msg.Message)

	rec = s.do(http.MethodGet, "/healthz", "", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	token := s.register(t, "Alice", "alice@farm.test", model.RoleFarmer)
	s.postFood(t, token, map[string]string{"description": "Apples", "location": "Barn"}, "", nil)

	rec = s.do(http.MethodGet, "/metrics", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "harvesthub_listings_created_total 1")
}

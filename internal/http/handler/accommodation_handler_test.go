package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/norvik-group/facility-api/internal/auth"
	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/http/handler"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"github.com/norvik-group/facility-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAccommodationRouter(t *testing.T, db *gorm.DB, uc *auth.UserContext) http.Handler {
	t.Helper()

	perms := service.NewPermissionService(repository.NewPermissionRepository(db), testutil.Logger())
	svc := service.NewAccommodationService(
		repository.NewAccommodationRepository(db),
		repository.NewClientRepository(db),
		perms,
		testutil.Logger(),
	)
	h := handler.NewAccommodationHandler(svc, testutil.Logger())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if uc != nil {
				req = req.WithContext(auth.WithUserContext(req.Context(), uc))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/accommodations", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func TestAccommodationHandler_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleAccommodations))
	router := newAccommodationRouter(t, db, &auth.UserContext{UserID: 1, RoleID: role.ID})

	body, _ := json.Marshal(map[string]interface{}{
		"name":    "Worker housing A",
		"address": "Storgata 1",
		"type":    "apartment",
	})
	req := httptest.NewRequest(http.MethodPost, "/accommodations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)

	data := created.Data.(map[string]interface{})
	id := int(data["id"].(float64))
	assert.Equal(t, "Worker housing A", data["name"])

	req = httptest.NewRequest(http.MethodGet, "/accommodations/"+strconv.Itoa(id), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var fetched domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.True(t, fetched.Success)
}

func TestAccommodationHandler_ValidationError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleAccommodations))
	router := newAccommodationRouter(t, db, &auth.UserContext{UserID: 1, RoleID: role.ID})

	// Name too short and address missing.
	body := []byte(`{"name":"A"}`)
	req := httptest.NewRequest(http.MethodPost, "/accommodations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	fields := resp.Data.(map[string]interface{})
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "address")
}

func TestAccommodationHandler_NotFoundEnvelope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleAccommodations))
	router := newAccommodationRouter(t, db, &auth.UserContext{UserID: 1, RoleID: role.ID})

	req := httptest.NewRequest(http.MethodGet, "/accommodations/9999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestAccommodationHandler_PermissionAndAuth(t *testing.T) {
	db := testutil.SetupTestDB(t)

	t.Run("unauthenticated request", func(t *testing.T) {
		router := newAccommodationRouter(t, db, nil)
		req := httptest.NewRequest(http.MethodGet, "/accommodations", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing capability", func(t *testing.T) {
		viewer := testutil.CreateRole(t, db, "viewer", domain.RolePermission{
			Module:  domain.ModuleAccommodations,
			CanView: true,
		})
		router := newAccommodationRouter(t, db, &auth.UserContext{UserID: 1, RoleID: viewer.ID})

		body := []byte(`{"name":"Worker housing","address":"Storgata 1"}`)
		req := httptest.NewRequest(http.MethodPost, "/accommodations", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAccommodationHandler_ListEnvelope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	role := testutil.CreateRole(t, db, "ops", testutil.FullAccess(domain.ModuleAccommodations))
	router := newAccommodationRouter(t, db, &auth.UserContext{UserID: 1, RoleID: role.ID})

	for _, name := range []string{"Unit A", "Unit B", "Unit C"} {
		body, _ := json.Marshal(map[string]interface{}{"name": name, "address": "Storgata 1"})
		req := httptest.NewRequest(http.MethodPost, "/accommodations", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/accommodations?page=1&perPage=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.PageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Equal(t, 2, resp.PerPage)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Len(t, resp.Data.([]interface{}), 2)
}

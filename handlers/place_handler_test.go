package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placebook-server/models"
	"placebook-server/services"
	"placebook-server/store"
)

type fixedGeocoder struct {
	location models.Location
}

func (g fixedGeocoder) Resolve(ctx context.Context, address string) (models.Location, error) {
	return g.location, nil
}

func newTestRouter(t *testing.T) (*mux.Router, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	geocoder := fixedGeocoder{location: models.Location{Lat: 37.4, Lng: -122.08}}

	placeHandler := NewPlaceHandler(services.NewPlaceService(memStore, geocoder, nil))
	userHandler := NewUserHandler(services.NewUserService(memStore, nil, "test-secret"))

	r := mux.NewRouter()
	r.HandleFunc("/api/places", placeHandler.CreatePlace).Methods("POST")
	r.HandleFunc("/api/places/users/{uid}", placeHandler.GetPlacesByUserID).Methods("GET")
	r.HandleFunc("/api/places/{pid}", placeHandler.GetPlaceByID).Methods("GET")
	r.HandleFunc("/api/places/{pid}", placeHandler.UpdatePlace).Methods("PATCH")
	r.HandleFunc("/api/places/{pid}", placeHandler.DeletePlace).Methods("DELETE")
	r.HandleFunc("/api/users", userHandler.GetUsers).Methods("GET")
	r.HandleFunc("/api/users/signup", userHandler.Signup).Methods("POST")
	return r, memStore
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedTestUser(t *testing.T, memStore *store.MemoryStore) *models.User {
	t.Helper()
	user := &models.User{Name: "Arsalan", Email: "arsalan@example.com", Places: []string{}}
	require.NoError(t, memStore.Users().Save(context.Background(), user))
	return user
}

func TestCreateThenGetPlace(t *testing.T) {
	router, memStore := newTestRouter(t)
	user := seedTestUser(t, memStore)

	rec := doJSON(t, router, http.MethodPost, "/api/places", map[string]string{
		"title":       "Googleplex",
		"description": "Google headquarters",
		"address":     "1600 Amphitheatre Parkway",
		"creator":     user.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Place models.Place `json:"place"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Place.ID)
	assert.Equal(t, 37.4, created.Place.Location.Lat)

	rec = doJSON(t, router, http.MethodGet, "/api/places/"+created.Place.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched struct {
		Place models.Place `json:"place"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.Place, fetched.Place)
}

func TestGetPlaceNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/places/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePlaceRejectsInvalidBody(t *testing.T) {
	router, memStore := newTestRouter(t)
	user := seedTestUser(t, memStore)

	rec := doJSON(t, router, http.MethodPost, "/api/places", map[string]string{
		"title":   "",
		"address": "1600 Amphitheatre Parkway",
		"creator": user.ID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetPlacesByUser(t *testing.T) {
	router, memStore := newTestRouter(t)
	user := seedTestUser(t, memStore)

	rec := doJSON(t, router, http.MethodGet, "/api/places/users/"+user.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Places []models.Place `json:"places"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Empty(t, listing.Places)

	doJSON(t, router, http.MethodPost, "/api/places", map[string]string{
		"title":       "Googleplex",
		"description": "Google headquarters",
		"address":     "1600 Amphitheatre Parkway",
		"creator":     user.ID,
	})

	rec = doJSON(t, router, http.MethodGet, "/api/places/users/"+user.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.Places, 1)
}

func TestUpdateAndDeletePlace(t *testing.T) {
	router, memStore := newTestRouter(t)
	user := seedTestUser(t, memStore)

	rec := doJSON(t, router, http.MethodPost, "/api/places", map[string]string{
		"title":       "Googleplex",
		"description": "Google headquarters",
		"address":     "1600 Amphitheatre Parkway",
		"creator":     user.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Place models.Place `json:"place"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPatch, "/api/places/"+created.Place.ID, map[string]string{
		"title":       "The Googleplex",
		"description": "Campus",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated struct {
		Place models.Place `json:"place"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "The Googleplex", updated.Place.Title)
	assert.Equal(t, created.Place.Address, updated.Place.Address)

	rec = doJSON(t, router, http.MethodDelete, "/api/places/"+created.Place.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/places/"+created.Place.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	owner, err := memStore.Users().FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, owner.Places)
}

func TestDeletePlaceNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/api/places/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

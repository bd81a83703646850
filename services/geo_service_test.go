package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placebook-server/models"
	"placebook-server/utils/errors"
)

func TestGeoServiceResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("access_key"))
		assert.Equal(t, "1600 Amphitheatre Parkway", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"latitude":37.4,"longitude":-122.08}]}`))
	}))
	defer server.Close()

	svc := NewGeoService(server.URL, "test-key")
	location, err := svc.Resolve(context.Background(), "1600 Amphitheatre Parkway")
	require.NoError(t, err)
	assert.Equal(t, models.Location{Lat: 37.4, Lng: -122.08}, location)
}

func TestGeoServiceResolveNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	svc := NewGeoService(server.URL, "test-key")
	_, err := svc.Resolve(context.Background(), "no such street")
	assert.Equal(t, errors.ErrGeoResolution, err)
}

func TestGeoServiceResolvePartialResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"latitude":37.4}]}`))
	}))
	defer server.Close()

	svc := NewGeoService(server.URL, "test-key")
	_, err := svc.Resolve(context.Background(), "half an address")
	assert.Equal(t, errors.ErrGeoResolution, err)
}

func TestGeoServiceResolveUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewGeoService(server.URL, "test-key")
	_, err := svc.Resolve(context.Background(), "1600 Amphitheatre Parkway")
	assert.Equal(t, errors.ErrGeoResolution, err)
}

func TestGeoServiceResolveUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	svc := NewGeoService(server.URL, "test-key")
	_, err := svc.Resolve(context.Background(), "1600 Amphitheatre Parkway")
	assert.Equal(t, errors.ErrGeoResolution, err)
}

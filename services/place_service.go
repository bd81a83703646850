package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"placebook-server/models"
	"placebook-server/store"
	"placebook-server/utils/errors"
)

const placeCacheTTL = 24 * time.Hour

type PlaceService struct {
	store       store.Store
	geocoder    Geocoder
	redisClient *redis.Client
}

// NewPlaceService wires the place operations to the entity store and the
// geocoder. redisClient may be nil, which disables the read cache.
func NewPlaceService(entityStore store.Store, geocoder Geocoder, redisClient *redis.Client) *PlaceService {
	return &PlaceService{
		store:       entityStore,
		geocoder:    geocoder,
		redisClient: redisClient,
	}
}

type CreatePlaceInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Creator     string `json:"creator"`
}

type UpdatePlaceInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GetByID retrieves a place from Redis or the entity store.
func (s *PlaceService) GetByID(ctx context.Context, placeID string) (*models.Place, error) {
	if place := s.cachedPlace(ctx, placeID); place != nil {
		return place, nil
	}

	place, err := s.store.Places().FindByID(ctx, placeID)
	if err != nil {
		return nil, mapStoreError(err, "Could not find place by given ID")
	}

	s.cachePlace(ctx, place)
	return place, nil
}

// ListByCreator returns every place created by userID. A user with no
// places gets an empty list, not an error.
func (s *PlaceService) ListByCreator(ctx context.Context, userID string) ([]models.Place, error) {
	places, err := s.store.Places().FindByCreator(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "STORE_ERROR", "Fetching places failed, please try again", http.StatusInternalServerError)
	}
	return places, nil
}

// Create geocodes the address and inserts the place together with the
// back-reference on its creator. Both writes commit in one transaction or
// not at all, so the creator's place list never drifts from the places
// collection.
func (s *PlaceService) Create(ctx context.Context, input CreatePlaceInput) (*models.Place, error) {
	fields := []string{}
	if input.Title == "" {
		fields = append(fields, "title")
	}
	if input.Description == "" {
		fields = append(fields, "description")
	}
	if input.Address == "" {
		fields = append(fields, "address")
	}
	if input.Creator == "" {
		fields = append(fields, "creator")
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}

	location, err := s.geocoder.Resolve(ctx, input.Address)
	if err != nil {
		return nil, errors.Wrap(err, "GEO_RESOLUTION_FAILED", "Could not resolve coordinates for the given address", http.StatusUnprocessableEntity)
	}

	creator, err := s.store.Users().FindByID(ctx, input.Creator)
	if err != nil {
		return nil, mapStoreError(err, "Could not find user for provided creator id")
	}

	place := &models.Place{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Location:    location,
		Image:       models.DefaultPlaceImage,
		Creator:     creator.ID,
	}

	// The driver may re-run the callback on transient transaction errors,
	// so it must not mutate captured state: re-fetch the owner each
	// attempt and never append the same reference twice.
	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Places().Save(ctx, place); err != nil {
			return err
		}
		owner, err := s.store.Users().FindByID(ctx, input.Creator)
		if err != nil {
			return err
		}
		if !owner.OwnsPlace(place.ID) {
			owner.AddPlace(place.ID)
		}
		return s.store.Users().Save(ctx, owner)
	})
	if err != nil {
		return nil, errors.Wrap(err, "STORE_ERROR", "Creating place failed, please try again", http.StatusInternalServerError)
	}

	s.cachePlace(ctx, place)
	s.dropCachedUser(ctx, creator.ID)
	return place, nil
}

// Update overwrites title and description only. Address, location and
// creator are immutable through this operation.
func (s *PlaceService) Update(ctx context.Context, placeID string, input UpdatePlaceInput) (*models.Place, error) {
	fields := []string{}
	if input.Title == "" {
		fields = append(fields, "title")
	}
	if input.Description == "" {
		fields = append(fields, "description")
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}

	place, err := s.store.Places().FindByID(ctx, placeID)
	if err != nil {
		return nil, mapStoreError(err, "Could not find place by given ID")
	}

	place.Title = input.Title
	place.Description = input.Description

	if err := s.store.Places().Save(ctx, place); err != nil {
		return nil, errors.Wrap(err, "STORE_ERROR", "Updating place failed, please try again", http.StatusInternalServerError)
	}

	s.cachePlace(ctx, place)
	return place, nil
}

// Delete removes the place and its reference from the owning user in one
// transaction.
func (s *PlaceService) Delete(ctx context.Context, placeID string) error {
	place, err := s.store.Places().FindByID(ctx, placeID)
	if err != nil {
		return mapStoreError(err, "Could not find place by given ID")
	}

	owner, err := s.store.Users().FindByID(ctx, place.Creator)
	if err != nil {
		return mapStoreError(err, "Could not find the owner of the place")
	}

	// Retry-safe for the same reason as Create: each attempt works on a
	// freshly fetched owner document.
	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.Places().Remove(ctx, place.ID); err != nil {
			return err
		}
		current, err := s.store.Users().FindByID(ctx, place.Creator)
		if err != nil {
			return err
		}
		current.RemovePlace(place.ID)
		return s.store.Users().Save(ctx, current)
	})
	if err != nil {
		return errors.Wrap(err, "STORE_ERROR", "Deleting place failed, please try again", http.StatusInternalServerError)
	}

	s.dropCachedPlace(ctx, placeID)
	s.dropCachedUser(ctx, owner.ID)
	return nil
}

func (s *PlaceService) cachedPlace(ctx context.Context, placeID string) *models.Place {
	if s.redisClient == nil {
		return nil
	}
	placeJSON, err := s.redisClient.Get(ctx, "place:"+placeID).Result()
	if err != nil {
		return nil
	}
	var place models.Place
	if err := json.Unmarshal([]byte(placeJSON), &place); err != nil {
		log.Printf("Failed to unmarshal cached place %s: %v", placeID, err)
		return nil
	}
	return &place
}

func (s *PlaceService) cachePlace(ctx context.Context, place *models.Place) {
	if s.redisClient == nil {
		return
	}
	placeJSON, err := json.Marshal(place)
	if err != nil {
		return
	}
	s.redisClient.Set(ctx, "place:"+place.ID, placeJSON, placeCacheTTL)
}

func (s *PlaceService) dropCachedPlace(ctx context.Context, placeID string) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, "place:"+placeID)
}

// dropCachedUser invalidates the owner's cached document after its place
// list changed.
func (s *PlaceService) dropCachedUser(ctx context.Context, userID string) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, "user:"+userID)
}

func mapStoreError(err error, notFoundMessage string) error {
	if err == store.ErrNotFound {
		return errors.NewAPIError("NOT_FOUND", notFoundMessage, http.StatusNotFound)
	}
	return errors.Wrap(err, "STORE_ERROR", "Storage operation failed", http.StatusInternalServerError)
}

package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"placebook-server/models"
)

type txnKey struct{}

// MemoryStore keeps documents in process memory. It implements the same
// transaction contract as MongoStore by snapshotting both collections and
// rolling back when the transaction function fails, so callers observe
// either all writes or none. Intended for tests and local development.
type MemoryStore struct {
	mu     sync.Mutex
	places map[string]models.Place
	users  map[string]models.User

	// BeforeWrite, when set, runs before every Save/Remove. Returning an
	// error fails the write, which lets tests force mid-transaction aborts.
	BeforeWrite func(collection, id string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		places: make(map[string]models.Place),
		users:  make(map[string]models.User),
	}
}

func (s *MemoryStore) Places() PlaceStore { return &memoryPlaceStore{store: s} }
func (s *MemoryStore) Users() UserStore   { return &memoryUserStore{store: s} }

// WithTransaction holds the store lock for the duration of fn, so no
// concurrent reader can observe a half-applied dual write.
func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backupPlaces := clonePlaces(s.places)
	backupUsers := cloneUsers(s.users)

	if err := fn(context.WithValue(ctx, txnKey{}, struct{}{})); err != nil {
		s.places = backupPlaces
		s.users = backupUsers
		return err
	}
	return nil
}

// lock acquires the store mutex unless ctx already runs inside a
// transaction, which holds it for the whole unit of work.
func (s *MemoryStore) lock(ctx context.Context) func() {
	if ctx.Value(txnKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) beforeWrite(collection, id string) error {
	if s.BeforeWrite != nil {
		return s.BeforeWrite(collection, id)
	}
	return nil
}

func clonePlaces(in map[string]models.Place) map[string]models.Place {
	out := make(map[string]models.Place, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneUsers(in map[string]models.User) map[string]models.User {
	out := make(map[string]models.User, len(in))
	for k, v := range in {
		v.Places = append([]string(nil), v.Places...)
		out[k] = v
	}
	return out
}

type memoryPlaceStore struct {
	store *MemoryStore
}

func (s *memoryPlaceStore) FindByID(ctx context.Context, id string) (*models.Place, error) {
	defer s.store.lock(ctx)()
	place, ok := s.store.places[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &place, nil
}

func (s *memoryPlaceStore) FindByCreator(ctx context.Context, userID string) ([]models.Place, error) {
	defer s.store.lock(ctx)()
	places := []models.Place{}
	for _, place := range s.store.places {
		if place.Creator == userID {
			places = append(places, place)
		}
	}
	return places, nil
}

func (s *memoryPlaceStore) Save(ctx context.Context, place *models.Place) error {
	defer s.store.lock(ctx)()
	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	if err := s.store.beforeWrite("places", place.ID); err != nil {
		return err
	}
	s.store.places[place.ID] = *place
	return nil
}

func (s *memoryPlaceStore) Remove(ctx context.Context, id string) error {
	defer s.store.lock(ctx)()
	if err := s.store.beforeWrite("places", id); err != nil {
		return err
	}
	if _, ok := s.store.places[id]; !ok {
		return ErrNotFound
	}
	delete(s.store.places, id)
	return nil
}

type memoryUserStore struct {
	store *MemoryStore
}

func (s *memoryUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	defer s.store.lock(ctx)()
	user, ok := s.store.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user.Places = append([]string(nil), user.Places...)
	return &user, nil
}

func (s *memoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer s.store.lock(ctx)()
	for _, user := range s.store.users {
		if user.Email == email {
			user.Places = append([]string(nil), user.Places...)
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryUserStore) FindAll(ctx context.Context) ([]models.User, error) {
	defer s.store.lock(ctx)()
	users := []models.User{}
	for _, user := range s.store.users {
		user.Places = append([]string(nil), user.Places...)
		users = append(users, user)
	}
	return users, nil
}

func (s *memoryUserStore) Save(ctx context.Context, user *models.User) error {
	defer s.store.lock(ctx)()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Places == nil {
		user.Places = []string{}
	}
	// Same uniqueness constraint as the email index in MongoStore.
	for _, existing := range s.store.users {
		if existing.Email == user.Email && existing.ID != user.ID {
			return ErrDuplicate
		}
	}
	if err := s.store.beforeWrite("users", user.ID); err != nil {
		return err
	}
	stored := *user
	stored.Places = append([]string(nil), user.Places...)
	s.store.users[user.ID] = stored
	return nil
}

package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"placebook-server/models"
	"placebook-server/store"
	"placebook-server/utils/errors"
)

const userCacheTTL = 24 * time.Hour

type UserService struct {
	store       store.Store
	redisClient *redis.Client
	jwtSecret   string
}

// NewUserService wires the user operations to the entity store. redisClient
// may be nil, which disables the read cache.
func NewUserService(entityStore store.Store, redisClient *redis.Client, jwtSecret string) *UserService {
	return &UserService{
		store:       entityStore,
		redisClient: redisClient,
		jwtSecret:   jwtSecret,
	}
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users().FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "STORE_ERROR", "Fetching users failed, please try again", http.StatusInternalServerError)
	}
	return users, nil
}

// GetByID retrieves a user from Redis or the entity store.
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if user := s.cachedUser(ctx, userID); user != nil {
		return user, nil
	}

	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err, "Could not find user for the provided id")
	}

	s.cacheUser(ctx, user)
	return user, nil
}

// Signup registers a new user. The email must not be registered already;
// the password is stored as a bcrypt hash.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	fields := []string{}
	if input.Name == "" {
		fields = append(fields, "name")
	}
	if input.Email == "" {
		fields = append(fields, "email")
	}
	if input.Password == "" {
		fields = append(fields, "password")
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}

	_, err := s.store.Users().FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, errors.NewAPIError("CONFLICT", "User with the entered email already exists", http.StatusConflict)
	}
	if err != store.ErrNotFound {
		return nil, errors.Wrap(err, "STORE_ERROR", "Signing up failed, please try again", http.StatusInternalServerError)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "HASH_ERROR", "Failed to hash password", http.StatusInternalServerError)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(passwordHash),
		Places:       []string{},
	}

	if err := s.store.Users().Save(ctx, user); err != nil {
		return nil, errors.Wrap(err, "STORE_ERROR", "Signing up failed, please try again", http.StatusInternalServerError)
	}

	s.cacheUser(ctx, user)
	return user, nil
}

// Login authenticates a user by email and returns a signed JWT.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err == store.ErrNotFound {
		return "", errors.NewAPIError("INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized)
	}
	if err != nil {
		return "", errors.Wrap(err, "STORE_ERROR", "Logging in failed, please try again", http.StatusInternalServerError)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.NewAPIError("INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": user.ID,
		"email":  user.Email,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", errors.Wrap(err, "JWT_ERROR", "Failed to generate token", http.StatusInternalServerError)
	}

	return tokenString, nil
}

func (s *UserService) cachedUser(ctx context.Context, userID string) *models.User {
	if s.redisClient == nil {
		return nil
	}
	userJSON, err := s.redisClient.Get(ctx, "user:"+userID).Result()
	if err != nil {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		log.Printf("Failed to unmarshal cached user %s: %v", userID, err)
		return nil
	}
	return &user
}

func (s *UserService) cacheUser(ctx context.Context, user *models.User) {
	if s.redisClient == nil {
		return
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return
	}
	s.redisClient.Set(ctx, "user:"+user.ID, userJSON, userCacheTTL)
}

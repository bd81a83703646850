package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"placebook-server/handlers"
	"placebook-server/middleware"
	"placebook-server/services"
	"placebook-server/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is not set")
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "placebook"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}
	geoAPIKey := os.Getenv("GEO_API_KEY")
	if geoAPIKey == "" {
		log.Fatal("GEO_API_KEY environment variable is not set")
	}

	ctx := context.Background()
	entityStore, err := store.NewMongoStore(ctx, mongoURI, mongoDB)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	defer entityStore.Close(ctx)
	log.Println("Connected to MongoDB")

	// Redis cache is optional
	var redisClient *redis.Client
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis")
	}

	geoService := services.NewGeoService(os.Getenv("GEO_ENDPOINT"), geoAPIKey)
	placeService := services.NewPlaceService(entityStore, geoService, redisClient)
	userService := services.NewUserService(entityStore, redisClient, jwtSecret)

	placeHandler := handlers.NewPlaceHandler(placeService)
	userHandler := handlers.NewUserHandler(userService)

	r := mux.NewRouter()

	// CORS middleware
	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.ErrorMiddleware())

	// Place routes
	placeRouter := r.PathPrefix("/api/places").Subrouter()
	placeRouter.HandleFunc("", placeHandler.CreatePlace).Methods("POST", "OPTIONS")
	placeRouter.HandleFunc("/users/{uid}", placeHandler.GetPlacesByUserID).Methods("GET", "OPTIONS")
	placeRouter.HandleFunc("/{pid}", placeHandler.GetPlaceByID).Methods("GET", "OPTIONS")
	placeRouter.HandleFunc("/{pid}", placeHandler.UpdatePlace).Methods("PATCH", "OPTIONS")
	placeRouter.HandleFunc("/{pid}", placeHandler.DeletePlace).Methods("DELETE", "OPTIONS")

	// Authenticated profile route, registered before the /api/users
	// subrouter so the more specific prefix wins.
	meRouter := r.PathPrefix("/api/users/me").Subrouter()
	meRouter.Use(middleware.JWTMiddleware(jwtSecret))
	meRouter.HandleFunc("", userHandler.Me).Methods("GET", "OPTIONS")

	// User routes
	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("", userHandler.GetUsers).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/signup", userHandler.Signup).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/login", userHandler.Login).Methods("POST", "OPTIONS")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Server starting on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

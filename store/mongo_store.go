package store

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/google/uuid"

	"placebook-server/models"
)

// MongoStore backs the place and user collections with MongoDB. The
// multi-document writes rely on driver sessions, so the deployment must
// support transactions (replica set or sharded cluster).
type MongoStore struct {
	client *mongo.Client
	places *mongo.Collection
	users  *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(database)
	s := &MongoStore{
		client: client,
		places: db.Collection("places"),
		users:  db.Collection("users"),
	}

	// Ensure unique index on email
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.users.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Printf("Failed to create unique index on users: %v", err)
	}

	return s, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Places() PlaceStore { return &mongoPlaceStore{collection: s.places} }
func (s *MongoStore) Users() UserStore   { return &mongoUserStore{collection: s.users} }

// WithTransaction runs fn inside a MongoDB transaction. Collection
// operations pick up the session from the context fn receives; any error
// from fn aborts the transaction and leaves both collections untouched.
func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

type mongoPlaceStore struct {
	collection *mongo.Collection
}

func (s *mongoPlaceStore) FindByID(ctx context.Context, id string) (*models.Place, error) {
	var place models.Place
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&place)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func (s *mongoPlaceStore) FindByCreator(ctx context.Context, userID string) ([]models.Place, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"creator": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	places := []models.Place{}
	if err := cursor.All(ctx, &places); err != nil {
		return nil, err
	}
	return places, nil
}

func (s *mongoPlaceStore) Save(ctx context.Context, place *models.Place) error {
	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": place.ID}, place, opts)
	return err
}

func (s *mongoPlaceStore) Remove(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoUserStore struct {
	collection *mongo.Collection
}

func (s *mongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) FindAll(ctx context.Context) ([]models.User, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *mongoUserStore) Save(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Places == nil {
		user.Places = []string{}
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, opts)
	return err
}

package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/models"
)

// MongoIssueStore backs the issue pipeline with the "issues" collection.
type MongoIssueStore struct {
	collection *mongo.Collection
}

func NewMongoIssueStore(db *mongo.Database) *MongoIssueStore {
	s := &MongoIssueStore{collection: db.Collection("issues")}
	s.ensureIndexes()
	return s
}

// ensureIndexes creates the 2dsphere index backing the GeoJSON
// location column. Mongo's 2dsphere is WGS84, matching the codec.
func (s *MongoIssueStore) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "reportedBy", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		log.Println("Error ensuring issue indexes:", err)
	}
}

func (s *MongoIssueStore) Create(ctx context.Context, issue *models.Issue) error {
	_, err := s.collection.InsertOne(ctx, issue)
	return err
}

func (s *MongoIssueStore) GetByID(ctx context.Context, id string) (*models.Issue, error) {
	var issue models.Issue
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

func (s *MongoIssueStore) List(ctx context.Context) ([]models.Issue, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoIssueStore) ListByReporter(ctx context.Context, userID string) ([]models.Issue, error) {
	return s.find(ctx, bson.M{"reportedBy": userID})
}

func (s *MongoIssueStore) find(ctx context.Context, filter bson.M) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (s *MongoIssueStore) Update(ctx context.Context, issue *models.Issue) error {
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": issue.ID}, issue)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoIssueStore) Delete(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoUserStore backs user accounts with the "users" collection.
type MongoUserStore struct {
	collection *mongo.Collection

	mu        sync.Mutex
	anonymous *models.User // read-through cache for the anonymous reporter
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	s := &MongoUserStore{collection: db.Collection("users")}
	s.ensureIndexes()
	return s
}

func (s *MongoUserStore) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		log.Println("Error ensuring user indexes:", err)
	}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	filter := bson.M{"$or": []bson.M{
		{"email": user.Email},
		{"username": user.Username},
	}}
	if user.PhoneNumber != "" {
		filter["$or"] = append(filter["$or"].([]bson.M), bson.M{"phoneNumber": user.PhoneNumber})
	}

	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}

	_, err = s.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	filter := bson.M{"$or": []bson.M{
		{"email": identifier},
		{"username": identifier},
		{"phoneNumber": identifier},
	}}

	var user models.User
	err := s.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) GetOrCreateAnonymous(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.anonymous != nil {
		return s.anonymous, nil
	}

	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": models.AnonymousEmail}).Decode(&user)
	if err == nil {
		s.anonymous = &user
		return s.anonymous, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now()
	user = models.User{
		ID:          uuid.NewString(),
		Name:        models.AnonymousName,
		Email:       models.AnonymousEmail,
		Username:    models.AnonymousUsername,
		PhoneNumber: "0000000000",
		Role:        models.RoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		// Lost a race with another instance; fall back to the winner's row.
		if mongo.IsDuplicateKeyError(err) {
			if ferr := s.collection.FindOne(ctx, bson.M{"email": models.AnonymousEmail}).Decode(&user); ferr == nil {
				s.anonymous = &user
				return s.anonymous, nil
			}
		}
		return nil, err
	}

	s.anonymous = &user
	return s.anonymous, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/uteach/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	materialsCollection = "materials"
	sessionsCollection  = "sessions"
	answersCollection   = "answers"
)

type mongoMaterialRepository struct {
	collection *mongo.Collection
}

func NewMongoMaterialRepository(database *mongo.Database) MaterialRepository {
	return &mongoMaterialRepository{collection: database.Collection(materialsCollection)}
}

func (r *mongoMaterialRepository) Create(ctx context.Context, material *model.Material) error {
	if _, err := r.collection.InsertOne(ctx, material); err != nil {
		return fmt.Errorf("failed to insert material: %w", err)
	}
	return nil
}

func (r *mongoMaterialRepository) FindOwned(ctx context.Context, id, owner string) (*model.Material, error) {
	var material model.Material
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&material)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return &material, nil
}

type mongoSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoSessionRepository(database *mongo.Database) SessionRepository {
	return &mongoSessionRepository{collection: database.Collection(sessionsCollection)}
}

func (r *mongoSessionRepository) Create(ctx context.Context, session *model.Session) error {
	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *mongoSessionRepository) FindOwned(ctx context.Context, id, owner string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (r *mongoSessionRepository) ListRecentByOwner(ctx context.Context, owner string, limit int) ([]model.Session, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []model.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

type mongoAnswerRepository struct {
	collection *mongo.Collection
}

func NewMongoAnswerRepository(database *mongo.Database) AnswerRepository {
	return &mongoAnswerRepository{collection: database.Collection(answersCollection)}
}

func (r *mongoAnswerRepository) Append(ctx context.Context, answer *model.Answer) error {
	if _, err := r.collection.InsertOne(ctx, answer); err != nil {
		return fmt.Errorf("failed to insert answer: %w", err)
	}
	return nil
}

func (r *mongoAnswerRepository) ListBySession(ctx context.Context, sessionID string) ([]model.Answer, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"session_id": sessionID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer cursor.Close(ctx)

	var answers []model.Answer
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	return answers, nil
}

// InitializeMongoIndexes creates the owner/created_at and session lookups.
func InitializeMongoIndexes(ctx context.Context, database *mongo.Database) error {
	sessionIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := database.Collection(sessionsCollection).Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	answerIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}
	if _, err := database.Collection(answersCollection).Indexes().CreateMany(ctx, answerIndexes); err != nil {
		return fmt.Errorf("failed to create answer indexes: %w", err)
	}
	return nil
}

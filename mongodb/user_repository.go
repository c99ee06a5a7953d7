package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pitchside/backend/domain"
)

// UserRepository implements domain.UserRepository on MongoDB.
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a new UserRepository and ensures its indexes.
func NewUserRepository(ctx context.Context, db *mongo.Database) (*UserRepository, error) {
	repo := &UserRepository{users: db.Collection(UsersCollection)}
	if err := repo.createIndexes(ctx); err != nil {
		// Index creation commonly fails when compatible indexes already
		// exist; the app can still serve.
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}
	return repo, nil
}

func (r *UserRepository) createIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			// Case-insensitive unique email.
			Options: options.Index().SetUnique(true).
				SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	if _, err := r.users.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes for users collection: %w", err)
	}
	return nil
}

// Create implements domain.UserRepository.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = time.Now().UTC()

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		log.Error().Err(err).Str("email", user.Email).Msg("error creating user")
		return err
	}
	return nil
}

// FindByEmail implements domain.UserRepository.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByID implements domain.UserRepository.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetActive implements domain.UserRepository.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List implements domain.UserRepository, newest first.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

var _ domain.UserRepository = (*UserRepository)(nil)

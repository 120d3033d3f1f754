package mongodb

import (
	"context"
	"time"

	"github.com/amirasaad/strides/pkg/domain/user"
	"github.com/amirasaad/strides/pkg/dto"
	repo "github.com/amirasaad/strides/pkg/repository/user"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	s store
}

// NewUserRepository creates a user repository bound to s.
func NewUserRepository(s store) repo.Repository {
	return &userRepository{s: s}
}

var _ repo.Repository = (*userRepository)(nil)

func (r *userRepository) coll() *mongo.Collection {
	return r.s.coll(usersCollection)
}

func (r *userRepository) Create(ctx context.Context, create *dto.UserCreate) error {
	now := time.Now().UTC()
	_, err := r.coll().InsertOne(r.s.ctx(ctx), userDoc{
		ID:             create.ID.String(),
		Email:          create.Email,
		HashedPassword: create.Password,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	return mapError(err, nil, user.ErrEmailTaken)
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.coll().CountDocuments(r.s.ctx(ctx), bson.M{"email": email})
	if err != nil {
		return false, mapError(err, nil, nil)
	}
	return n > 0, nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*dto.UserRead, error) {
	var doc userDoc
	if err := r.coll().FindOne(r.s.ctx(ctx), filter).Decode(&doc); err != nil {
		return nil, mapError(err, user.ErrUserNotFound, nil)
	}
	return &dto.UserRead{
		ID:             parseID(doc.ID),
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

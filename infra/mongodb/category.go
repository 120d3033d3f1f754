package mongodb

import (
	"context"
	"time"

	"github.com/amirasaad/strides/pkg/domain/category"
	"github.com/amirasaad/strides/pkg/dto"
	repo "github.com/amirasaad/strides/pkg/repository/category"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Subcategories are embedded in their category document, so a category and
// its subcategories always change together.
type categoryRepository struct {
	s store
}

// NewCategoryRepository creates a category repository bound to s.
func NewCategoryRepository(s store) repo.Repository {
	return &categoryRepository{s: s}
}

var _ repo.Repository = (*categoryRepository)(nil)

func (r *categoryRepository) coll() *mongo.Collection {
	return r.s.coll(categoriesCollection)
}

func (r *categoryRepository) Create(ctx context.Context, create dto.CategoryCreate) error {
	doc := categoryDoc{
		ID:            create.ID.String(),
		UserID:        create.UserID.String(),
		Name:          create.Name,
		IsDefault:     create.IsDefault,
		SubCategories: []subCategoryDoc{},
		CreatedAt:     time.Now().UTC(),
	}
	_, err := r.coll().InsertOne(r.s.ctx(ctx), doc)
	return mapError(err, nil, category.ErrDuplicateCategory)
}

func (r *categoryRepository) CreateIfAbsent(ctx context.Context, create dto.CategoryCreate) error {
	_, err := r.coll().UpdateOne(r.s.ctx(ctx),
		bson.M{"user_id": create.UserID.String(), "name": create.Name},
		bson.M{"$setOnInsert": bson.M{
			"_id":            create.ID.String(),
			"is_default":     create.IsDefault,
			"sub_categories": []subCategoryDoc{},
			"created_at":     time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return mapError(err, nil, category.ErrDuplicateCategory)
}

func (r *categoryRepository) Get(ctx context.Context, id uuid.UUID) (*dto.CategoryRead, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *categoryRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*dto.CategoryRead, error) {
	return r.findOne(ctx, bson.M{"user_id": userID.String(), "name": name})
}

func (r *categoryRepository) findOne(ctx context.Context, filter bson.M) (*dto.CategoryRead, error) {
	var doc categoryDoc
	if err := r.coll().FindOne(r.s.ctx(ctx), filter).Decode(&doc); err != nil {
		return nil, mapError(err, category.ErrCategoryNotFound, nil)
	}
	return mapCategoryDocToDTO(&doc), nil
}

func (r *categoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CategoryRead, error) {
	ctx = r.s.ctx(ctx)
	cur, err := r.coll().Find(ctx,
		bson.M{"user_id": userID.String()},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError(err, nil, nil)
	}
	result := make([]*dto.CategoryRead, 0, len(docs))
	for i := range docs {
		result = append(result, mapCategoryDocToDTO(&docs[i]))
	}
	return result, nil
}

func (r *categoryRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	res, err := r.coll().UpdateOne(r.s.ctx(ctx),
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"name": name}},
	)
	if err != nil {
		return mapError(err, category.ErrCategoryNotFound, category.ErrDuplicateCategory)
	}
	return matched(res.MatchedCount, nil, category.ErrCategoryNotFound)
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll().DeleteOne(r.s.ctx(ctx), bson.M{"_id": id.String()})
	if err != nil {
		return mapError(err, category.ErrCategoryNotFound, nil)
	}
	return matched(res.DeletedCount, nil, category.ErrCategoryNotFound)
}

func (r *categoryRepository) AddSubCategory(ctx context.Context, categoryID uuid.UUID, create dto.SubCategoryCreate) error {
	res, err := r.coll().UpdateOne(r.s.ctx(ctx),
		bson.M{"_id": categoryID.String(), "sub_categories.name": bson.M{"$ne": create.Name}},
		bson.M{"$push": bson.M{"sub_categories": subCategoryDoc{ID: create.ID.String(), Name: create.Name}}},
	)
	if err != nil {
		return mapError(err, category.ErrCategoryNotFound, nil)
	}
	if res.MatchedCount == 0 {
		return r.missingOrDuplicate(ctx, categoryID)
	}
	return nil
}

func (r *categoryRepository) RenameSubCategory(ctx context.Context, categoryID, subID uuid.UUID, name string) error {
	res, err := r.coll().UpdateOne(r.s.ctx(ctx),
		bson.M{"_id": categoryID.String(), "sub_categories.id": subID.String()},
		bson.M{"$set": bson.M{"sub_categories.$.name": name}},
	)
	if err != nil {
		return mapError(err, category.ErrSubCategoryNotFound, nil)
	}
	return matched(res.MatchedCount, nil, category.ErrSubCategoryNotFound)
}

func (r *categoryRepository) DeleteSubCategory(ctx context.Context, categoryID, subID uuid.UUID) error {
	res, err := r.coll().UpdateOne(r.s.ctx(ctx),
		bson.M{"_id": categoryID.String(), "sub_categories.id": subID.String()},
		bson.M{"$pull": bson.M{"sub_categories": bson.M{"id": subID.String()}}},
	)
	if err != nil {
		return mapError(err, category.ErrSubCategoryNotFound, nil)
	}
	return matched(res.MatchedCount, nil, category.ErrSubCategoryNotFound)
}

// missingOrDuplicate tells why a guarded $push matched nothing.
func (r *categoryRepository) missingOrDuplicate(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := r.Get(ctx, categoryID); err != nil {
		return err
	}
	return category.ErrDuplicateSubCategory
}

func mapCategoryDocToDTO(doc *categoryDoc) *dto.CategoryRead {
	subs := make([]dto.SubCategoryRead, 0, len(doc.SubCategories))
	for _, s := range doc.SubCategories {
		subs = append(subs, dto.SubCategoryRead{ID: parseID(s.ID), Name: s.Name})
	}
	return &dto.CategoryRead{
		ID:            parseID(doc.ID),
		UserID:        parseID(doc.UserID),
		Name:          doc.Name,
		IsDefault:     doc.IsDefault,
		SubCategories: subs,
		CreatedAt:     doc.CreatedAt,
	}
}

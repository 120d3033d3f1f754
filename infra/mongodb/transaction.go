package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/amirasaad/strides/pkg/dto"
	repo "github.com/amirasaad/strides/pkg/repository/transaction"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type transactionRepository struct {
	s store
}

// NewTransactionRepository creates a transaction repository bound to s.
func NewTransactionRepository(s store) repo.Repository {
	return &transactionRepository{s: s}
}

var _ repo.Repository = (*transactionRepository)(nil)

func (r *transactionRepository) coll() *mongo.Collection {
	return r.s.coll(transactionsCollection)
}

func (r *transactionRepository) Create(ctx context.Context, create dto.TransactionCreate) error {
	_, err := r.coll().InsertOne(r.s.ctx(ctx), mapTransactionCreateToDoc(create, time.Now().UTC()))
	return mapError(err, nil, nil)
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	var doc transactionDoc
	if err := r.coll().FindOne(r.s.ctx(ctx), bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, mapError(err, transaction.ErrTransactionNotFound, nil)
	}
	return mapTransactionDocToDTO(&doc), nil
}

func (r *transactionRepository) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	set := mapTransactionUpdateToDoc(update)
	if len(set) == 0 {
		return nil
	}
	set["updated_at"] = time.Now().UTC()
	res, err := r.coll().UpdateOne(r.s.ctx(ctx), bson.M{"_id": id.String()}, bson.M{"$set": set})
	if err != nil {
		return mapError(err, transaction.ErrTransactionNotFound, nil)
	}
	return matched(res.MatchedCount, nil, transaction.ErrTransactionNotFound)
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll().DeleteOne(r.s.ctx(ctx), bson.M{"_id": id.String()})
	if err != nil {
		return mapError(err, transaction.ErrTransactionNotFound, nil)
	}
	return matched(res.DeletedCount, nil, transaction.ErrTransactionNotFound)
}

func (r *transactionRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter dto.TransactionFilter,
) ([]*dto.TransactionRead, error) {
	q := bson.M{"user_id": userID.String()}
	if filter.AccountID != nil {
		q["account_id"] = filter.AccountID.String()
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	return r.find(ctx, q, opts)
}

// ListByGroup returns the documents of a transfer, the out side first.
func (r *transactionRepository) ListByGroup(
	ctx context.Context,
	userID, groupID uuid.UUID,
) ([]*dto.TransactionRead, error) {
	return r.find(ctx,
		bson.M{"user_id": userID.String(), "transfer_group_id": groupID.String()},
		options.Find().SetSort(bson.D{{Key: "transfer_direction", Value: -1}}),
	)
}

func (r *transactionRepository) FindCompanion(
	ctx context.Context,
	query dto.TransactionPairQuery,
) (*dto.TransactionRead, error) {
	var doc transactionDoc
	err := r.coll().FindOne(r.s.ctx(ctx),
		bson.M{
			"user_id":            query.UserID.String(),
			"type":               string(transaction.Transfer),
			"transfer_direction": string(query.Direction),
			"account_id":         query.AccountID.String(),
			"to_account_id":      query.ToAccountID.String(),
			"date":               query.Date,
			"_id":                bson.M{"$ne": query.ExcludeID.String()},
			"transfer_group_id":  nil,
		},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return mapTransactionDocToDTO(&doc), nil
}

func (r *transactionRepository) find(
	ctx context.Context,
	filter bson.M,
	opts *options.FindOptions,
) ([]*dto.TransactionRead, error) {
	ctx = r.s.ctx(ctx)
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	var docs []transactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError(err, nil, nil)
	}
	result := make([]*dto.TransactionRead, 0, len(docs))
	for i := range docs {
		result = append(result, mapTransactionDocToDTO(&docs[i]))
	}
	return result, nil
}

func mapTransactionCreateToDoc(create dto.TransactionCreate, now time.Time) transactionDoc {
	doc := transactionDoc{
		ID:                  create.ID.String(),
		UserID:              create.UserID.String(),
		AccountID:           create.AccountID.String(),
		Type:                string(create.Type),
		Amount:              toDecimal128(create.Amount),
		Date:                create.Date,
		CategoryID:          create.CategoryID.String(),
		SubCategoryID:       idString(create.SubCategoryID),
		Notes:               create.Notes,
		ToAccountID:         idString(create.ToAccountID),
		TransferGroupID:     idString(create.TransferGroupID),
		ExchangeRate:        toDecimal128Ptr(create.ExchangeRate),
		Commission:          toDecimal128Ptr(create.Commission),
		ServiceName:         create.ServiceName,
		TransferredAmount:   toDecimal128Ptr(create.TransferredAmount),
		IsCreditCardPayment: create.IsCreditCardPayment,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if create.TransferDirection != nil {
		d := string(*create.TransferDirection)
		doc.TransferDirection = &d
	}
	return doc
}

// mapTransactionUpdateToDoc maps TransactionUpdate DTO to a $set document.
func mapTransactionUpdateToDoc(update dto.TransactionUpdate) bson.M {
	set := bson.M{}
	if update.Amount != nil {
		set["amount"] = toDecimal128(*update.Amount)
	}
	if update.CategoryID != nil {
		set["category_id"] = update.CategoryID.String()
	}
	if update.SubCategoryID != nil {
		set["sub_category_id"] = update.SubCategoryID.String()
	} else if update.ClearSubCategory {
		set["sub_category_id"] = nil
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}
	if update.Date != nil {
		set["date"] = *update.Date
	}
	return set
}

func mapTransactionDocToDTO(doc *transactionDoc) *dto.TransactionRead {
	read := &dto.TransactionRead{
		ID:                  parseID(doc.ID),
		UserID:              parseID(doc.UserID),
		AccountID:           parseID(doc.AccountID),
		Type:                transaction.Type(doc.Type),
		Amount:              fromDecimal128(doc.Amount),
		Date:                doc.Date,
		CategoryID:          parseID(doc.CategoryID),
		SubCategoryID:       parseIDPtr(doc.SubCategoryID),
		Notes:               doc.Notes,
		ToAccountID:         parseIDPtr(doc.ToAccountID),
		TransferGroupID:     parseIDPtr(doc.TransferGroupID),
		ExchangeRate:        fromDecimal128Ptr(doc.ExchangeRate),
		Commission:          fromDecimal128Ptr(doc.Commission),
		ServiceName:         doc.ServiceName,
		TransferredAmount:   fromDecimal128Ptr(doc.TransferredAmount),
		IsCreditCardPayment: doc.IsCreditCardPayment,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
	}
	if doc.TransferDirection != nil {
		d := transaction.Direction(*doc.TransferDirection)
		read.TransferDirection = &d
	}
	return read
}

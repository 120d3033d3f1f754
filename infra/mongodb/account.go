package mongodb

import (
	"context"
	"time"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/dto"
	repo "github.com/amirasaad/strides/pkg/repository/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type accountRepository struct {
	s store
}

// NewAccountRepository creates an account repository bound to s.
func NewAccountRepository(s store) repo.Repository {
	return &accountRepository{s: s}
}

var _ repo.Repository = (*accountRepository)(nil)

func (r *accountRepository) coll() *mongo.Collection {
	return r.s.coll(accountsCollection)
}

// live matches an account that has not been soft deleted.
func live(id uuid.UUID) bson.M {
	return bson.M{"_id": id.String(), "deleted_at": nil}
}

func (r *accountRepository) Create(ctx context.Context, create dto.AccountCreate) error {
	now := time.Now().UTC()
	doc := mapAccountCreateToDoc(create, now)
	_, err := r.coll().InsertOne(r.s.ctx(ctx), doc)
	return mapError(err, nil, nil)
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var doc accountDoc
	if err := r.coll().FindOne(r.s.ctx(ctx), live(id)).Decode(&doc); err != nil {
		return nil, mapError(err, account.ErrAccountNotFound, nil)
	}
	return mapAccountDocToDTO(&doc), nil
}

// Lock writes a lock marker on the account. Inside a transaction the write
// makes any concurrent writer to the same document conflict and retry.
func (r *accountRepository) Lock(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var doc accountDoc
	err := r.coll().FindOneAndUpdate(
		r.s.ctx(ctx),
		live(id),
		bson.M{"$set": bson.M{"locked_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapError(err, account.ErrAccountNotFound, nil)
	}
	return mapAccountDocToDTO(&doc), nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.AccountRead, error) {
	ctx = r.s.ctx(ctx)
	cur, err := r.coll().Find(ctx,
		bson.M{"user_id": userID.String(), "deleted_at": nil},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError(err, nil, nil)
	}
	result := make([]*dto.AccountRead, 0, len(docs))
	for i := range docs {
		result = append(result, mapAccountDocToDTO(&docs[i]))
	}
	return result, nil
}

func (r *accountRepository) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	set := mapAccountUpdateToDoc(update)
	if len(set) == 0 {
		return nil
	}
	set["updated_at"] = time.Now().UTC()
	res, err := r.coll().UpdateOne(r.s.ctx(ctx), live(id), bson.M{"$set": set})
	if err != nil {
		return matched(0, err, account.ErrAccountNotFound)
	}
	return matched(res.MatchedCount, nil, account.ErrAccountNotFound)
}

// AdjustBalance applies $inc on the Decimal128 balance so concurrent
// writers never overwrite each other.
func (r *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	res, err := r.coll().UpdateOne(r.s.ctx(ctx), live(id), bson.M{
		"$inc": bson.M{"balance": toDecimal128(delta)},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return matched(0, err, account.ErrAccountNotFound)
	}
	return matched(res.MatchedCount, nil, account.ErrAccountNotFound)
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll().UpdateOne(r.s.ctx(ctx), live(id), bson.M{
		"$set": bson.M{"deleted_at": time.Now().UTC()},
	})
	if err != nil {
		return matched(0, err, account.ErrAccountNotFound)
	}
	return matched(res.MatchedCount, nil, account.ErrAccountNotFound)
}

func mapLinkedModesToDoc(modes []account.LinkedMode) []linkedModeDoc {
	out := make([]linkedModeDoc, 0, len(modes))
	for _, m := range modes {
		out = append(out, linkedModeDoc{Name: m.Name, Type: m.Type})
	}
	return out
}

func mapAccountCreateToDoc(create dto.AccountCreate, now time.Time) accountDoc {
	return accountDoc{
		ID:                create.ID.String(),
		UserID:            create.UserID.String(),
		Provider:          create.Provider,
		AccountName:       create.AccountName,
		AccountType:       string(create.AccountType),
		Balance:           toDecimal128(create.Balance),
		CreditLimit:       toDecimal128Ptr(create.CreditLimit),
		Country:           string(create.Country),
		Currency:          create.Currency,
		LinkedModes:       mapLinkedModesToDoc(create.LinkedModes),
		MinimumPaymentDue: toDecimal128Ptr(create.MinimumPaymentDue),
		PaymentDueDate:    create.PaymentDueDate,
		StatementDate:     create.StatementDate,
		InterestRate:      toDecimal128Ptr(create.InterestRate),
		GracePeriodDays:   create.GracePeriodDays,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// mapAccountUpdateToDoc maps AccountUpdate DTO to a $set document.
func mapAccountUpdateToDoc(update dto.AccountUpdate) bson.M {
	set := bson.M{}
	if update.Provider != nil {
		set["provider"] = *update.Provider
	}
	if update.AccountName != nil {
		set["account_name"] = *update.AccountName
	}
	if update.CreditLimit != nil {
		set["credit_limit"] = toDecimal128(*update.CreditLimit)
	}
	if update.Country != nil {
		set["country"] = string(*update.Country)
	}
	if update.Currency != nil {
		set["currency"] = *update.Currency
	}
	if update.LinkedModes != nil {
		set["linked_modes"] = mapLinkedModesToDoc(*update.LinkedModes)
	}
	if update.MinimumPaymentDue != nil {
		set["minimum_payment_due"] = toDecimal128(*update.MinimumPaymentDue)
	}
	if update.PaymentDueDate != nil {
		set["payment_due_date"] = *update.PaymentDueDate
	}
	if update.StatementDate != nil {
		set["statement_date"] = *update.StatementDate
	}
	if update.LastPaymentDate != nil {
		set["last_payment_date"] = *update.LastPaymentDate
	}
	if update.LastPaymentAmount != nil {
		set["last_payment_amount"] = toDecimal128(*update.LastPaymentAmount)
	}
	if update.InterestRate != nil {
		set["interest_rate"] = toDecimal128(*update.InterestRate)
	}
	if update.GracePeriodDays != nil {
		set["grace_period_days"] = *update.GracePeriodDays
	}
	return set
}

func mapAccountDocToDTO(doc *accountDoc) *dto.AccountRead {
	modes := make([]account.LinkedMode, 0, len(doc.LinkedModes))
	for _, m := range doc.LinkedModes {
		modes = append(modes, account.LinkedMode{Name: m.Name, Type: m.Type})
	}
	return &dto.AccountRead{
		ID:                parseID(doc.ID),
		UserID:            parseID(doc.UserID),
		Provider:          doc.Provider,
		AccountName:       doc.AccountName,
		AccountType:       account.Type(doc.AccountType),
		Balance:           fromDecimal128(doc.Balance),
		CreditLimit:       fromDecimal128Ptr(doc.CreditLimit),
		Country:           account.Country(doc.Country),
		Currency:          doc.Currency,
		LinkedModes:       modes,
		MinimumPaymentDue: fromDecimal128Ptr(doc.MinimumPaymentDue),
		PaymentDueDate:    doc.PaymentDueDate,
		StatementDate:     doc.StatementDate,
		LastPaymentDate:   doc.LastPaymentDate,
		LastPaymentAmount: fromDecimal128Ptr(doc.LastPaymentAmount),
		InterestRate:      fromDecimal128Ptr(doc.InterestRate),
		GracePeriodDays:   doc.GracePeriodDays,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
}

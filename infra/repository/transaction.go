package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/amirasaad/strides/pkg/dto"
	repo "github.com/amirasaad/strides/pkg/repository/transaction"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository bound to db.
func NewTransactionRepository(db *gorm.DB) repo.Repository {
	return &transactionRepository{db: db}
}

var _ repo.Repository = (*transactionRepository)(nil)

func (r *transactionRepository) Create(ctx context.Context, create dto.TransactionCreate) error {
	tx := mapTransactionCreateToModel(create)
	return mapError(r.db.WithContext(ctx).Create(&tx).Error, nil, nil)
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	var tx Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		return nil, mapError(err, transaction.ErrTransactionNotFound, nil)
	}
	return mapTransactionModelToDTO(&tx), nil
}

func (r *transactionRepository) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	updates := mapTransactionUpdateToModel(update)
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Transaction{}).Where("id = ?", id).Updates(updates)
	return affected(res, transaction.ErrTransactionNotFound)
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id)
	return affected(res, transaction.ErrTransactionNotFound)
}

func (r *transactionRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter dto.TransactionFilter,
) ([]*dto.TransactionRead, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.AccountID != nil {
		q = q.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var txs []Transaction
	if err := q.Order("date DESC").Order("created_at DESC").Find(&txs).Error; err != nil {
		return nil, mapError(err, nil, nil)
	}
	return mapTransactionModels(txs), nil
}

// ListByGroup returns the documents of a transfer, the out side first.
func (r *transactionRepository) ListByGroup(
	ctx context.Context,
	userID, groupID uuid.UUID,
) ([]*dto.TransactionRead, error) {
	var txs []Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND transfer_group_id = ?", userID, groupID).
		Order("transfer_direction DESC").
		Find(&txs).Error; err != nil {
		return nil, mapError(err, nil, nil)
	}
	return mapTransactionModels(txs), nil
}

func (r *transactionRepository) FindCompanion(
	ctx context.Context,
	query dto.TransactionPairQuery,
) (*dto.TransactionRead, error) {
	var tx Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND transfer_direction = ?",
			query.UserID, string(transaction.Transfer), string(query.Direction)).
		Where("account_id = ? AND to_account_id = ? AND date = ?",
			query.AccountID, query.ToAccountID, query.Date).
		Where("id <> ? AND transfer_group_id IS NULL", query.ExcludeID).
		Order("created_at").
		First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return mapTransactionModelToDTO(&tx), nil
}

func mapTransactionCreateToModel(create dto.TransactionCreate) Transaction {
	tx := Transaction{
		ID:                  create.ID,
		UserID:              create.UserID,
		AccountID:           create.AccountID,
		Type:                string(create.Type),
		Amount:              create.Amount,
		Date:                create.Date,
		CategoryID:          create.CategoryID,
		SubCategoryID:       create.SubCategoryID,
		Notes:               create.Notes,
		ToAccountID:         create.ToAccountID,
		TransferGroupID:     create.TransferGroupID,
		ExchangeRate:        nullDecimal(create.ExchangeRate),
		Commission:          nullDecimal(create.Commission),
		ServiceName:         create.ServiceName,
		TransferredAmount:   nullDecimal(create.TransferredAmount),
		IsCreditCardPayment: create.IsCreditCardPayment,
	}
	if create.TransferDirection != nil {
		d := string(*create.TransferDirection)
		tx.TransferDirection = &d
	}
	return tx
}

// mapTransactionUpdateToModel maps TransactionUpdate DTO to a map for GORM Updates.
func mapTransactionUpdateToModel(update dto.TransactionUpdate) map[string]any {
	updates := make(map[string]any)
	if update.Amount != nil {
		updates["amount"] = *update.Amount
	}
	if update.CategoryID != nil {
		updates["category_id"] = *update.CategoryID
	}
	if update.SubCategoryID != nil {
		updates["sub_category_id"] = *update.SubCategoryID
	} else if update.ClearSubCategory {
		updates["sub_category_id"] = nil
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	return updates
}

func mapTransactionModels(txs []Transaction) []*dto.TransactionRead {
	result := make([]*dto.TransactionRead, 0, len(txs))
	for i := range txs {
		result = append(result, mapTransactionModelToDTO(&txs[i]))
	}
	return result
}

func mapTransactionModelToDTO(tx *Transaction) *dto.TransactionRead {
	read := &dto.TransactionRead{
		ID:                  tx.ID,
		UserID:              tx.UserID,
		AccountID:           tx.AccountID,
		Type:                transaction.Type(tx.Type),
		Amount:              tx.Amount,
		Date:                tx.Date,
		CategoryID:          tx.CategoryID,
		SubCategoryID:       tx.SubCategoryID,
		Notes:               tx.Notes,
		ToAccountID:         tx.ToAccountID,
		TransferGroupID:     tx.TransferGroupID,
		ExchangeRate:        decimalPtr(tx.ExchangeRate),
		Commission:          decimalPtr(tx.Commission),
		ServiceName:         tx.ServiceName,
		TransferredAmount:   decimalPtr(tx.TransferredAmount),
		IsCreditCardPayment: tx.IsCreditCardPayment,
		CreatedAt:           tx.CreatedAt,
		UpdatedAt:           tx.UpdatedAt,
	}
	if tx.TransferDirection != nil {
		d := transaction.Direction(*tx.TransferDirection)
		read.TransferDirection = &d
	}
	return read
}

package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents a user record in the database.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Password  string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Account represents an account record in the database.
type Account struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID           `gorm:"type:uuid;index;not null"`
	Provider    string              `gorm:"size:100;not null"`
	AccountName string              `gorm:"size:100;not null"`
	AccountType string              `gorm:"size:20;not null"`
	Balance     decimal.Decimal     `gorm:"type:numeric(20,4);not null"`
	CreditLimit decimal.NullDecimal `gorm:"type:numeric(20,4)"`
	Country     string              `gorm:"size:2;not null"`
	Currency    string              `gorm:"size:3;not null"`
	LinkedModes LinkedModes         `gorm:"type:jsonb"`

	MinimumPaymentDue decimal.NullDecimal `gorm:"type:numeric(20,4)"`
	PaymentDueDate    *time.Time
	StatementDate     *time.Time
	LastPaymentDate   *time.Time
	LastPaymentAmount decimal.NullDecimal `gorm:"type:numeric(20,4)"`
	InterestRate      decimal.NullDecimal `gorm:"type:numeric(7,4)"`
	GracePeriodDays   *int

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction represents a persisted transaction or one side of a transfer.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	AccountID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type          string          `gorm:"size:16;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Date          time.Time       `gorm:"index;not null"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null"`
	SubCategoryID *uuid.UUID      `gorm:"type:uuid"`
	Notes         *string

	ToAccountID         *uuid.UUID          `gorm:"type:uuid"`
	TransferDirection   *string             `gorm:"size:3"`
	TransferGroupID     *uuid.UUID          `gorm:"type:uuid;index"`
	ExchangeRate        decimal.NullDecimal `gorm:"type:numeric(20,8)"`
	Commission          decimal.NullDecimal `gorm:"type:numeric(20,4)"`
	ServiceName         *string             `gorm:"size:100"`
	TransferredAmount   decimal.NullDecimal `gorm:"type:numeric(20,4)"`
	IsCreditCardPayment bool                `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// Category represents a user category with its subcategories.
type Category struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_categories_user_name;not null"`
	Name          string        `gorm:"size:100;uniqueIndex:idx_categories_user_name;not null"`
	IsDefault     bool          `gorm:"not null"`
	SubCategories []SubCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// SubCategory is a named child of a category.
type SubCategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_subcategories_category_name;not null"`
	Name       string    `gorm:"size:100;uniqueIndex:idx_subcategories_category_name;not null"`
	CreatedAt  time.Time
}

// TableName specifies the table name for the SubCategory model.
func (SubCategory) TableName() string {
	return "subcategories"
}

// LinkedModes is stored as a jsonb array.
type LinkedModes []account.LinkedMode

// Value implements driver.Valuer.
func (m LinkedModes) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *LinkedModes) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("linked modes: unsupported type %T", src)
	}
	return json.Unmarshal(raw, m)
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func decimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

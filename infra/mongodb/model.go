package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	usersCollection        = "users"
	accountsCollection     = "accounts"
	categoriesCollection   = "categories"
	transactionsCollection = "transactions"
)

// Ids are UUID strings so documents stay addressable by the same ids the
// API hands out.

type userDoc struct {
	ID             string    `bson:"_id"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashed_password"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

type linkedModeDoc struct {
	Name string `bson:"name"`
	Type string `bson:"type"`
}

type accountDoc struct {
	ID          string                `bson:"_id"`
	UserID      string                `bson:"user_id"`
	Provider    string                `bson:"provider"`
	AccountName string                `bson:"account_name"`
	AccountType string                `bson:"account_type"`
	Balance     primitive.Decimal128  `bson:"balance"` // MongoDB decimal for financial precision
	CreditLimit *primitive.Decimal128 `bson:"credit_limit,omitempty"`
	Country     string                `bson:"country"`
	Currency    string                `bson:"currency"`
	LinkedModes []linkedModeDoc       `bson:"linked_modes"`

	MinimumPaymentDue *primitive.Decimal128 `bson:"minimum_payment_due,omitempty"`
	PaymentDueDate    *time.Time            `bson:"payment_due_date,omitempty"`
	StatementDate     *time.Time            `bson:"statement_date,omitempty"`
	LastPaymentDate   *time.Time            `bson:"last_payment_date,omitempty"`
	LastPaymentAmount *primitive.Decimal128 `bson:"last_payment_amount,omitempty"`
	InterestRate      *primitive.Decimal128 `bson:"interest_rate,omitempty"`
	GracePeriodDays   *int                  `bson:"grace_period_days,omitempty"`

	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty"`
}

type subCategoryDoc struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
}

type categoryDoc struct {
	ID            string           `bson:"_id"`
	UserID        string           `bson:"user_id"`
	Name          string           `bson:"name"`
	IsDefault     bool             `bson:"is_default"`
	SubCategories []subCategoryDoc `bson:"sub_categories"`
	CreatedAt     time.Time        `bson:"created_at"`
}

type transactionDoc struct {
	ID            string               `bson:"_id"`
	UserID        string               `bson:"user_id"`
	AccountID     string               `bson:"account_id"`
	Type          string               `bson:"type"`
	Amount        primitive.Decimal128 `bson:"amount"`
	Date          time.Time            `bson:"date"`
	CategoryID    string               `bson:"category_id"`
	SubCategoryID *string              `bson:"sub_category_id,omitempty"`
	Notes         *string              `bson:"notes,omitempty"`

	ToAccountID         *string               `bson:"to_account_id,omitempty"`
	TransferDirection   *string               `bson:"transfer_direction,omitempty"`
	TransferGroupID     *string               `bson:"transfer_group_id,omitempty"`
	ExchangeRate        *primitive.Decimal128 `bson:"exchange_rate,omitempty"`
	Commission          *primitive.Decimal128 `bson:"commission,omitempty"`
	ServiceName         *string               `bson:"service_name,omitempty"`
	TransferredAmount   *primitive.Decimal128 `bson:"transferred_amount,omitempty"`
	IsCreditCardPayment bool                  `bson:"is_credit_card_payment"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

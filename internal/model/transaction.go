package model

import (
	"github.com/shopspring/decimal"
)

// TransactionType is the transaction_type value served by the transactions API.
type TransactionType string

const (
	TransactionTypeSellOrder TransactionType = "sell_order"
	TransactionTypeBuyOrder  TransactionType = "buy_order"
)

// TransactionStatus is the delivery status of a transaction.
type TransactionStatus string

const (
	StatusSuccess  TransactionStatus = "success"
	StatusPending  TransactionStatus = "pending"
	StatusExpired  TransactionStatus = "expired"
	StatusCanceled TransactionStatus = "canceled"
)

// Transaction is one record of a transactions page. Amounts decode from JSON
// numbers or numeric strings.
type Transaction struct {
	ID               string              `json:"id"`
	ConfirmationCode string              `json:"confirmation_code,omitempty"`
	Account          string              `json:"account,omitempty"`
	Type             TransactionType     `json:"transaction_type"`
	Status           TransactionStatus   `json:"status"`
	Amount           decimal.Decimal     `json:"amount"`
	RewardAmount     decimal.NullDecimal `json:"reward_amount"`
	RunningBalance   decimal.NullDecimal `json:"running_balance"` // only meaningful on the newest record
	TransactionDate  string              `json:"transaction_date,omitempty"`
}

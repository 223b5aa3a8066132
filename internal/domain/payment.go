package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// UserID идентификатор пользователя Telegram
type UserID int64

func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}

// OrderReference ссылка на заказ, ключ сопоставления с транзакциями WayForPay
type OrderReference string

// NewOrderReference формирует ссылку вида "<user_id>-<order_date>"
func NewOrderReference(userID UserID, orderDate time.Time) OrderReference {
	return OrderReference(fmt.Sprintf("%d-%d", userID, orderDate.Unix()))
}

func (r OrderReference) String() string {
	return string(r)
}

// TransactionStatus статус транзакции в WayForPay
type TransactionStatus string

const (
	TransactionStatusApproved TransactionStatus = "Approved"
	TransactionStatusDeclined TransactionStatus = "Declined"
	TransactionStatusExpired  TransactionStatus = "Expired"

	// промежуточные статусы, в леджер не записываются
	TransactionStatusInProcessing        TransactionStatus = "InProcessing"
	TransactionStatusWaitingAuthComplete TransactionStatus = "WaitingAuthComplete"
	TransactionStatusPending             TransactionStatus = "Pending"
	TransactionStatusRefundInProcessing  TransactionStatus = "RefundInProcessing"
	TransactionStatusRefunded            TransactionStatus = "Refunded"
	TransactionStatusVoided              TransactionStatus = "Voided"
)

// IsTerminal терминальный статус: после него заказ больше не меняется
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusApproved, TransactionStatusDeclined, TransactionStatusExpired:
		return true
	default:
		return false
	}
}

func (s TransactionStatus) String() string {
	return string(s)
}

// Order заказ, ожидающий оплаты
type Order struct {
	ID          uuid.UUID          `json:"id"`
	UserID      UserID             `json:"user_id"`
	Reference   OrderReference     `json:"order_reference"`
	ProductType string             `json:"product_type"`
	Amount      int64              `json:"amount"` // в гривнах
	CreatedAt   time.Time          `json:"created_at"`
	Status      *TransactionStatus `json:"status,omitempty"` // nil пока заказ не оплачен/отклонён
}

// IsPending статус ещё не записан
func (o *Order) IsPending() bool {
	return o.Status == nil
}

// Invoice счёт, выставленный через WayForPay
type Invoice struct {
	URL       string         `json:"invoice_url"`
	QRCode    string         `json:"qr_code"`
	Reference OrderReference `json:"order_reference"`
}

// Outcome итог ожидания оплаты конкретного заказа
type Outcome struct {
	UserID      UserID            `json:"user_id"`
	Status      TransactionStatus `json:"status"`
	Reference   OrderReference    `json:"order_reference"`
	ProductType string            `json:"product_type"`
	ResolvedAt  time.Time         `json:"resolved_at"`
}

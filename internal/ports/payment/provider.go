package payment

import (
	"context"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
)

// IPaymentGateway интерфейс платёжного шлюза (WayForPay)
// Use case подписывает запросы сам, шлюз только передаёт их по сети
type IPaymentGateway interface {
	// CreateInvoice выставляет счёт, возвращает ссылку на оплату и QR-код
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*CreateInvoiceResult, error)

	// ListTransactions возвращает транзакции мерчанта за окно [WindowStart, WindowEnd]
	ListTransactions(ctx context.Context, req ListTransactionsRequest) ([]TransactionRecord, error)
}

// CreateInvoiceRequest запрос на выставление счёта
type CreateInvoiceRequest struct {
	MerchantAccount string
	DomainName      string
	OrderReference  domain.OrderReference
	OrderDate       int64 // unix seconds
	Amount          int64
	Currency        string
	ProductName     string
	Signature       string
}

// CreateInvoiceResult результат выставления счёта
type CreateInvoiceResult struct {
	InvoiceURL string
	QRCode     string
}

// ListTransactionsRequest запрос списка транзакций за окно
type ListTransactionsRequest struct {
	MerchantAccount string
	WindowStart     int64 // unix seconds
	WindowEnd       int64 // unix seconds
	Signature       string
}

// TransactionRecord транзакция из ответа TRANSACTION_LIST
type TransactionRecord struct {
	OrderReference    domain.OrderReference
	TransactionStatus domain.TransactionStatus
}

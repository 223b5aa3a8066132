package wayforpay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/pkg/metrics"
	paymentPort "github.com/admin/tg-bots/shop-bot/internal/ports/payment"
	"github.com/go-resty/resty/v2"
)

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client клиент WayForPay API, реализует IPaymentGateway
type Client struct {
	cfg  *Config
	http *resty.Client
	log  *slog.Logger
}

// NewClient создаёт клиент WayForPay
func NewClient(cfg *Config, log *slog.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(cfg.timeout()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		cfg:  cfg,
		http: httpClient,
		log:  log,
	}
}

// CreateInvoice выставляет счёт через CREATE_INVOICE
func (c *Client) CreateInvoice(ctx context.Context, req paymentPort.CreateInvoiceRequest) (*paymentPort.CreateInvoiceResult, error) {
	body := createInvoiceRequest{
		TransactionType:    transactionTypeCreateInvoice,
		APIVersion:         apiVersion,
		MerchantAccount:    req.MerchantAccount,
		MerchantDomainName: req.DomainName,
		OrderReference:     req.OrderReference.String(),
		OrderDate:          req.OrderDate,
		Amount:             req.Amount,
		Currency:           req.Currency,
		PaymentSystems:     c.cfg.paymentSystems(),
		ProductName:        []string{req.ProductName},
		ProductPrice:       []int64{req.Amount},
		ProductCount:       []int{1},
		MerchantSignature:  req.Signature,
	}

	var resp createInvoiceResponse
	if err := c.post(ctx, opCreateInvoice, body, &resp); err != nil {
		return nil, err
	}

	if resp.InvoiceURL == "" {
		c.log.Debug("wayforpay returned no invoice url",
			"order_reference", req.OrderReference,
			"reason", resp.Reason,
			"reason_code", resp.ReasonCode,
		)
		metrics.GatewayRequestsTotal.WithLabelValues(opCreateInvoice, domain.GatewayReasonNoInvoiceURL).Inc()
		return nil, &domain.GatewayError{
			Op:     opCreateInvoice,
			Reason: domain.GatewayReasonNoInvoiceURL,
			Err:    fmt.Errorf("reason=%q reason_code=%d", resp.Reason, resp.ReasonCode),
		}
	}

	metrics.GatewayRequestsTotal.WithLabelValues(opCreateInvoice, "ok").Inc()

	return &paymentPort.CreateInvoiceResult{
		InvoiceURL: resp.InvoiceURL,
		QRCode:     resp.QRCode,
	}, nil
}

// ListTransactions получает список транзакций мерчанта через TRANSACTION_LIST
func (c *Client) ListTransactions(ctx context.Context, req paymentPort.ListTransactionsRequest) ([]paymentPort.TransactionRecord, error) {
	body := transactionListRequest{
		APIVersion:        apiVersion,
		TransactionType:   transactionTypeTransactionList,
		MerchantAccount:   req.MerchantAccount,
		MerchantSignature: req.Signature,
		DateBegin:         req.WindowStart,
		DateEnd:           req.WindowEnd,
	}

	var resp transactionListResponse
	if err := c.post(ctx, opListTransactions, body, &resp); err != nil {
		return nil, err
	}

	// ответ об отказе (неверная подпись, мерчант) приходит с 2xx и без списка
	if resp.ReasonCode != 0 && resp.ReasonCode != reasonCodeOK {
		c.log.Warn("wayforpay rejected transaction list request",
			"reason", resp.Reason,
			"reason_code", resp.ReasonCode,
			"date_begin", req.WindowStart,
			"date_end", req.WindowEnd,
		)
		return nil, c.transportError(opListTransactions, fmt.Errorf("rejected: reason=%q reason_code=%d", resp.Reason, resp.ReasonCode))
	}

	metrics.GatewayRequestsTotal.WithLabelValues(opListTransactions, "ok").Inc()

	records := make([]paymentPort.TransactionRecord, 0, len(resp.TransactionList))
	for _, tx := range resp.TransactionList {
		records = append(records, paymentPort.TransactionRecord{
			OrderReference:    domain.OrderReference(tx.OrderReference),
			TransactionStatus: domain.TransactionStatus(tx.TransactionStatus),
		})
	}

	return records, nil
}

// post отправляет JSON в API и разбирает ответ, любые сбои сети и формата - transport
func (c *Client) post(ctx context.Context, op string, body any, out any) error {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.cfg.baseURL())
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		return c.transportError(op, fmt.Errorf("request failed: %w", err))
	}

	raw := resp.Body()
	if !resp.IsSuccess() {
		c.log.Debug("wayforpay returned non-2xx status",
			"operation", op,
			"status_code", resp.StatusCode(),
			"body_preview", truncateString(string(raw), 200),
		)
		return c.transportError(op, fmt.Errorf("status=%d: %s", resp.StatusCode(), truncateString(string(raw), 500)))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Debug("failed to unmarshal wayforpay response",
			"operation", op,
			"error", err,
			"body_preview", truncateString(string(raw), 200),
		)
		return c.transportError(op, fmt.Errorf("unmarshal failed: %w", err))
	}

	return nil
}

func (c *Client) transportError(op string, err error) error {
	metrics.GatewayRequestsTotal.WithLabelValues(op, domain.GatewayReasonTransport).Inc()
	return &domain.GatewayError{
		Op:     op,
		Reason: domain.GatewayReasonTransport,
		Err:    err,
	}
}

package wayforpay

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/shop-bot/internal/ports/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &Config{
		MerchantAccount: "merchant",
		SecretKey:       "secret",
		DomainName:      "shop.example",
		BaseURL:         srv.URL,
		Timeout:         2 * time.Second,
	}
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateInvoice(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"invoiceUrl":"https://pay/x","qrCode":"Q","reasonCode":1100}`))
	})

	res, err := client.CreateInvoice(context.Background(), paymentPort.CreateInvoiceRequest{
		MerchantAccount: "merchant",
		DomainName:      "shop.example",
		OrderReference:  "42-1700000000",
		OrderDate:       1700000000,
		Amount:          500,
		Currency:        "UAH",
		ProductName:     "album",
		Signature:       "sig",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay/x", res.InvoiceURL)
	assert.Equal(t, "Q", res.QRCode)

	assert.Equal(t, "CREATE_INVOICE", got["transactionType"])
	assert.EqualValues(t, 1, got["apiVersion"])
	assert.Equal(t, "merchant", got["merchantAccount"])
	assert.Equal(t, "shop.example", got["merchantDomainName"])
	assert.Equal(t, "42-1700000000", got["orderReference"])
	assert.EqualValues(t, 1700000000, got["orderDate"])
	assert.EqualValues(t, 500, got["amount"])
	assert.Equal(t, "UAH", got["currency"])
	assert.Equal(t, "card;googlePay;applePay;privat24", got["paymentSystems"])
	assert.Equal(t, []any{"album"}, got["productName"])
	assert.Equal(t, []any{float64(500)}, got["productPrice"])
	assert.Equal(t, []any{float64(1)}, got["productCount"])
	assert.Equal(t, "sig", got["merchantSignature"])
}

func TestCreateInvoiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{name: "no invoice url", status: http.StatusOK, body: `{"reason":"Duplicate Order ID","reasonCode":1112}`, reason: domain.GatewayReasonNoInvoiceURL},
		{name: "non-2xx", status: http.StatusBadGateway, body: `bad gateway`, reason: domain.GatewayReasonTransport},
		{name: "malformed body", status: http.StatusOK, body: `{"invoiceUrl":`, reason: domain.GatewayReasonTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			res, err := client.CreateInvoice(context.Background(), paymentPort.CreateInvoiceRequest{OrderReference: "1-1"})
			require.Error(t, err)
			assert.Nil(t, res)

			reason, ok := domain.IsGatewayError(err)
			require.True(t, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestCreateInvoiceNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(&Config{BaseURL: url, Timeout: time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := client.CreateInvoice(context.Background(), paymentPort.CreateInvoiceRequest{OrderReference: "1-1"})

	reason, ok := domain.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, domain.GatewayReasonTransport, reason)
}

func TestListTransactions(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"reasonCode":1100,"transactionList":[
			{"orderReference":"42-1700000000","transactionStatus":"Approved","amount":500,"currency":"UAH"},
			{"orderReference":"7-1700000100","transactionStatus":"InProcessing"}
		]}`))
	})

	records, err := client.ListTransactions(context.Background(), paymentPort.ListTransactionsRequest{
		MerchantAccount: "merchant",
		WindowStart:     1699999000,
		WindowEnd:       1700000100,
		Signature:       "sig",
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.OrderReference("42-1700000000"), records[0].OrderReference)
	assert.Equal(t, domain.TransactionStatusApproved, records[0].TransactionStatus)
	assert.Equal(t, domain.TransactionStatusInProcessing, records[1].TransactionStatus)

	assert.Equal(t, "TRANSACTION_LIST", got["transactionType"])
	assert.EqualValues(t, 1, got["apiVersion"])
	assert.Equal(t, "merchant", got["merchantAccount"])
	assert.Equal(t, "sig", got["merchantSignature"])
	assert.EqualValues(t, 1699999000, got["dateBegin"])
	assert.EqualValues(t, 1700000100, got["dateEnd"])
}

func TestListTransactionsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reasonCode":1100}`))
	})

	records, err := client.ListTransactions(context.Background(), paymentPort.ListTransactionsRequest{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListTransactionsRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reason":"Invalid signature","reasonCode":1113}`))
	})

	records, err := client.ListTransactions(context.Background(), paymentPort.ListTransactionsRequest{
		MerchantAccount: "merchant",
		WindowStart:     1699999000,
		WindowEnd:       1700000100,
		Signature:       "bad",
	})
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "Invalid signature")

	reason, ok := domain.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, domain.GatewayReasonTransport, reason)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{MerchantAccount: "m", SecretKey: "s", DomainName: "d"}
	assert.NoError(t, cfg.Validate())

	cfg.SecretKey = ""
	assert.ErrorIs(t, cfg.Validate(), domain.ErrMissingConfig)

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), domain.ErrMissingConfig)
}

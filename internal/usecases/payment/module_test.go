package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/pkg/signature"
	"github.com/admin/tg-bots/shop-bot/internal/ports/cache"
	paymentPort "github.com/admin/tg-bots/shop-bot/internal/ports/payment"
)

type fakeGateway struct {
	mu sync.Mutex

	invoice    *paymentPort.CreateInvoiceResult
	invoiceErr error
	records    []paymentPort.TransactionRecord
	listErr    error

	invoiceCalls []paymentPort.CreateInvoiceRequest
	listCalls    []paymentPort.ListTransactionsRequest
}

func (g *fakeGateway) CreateInvoice(_ context.Context, req paymentPort.CreateInvoiceRequest) (*paymentPort.CreateInvoiceResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.invoiceCalls = append(g.invoiceCalls, req)
	if g.invoiceErr != nil {
		return nil, g.invoiceErr
	}
	if g.invoice != nil {
		return g.invoice, nil
	}
	return &paymentPort.CreateInvoiceResult{InvoiceURL: "https://pay/x", QRCode: "Q"}, nil
}

func (g *fakeGateway) ListTransactions(_ context.Context, req paymentPort.ListTransactionsRequest) ([]paymentPort.TransactionRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.listCalls = append(g.listCalls, req)
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]paymentPort.TransactionRecord(nil), g.records...), nil
}

func (g *fakeGateway) setRecords(records ...paymentPort.TransactionRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = records
}

func (g *fakeGateway) calls() (invoices, lists int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.invoiceCalls), len(g.listCalls)
}

type fakeJournal struct {
	mu       sync.Mutex
	created  []domain.OrderReference
	statuses map[domain.OrderReference]domain.TransactionStatus
	retired  []domain.OrderReference
	outcomes map[domain.OrderReference]*domain.Outcome
	getErr   error
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{
		statuses: make(map[domain.OrderReference]domain.TransactionStatus),
		outcomes: make(map[domain.OrderReference]*domain.Outcome),
	}
}

func (j *fakeJournal) Create(_ context.Context, order *domain.Order, _ string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.created = append(j.created, order.Reference)
	return nil
}

func (j *fakeJournal) UpdateStatus(_ context.Context, reference domain.OrderReference, status domain.TransactionStatus, _ time.Time) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.statuses[reference] = status
	return nil
}

func (j *fakeJournal) MarkRetired(_ context.Context, reference domain.OrderReference, _ time.Time) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.retired = append(j.retired, reference)
	return nil
}

func (j *fakeJournal) GetOutcome(_ context.Context, reference domain.OrderReference) (*domain.Outcome, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.getErr != nil {
		return nil, j.getErr
	}
	if o, ok := j.outcomes[reference]; ok {
		return o, nil
	}
	return nil, domain.ErrOrderNotFound
}

type published struct {
	order      domain.Order
	resolvedAt time.Time
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *fakePublisher) PublishOutcome(_ context.Context, order domain.Order, resolvedAt time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{order: order, resolvedAt: resolvedAt})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrNotFound
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close() error               { return nil }

var errNetwork = &domain.GatewayError{Op: "list_transactions", Reason: domain.GatewayReasonTransport, Err: errors.New("connection refused")}

func testConfig() *Config {
	return &Config{
		AwaitPollInterval: 10 * time.Millisecond,
		AwaitTimeout:      time.Second,
	}
}

func newTestService(cfg *Config, gateway *fakeGateway, now time.Time) (*Service, *inmemory.OrderLedger) {
	ledger := inmemory.NewOrderLedger()
	signer, err := signature.New("secret")
	if err != nil {
		panic(err)
	}

	svc := New(cfg, Merchant{Account: "merchant", DomainName: "shop.example"}, ledger, gateway, signer,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return now }

	return svc, ledger
}

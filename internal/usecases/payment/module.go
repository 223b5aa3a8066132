package payment

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/pkg/signature"
	"github.com/admin/tg-bots/shop-bot/internal/ports/cache"
	"github.com/admin/tg-bots/shop-bot/internal/ports/kafka"
	paymentPort "github.com/admin/tg-bots/shop-bot/internal/ports/payment"
	"github.com/admin/tg-bots/shop-bot/internal/ports/repository"
)

// Merchant реквизиты мерчанта WayForPay, которые входят в подпись
type Merchant struct {
	Account    string
	DomainName string
}

// Service платёжный модуль: счета, сверка со шлюзом и ожидание статуса
type Service struct {
	Ledger  repository.IOrderLedger
	Gateway paymentPort.IPaymentGateway
	Signer  *signature.Authority
	Log     *slog.Logger

	// опциональные зависимости, могут быть nil
	Journal   repository.IPaymentJournal
	Publisher kafka.IOutcomePublisher
	Cache     cache.Cache

	cfg      *Config
	merchant Merchant
	now      func() time.Time

	datesMu        sync.Mutex
	lastOrderDates map[domain.UserID]int64 // user_id -> последняя выданная order_date
}

func New(
	cfg *Config,
	merchant Merchant,
	ledger repository.IOrderLedger,
	gateway paymentPort.IPaymentGateway,
	signer *signature.Authority,
	log *slog.Logger,
) *Service {
	return &Service{
		Ledger:         ledger,
		Gateway:        gateway,
		Signer:         signer,
		Log:            log,
		cfg:            cfg,
		merchant:       merchant,
		now:            time.Now,
		lastOrderDates: make(map[domain.UserID]int64),
	}
}

// SetJournal устанавливает журнал заказов в БД
func (s *Service) SetJournal(journal repository.IPaymentJournal) {
	s.Journal = journal
}

// SetPublisher устанавливает publisher событий об оплате
func (s *Service) SetPublisher(publisher kafka.IOutcomePublisher) {
	s.Publisher = publisher
}

// SetCache устанавливает кэш итогов оплаты
func (s *Service) SetCache(c cache.Cache) {
	s.Cache = c
}

// HasPending есть ли заказы без статуса
func (s *Service) HasPending() bool {
	return s.Ledger.Len() > 0
}

// invariantViolation логирует нарушение инварианта леджера со всем контекстом и возвращает ошибку
// Алерт отправляет планировщик по итогу прохода
func (s *Service) invariantViolation(op string, order domain.Order, err error) error {
	s.Log.Error("ledger invariant violated",
		"operation", op,
		"error", err,
		"user_id", order.UserID,
		"order_id", order.ID,
		"order_reference", order.Reference,
		"product_type", order.ProductType,
		"created_at", order.CreatedAt.Unix(),
		"ledger_users", s.Ledger.Users(),
		"ledger_pending", s.Ledger.Len(),
	)

	return fmt.Errorf("%s: order %s of user %d: %w", op, order.Reference, order.UserID, err)
}

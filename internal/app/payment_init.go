package app

import (
	"fmt"

	"github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/payment/wayforpay"
	"github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/tg-bots/shop-bot/internal/pkg/signature"
	"github.com/admin/tg-bots/shop-bot/internal/ports/cache"
	"github.com/admin/tg-bots/shop-bot/internal/ports/kafka"
	"github.com/admin/tg-bots/shop-bot/internal/ports/repository"
	paymentUsecase "github.com/admin/tg-bots/shop-bot/internal/usecases/payment"
)

// initPayment собирает платёжный модуль: леджер, подпись, шлюз WayForPay и опциональные зависимости
func (a *App) initPayment(
	journal repository.IPaymentJournal,
	publisher kafka.IOutcomePublisher,
	cacheClient cache.Cache,
) (*paymentUsecase.Service, error) {
	signer, err := signature.New(a.Cfg.WayForPay.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to init signature: %w", err)
	}

	gateway := wayforpay.NewClient(a.Cfg.WayForPay, a.Log)
	ledger := inmemory.NewOrderLedger()

	paymentUseCase := paymentUsecase.New(
		a.Cfg.Payment,
		paymentUsecase.Merchant{
			Account:    a.Cfg.WayForPay.MerchantAccount,
			DomainName: a.Cfg.WayForPay.DomainName,
		},
		ledger,
		gateway,
		signer,
		a.Log,
	)

	// опциональные зависимости
	if journal != nil {
		paymentUseCase.SetJournal(journal)
	}
	if publisher != nil {
		paymentUseCase.SetPublisher(publisher)
	}
	if cacheClient != nil {
		paymentUseCase.SetCache(cacheClient)
	}

	a.Log.Info("payment system initialized successfully",
		"merchant_account", a.Cfg.WayForPay.MerchantAccount,
		"journal", journal != nil,
		"outcome_events", publisher != nil,
		"outcome_cache", cacheClient != nil,
	)
	return paymentUseCase, nil
}

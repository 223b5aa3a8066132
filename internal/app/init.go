package app

import (
	"fmt"
	"net/http"

	server "github.com/admin/tg-bots/shop-bot/internal/adapters/primary/http"
	healthcheckController "github.com/admin/tg-bots/shop-bot/internal/adapters/primary/http/controllers/healthcheck"
	metricsController "github.com/admin/tg-bots/shop-bot/internal/adapters/primary/http/controllers/metrics"
	paymentController "github.com/admin/tg-bots/shop-bot/internal/adapters/primary/http/controllers/payment"
	alerterAdapter "github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/kafka"
	"github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/storage/redis"
	tgAdapter "github.com/admin/tg-bots/shop-bot/internal/adapters/secondary/telegram"
	"github.com/admin/tg-bots/shop-bot/internal/ports/cache"
	"github.com/admin/tg-bots/shop-bot/internal/ports/kafka"
	"github.com/admin/tg-bots/shop-bot/internal/ports/repository"
	"github.com/admin/tg-bots/shop-bot/internal/ports/service"
	paymentRepo "github.com/admin/tg-bots/shop-bot/internal/repository/payment"
	alerterService "github.com/admin/tg-bots/shop-bot/internal/services/alerter"
	jobScheduler "github.com/admin/tg-bots/shop-bot/internal/services/jobs"
	paymentUsecase "github.com/admin/tg-bots/shop-bot/internal/usecases/payment"
)

type Dependencies struct {
	DB            *pg.DB // nil, если журнал выключен
	HTTPServer    *http.Server
	KafkaProducer *kafkaAdapter.Producer // nil, если Kafka выключена
	Cache         cache.Cache            // nil, если Redis выключен
	JobScheduler  *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies() (*Dependencies, error) {
	db, err := a.initPostgres()
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	externalServices := a.initExternalServices()

	var producer *kafkaAdapter.Producer
	if a.Cfg.Kafka.IsEnabled() {
		producer, err = kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
		if err != nil {
			a.Log.Warn("failed to create kafka producer, outcome events disabled", "error", err)
			producer = nil
		}
	}

	var journal repository.IPaymentJournal
	if db != nil {
		journal = paymentRepo.New(db, a.Log)
	}

	// nil *Producer в интерфейсе не равен nil
	var publisher kafka.IOutcomePublisher
	if producer != nil {
		publisher = producer
	}

	paymentUseCase, err := a.initPayment(journal, publisher, externalServices.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to init payment: %w", err)
	}

	httpServer := a.initHTTP(paymentUseCase, db, externalServices.Cache)
	scheduler := a.initJobScheduler(externalServices.Alerter, paymentUseCase)

	return &Dependencies{
		DB:            db,
		HTTPServer:    httpServer,
		KafkaProducer: producer,
		Cache:         externalServices.Cache,
		JobScheduler:  scheduler,
	}, nil
}

// externalServices содержит внешние сервисы (опциональные)
type externalServices struct {
	Alerter service.IAlerterService
	Cache   cache.Cache
}

// initExternalServices инициализирует внешние сервисы (Alerter, Cache)
func (a *App) initExternalServices() *externalServices {
	services := &externalServices{}

	// Alerter - опциональный
	if a.Cfg.Alerter.IsEnabled() {
		tgClient := tgAdapter.NewClient(a.Cfg.Alerter.BotToken, a.Log)
		alerterClient := alerterAdapter.NewClient(a.Cfg.Alerter, tgClient, a.Log)
		services.Alerter = alerterService.New(alerterClient)
	}

	// Redis Cache - опциональный
	if a.Cfg.Redis.IsEnabled() {
		redisClient, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			a.Log.Warn("failed to init redis cache, continuing without cache", "error", err)
		} else {
			services.Cache = redisAdapter.NewClient(redisClient)
			a.Log.Info("redis cache connected successfully")
		}
	}

	return services
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(paymentUseCase *paymentUsecase.Service, db *pg.DB, cacheClient cache.Cache) *http.Server {
	healthCheck := healthcheckController.New(paymentUseCase.Ledger, a.Log)
	if db != nil {
		healthCheck.AddDependency("postgres", db)
	}
	if cacheClient != nil {
		healthCheck.AddDependency("redis", cacheClient)
	}

	controllers := []server.Controller{
		healthCheck,
		metricsController.New(),
		paymentController.New(paymentUseCase, a.Log),
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, controllers...)
}

// initJobScheduler инициализирует планировщик джоб
func (a *App) initJobScheduler(
	alerterSvc service.IAlerterService,
	paymentUseCase *paymentUsecase.Service,
) *jobScheduler.Scheduler {
	scheduler := jobScheduler.NewScheduler(a.Log, alerterSvc)

	reconciliation := jobScheduler.NewReconciliation(
		paymentUseCase,
		a.Cfg.Payment.GetSweepInterval(),
		a.Cfg.Payment.GetIdleBackoff(),
		a.Cfg.Payment.GetAlertCooldown(),
	)
	scheduler.Register(reconciliation)
	a.Log.Info("payment reconciliation job registered",
		"sweep_interval", a.Cfg.Payment.GetSweepInterval(),
		"idle_backoff", a.Cfg.Payment.GetIdleBackoff(),
		"alert_cooldown", a.Cfg.Payment.GetAlertCooldown(),
	)

	return scheduler
}

// initPostgres подключает журнал заказов и запускает миграции, если Postgres настроен
func (a *App) initPostgres() (*pg.DB, error) {
	if !a.Cfg.Postgres.IsEnabled() {
		a.Log.Info("postgres is not configured, payment journal disabled")
		return nil, nil
	}

	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(db, a.Log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return pg.NewDB(db), nil
}

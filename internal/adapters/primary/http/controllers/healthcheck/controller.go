package healthcheckController

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/ports/repository"
	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// Pinger зависимость, доступность которой проверяется в /ready
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthCheckController struct {
	ledger  repository.IOrderLedger
	pingers map[string]Pinger
	log     *slog.Logger
}

func New(ledger repository.IOrderLedger, log *slog.Logger) *HealthCheckController {
	return &HealthCheckController{
		ledger:  ledger,
		pingers: make(map[string]Pinger),
		log:     log,
	}
}

// AddDependency добавляет проверку опциональной зависимости (postgres, redis)
func (c *HealthCheckController) AddDependency(name string, p Pinger) {
	c.pingers[name] = p
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", c.health)
	r.GET("/ready", c.ready)
}

// health базовая проверка (всегда возвращает 200)
func (c *HealthCheckController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"service":        "shop-bot",
		"pending_orders": c.ledger.Len(),
		"pending_users":  c.ledger.Users(),
	})
}

// ready проверка готовности подключённых зависимостей
func (c *HealthCheckController) ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), readyTimeout)
	defer cancel()

	for name, p := range c.pingers {
		if err := p.Ping(pingCtx); err != nil {
			c.log.Error("dependency not ready", "dependency", name, "error", err)
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  name + " unavailable",
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

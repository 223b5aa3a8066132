package jobs

import (
	"context"
	"time"
)

// Job представляет периодическую задачу, которую можно запланировать
type Job interface {
	Name() string
	NextRun(now time.Time) time.Time
	Run(ctx context.Context) error
}

// RetryPolicy опциональный интерфейс джобы со своими задержками ретраев
// Пустой список - ошибка сразу считается финальной
type RetryPolicy interface {
	RetryDelays() []time.Duration
}

// AlertPolicy опциональный интерфейс джобы: не чаще одного алерта за AlertCooldown
// Ноль - алерт на каждую финальную ошибку
type AlertPolicy interface {
	AlertCooldown() time.Duration
}

package jobs

import (
	"context"
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/ports/usecase"
)

const reconciliationName = "payment-reconciliation"

// Reconciliation джоба сверки ожидающих заказов со шлюзом
// Пока есть заказы - проход раз в sweepInterval, иначе проверка раз в idleBackoff
// Ошибка повторяется каждый проход, поэтому алерты ограничены alertCooldown
type Reconciliation struct {
	reconciler    usecase.IReconciler
	sweepInterval time.Duration
	idleBackoff   time.Duration
	alertCooldown time.Duration
}

func NewReconciliation(reconciler usecase.IReconciler, sweepInterval, idleBackoff, alertCooldown time.Duration) *Reconciliation {
	return &Reconciliation{
		reconciler:    reconciler,
		sweepInterval: sweepInterval,
		idleBackoff:   idleBackoff,
		alertCooldown: alertCooldown,
	}
}

func (j *Reconciliation) Name() string {
	return reconciliationName
}

func (j *Reconciliation) NextRun(now time.Time) time.Time {
	if j.reconciler.HasPending() {
		return now.Add(j.sweepInterval)
	}
	return now.Add(j.idleBackoff)
}

// Run один проход сверки, ошибка - нарушение инварианта леджера
func (j *Reconciliation) Run(ctx context.Context) error {
	return j.reconciler.Reconcile(ctx)
}

// RetryDelays без ретраев: следующий проход и так будет через sweepInterval
func (j *Reconciliation) RetryDelays() []time.Duration {
	return nil
}

func (j *Reconciliation) AlertCooldown() time.Duration {
	return j.alertCooldown
}

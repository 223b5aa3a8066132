package usecase

import (
	"context"
)

// IReconciler сверка ожидающих заказов со шлюзом (use case слой)
type IReconciler interface {
	Reconcile(ctx context.Context) error
	HasPending() bool
}

package inmemory

import (
	"sync"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/ports/repository"
	"github.com/google/uuid"
)

// OrderLedger in-memory реализация леджера ожидающих заказов
// Заказы хранятся по пользователю в порядке добавления, порядок не меняется
type OrderLedger struct {
	mu     sync.RWMutex
	orders map[domain.UserID][]*domain.Order // user_id -> заказы
	users  []domain.UserID                   // порядок появления пользователей, для детерминированного снапшота
}

// NewOrderLedger создаёт пустой леджер
func NewOrderLedger() *OrderLedger {
	return &OrderLedger{
		orders: make(map[domain.UserID][]*domain.Order),
	}
}

var _ repository.IOrderLedger = (*OrderLedger)(nil)

// Append добавляет заказ в конец списка пользователя
func (l *OrderLedger) Append(order domain.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.orders[order.UserID]; !ok {
		l.users = append(l.users, order.UserID)
	}
	stored := order
	stored.Status = copyStatus(order.Status)
	l.orders[order.UserID] = append(l.orders[order.UserID], &stored)
}

// Pending снапшот заказов без статуса на момент вызова
func (l *OrderLedger) Pending() []domain.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var pending []domain.Order
	for _, userID := range l.users {
		for _, o := range l.orders[userID] {
			if o.IsPending() {
				pending = append(pending, *o)
			}
		}
	}
	return pending
}

// FirstByProduct первый по порядку заказ пользователя с указанным типом продукта
func (l *OrderLedger) FirstByProduct(userID domain.UserID, productType string) (domain.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, o := range l.orders[userID] {
		if o.ProductType == productType {
			return snapshot(o), true
		}
	}
	return domain.Order{}, false
}

// Get возвращает копию заказа
func (l *OrderLedger) Get(userID domain.UserID, orderID uuid.UUID) (domain.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, o := l.find(userID, orderID)
	if o == nil {
		return domain.Order{}, false
	}
	return snapshot(o), true
}

// SetStatus записывает статус один раз
func (l *OrderLedger) SetStatus(userID domain.UserID, orderID uuid.UUID, status domain.TransactionStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, o := l.find(userID, orderID)
	if o == nil {
		return domain.ErrOrderMissing
	}
	if o.Status != nil {
		return domain.ErrStatusAlreadySet
	}
	o.Status = &status
	return nil
}

// RemoveAndPrune удаляет заказ, пустой список пользователя удаляется целиком
// Повторное удаление - no-op, true получает только один из конкурирующих вызовов
func (l *OrderLedger) RemoveAndPrune(userID domain.UserID, orderID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, o := l.find(userID, orderID)
	if o == nil {
		return false
	}
	l.removeAt(userID, idx)
	return true
}

// Len количество заказов без статуса
func (l *OrderLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, orders := range l.orders {
		for _, o := range orders {
			if o.IsPending() {
				n++
			}
		}
	}
	return n
}

// Users количество пользователей с заказами
func (l *OrderLedger) Users() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}

// find вызывается под блокировкой
func (l *OrderLedger) find(userID domain.UserID, orderID uuid.UUID) (int, *domain.Order) {
	for i, o := range l.orders[userID] {
		if o.ID == orderID {
			return i, o
		}
	}
	return -1, nil
}

// removeAt вызывается под блокировкой на запись
func (l *OrderLedger) removeAt(userID domain.UserID, idx int) {
	orders := l.orders[userID]
	remaining := make([]*domain.Order, 0, len(orders)-1)
	remaining = append(remaining, orders[:idx]...)
	remaining = append(remaining, orders[idx+1:]...)

	if len(remaining) > 0 {
		l.orders[userID] = remaining
		return
	}

	delete(l.orders, userID)
	for i, id := range l.users {
		if id == userID {
			l.users = append(l.users[:i], l.users[i+1:]...)
			break
		}
	}
}

func snapshot(o *domain.Order) domain.Order {
	c := *o
	c.Status = copyStatus(o.Status)
	return c
}

func copyStatus(s *domain.TransactionStatus) *domain.TransactionStatus {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

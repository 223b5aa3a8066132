package repository

import (
	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/google/uuid"
)

// IOrderLedger in-memory учёт ожидающих заказов по пользователям
// Все методы атомарны относительно друг друга
type IOrderLedger interface {
	Append(order domain.Order)
	Pending() []domain.Order
	FirstByProduct(userID domain.UserID, productType string) (domain.Order, bool)
	Get(userID domain.UserID, orderID uuid.UUID) (domain.Order, bool)
	SetStatus(userID domain.UserID, orderID uuid.UUID, status domain.TransactionStatus) error
	RemoveAndPrune(userID domain.UserID, orderID uuid.UUID) bool
	Len() int
	Users() int
}

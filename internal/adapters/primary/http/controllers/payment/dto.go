package paymentController

import (
	"time"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
)

// CreateInvoiceReq user_id - Telegram ID пользователя, только положительный (0 и отрицательные -> 400)
type CreateInvoiceReq struct {
	UserID      int64  `json:"user_id" binding:"required,gt=0"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	ProductType string `json:"product_type" binding:"required"`
}

type CreateInvoiceResp struct {
	InvoiceURL     string `json:"invoice_url"`
	QRCode         string `json:"qr_code"`
	OrderReference string `json:"order_reference"`
}

type AwaitOutcomeReq struct {
	UserID      int64  `json:"user_id" binding:"required,gt=0"`
	ProductType string `json:"product_type" binding:"required"`
}

type OutcomeResp struct {
	UserID         int64     `json:"user_id"`
	Status         string    `json:"status"`
	OrderReference string    `json:"order_reference"`
	ProductType    string    `json:"product_type"`
	ResolvedAt     time.Time `json:"resolved_at"`
}

func toOutcomeResp(o *domain.Outcome) OutcomeResp {
	return OutcomeResp{
		UserID:         int64(o.UserID),
		Status:         o.Status.String(),
		OrderReference: o.Reference.String(),
		ProductType:    o.ProductType,
		ResolvedAt:     o.ResolvedAt,
	}
}

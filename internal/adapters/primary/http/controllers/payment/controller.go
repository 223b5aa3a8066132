package paymentController

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
	"github.com/admin/tg-bots/shop-bot/internal/ports/service"
	"github.com/gin-gonic/gin"
)

type Controller struct {
	PaymentService service.IPaymentService
	Log            *slog.Logger
}

func New(paymentService service.IPaymentService, log *slog.Logger) *Controller {
	return &Controller{
		PaymentService: paymentService,
		Log:            log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/invoices", c.handleCreateInvoice)
		v1.POST("/outcomes/await", c.handleAwaitOutcome)
		v1.GET("/orders/:reference", c.handleGetOutcome)
	}
}

func (c *Controller) handleCreateInvoice(ctx *gin.Context) {
	var req CreateInvoiceReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.Log.Warn("failed to bind create invoice request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	invoice, err := c.PaymentService.CreateInvoice(ctx.Request.Context(), domain.UserID(req.UserID), req.Amount, req.ProductType)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, CreateInvoiceResp{
		InvoiceURL:     invoice.URL,
		QRCode:         invoice.QRCode,
		OrderReference: invoice.Reference.String(),
	})
}

func (c *Controller) handleAwaitOutcome(ctx *gin.Context) {
	var req AwaitOutcomeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.Log.Warn("failed to bind await outcome request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	outcome, err := c.PaymentService.AwaitOutcome(ctx.Request.Context(), domain.UserID(req.UserID), req.ProductType)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toOutcomeResp(outcome))
}

func (c *Controller) handleGetOutcome(ctx *gin.Context) {
	reference := domain.OrderReference(ctx.Param("reference"))

	outcome, err := c.PaymentService.GetOutcome(ctx.Request.Context(), reference)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toOutcomeResp(outcome))
}

// writeError маппинг ошибок платёжного модуля в HTTP, детали шлюза наружу не отдаются
func (c *Controller) writeError(ctx *gin.Context, err error) {
	if _, ok := domain.IsGatewayError(err); ok {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInvoice):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice request"})
	case errors.Is(err, domain.ErrOrderNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, domain.ErrAwaitTimeout):
		ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": "order outcome timed out"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// клиент ушёл, ответ уже никто не прочитает
		ctx.Status(http.StatusRequestTimeout)
	default:
		if !domain.IsBusinessError(err) {
			c.Log.Error("payment request failed", "error", err, "path", ctx.FullPath())
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

package domain

import (
	"errors"
	"fmt"
)

// BusinessError ошибка бизнес-логики, которая уже залогирована в UseCase
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

var (
	// ErrMissingConfig не задан обязательный параметр конфигурации
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrInvalidInvoice некорректные параметры счёта
	ErrInvalidInvoice = errors.New("invalid invoice request")

	// ErrOrderNotFound нет ожидающего заказа для пользователя и типа продукта
	ErrOrderNotFound = errors.New("order not found")

	// ErrAwaitTimeout статус заказа не пришёл за отведённое время
	ErrAwaitTimeout = errors.New("order status await timed out")

	// ErrStatusAlreadySet повторная запись статуса заказа
	ErrStatusAlreadySet = errors.New("order status already set")

	// ErrOrderMissing заказ пропал из леджера, нарушен инвариант
	ErrOrderMissing = errors.New("order missing from ledger")

	// ErrOrderVanished заказ удалён другим ожидающим во время ожидания
	ErrOrderVanished = fmt.Errorf("order removed while awaiting: %w", ErrOrderNotFound)
)

// Причины ошибок платёжного шлюза
const (
	GatewayReasonTransport    = "transport"
	GatewayReasonNoInvoiceURL = "no_invoice_url"
)

// GatewayError ошибка обращения к платёжному шлюзу
type GatewayError struct {
	Op     string // create_invoice, list_transactions
	Reason string // transport, no_invoice_url
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("gateway %s failed: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("gateway %s failed: %s: %v", e.Op, e.Reason, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsGatewayError проверяет, что ошибка пришла от шлюза, и возвращает причину
func IsGatewayError(err error) (string, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Reason, true
	}
	return "", false
}

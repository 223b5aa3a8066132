package signature

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/admin/tg-bots/shop-bot/internal/domain"
)

const separator = ";"

// Authority подписывает запросы к WayForPay (HMAC-MD5 по секретному ключу мерчанта)
type Authority struct {
	secret []byte
}

// New создаёт подписывающий объект, пустой ключ - ошибка конфигурации
func New(secret string) (*Authority, error) {
	if secret == "" {
		return nil, fmt.Errorf("wayforpay secret key: %w", domain.ErrMissingConfig)
	}
	return &Authority{secret: []byte(secret)}, nil
}

// Sign склеивает поля через ";" в переданном порядке и возвращает hex-дайджест
func (a *Authority) Sign(fields ...string) string {
	mac := hmac.New(md5.New, a.secret)
	mac.Write([]byte(strings.Join(fields, separator)))
	return hex.EncodeToString(mac.Sum(nil))
}

// InvoiceFields порядок полей для CREATE_INVOICE:
// merchant_account;domain;order_reference;order_date;amount;currency;product_name;1;amount
func InvoiceFields(merchantAccount, domainName, orderReference string, orderDate, amount int64, currency, productName string) []string {
	amountStr := strconv.FormatInt(amount, 10)
	return []string{
		merchantAccount,
		domainName,
		orderReference,
		strconv.FormatInt(orderDate, 10),
		amountStr,
		currency,
		productName,
		"1",
		amountStr,
	}
}

// TransactionListFields порядок полей для TRANSACTION_LIST: merchant_account;date_begin;date_end
func TransactionListFields(merchantAccount string, windowStart, windowEnd int64) []string {
	return []string{
		merchantAccount,
		strconv.FormatInt(windowStart, 10),
		strconv.FormatInt(windowEnd, 10),
	}
}

package wayforpay

const (
	apiVersion = 1

	transactionTypeCreateInvoice   = "CREATE_INVOICE"
	transactionTypeTransactionList = "TRANSACTION_LIST"

	// reasonCodeOK код успешной обработки запроса шлюзом
	reasonCodeOK = 1100

	opCreateInvoice    = "create_invoice"
	opListTransactions = "list_transactions"
)

// createInvoiceRequest тело запроса CREATE_INVOICE
type createInvoiceRequest struct {
	TransactionType    string   `json:"transactionType"`
	APIVersion         int      `json:"apiVersion"`
	MerchantAccount    string   `json:"merchantAccount"`
	MerchantDomainName string   `json:"merchantDomainName"`
	OrderReference     string   `json:"orderReference"`
	OrderDate          int64    `json:"orderDate"`
	Amount             int64    `json:"amount"`
	Currency           string   `json:"currency"`
	PaymentSystems     string   `json:"paymentSystems"`
	ProductName        []string `json:"productName"`
	ProductPrice       []int64  `json:"productPrice"`
	ProductCount       []int    `json:"productCount"`
	MerchantSignature  string   `json:"merchantSignature"`
}

// createInvoiceResponse ответ на CREATE_INVOICE
type createInvoiceResponse struct {
	InvoiceURL string `json:"invoiceUrl"`
	QRCode     string `json:"qrCode"`
	Reason     string `json:"reason,omitempty"`
	ReasonCode int    `json:"reasonCode,omitempty"`
}

// transactionListRequest тело запроса TRANSACTION_LIST
type transactionListRequest struct {
	APIVersion        int    `json:"apiVersion"`
	TransactionType   string `json:"transactionType"`
	MerchantAccount   string `json:"merchantAccount"`
	MerchantSignature string `json:"merchantSignature"`
	DateBegin         int64  `json:"dateBegin"`
	DateEnd           int64  `json:"dateEnd"`
}

// transactionListResponse ответ на TRANSACTION_LIST
type transactionListResponse struct {
	Reason          string        `json:"reason,omitempty"`
	ReasonCode      int           `json:"reasonCode,omitempty"`
	TransactionList []transaction `json:"transactionList"`
}

type transaction struct {
	OrderReference    string  `json:"orderReference"`
	TransactionStatus string  `json:"transactionStatus"`
	Amount            float64 `json:"amount,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	CreatedDate       int64   `json:"createdDate,omitempty"`
	ProcessingDate    int64   `json:"processingDate,omitempty"`
}

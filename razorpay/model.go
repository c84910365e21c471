package razorpay

import "fmt"

type OrderRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Receipt        string            `json:"receipt"`
	PaymentCapture int               `json:"payment_capture"`
	Notes          map[string]string `json:"notes,omitempty"`
}

type Order struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	CreatedAt  int64  `json:"created_at"`
}

type Customer struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// LineItem amounts are in the smallest currency unit.
type LineItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Quantity int    `json:"quantity"`
}

type InvoiceRequest struct {
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	Customer    *Customer  `json:"customer,omitempty"`
	LineItems   []LineItem `json:"line_items"`
	Currency    string     `json:"currency"`
	Receipt     string     `json:"receipt,omitempty"`
	SMSNotify   int        `json:"sms_notify"`
	EmailNotify int        `json:"email_notify"`
}

type Invoice struct {
	ID        string `json:"id"`
	Entity    string `json:"entity"`
	Status    string `json:"status"`
	ShortURL  string `json:"short_url"`
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	CreatedAt int64  `json:"created_at"`
}

type errorEnvelope struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Field       string `json:"field"`
	} `json:"error"`
}

// APIError is a non-2xx answer from Razorpay.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Field       string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("razorpay: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("razorpay: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

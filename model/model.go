package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Rupees accepts a JSON number or a numeric string.
type Rupees float64

func (r *Rupees) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*r = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("amount %q is not a number", raw)
	}
	*r = Rupees(v)
	return nil
}

type CreateOrderRequest struct {
	Amount *Rupees `json:"amount"`
}

type CreateOrderResponse struct {
	Success  bool   `json:"success"`
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type LineItem struct {
	Name     string `json:"name"`
	Amount   Rupees `json:"amount"`
	Quantity int    `json:"quantity"`
}

type CreateInvoiceRequest struct {
	Customer    Customer   `json:"customer"`
	LineItems   []LineItem `json:"lineItems"`
	Description string     `json:"description"`
}

type CreateInvoiceResponse struct {
	Success   bool   `json:"success"`
	InvoiceID string `json:"invoiceId"`
	ShortURL  string `json:"shortUrl"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

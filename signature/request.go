package signature

import "strings"

// VerificationRequest is what the checkout hands back after a payment.
type VerificationRequest struct {
	OrderID   string
	PaymentID string
	Signature string
}

// MissingFieldError lists the wire names of the absent fields.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (r VerificationRequest) Validate() error {
	var missing []string
	if r.OrderID == "" {
		missing = append(missing, "razorpay_order_id")
	}
	if r.PaymentID == "" {
		missing = append(missing, "razorpay_payment_id")
	}
	if r.Signature == "" {
		missing = append(missing, "razorpay_signature")
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}

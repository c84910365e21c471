// Package signature authenticates Razorpay checkout callbacks.
//
// Razorpay signs the pair (order id, payment id) with the merchant key secret:
// HMAC-SHA256 over "<order_id>|<payment_id>", rendered as lowercase hex.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Separator joins the order and payment ids in the signed message.
const Separator = "|"

var ErrSecretMissing = errors.New("signature: secret is not configured")

// Outcome is the result of checking a callback.
type Outcome int

const (
	OutcomeAuthentic Outcome = iota + 1
	OutcomeForged
	OutcomeMissingField
	OutcomeConfigurationMissing
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthentic:
		return "authentic"
	case OutcomeForged:
		return "forged"
	case OutcomeMissingField:
		return "missing_field"
	case OutcomeConfigurationMissing:
		return "configuration_missing"
	default:
		return "unknown"
	}
}

// Verifier holds the shared secret. It has no mutable state and is safe for
// concurrent use.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrSecretMissing
	}
	return &Verifier{secret: secret}, nil
}

// Sign returns the signature Razorpay would produce for the pair.
func (v *Verifier) Sign(orderID, paymentID string) string {
	return Sign(orderID, paymentID, v.secret)
}

// Verify reports whether claimed is the signature of the pair.
func (v *Verifier) Verify(orderID, paymentID, claimed string) Outcome {
	return Verify(orderID, paymentID, claimed, v.secret)
}

// Check validates req and then verifies it. A nil Verifier reports
// OutcomeConfigurationMissing.
func (v *Verifier) Check(req VerificationRequest) Outcome {
	if v == nil || v.secret == "" {
		return OutcomeConfigurationMissing
	}
	if err := req.Validate(); err != nil {
		return OutcomeMissingField
	}
	return v.Verify(req.OrderID, req.PaymentID, req.Signature)
}

// Message builds the canonical byte sequence that gets signed.
func Message(orderID, paymentID string) []byte {
	return []byte(orderID + Separator + paymentID)
}

func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(Message(orderID, paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares claimed against the expected signature byte for byte, so
// an uppercase rendering of a valid digest is rejected.
func Verify(orderID, paymentID, claimed, secret string) Outcome {
	expected := Sign(orderID, paymentID, secret)
	if hmac.Equal([]byte(claimed), []byte(expected)) {
		return OutcomeAuthentic
	}
	return OutcomeForged
}

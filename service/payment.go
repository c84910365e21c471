package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/illenko/checkout-service/model"
	"github.com/illenko/checkout-service/observability/tracing"
	"github.com/illenko/checkout-service/razorpay"
	"github.com/illenko/checkout-service/signature"
)

// ErrInvalidRequest marks input the client has to fix.
var ErrInvalidRequest = errors.New("invalid request")

// Gateway is the subset of the Razorpay API the service needs.
type Gateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (razorpay.Order, error)
	CreateInvoice(ctx context.Context, req razorpay.InvoiceRequest) (razorpay.Invoice, error)
}

type Options struct {
	DefaultAmountPaise int64
	Currency           string
	// Now is used for receipt numbers.
	Now func() time.Time
}

type PaymentService struct {
	gateway       Gateway
	verifier      *signature.Verifier
	defaultAmount int64
	currency      string
	now           func() time.Time
	verifications metric.Int64Counter
}

func NewPaymentService(gateway Gateway, verifier *signature.Verifier, opts Options) (*PaymentService, error) {
	if verifier == nil {
		return nil, signature.ErrSecretMissing
	}
	if opts.DefaultAmountPaise <= 0 {
		opts.DefaultAmountPaise = 10 * 100
	}
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	verifications, err := tracing.Meter().Int64Counter("payment.verifications",
		metric.WithDescription("Payment signature verifications by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create verifications counter: %w", err)
	}

	return &PaymentService{
		gateway:       gateway,
		verifier:      verifier,
		defaultAmount: opts.DefaultAmountPaise,
		currency:      opts.Currency,
		now:           opts.Now,
		verifications: verifications,
	}, nil
}

// CreateOrder opens an auto-captured order. A nil or zero amount falls back
// to the default.
func (s *PaymentService) CreateOrder(ctx context.Context, amountRupees *float64) (razorpay.Order, error) {
	ctx, span := tracing.Tracer().Start(ctx, "createOrder")
	defer span.End()

	amount := s.defaultAmount
	if amountRupees != nil && *amountRupees != 0 {
		paise, err := toPaise(*amountRupees)
		if err != nil {
			return razorpay.Order{}, err
		}
		amount = paise
	}

	req := razorpay.OrderRequest{
		Amount:         amount,
		Currency:       s.currency,
		Receipt:        s.receipt(),
		PaymentCapture: 1,
	}
	span.SetAttributes(attribute.Int64("order.amount", req.Amount), attribute.String("order.receipt", req.Receipt))
	slog.InfoContext(ctx, "Creating order", slog.Int64("amount", req.Amount), slog.String("receipt", req.Receipt))

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order creation failed")
		return razorpay.Order{}, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID))

	return order, nil
}

func (s *PaymentService) CreateInvoice(ctx context.Context, req model.CreateInvoiceRequest) (razorpay.Invoice, error) {
	ctx, span := tracing.Tracer().Start(ctx, "createInvoice")
	defer span.End()

	if len(req.LineItems) == 0 {
		return razorpay.Invoice{}, fmt.Errorf("%w: at least one line item is required", ErrInvalidRequest)
	}

	items := make([]razorpay.LineItem, 0, len(req.LineItems))
	for i, item := range req.LineItems {
		if strings.TrimSpace(item.Name) == "" {
			return razorpay.Invoice{}, fmt.Errorf("%w: line item %d has no name", ErrInvalidRequest, i)
		}
		paise, err := toPaise(float64(item.Amount))
		if err != nil {
			return razorpay.Invoice{}, err
		}
		if paise == 0 {
			return razorpay.Invoice{}, fmt.Errorf("%w: line item %d has no amount", ErrInvalidRequest, i)
		}
		quantity := item.Quantity
		if quantity < 0 {
			return razorpay.Invoice{}, fmt.Errorf("%w: line item %d has a negative quantity", ErrInvalidRequest, i)
		}
		if quantity == 0 {
			quantity = 1
		}
		items = append(items, razorpay.LineItem{
			Name:     item.Name,
			Amount:   paise,
			Currency: s.currency,
			Quantity: quantity,
		})
	}

	invoiceReq := razorpay.InvoiceRequest{
		Type:        "invoice",
		Description: req.Description,
		LineItems:   items,
		Currency:    s.currency,
		Receipt:     s.receipt(),
	}
	if req.Customer != (model.Customer{}) {
		invoiceReq.Customer = &razorpay.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Contact: req.Customer.Contact,
		}
	}

	invoice, err := s.gateway.CreateInvoice(ctx, invoiceReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invoice creation failed")
		return razorpay.Invoice{}, err
	}
	span.SetAttributes(attribute.String("invoice.id", invoice.ID))
	slog.InfoContext(ctx, "Invoice created", slog.String("invoiceId", invoice.ID), slog.String("status", invoice.Status))

	return invoice, nil
}

// VerifyPayment checks a checkout callback. The signature itself is never
// logged.
func (s *PaymentService) VerifyPayment(ctx context.Context, req signature.VerificationRequest) signature.Outcome {
	ctx, span := tracing.Tracer().Start(ctx, "verifyPayment")
	defer span.End()

	outcome := s.verifier.Check(req)

	span.SetAttributes(
		attribute.String("payment.order_id", req.OrderID),
		attribute.String("payment.payment_id", req.PaymentID),
		attribute.String("payment.outcome", outcome.String()),
	)
	s.verifications.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))

	attrs := []any{slog.String("orderId", req.OrderID), slog.String("paymentId", req.PaymentID)}
	switch outcome {
	case signature.OutcomeAuthentic:
		slog.InfoContext(ctx, "Payment verified", attrs...)
	case signature.OutcomeForged:
		slog.WarnContext(ctx, "Payment signature mismatch", attrs...)
	case signature.OutcomeMissingField:
		slog.InfoContext(ctx, "Payment verification request is incomplete", attrs...)
	default:
		span.SetStatus(codes.Error, "verifier not configured")
		slog.ErrorContext(ctx, "Payment verifier is not configured", attrs...)
	}

	return outcome
}

func (s *PaymentService) receipt() string {
	return fmt.Sprintf("receipt_%d", s.now().UnixMilli())
}

func toPaise(rupees float64) (int64, error) {
	if math.IsNaN(rupees) || math.IsInf(rupees, 0) {
		return 0, fmt.Errorf("%w: amount is not a finite number", ErrInvalidRequest)
	}
	if rupees < 0 {
		return 0, fmt.Errorf("%w: amount must not be negative", ErrInvalidRequest)
	}
	paise := math.Round(rupees * 100)
	if paise > 1e15 {
		return 0, fmt.Errorf("%w: amount is too large", ErrInvalidRequest)
	}
	return int64(paise), nil
}

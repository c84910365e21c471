package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/illenko/checkout-service/model"
	"github.com/illenko/checkout-service/service"
	"github.com/illenko/checkout-service/signature"
)

type PaymentHandler struct {
	service *service.PaymentService
}

func NewPaymentHandler(service *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.CreateOrderRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		WriteErrorResponse(ctx, c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var amount *float64
	if req.Amount != nil {
		v := float64(*req.Amount)
		amount = &v
	}

	order, err := h.service.CreateOrder(ctx, amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			WriteErrorResponse(ctx, c, http.StatusBadRequest, "Invalid amount", err)
			return
		}
		WriteErrorResponse(ctx, c, http.StatusInternalServerError, "Order creation failed", err)
		return
	}

	c.JSON(http.StatusOK, model.CreateOrderResponse{
		Success:  true,
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
	})
}

func (h *PaymentHandler) CreateInvoice(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteErrorResponse(ctx, c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	invoice, err := h.service.CreateInvoice(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			WriteErrorResponse(ctx, c, http.StatusBadRequest, err.Error(), err)
			return
		}
		WriteErrorResponse(ctx, c, http.StatusInternalServerError, "Invoice creation failed", err)
		return
	}

	c.JSON(http.StatusOK, model.CreateInvoiceResponse{
		Success:   true,
		InvoiceID: invoice.ID,
		ShortURL:  invoice.ShortURL,
		Status:    invoice.Status,
		Amount:    invoice.Amount,
		Currency:  invoice.Currency,
	})
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	ctx := c.Request.Context()

	var body model.VerifyPaymentRequest
	if err := bindOptionalJSON(c, &body); err != nil {
		WriteErrorResponse(ctx, c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	req := signature.VerificationRequest{
		OrderID:   body.OrderID,
		PaymentID: body.PaymentID,
		Signature: body.Signature,
	}
	if err := req.Validate(); err != nil {
		slog.InfoContext(ctx, "Rejected verification request", slog.Any("error", err))
		c.JSON(http.StatusBadRequest, model.APIResponse{Success: false, Message: "Missing fields"})
		return
	}

	switch h.service.VerifyPayment(ctx, req) {
	case signature.OutcomeAuthentic:
		c.JSON(http.StatusOK, model.APIResponse{Success: true, Message: "Payment verified"})
	case signature.OutcomeForged:
		c.JSON(http.StatusBadRequest, model.APIResponse{Success: false, Message: "Invalid signature"})
	case signature.OutcomeMissingField:
		c.JSON(http.StatusBadRequest, model.APIResponse{Success: false, Message: "Missing fields"})
	default:
		c.JSON(http.StatusInternalServerError, model.APIResponse{Success: false, Message: "Verification failed"})
	}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{Status: "ok"})
}

func WriteErrorResponse(ctx context.Context, c *gin.Context, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, message, slog.Any("error", err))
	} else {
		slog.InfoContext(ctx, message, slog.Any("error", err))
	}
	c.JSON(status, model.APIResponse{Success: false, Message: message})
}

// bindOptionalJSON decodes the body into obj, treating an empty body as {}.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

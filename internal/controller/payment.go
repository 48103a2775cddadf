package controller

import (
	"net/http"

	"marketplace-api/internal/payment"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type paymentRoutesHandler struct {
	payments *payment.Adapter
	validate *validator.Validate
}

func newPaymentRoutesHandler(outer *echo.Group, payments *payment.Adapter, v *validator.Validate) *paymentRoutesHandler {
	h := &paymentRoutesHandler{payments: payments, validate: v}
	outer.POST("/payments/checkout", h.Checkout)
	outer.POST("/payments/callback", h.Callback)

	return h
}

type checkoutInput struct {
	Gateway  string  `json:"gateway" validate:"required,oneof=jazzcash easypaisa bank"`
	OrderId  string  `json:"orderId" validate:"required,max=100"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
}

// /payments/checkout
func (h *paymentRoutesHandler) Checkout(c echo.Context) error {
	var input checkoutInput
	if err := c.Bind(&input); err != nil {
		return writeBindError(c, err)
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	currency := input.Currency
	if currency == "" {
		currency = "PKR"
	}

	form, err := h.payments.BuildRedirectForm(input.Gateway, input.OrderId, input.Amount, currency)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{err.Error()}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(http.StatusOK, form); e != nil {
		return e
	}

	return nil
}

// /payments/callback
func (h *paymentRoutesHandler) Callback(c echo.Context) error {
	var fields map[string]string
	if err := c.Bind(&fields); err != nil {
		return writeBindError(c, err)
	}

	if err := h.payments.VerifyCallback(fields); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{err.Error()}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(http.StatusOK, map[string]string{"status": "verified"}); e != nil {
		return e
	}

	return nil
}

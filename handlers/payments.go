package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/swiftpay-review/lifecycle"
	"go.uber.org/zap"
)

// PaymentHandler serves the customer side: creating and viewing own payments.
type PaymentHandler struct {
	engine *lifecycle.Engine
	logger *zap.Logger
}

func NewPaymentHandler(engine *lifecycle.Engine, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{engine: engine, logger: logger}
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	customer, ok := principal(c)
	if !ok {
		return
	}

	var req lifecycle.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMalformed(c, lifecycle.CodeValidation, "", err)
		return
	}

	draft, err := req.Validate()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	tx, err := h.engine.CreatePayment(c.Request.Context(), customer, draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Payment created",
		"transaction": tx,
	})
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	customer, ok := principal(c)
	if !ok {
		return
	}

	var filters lifecycle.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondMalformed(c, lifecycle.CodeValidation, "", err)
		return
	}

	txs, err := h.engine.ListTransactions(c.Request.Context(), customer, filters, lifecycle.ScopeOwn)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactions": txs})
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	customer, ok := principal(c)
	if !ok {
		return
	}

	tx, err := h.engine.GetTransaction(c.Request.Context(), customer, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": tx})
}

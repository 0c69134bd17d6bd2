package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/swiftpay-review/lifecycle"
	"github.com/yourusername/swiftpay-review/models"
	"go.uber.org/zap"
)

// TransactionHandler serves the employee review and submission endpoints.
type TransactionHandler struct {
	engine *lifecycle.Engine
	logger *zap.Logger
}

func NewTransactionHandler(engine *lifecycle.Engine, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{engine: engine, logger: logger}
}

type RejectTransactionRequest struct {
	Reason string `json:"reason"`
}

type BatchTransactionsRequest struct {
	TransactionIDs []string `json:"transactionIds"`
}

// ListTransactions returns the review queue (Pending and Verified unless a
// status filter is given).
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	h.list(c, false)
}

// ListPendingTransactions returns only PendingVerification records.
func (h *TransactionHandler) ListPendingTransactions(c *gin.Context) {
	h.list(c, true)
}

func (h *TransactionHandler) list(c *gin.Context, pendingOnly bool) {
	employee, ok := principal(c)
	if !ok {
		return
	}

	var filters lifecycle.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondMalformed(c, lifecycle.CodeValidation, "", err)
		return
	}
	if pendingOnly {
		filters.Status = string(models.StatusPendingVerification)
	}

	txs, err := h.engine.ListTransactions(c.Request.Context(), employee, filters, lifecycle.ScopeAll)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactions": txs})
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	employee, ok := principal(c)
	if !ok {
		return
	}

	tx, err := h.engine.GetTransaction(c.Request.Context(), employee, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": tx})
}

func (h *TransactionHandler) VerifyTransaction(c *gin.Context) {
	employee, ok := principal(c)
	if !ok {
		return
	}

	tx, err := h.engine.Verify(c.Request.Context(), employee, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Transaction verified",
		"transaction": tx,
	})
}

func (h *TransactionHandler) RejectTransaction(c *gin.Context) {
	employee, ok := principal(c)
	if !ok {
		return
	}

	var req RejectTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMalformed(c, lifecycle.CodeInvalidRejectionReason, "reason", err)
		return
	}

	tx, err := h.engine.Reject(c.Request.Context(), employee, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Transaction rejected",
		"transaction": tx,
	})
}

func (h *TransactionHandler) SubmitTransaction(c *gin.Context) {
	employee, ok := principal(c)
	if !ok {
		return
	}

	tx, err := h.engine.Submit(c.Request.Context(), employee, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Transaction submitted to SWIFT",
		"transaction": tx,
	})
}

// BatchVerify handles POST /transactions/mass-verify.
func (h *TransactionHandler) BatchVerify(c *gin.Context) {
	h.batch(c, lifecycle.EventVerify)
}

// BatchSubmit handles POST /transactions/submit-swift.
func (h *TransactionHandler) BatchSubmit(c *gin.Context) {
	h.batch(c, lifecycle.EventSubmit)
}

func (h *TransactionHandler) batch(c *gin.Context, ev lifecycle.Event) {
	employee, ok := principal(c)
	if !ok {
		return
	}

	var req BatchTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMalformed(c, lifecycle.CodeInvalidSubmission, "transactionIds", err)
		return
	}

	var (
		res lifecycle.BatchResult
		err error
	)
	if ev == lifecycle.EventSubmit {
		res, err = h.engine.BatchSubmit(c.Request.Context(), employee, req.TransactionIDs)
	} else {
		res, err = h.engine.BatchVerify(c.Request.Context(), employee, req.TransactionIDs)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result := gin.H{
		"requested": res.Requested,
		"matched":   res.Matched,
		"modified":  res.Modified,
		"failed":    res.Failed,
	}
	if ev == lifecycle.EventSubmit {
		result["submitted"] = res.Modified
		result["swiftSubmissionRef"] = res.SubmissionRef
	} else {
		result["verified"] = res.Modified
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": res.Message,
		"result":  result,
	})
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/swiftpay-review/lifecycle"
	"github.com/yourusername/swiftpay-review/middleware"
	"github.com/yourusername/swiftpay-review/models"
	"github.com/yourusername/swiftpay-review/store"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testUserHeader = "X-Test-User"

var testPrincipals = map[string]lifecycle.Principal{
	"alice": {ID: "cust-alice", Role: lifecycle.RoleCustomer, AccountNumber: "1111111111"},
	"bob":   {ID: "cust-bob", Role: lifecycle.RoleCustomer, AccountNumber: "2222222222"},
	"eve":   {ID: "emp-eve", Role: lifecycle.RoleEmployee},
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Transaction{}))
	return db
}

// setupPaymentRouter wires the payment and review handlers behind a stub
// identity middleware that reads the caller from testUserHeader.
func setupPaymentRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	engine := lifecycle.NewEngine(store.NewTransactionStore(setupTestDB(t)), logger)
	payments := NewPaymentHandler(engine, logger)
	review := NewTransactionHandler(engine, logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if p, ok := testPrincipals[c.GetHeader(testUserHeader)]; ok {
			middleware.SetPrincipal(c, p)
		}
		c.Next()
	})

	router.POST("/payments", payments.CreatePayment)
	router.GET("/payments", payments.ListPayments)
	router.GET("/payments/:id", payments.GetPayment)

	tx := router.Group("/transactions")
	tx.GET("", review.ListTransactions)
	tx.GET("/pending", review.ListPendingTransactions)
	tx.GET("/:id", review.GetTransaction)
	tx.POST("/:id/verify", review.VerifyTransaction)
	tx.POST("/:id/reject", review.RejectTransaction)
	tx.POST("/:id/submit", review.SubmitTransaction)
	tx.POST("/mass-verify", review.BatchVerify)
	tx.POST("/submit-swift", review.BatchSubmit)
	return router
}

// doRequest sends body (raw string or JSON-encoded value) as user and decodes
// the JSON response.
func doRequest(t *testing.T, router http.Handler, method, path, user string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(testUserHeader, user)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func validPayment() map[string]any {
	return map[string]any{
		"recipientAccount": "1234567890",
		"amount":           "1500.00",
		"currency":         "EUR",
		"provider":         "SWIFT",
		"swiftCode":        "DEUTDEFF",
	}
}

func createPayment(t *testing.T, router http.Handler, user string) string {
	t.Helper()
	code, body := doRequest(t, router, http.MethodPost, "/payments", user, validPayment())
	require.Equal(t, http.StatusCreated, code, body)
	return body["transaction"].(map[string]any)["id"].(string)
}

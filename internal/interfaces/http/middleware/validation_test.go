package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationLine struct {
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"gte=0"`
}

type validationRequest struct {
	Email    string           `json:"email" binding:"omitempty,email"`
	Status   string           `json:"status" binding:"required,oneof=PENDING CONFIRMED"`
	Discount *decimal.Decimal `json:"discount" binding:"omitempty,gte=0"`
	Items    []validationLine `json:"items" binding:"required,min=1,dive"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req validationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestSetupValidator_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		SetupValidator()
		SetupValidator()
	})
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("accepts a valid body", func(t *testing.T) {
		w := postJSON(router, `{"status":"PENDING","items":[{"quantity":2,"unit_price":"9.50"}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reports fields by json name", func(t *testing.T) {
		w := postJSON(router, `{"email":"nope","status":"SHIPPED","items":[{"quantity":0,"unit_price":"1"}]}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		errInfo := decodeError(t, w)
		assert.Equal(t, "VALIDATION_FAILURE", errInfo.Code)
		assert.NotEmpty(t, errInfo.RequestID)

		fields := map[string]string{}
		for _, d := range errInfo.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Equal(t, "Must be one of: PENDING CONFIRMED", fields["status"])
		assert.Equal(t, "This field is required", fields["items[0].quantity"])
	})

	t.Run("compares decimal amounts", func(t *testing.T) {
		w := postJSON(router, `{"status":"PENDING","discount":"-1","items":[{"quantity":1,"unit_price":"-0.01"}]}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		fields := map[string]string{}
		for _, d := range decodeError(t, w).Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be greater than or equal to 0", fields["discount"])
		assert.Equal(t, "Must be greater than or equal to 0", fields["items[0].unit_price"])
	})

	t.Run("empty item list", func(t *testing.T) {
		w := postJSON(router, `{"status":"PENDING","items":[]}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		details := decodeError(t, w).Details
		require.Len(t, details, 1)
		assert.Equal(t, "items", details[0].Field)
		assert.Equal(t, "Must contain at least 1 item(s)", details[0].Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := postJSON(router, `{"status":`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		errInfo := decodeError(t, w)
		assert.Equal(t, "VALIDATION_FAILURE", errInfo.Code)
		assert.Empty(t, errInfo.Details)
	})

	t.Run("wrong type", func(t *testing.T) {
		w := postJSON(router, `{"status":"PENDING","items":[{"quantity":"two"}]}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "wrong type")
	})
}

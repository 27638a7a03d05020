package requests

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func jsonContext(t *testing.T, body string) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/payments", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestValidatePayment(t *testing.T) {
	req, err := ValidatePayment(jsonContext(t, `{"order_number":"ORD-1","amount":"199.99","payment_method":"ALIPAY"}`))

	require.NoError(t, err)
	require.Equal(t, "ORD-1", req.OrderNumber)
	require.Equal(t, "199.99", req.Amount.String())
	require.Equal(t, "ALIPAY", req.PaymentMethod)
}

func TestValidatePayment_DefaultMethod(t *testing.T) {
	req, err := ValidatePayment(jsonContext(t, `{"order_number":"ORD-1","amount":"10"}`))

	require.NoError(t, err)
	require.Equal(t, "CARD", req.PaymentMethod)
}

func TestValidatePayment_NumericAmount(t *testing.T) {
	// 数字字面量同样接受，不丢精度
	req, err := ValidatePayment(jsonContext(t, `{"order_number":"ORD-1","amount":10.01}`))

	require.NoError(t, err)
	require.Equal(t, "10.01", req.Amount.String())
}

func TestValidatePayment_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"缺少订单号", `{"amount":"10"}`},
		{"订单号过长", `{"order_number":"` + strings.Repeat("A", 65) + `","amount":"10"}`},
		{"金额为零", `{"order_number":"ORD-1","amount":"0"}`},
		{"金额为负", `{"order_number":"ORD-1","amount":"-5"}`},
		{"非法 JSON", `{"order_number":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidatePayment(jsonContext(t, tt.body))
			require.Error(t, err)
		})
	}
}

package payments

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"payflow/app/requests"
	"payflow/app/services"
	"payflow/pkg/response"
)

// PaymentController 支付接口控制器
type PaymentController struct {
	paymentService *services.PaymentService
}

// NewPaymentController 创建支付控制器
func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: service,
	}
}

// Store 处理直接支付请求
// 支付失败以数据形式返回（status=FAILED），不是错误响应
func (pc *PaymentController) Store(c *gin.Context) {
	// 1. 请求验证
	request, err := requests.ValidatePayment(c)
	if err != nil {
		response.BadRequest(c, err, "请求参数验证失败")
		return
	}

	// 2. 创建并同步处理支付
	p, err := pc.paymentService.ProcessPayment(c.Request.Context(), services.CreatePaymentInput{
		OrderNumber:   request.OrderNumber,
		Amount:        request.Amount,
		PaymentMethod: request.PaymentMethod,
	})
	if err != nil {
		response.Abort500(c, "支付创建失败")
		return
	}

	response.Created(c, p)
}

// Show 根据业务标识查询支付记录
func (pc *PaymentController) Show(c *gin.Context) {
	paymentID := c.Param("id")
	if paymentID == "" {
		response.Abort400(c, "缺少支付标识")
		return
	}

	p, err := pc.paymentService.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			response.Abort404(c, "支付记录不存在")
			return
		}
		response.Abort500(c, "查询支付记录失败")
		return
	}

	response.Data(c, p)
}

// IndexByOrder 查询某订单的全部支付记录
func (pc *PaymentController) IndexByOrder(c *gin.Context) {
	orderNumber := c.Param("order_number")
	if orderNumber == "" {
		response.Abort400(c, "缺少订单号")
		return
	}

	payments, err := pc.paymentService.ListByOrderNumber(c.Request.Context(), orderNumber)
	if err != nil {
		response.Abort500(c, "查询支付记录失败")
		return
	}

	response.Data(c, payments)
}

// HealthCheck 健康检查端点
func (pc *PaymentController) HealthCheck(c *gin.Context) {
	response.Data(c, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

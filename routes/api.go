package routes

import (
	"payflow/app/http/controllers/api/v1/payments"
	"payflow/app/http/middlewares"
	"payflow/app/services"

	"github.com/gin-gonic/gin"
)

// 路由限流配置
const (
	// 全局限流：每小时每 IP 10000 请求
	GlobalRateLimit = "10000-H"
	// 创建支付限流：每小时每 IP 600 请求
	CreatePaymentLimit = "600-H"
	// 查询限流：每分钟每 IP 300 请求
	QueryLimit = "300-M"
)

// RegisterAPIRoutes 注册所有 API 路由
func RegisterAPIRoutes(r *gin.Engine, paymentService *services.PaymentService) {
	v1 := r.Group("/v1")

	v1.Use(
		middlewares.SecurityHeaders(),
		middlewares.LimitIP(GlobalRateLimit),
		middlewares.Cors(),
	)

	// 支付相关路由
	paymentRoutes := v1.Group("/payments")
	{
		pc := payments.NewPaymentController(paymentService)

		// 健康检查
		// GET /v1/payments/health
		paymentRoutes.GET("/health", pc.HealthCheck)

		// 创建并同步处理支付
		// 写入接口走 Redis 分布式限流，多实例共享计数
		// POST /v1/payments
		paymentRoutes.POST("",
			middlewares.LimitSharedRoute(CreatePaymentLimit),
			pc.Store,
		)

		// 查询某订单的全部支付记录
		// GET /v1/payments/order/:order_number
		paymentRoutes.GET("/order/:order_number",
			middlewares.LimitPerRoute(QueryLimit),
			pc.IndexByOrder,
		)

		// 根据业务标识查询支付记录
		// GET /v1/payments/:id
		paymentRoutes.GET("/:id",
			middlewares.LimitPerRoute(QueryLimit),
			pc.Show,
		)
	}
}

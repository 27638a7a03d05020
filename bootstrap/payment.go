package bootstrap

import (
	"payflow/app/repositories"
	"payflow/app/services"
	"payflow/pkg/eventbus"
	"payflow/pkg/gateway"
	"payflow/pkg/logger"
)

// SetupPaymentService 组装支付编排服务
// 网关实现按部署环境在此一次性确定
func SetupPaymentService(bus *eventbus.Bus) *services.PaymentService {
	gw, err := gateway.New()
	if err != nil {
		logger.ErrorString("Payment", "Setup", "网关初始化失败: "+err.Error())
		panic(err)
	}

	return services.NewPaymentService(
		repositories.NewPaymentRepository(),
		bus,
		gw,
		services.NewRedisOrderLock(),
		services.DeclineAutoProcess,
	)
}

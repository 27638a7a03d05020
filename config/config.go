package config

// Initialize 触发本包各配置文件的 init() 注册
// main 中显式调用以保证配置信息在其他初始化之前就位
func Initialize() {
}

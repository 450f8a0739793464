package repositories

import "github.com/google/wire"

// ProviderSet 暴露 Repository 层的构造函数供 Wire 依赖注入使用。
// 具体后端由 NewPostStore 在运行时按配置选择。
var ProviderSet = wire.NewSet(
	NewPostStore,
)

// Package introspect 定义本地自省服务接口
//
// 自省服务以 JSON 提供决策核心的运行状态，并挂载 pprof。
// 默认监听地址为 127.0.0.1:6060，仅限本地访问。
package introspect

import (
	"context"
)

// Server 自省服务接口
//
// 端点：
//   - GET /debug/nettune         - 完整诊断报告
//   - GET /debug/nettune/hosts   - 远端主机状态
//   - GET /debug/nettune/tables  - 邻居表快照
//   - GET /debug/pprof/*         - Go pprof 端点
//   - GET /health                - 健康检查
type Server interface {
	// Start 启动服务
	//
	// 如果服务已在运行，返回 nil。
	Start(ctx context.Context) error

	// Stop 停止服务，等待现有请求完成
	Stop(ctx context.Context) error

	// Addr 返回实际监听地址
	//
	// 服务未运行时返回配置的地址。
	Addr() string
}

// DefaultAddr 默认监听地址
const DefaultAddr = "127.0.0.1:6060"

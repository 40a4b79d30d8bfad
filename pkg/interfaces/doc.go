// Package interfaces 定义 nettune 的公共接口
//
// 决策核心与外部协作方之间只通过本包的接口交互：
//
//   - hooks.go   - Hooks 入站端口（仪表层把重传、连接建立、邻居表项创建推给核心）
//   - emitter.go - Emitter / EventSource 出站事件通道
//   - applier.go - Applier 特权应用步骤（真正修改套接字配置）
//
// 跨越这些边界的只有值副本，核心内部状态从不以引用形式暴露。
package interfaces

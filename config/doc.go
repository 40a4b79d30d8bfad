// Package config 提供 nettune 的统一配置管理
//
// 主 Config 结构体嵌入各组件子配置，每个子配置在独立文件中定义：
//   - Cong: 远端主机跟踪器（重传阈值、窗口、目标算法、状态表）
//   - Neigh: 邻居表增长跟踪器（发射策略、高水位、状态表）
//   - Emitter: 事件通道
//   - Metrics: Prometheus 指标服务
//
// 配置可以从 JSON / YAML 文件加载，并被 NETTUNE_* 环境变量覆盖：
//
//	cfg, err := config.Load("/etc/nettune.yaml")
//
//	// 环境变量示例
//	NETTUNE_CONG_THRESHOLD=800
//	NETTUNE_CONG_WINDOW=30m
//	NETTUNE_NEIGH_POLICY=nearly-full
//	NETTUNE_NEIGH_STORE_CAPACITY=4096
package config

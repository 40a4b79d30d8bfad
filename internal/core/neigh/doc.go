// Package neigh 实现邻居表增长跟踪器
//
// 每当邻居表（ARP/NDP 缓存）新建表项时，刷新该表的统计快照
// （表项数、参与 GC 的表项数、容量阈值 gc_thresh3、关联设备），
// 并向事件通道报告完整快照，供消费者判断是否需要调整表容量。
//
// # 发射策略
//
//   - EmitAlways（默认）：每次新建表项都报告
//   - EmitNearlyFull：仅当 Entries >= Max * HighWaterNum / HighWaterDen 时报告
//
// 容量阈值可能被运维动态修改，因此每次都用最新值覆盖 Max，
// 不会报告过期快照。
//
// # 架构定位
//
// Tier: Core Layer Level 2
//
// 依赖关系：
//   - 依赖：store, pkg/interfaces, pkg/types
//   - 被依赖：nettune.Engine, consumer
package neigh

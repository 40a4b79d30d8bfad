// Package metrics 将决策核心的计数器导出为 Prometheus 指标
//
// Collector 在每次抓取时读取各组件的 Snapshot，生成常量指标，
// 热路径上不做任何额外的原子操作。
//
// 导出的指标：
//
//	nettune_store_entries{store}            当前键数
//	nettune_store_capacity{store}           最大键数
//	nettune_store_inserts_total{store}      累计创建的键数
//	nettune_store_evictions_total{store}    LRU 淘汰数
//	nettune_store_drops_total{store}        表满丢弃数
//	nettune_retransmits_total               处理的重传通知
//	nettune_evaluations_total               阈值判定次数
//	nettune_tuning_actions_total{algorithm} 返回的调优动作
//	nettune_stale_resets_total              过期归零次数
//	nettune_table_updates_total             表统计刷新次数
//	nettune_table_events_total{result}      emitted / gated
//	nettune_invalid_notifications_total{tracker}
//	nettune_emit_failures_total{tracker}
//	nettune_events_emitted_total            成功入队的事件
//	nettune_events_dropped_total            丢弃的事件
//	nettune_events_pending                  排队中的事件
//
// store 标签取值为 hosts（远端主机表）与 tables（邻居表统计）。
package metrics

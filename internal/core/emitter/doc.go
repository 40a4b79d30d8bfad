// Package emitter 实现有界、丢弃式的事件发射通道
//
// 两个跟踪器共用同一个 Emitter 向外部消费者报告决策与快照。
//
// # 快速开始
//
//	em := emitter.New(emitter.DefaultConfig())
//	defer em.Close()
//
//	go func() {
//	    for ev := range em.Out() {
//	        // 处理事件
//	    }
//	}()
//
//	em.Emit(types.TuningEvent{Tuner: types.TunerCong})
//
// # 背压策略
//
// 通道满时 Emit 立即丢弃事件并返回 false，生产者永不阻塞。
// 丢弃次数计入 Stats.Dropped，告警日志按 WarnInterval 限速。
//
// # 并发安全
//
//   - 多生产者并发 Emit，单个生产者的事件保持发射顺序
//   - 一个或多个消费者从 Out() 读取
//   - Close 与 Emit 通过读写锁互斥，Emit 只在非阻塞 select 期间持有读锁
//
// # 架构定位
//
// Tier: Core Layer Level 1
//
// 依赖关系：
//   - 依赖：pkg/types, golang.org/x/time/rate
//   - 被依赖：cong, neigh, consumer
package emitter

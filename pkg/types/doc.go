// Package types 定义 nettune 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 nettune 内部包。
// 所有类型都是纯值类型：跟踪器内部状态只以副本形式离开决策核心。
//
// # 文件组织
//
//   - family.go  - Family 协议族
//   - hostkey.go - HostKey 远端地址键（IPv4 映射到 IPv6 地址空间）
//   - table.go   - TableID, TableStats 邻居表快照
//   - event.go   - TuningEvent 定长事件记录及编解码, HostSummary
//   - action.go  - TuningAction 调优动作请求
//   - errors.go  - 公共错误定义
//
// # 事件记录格式
//
// 每条记录固定 RecordSize 字节（小端序）：
//
//	0      4        8             16                         80
//	+------+--------+-------------+--------------------------+
//	|tuner |scenario| context     | payload (PayloadSize)    |
//	+------+--------+-------------+--------------------------+
//
// payload 的形状由 tuner/scenario 决定，记录本身不携带类型标签。
package types

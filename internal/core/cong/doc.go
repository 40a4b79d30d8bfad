// Package cong 实现远端主机拥塞控制跟踪器
//
// 按远端地址累计 TCP 重传次数。连接建立时，若该主机在时间窗口内
// 的重传次数达到阈值，则请求将新连接的拥塞控制算法切换为 BBR，
// 并向事件通道报告一次决策。
//
// # 判定规则
//
//	Retransmits >= Threshold(500) && now - LastRetransmit < Window(1h)  => 切换算法
//	Retransmits >= Threshold      && now - LastRetransmit >= Window     => 计数归零，不动作
//	Retransmits <  Threshold                                            => 不动作
//
// 归零只在判定时发生且只消费一次过期状态；判定本身不设置锁存，
// 条件持续满足时每次连接建立都会返回动作。
//
// # 地址
//
// IPv4 地址以 IPv4 映射形式存入同一张表（见 types.HostKey）。
// 无效地址、不支持的协议族直接忽略。
//
// # 架构定位
//
// Tier: Core Layer Level 2
//
// 依赖关系：
//   - 依赖：store, pkg/interfaces, pkg/types, benbjohnson/clock
//   - 被依赖：nettune.Engine
package cong

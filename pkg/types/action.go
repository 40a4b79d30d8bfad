package types

import "net/netip"

// ActionKind 调优动作类型
type ActionKind int

const (
	// ActionNone 无动作
	ActionNone ActionKind = iota
	// ActionSetCongestion 切换拥塞控制算法
	ActionSetCongestion
)

// String 返回动作类型名称
func (k ActionKind) String() string {
	switch k {
	case ActionSetCongestion:
		return "set-congestion"
	default:
		return "none"
	}
}

// TuningAction 调优动作请求
//
// 决策核心只产生请求，实际应用（setsockopt 等特权操作）在核心之外完成。
type TuningAction struct {
	// Kind 动作类型
	Kind ActionKind

	// Algorithm 目标拥塞控制算法（如 "bbr"）
	Algorithm string

	// Addr 触发动作的远端地址
	Addr netip.Addr
}

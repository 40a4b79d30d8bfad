package interfaces

import "github.com/dep2p/go-nettune/pkg/types"

// Emitter 定义事件发射接口
//
// Emit 不得阻塞：通道满时丢弃事件并返回 false。
// 事件是遥测数据，调用方的决策逻辑不依赖投递结果。
type Emitter interface {
	// Emit 发射一条定长事件记录，返回是否入队
	Emit(event types.TuningEvent) bool
}

// EventSource 定义事件消费端接口
type EventSource interface {
	// Out 返回事件通道，发射端关闭后通道关闭
	Out() <-chan types.TuningEvent
}

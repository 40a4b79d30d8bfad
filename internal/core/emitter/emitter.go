package emitter

import (
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/dep2p/go-nettune/pkg/interfaces"
	"github.com/dep2p/go-nettune/pkg/lib/log"
	"github.com/dep2p/go-nettune/pkg/types"
)

var logger = log.Logger("core/emitter")

// Stats 发射器统计快照
type Stats struct {
	// Emitted 成功入队的事件数
	Emitted uint64

	// Dropped 被丢弃的事件数（通道满或已关闭）
	Dropped uint64

	// Capacity 通道容量
	Capacity int

	// Pending 当前排队未消费的事件数
	Pending int
}

// Emitter 有界事件通道
type Emitter struct {
	ch chan types.TuningEvent

	mu     sync.RWMutex
	closed bool

	emitted atomic.Uint64
	dropped atomic.Uint64

	warn *rate.Limiter
}

var (
	_ interfaces.Emitter     = (*Emitter)(nil)
	_ interfaces.EventSource = (*Emitter)(nil)
)

// New 创建发射器，配置无效时使用默认配置
func New(cfg Config) *Emitter {
	if err := cfg.Validate(); err != nil {
		logger.Warn("发射器配置无效，使用默认配置", "error", err)
		cfg = DefaultConfig()
	}
	every := rate.Inf
	if cfg.WarnInterval > 0 {
		every = rate.Every(cfg.WarnInterval)
	}
	return &Emitter{
		ch:   make(chan types.TuningEvent, cfg.Capacity),
		warn: rate.NewLimiter(every, 1),
	}
}

// Emit 发射事件
//
// 非阻塞：通道满或已关闭时丢弃并返回 false。
func (e *Emitter) Emit(ev types.TuningEvent) bool {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		e.dropped.Add(1)
		return false
	}
	select {
	case e.ch <- ev:
		e.mu.RUnlock()
		e.emitted.Add(1)
		return true
	default:
	}
	e.mu.RUnlock()

	n := e.dropped.Add(1)
	if e.warn.Allow() {
		logger.Warn("事件通道已满，丢弃事件", "tuner", ev.Tuner.String(), "dropped", n, "capacity", cap(e.ch))
	}
	return false
}

// Out 返回事件通道
func (e *Emitter) Out() <-chan types.TuningEvent {
	return e.ch
}

// Close 关闭通道
//
// 可以多次调用。已入队的事件仍可被消费者读完。
func (e *Emitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	close(e.ch)

	logger.Debug("发射器已关闭", "emitted", e.emitted.Load(), "dropped", e.dropped.Load())
	return nil
}

// Snapshot 返回统计快照
func (e *Emitter) Snapshot() Stats {
	return Stats{
		Emitted:  e.emitted.Load(),
		Dropped:  e.dropped.Load(),
		Capacity: cap(e.ch),
		Pending:  len(e.ch),
	}
}

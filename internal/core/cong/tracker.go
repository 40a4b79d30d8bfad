package cong

import (
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-nettune/internal/core/store"
	"github.com/dep2p/go-nettune/pkg/interfaces"
	"github.com/dep2p/go-nettune/pkg/lib/log"
	"github.com/dep2p/go-nettune/pkg/types"
)

var logger = log.Logger("core/cong")

// RemoteHost 单个远端主机的重传状态
type RemoteHost struct {
	// Retransmits 重传计数，过期判定时归零
	Retransmits uint64

	// LastRetransmit 最近一次重传时间（单调时钟读数）
	LastRetransmit time.Time
}

// HostStore 远端主机状态表
type HostStore = store.Store[types.HostKey, RemoteHost]

// NewHostStore 创建远端主机状态表
func NewHostStore(cfg store.Config) (*HostStore, error) {
	return store.New[types.HostKey, RemoteHost](cfg, hashHostKey)
}

func hashHostKey(k types.HostKey) uint64 {
	return store.HashBytes(k[:])
}

// Stats 跟踪器统计快照
type Stats struct {
	// Retransmits 处理的重传通知数
	Retransmits uint64

	// Evaluations 命中状态表的阈值判定次数
	Evaluations uint64

	// Actions 返回的调优动作数
	Actions uint64

	// StaleResets 过期归零次数
	StaleResets uint64

	// Invalid 因地址无效被忽略的通知数
	Invalid uint64

	// EmitFailures 事件未能入队的次数
	EmitFailures uint64
}

// Option 跟踪器选项
type Option func(*Tracker)

// WithClock 设置时钟（测试使用 clock.NewMock()）
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithNetns 设置默认网络命名空间标识来源
//
// 连接建立通知未携带 netns cookie 时使用。
func WithNetns(fn func() uint64) Option {
	return func(t *Tracker) {
		if fn != nil {
			t.netns = fn
		}
	}
}

// Tracker 远端主机跟踪器
type Tracker struct {
	cfg     Config
	hosts   *HostStore
	emitter interfaces.Emitter
	clock   clock.Clock
	netns   func() uint64

	retransmits  atomic.Uint64
	evaluations  atomic.Uint64
	actions      atomic.Uint64
	staleResets  atomic.Uint64
	invalid      atomic.Uint64
	emitFailures atomic.Uint64
}

// New 创建跟踪器
//
// emitter 可为 nil，此时只返回动作不报告事件。
func New(cfg Config, hosts *HostStore, emitter interfaces.Emitter, opts ...Option) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hosts == nil {
		return nil, ErrNilStore
	}
	t := &Tracker{
		cfg:     cfg,
		hosts:   hosts,
		emitter: emitter,
		clock:   clock.New(),
		netns:   func() uint64 { return 0 },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// ============================================================================
//                              重传
// ============================================================================

// OnRetransmit 记录一次到 addr 的重传
//
// 首次重传时创建状态；状态表容量耗尽时本次观测被静默丢弃。
func (t *Tracker) OnRetransmit(addr netip.Addr) {
	key, ok := types.HostKeyFromAddr(addr)
	if !ok {
		t.invalid.Add(1)
		return
	}
	t.retransmit(key)
}

// HandleRetransmit 处理仪表层的原始重传通知
func (t *Tracker) HandleRetransmit(ev interfaces.RetransmitEvent) {
	key, err := types.ParseHostKey(ev.Family, ev.Addr)
	if err != nil {
		t.invalid.Add(1)
		return
	}
	t.retransmit(key)
}

func (t *Tracker) retransmit(key types.HostKey) {
	t.retransmits.Add(1)

	ok := t.hosts.Upsert(key, nil, func(h *RemoteHost, created bool) {
		now := t.clock.Now()
		if t.cfg.ResetStaleOnRetransmit && !created && now.Sub(h.LastRetransmit) >= t.cfg.Window {
			h.Retransmits = 0
		}
		h.Retransmits++
		h.LastRetransmit = now
	})
	if !ok && logger.Enabled(log.LevelDebug) {
		logger.Debug("远端主机表已满，丢弃重传观测", "addr", key.String())
	}
}

// ============================================================================
//                              连接建立
// ============================================================================

// OnEstablished 在连接建立时判定是否切换拥塞控制算法
//
// netns 为连接所在网络命名空间的 cookie，0 表示使用 WithNetns 提供的默认值。
// 未记录过该主机时不动作。动作与事件相互独立：事件丢弃不影响返回的动作。
func (t *Tracker) OnEstablished(addr netip.Addr, netns uint64) (types.TuningAction, bool) {
	key, ok := types.HostKeyFromAddr(addr)
	if !ok {
		t.invalid.Add(1)
		return types.TuningAction{}, false
	}
	return t.established(key, netns)
}

// HandleEstablished 处理仪表层的原始连接建立通知
func (t *Tracker) HandleEstablished(ev interfaces.EstablishedEvent) (types.TuningAction, bool) {
	key, err := types.ParseHostKey(ev.Family, ev.Addr)
	if err != nil {
		t.invalid.Add(1)
		return types.TuningAction{}, false
	}
	return t.established(key, ev.Netns)
}

func (t *Tracker) established(key types.HostKey, netns uint64) (types.TuningAction, bool) {
	var (
		exceeded bool
		summary  types.HostSummary
	)
	hit := t.hosts.Update(key, func(h *RemoteHost) {
		exceeded = t.thresholdExceeded(h)
		if exceeded {
			summary = types.HostSummary{Host: key, Retransmits: h.Retransmits, LastRetransmit: h.LastRetransmit}
		}
	})
	if !hit {
		return types.TuningAction{}, false
	}
	t.evaluations.Add(1)
	if !exceeded {
		return types.TuningAction{}, false
	}

	t.actions.Add(1)
	action := types.TuningAction{
		Kind:      types.ActionSetCongestion,
		Algorithm: t.cfg.Algorithm,
		Addr:      key.Addr(),
	}

	if netns == 0 {
		netns = t.netns()
	}
	ev := types.TuningEvent{
		Tuner:    types.TunerCong,
		Scenario: types.ScenarioRetransmitThreshold,
		Context:  netns,
	}
	summary.PutPayload(&ev.Payload)
	if t.emitter == nil || !t.emitter.Emit(ev) {
		t.emitFailures.Add(1)
	}

	if logger.Enabled(log.LevelDebug) {
		logger.Debug("重传超过阈值，请求切换拥塞控制算法",
			"addr", key.String(), "retransmits", summary.Retransmits, "algorithm", t.cfg.Algorithm)
	}
	return action, true
}

// thresholdExceeded 阈值判定，调用方持有该键的分片锁
//
// 计数达到阈值但最近一次重传已过期时，计数归零并返回 false。
func (t *Tracker) thresholdExceeded(h *RemoteHost) bool {
	if h.Retransmits < t.cfg.Threshold {
		return false
	}
	if t.clock.Since(h.LastRetransmit) < t.cfg.Window {
		return true
	}
	h.Retransmits = 0
	t.staleResets.Add(1)
	return false
}

// ============================================================================
//                              查询
// ============================================================================

// Lookup 返回 addr 的状态副本
func (t *Tracker) Lookup(addr netip.Addr) (RemoteHost, bool) {
	key, ok := types.HostKeyFromAddr(addr)
	if !ok {
		return RemoteHost{}, false
	}
	return t.hosts.Get(key)
}

// Hosts 返回底层状态表
func (t *Tracker) Hosts() *HostStore {
	return t.hosts
}

// Config 返回配置
func (t *Tracker) Config() Config {
	return t.cfg
}

// Snapshot 返回统计快照
func (t *Tracker) Snapshot() Stats {
	return Stats{
		Retransmits:  t.retransmits.Load(),
		Evaluations:  t.evaluations.Load(),
		Actions:      t.actions.Load(),
		StaleResets:  t.staleResets.Load(),
		Invalid:      t.invalid.Load(),
		EmitFailures: t.emitFailures.Load(),
	}
}

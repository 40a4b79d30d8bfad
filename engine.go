package nettune

import (
	"fmt"
	"net/netip"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-nettune/config"
	"github.com/dep2p/go-nettune/internal/core/cong"
	"github.com/dep2p/go-nettune/internal/core/emitter"
	"github.com/dep2p/go-nettune/internal/core/introspect"
	"github.com/dep2p/go-nettune/internal/core/metrics"
	"github.com/dep2p/go-nettune/internal/core/neigh"
	"github.com/dep2p/go-nettune/internal/core/sockopt"
	"github.com/dep2p/go-nettune/internal/core/store"
	"github.com/dep2p/go-nettune/pkg/interfaces"
	"github.com/dep2p/go-nettune/pkg/lib/log"
	"github.com/dep2p/go-nettune/pkg/types"
)

var logger = log.Logger("nettune")

// Engine 决策核心门面
//
// 组合远端主机跟踪器、邻居表跟踪器与事件通道，实现 interfaces.Hooks。
type Engine struct {
	id       uuid.UUID
	cfg      *config.Config
	app      *fx.App
	applier  interfaces.Applier
	gatherer prometheus.Gatherer

	// 由 Fx 注入
	cong       *cong.Tracker
	neigh      *neigh.Tracker
	emitter    *emitter.Emitter
	collector  *metrics.Collector
	introspect *introspect.Server

	applied       atomic.Uint64
	applyFailures atomic.Uint64

	mu      sync.Mutex
	started bool
	closed  bool
}

var (
	_ interfaces.Hooks       = (*Engine)(nil)
	_ interfaces.EventSource = (*Engine)(nil)
)

// Stats 引擎统计快照
type Stats struct {
	Hosts   store.Stats
	Tables  store.Stats
	Cong    cong.Stats
	Neigh   neigh.Stats
	Emitter emitter.Stats

	// Applied 成功应用的动作数
	Applied uint64

	// ApplyFailures 应用失败的动作数
	ApplyFailures uint64
}

// New 创建引擎
//
// 创建后即可接收通知；Start 之后指标收集器才注册到 Registerer。
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if o.netns == nil {
		o.netns = sockopt.CachedNetns()
	}
	if o.config.Metrics.Enable && o.registerer == nil {
		reg := prometheus.NewRegistry()
		o.registerer = reg
		o.gatherer = reg
	}

	e := &Engine{
		id:       uuid.New(),
		cfg:      o.config,
		applier:  o.applier,
		gatherer: o.gatherer,
	}
	app, err := buildFxApp(o, e)
	if err != nil {
		return nil, err
	}
	e.app = app

	logger.Debug("决策引擎已创建", "id", e.id.String())
	return e, nil
}

// ID 返回引擎实例 ID
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Config 返回引擎配置
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Hooks 返回入站端口
func (e *Engine) Hooks() interfaces.Hooks {
	return e
}

// Events 返回事件通道
//
// 引擎停止后通道关闭。
func (e *Engine) Events() <-chan types.TuningEvent {
	return e.emitter.Out()
}

// Out 实现 interfaces.EventSource
func (e *Engine) Out() <-chan types.TuningEvent {
	return e.emitter.Out()
}

// Registry 返回指标收集器（未启用指标或 Registerer 不可收集时为 nil）
func (e *Engine) Registry() prometheus.Gatherer {
	return e.gatherer
}

// IntrospectAddr 返回自省服务的实际监听地址，未启用时返回空串
func (e *Engine) IntrospectAddr() string {
	if e.introspect == nil {
		return ""
	}
	return e.introspect.Addr()
}

// ════════════════════════════════════════════════════════════════════════════
//                              Hooks
// ════════════════════════════════════════════════════════════════════════════

// Retransmit 处理一次 TCP 重传
func (e *Engine) Retransmit(ev interfaces.RetransmitEvent) {
	e.cong.HandleRetransmit(ev)
}

// Established 处理一次连接建立，返回可选的调优动作
func (e *Engine) Established(ev interfaces.EstablishedEvent) (types.TuningAction, bool) {
	return e.cong.HandleEstablished(ev)
}

// NeighCreate 处理一次邻居表项创建
func (e *Engine) NeighCreate(ev interfaces.NeighCreateEvent) {
	e.neigh.OnEntryCreated(ev)
}

// EstablishedConn 处理连接建立并把动作应用到 conn
//
// 未配置 Applier 或 conn 为 nil 时只返回动作。应用失败只记录日志，
// 返回的动作不受影响。
func (e *Engine) EstablishedConn(ev interfaces.EstablishedEvent, conn syscall.Conn) (types.TuningAction, bool) {
	action, ok := e.cong.HandleEstablished(ev)
	if !ok || e.applier == nil || conn == nil {
		return action, ok
	}
	if err := e.applier.Apply(conn, action); err != nil {
		e.applyFailures.Add(1)
		logger.Warn("应用调优动作失败", "addr", action.Addr.String(), "algorithm", action.Algorithm, "error", err)
		return action, ok
	}
	e.applied.Add(1)
	return action, ok
}

// Lookup 返回远端主机的当前状态
func (e *Engine) Lookup(addr netip.Addr) (cong.RemoteHost, bool) {
	return e.cong.Lookup(addr)
}

// Table 返回邻居表的最新快照
func (e *Engine) Table(id types.TableID) (types.TableStats, bool) {
	return e.neigh.Lookup(id)
}

// Snapshot 返回统计快照
func (e *Engine) Snapshot() Stats {
	return Stats{
		Hosts:         e.cong.Hosts().Snapshot(),
		Tables:        e.neigh.Tables().Snapshot(),
		Cong:          e.cong.Snapshot(),
		Neigh:         e.neigh.Snapshot(),
		Emitter:       e.emitter.Snapshot(),
		Applied:       e.applied.Load(),
		ApplyFailures: e.applyFailures.Load(),
	}
}

package neigh

import (
	"sync/atomic"

	"github.com/dep2p/go-nettune/internal/core/store"
	"github.com/dep2p/go-nettune/pkg/interfaces"
	"github.com/dep2p/go-nettune/pkg/lib/log"
	"github.com/dep2p/go-nettune/pkg/types"
)

var logger = log.Logger("core/neigh")

// TableStore 邻居表状态表
type TableStore = store.Store[types.TableID, types.TableStats]

// NewTableStore 创建邻居表状态表
func NewTableStore(cfg store.Config) (*TableStore, error) {
	return store.New[types.TableID, types.TableStats](cfg, func(id types.TableID) uint64 {
		return store.HashUint64(uint64(id))
	})
}

// Stats 跟踪器统计快照
type Stats struct {
	// Updates 成功刷新快照的次数
	Updates uint64

	// Emitted 成功入队的快照事件数
	Emitted uint64

	// Gated 因未越过高水位而未发射的次数
	Gated uint64

	// Invalid 因协议族不支持被忽略的通知数
	Invalid uint64

	// EmitFailures 事件未能入队的次数
	EmitFailures uint64
}

// Tracker 邻居表增长跟踪器
type Tracker struct {
	cfg     Config
	tables  *TableStore
	emitter interfaces.Emitter

	updates      atomic.Uint64
	emitted      atomic.Uint64
	gated        atomic.Uint64
	invalid      atomic.Uint64
	emitFailures atomic.Uint64
}

// New 创建跟踪器
func New(cfg Config, tables *TableStore, emitter interfaces.Emitter) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tables == nil {
		return nil, ErrNilStore
	}
	return &Tracker{
		cfg:     cfg,
		tables:  tables,
		emitter: emitter,
	}, nil
}

// OnEntryCreated 处理一次邻居表项创建
//
// 首次见到该表时记录协议族与关联设备；之后每次都刷新
// Entries、GCEntries、Max，再按策略发射快照。
// 状态表容量耗尽时本次通知被丢弃，不发射任何事件。
func (t *Tracker) OnEntryCreated(ev interfaces.NeighCreateEvent) {
	if ev.Family != types.FamilyInet && ev.Family != types.FamilyInet6 {
		t.invalid.Add(1)
		return
	}

	var snap types.TableStats
	ok := t.tables.Upsert(ev.Table,
		func(s *types.TableStats) {
			s.Family = int32(ev.Family)
			s.Entries = ev.Entries
			s.Max = ev.Max
			if ev.Device != nil {
				s.SetDevice(ev.Device.Name, ev.Device.Index)
			}
		},
		func(s *types.TableStats, _ bool) {
			s.Entries = ev.Entries
			s.GCEntries = ev.GCEntries
			s.Max = ev.Max
			snap = *s
		})
	if !ok {
		if logger.Enabled(log.LevelDebug) {
			logger.Debug("邻居表状态表已满，丢弃通知", "table", uint64(ev.Table))
		}
		return
	}
	t.updates.Add(1)

	if t.cfg.Policy == EmitNearlyFull && !t.cfg.NearlyFull(snap.Entries, snap.Max) {
		t.gated.Add(1)
		return
	}

	out := types.TuningEvent{
		Tuner:    types.TunerNeighTable,
		Scenario: types.ScenarioTableGrowth,
		Context:  ev.Netns,
	}
	snap.PutPayload(&out.Payload)
	if t.emitter != nil && t.emitter.Emit(out) {
		t.emitted.Add(1)
	} else {
		t.emitFailures.Add(1)
	}

	if logger.Enabled(log.LevelDebug) {
		logger.Debug("邻居表新增表项", "stats", snap.String())
	}
}

// Lookup 返回表快照副本
func (t *Tracker) Lookup(id types.TableID) (types.TableStats, bool) {
	return t.tables.Get(id)
}

// Tables 返回底层状态表
func (t *Tracker) Tables() *TableStore {
	return t.tables
}

// Config 返回配置
func (t *Tracker) Config() Config {
	return t.cfg
}

// Snapshot 返回统计快照
func (t *Tracker) Snapshot() Stats {
	return Stats{
		Updates:      t.updates.Load(),
		Emitted:      t.emitted.Load(),
		Gated:        t.gated.Load(),
		Invalid:      t.invalid.Load(),
		EmitFailures: t.emitFailures.Load(),
	}
}

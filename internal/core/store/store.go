package store

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/dep2p/go-nettune/pkg/lib/log"
)

var logger = log.Logger("core/store")

// Stats 状态表快照
type Stats struct {
	// Len 当前键数
	Len int

	// Capacity 最大键数
	Capacity int

	// Inserts 累计创建的键数
	Inserts uint64

	// Evictions 累计淘汰的键数
	Evictions uint64

	// Drops 因容量耗尽被丢弃的观测数
	Drops uint64
}

// Store 定容量、分片加锁的键值状态表
//
// 值以指针形式保存在分片中，回调在分片锁内原地修改，
// 外部只能通过 Get/Range 拿到副本。
type Store[K comparable, V any] struct {
	cfg    Config
	hash   func(K) uint64
	shards []*shard[K, V]

	size      atomic.Int64
	inserts   atomic.Uint64
	evictions atomic.Uint64
	drops     atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu  sync.Mutex
	lru *simplelru.LRU[K, *V]
}

// New 创建状态表
func New[K comparable, V any](cfg Config, hash func(K) uint64) (*Store[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hash == nil {
		return nil, ErrNilHash
	}

	s := &Store[K, V]{
		cfg:    cfg,
		hash:   hash,
		shards: make([]*shard[K, V], cfg.Shards),
	}
	for i := range s.shards {
		// 分片 LRU 的上限取全局容量，实际上限由 size 计数器保证，
		// 因此 simplelru 自身永远不会触发淘汰。
		lru, err := simplelru.NewLRU[K, *V](cfg.Capacity, nil)
		if err != nil {
			return nil, err
		}
		s.shards[i] = &shard[K, V]{lru: lru}
	}

	logger.Debug("状态表已创建", "capacity", cfg.Capacity, "shards", cfg.Shards, "policy", cfg.Policy.String())
	return s, nil
}

func (s *Store[K, V]) shardFor(key K) *shard[K, V] {
	return s.shards[s.hash(key)%uint64(len(s.shards))]
}

// Upsert 查找或创建键，并在分片锁内修改其值
//
// 新建时先调用 init（可为 nil）初始化零值，再调用 fn(v, true)；
// 已存在时调用 fn(v, false)。键不存在且无法获得空位时返回 false，
// 此时不创建任何状态。
func (s *Store[K, V]) Upsert(key K, init func(*V), fn func(v *V, created bool)) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if v, ok := sh.lru.Get(key); ok {
		if fn != nil {
			fn(v, false)
		}
		return true
	}

	if !s.reserve(sh) {
		s.drops.Add(1)
		return false
	}

	v := new(V)
	if init != nil {
		init(v)
	}
	sh.lru.Add(key, v)
	s.inserts.Add(1)
	if fn != nil {
		fn(v, true)
	}
	return true
}

// reserve 为新键获取一个空位，调用方持有 sh.mu
func (s *Store[K, V]) reserve(sh *shard[K, V]) bool {
	limit := int64(s.cfg.Capacity)
	for {
		n := s.size.Load()
		if n >= limit {
			break
		}
		if s.size.CompareAndSwap(n, n+1) {
			return true
		}
	}

	if s.cfg.Policy != EvictLRU {
		return false
	}

	// 复用本分片最久未访问的表项的位置，size 不变
	if _, _, ok := sh.lru.RemoveOldest(); !ok {
		return false
	}
	s.evictions.Add(1)
	return true
}

// Update 仅在键存在时修改其值，返回是否命中
func (s *Store[K, V]) Update(key K, fn func(*V)) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	v, ok := sh.lru.Get(key)
	if !ok {
		return false
	}
	fn(v)
	return true
}

// Get 返回值的副本，不影响访问顺序
func (s *Store[K, V]) Get(key K) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	v, ok := sh.lru.Peek(key)
	if !ok {
		var zero V
		return zero, false
	}
	return *v, true
}

// Remove 删除键，返回是否存在
func (s *Store[K, V]) Remove(key K) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if sh.lru.Remove(key) {
		s.size.Add(-1)
		return true
	}
	return false
}

// Purge 清空所有表项
func (s *Store[K, V]) Purge() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		n := sh.lru.Len()
		sh.lru.Purge()
		s.size.Add(-int64(n))
		sh.mu.Unlock()
	}
}

// Range 逐个分片遍历值的副本，fn 返回 false 时停止
func (s *Store[K, V]) Range(fn func(key K, value V) bool) {
	for _, sh := range s.shards {
		sh.mu.Lock()
		all := sh.lru.Keys()
		keys := make([]K, 0, len(all))
		vals := make([]V, 0, len(all))
		for _, k := range all {
			if v, ok := sh.lru.Peek(k); ok {
				keys = append(keys, k)
				vals = append(vals, *v)
			}
		}
		sh.mu.Unlock()

		for i, k := range keys {
			if !fn(k, vals[i]) {
				return
			}
		}
	}
}

// Len 返回当前键数
func (s *Store[K, V]) Len() int {
	return int(s.size.Load())
}

// Capacity 返回最大键数
func (s *Store[K, V]) Capacity() int {
	return s.cfg.Capacity
}

// Snapshot 返回统计快照
func (s *Store[K, V]) Snapshot() Stats {
	return Stats{
		Len:       s.Len(),
		Capacity:  s.cfg.Capacity,
		Inserts:   s.inserts.Load(),
		Evictions: s.evictions.Load(),
		Drops:     s.drops.Load(),
	}
}

// Package store 实现定容量的键值状态表
//
// 决策核心的两个跟踪器都建立在 Store 之上：
//   - cong 跟踪器：HostKey -> RemoteHost
//   - neigh 跟踪器：TableID -> TableStats
//
// # 快速开始
//
//	st, err := store.New[types.HostKey, RemoteHost](store.DefaultConfig(), hashHostKey)
//
//	// 查找或创建，然后原地修改
//	ok := st.Upsert(key, nil, func(v *RemoteHost, created bool) {
//	    v.Retransmits++
//	})
//	if !ok {
//	    // 容量耗尽，本次观测被丢弃
//	}
//
// # 容量与淘汰
//
// 容量是全局、精确的：原子计数器控制新键的创建。表满时的行为由 Policy 决定：
//   - DropNew（默认）：拒绝新键，已有表项不受影响
//   - EvictLRU：淘汰新键所在分片中最久未访问的表项；该分片为空时仍丢弃新键
//
// # 并发安全
//
// 表按键哈希（murmur3）分片，每个分片一把互斥锁，不存在全局锁：
//   - 同一个键的读改写在分片锁内完成，不会丢失更新
//   - 不同分片的键互不阻塞
//   - 回调在锁内执行，必须短小且不得阻塞
//
// # 架构定位
//
// Tier: Core Layer Level 0（无依赖）
//
// 依赖关系：
//   - 依赖：hashicorp/golang-lru/v2/simplelru, spaolacci/murmur3
//   - 被依赖：cong, neigh
package store

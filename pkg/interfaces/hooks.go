package interfaces

import "github.com/dep2p/go-nettune/pkg/types"

// RetransmitEvent 重传通知
type RetransmitEvent struct {
	// Family 协议族
	Family types.Family

	// Addr 远端原始地址（IPv4 4 字节 / IPv6 16 字节）
	Addr []byte
}

// EstablishedEvent 连接建立通知
type EstablishedEvent struct {
	// Family 协议族
	Family types.Family

	// Addr 远端原始地址
	Addr []byte

	// Netns 连接所在网络命名空间的 cookie，0 表示由核心自行推导
	Netns uint64
}

// Device 邻居表关联的网络设备
type Device struct {
	// Name 设备名
	Name string

	// Index 设备索引
	Index int32
}

// NeighCreateEvent 邻居表项创建通知
type NeighCreateEvent struct {
	// Table 表标识
	Table types.TableID

	// Family 表所属协议族
	Family types.Family

	// Entries 当前表项数
	Entries int32

	// GCEntries 参与垃圾回收的表项数
	GCEntries int32

	// Max 当前容量阈值
	Max int32

	// Device 关联设备，可为 nil
	Device *Device

	// Netns 所在网络命名空间的 cookie
	Netns uint64
}

// Hooks 决策核心的入站端口
//
// 所有方法同步、非阻塞、可重入，可被大量并发调用方同时调用；
// 任何失败都在内部处理，不向调用方传播。
type Hooks interface {
	// Retransmit 处理一次 TCP 重传
	Retransmit(ev RetransmitEvent)

	// Established 处理一次连接建立，返回可选的调优动作
	Established(ev EstablishedEvent) (types.TuningAction, bool)

	// NeighCreate 处理一次邻居表项创建
	NeighCreate(ev NeighCreateEvent)
}

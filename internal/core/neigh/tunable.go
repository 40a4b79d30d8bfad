package neigh

import "github.com/dep2p/go-nettune/pkg/types"

// Tunable 邻居表相关的可调参数
type Tunable int

const (
	IPv4GCInterval Tunable = iota
	IPv4GCStaleTime
	IPv4GCThresh1
	IPv4GCThresh2
	IPv4GCThresh3
	IPv6GCInterval
	IPv6GCStaleTime
	IPv6GCThresh1
	IPv6GCThresh2
	IPv6GCThresh3
	numTunables
)

var sysctlNames = [numTunables]string{
	IPv4GCInterval:  "net.ipv4.neigh.default.gc_interval",
	IPv4GCStaleTime: "net.ipv4.neigh.default.gc_stale_time",
	IPv4GCThresh1:   "net.ipv4.neigh.default.gc_thresh1",
	IPv4GCThresh2:   "net.ipv4.neigh.default.gc_thresh2",
	IPv4GCThresh3:   "net.ipv4.neigh.default.gc_thresh3",
	IPv6GCInterval:  "net.ipv6.neigh.default.gc_interval",
	IPv6GCStaleTime: "net.ipv6.neigh.default.gc_stale_time",
	IPv6GCThresh1:   "net.ipv6.neigh.default.gc_thresh1",
	IPv6GCThresh2:   "net.ipv6.neigh.default.gc_thresh2",
	IPv6GCThresh3:   "net.ipv6.neigh.default.gc_thresh3",
}

// SysctlName 返回对应的 sysctl 名称
func (t Tunable) SysctlName() string {
	if t < 0 || t >= numTunables {
		return ""
	}
	return sysctlNames[t]
}

// String 同 SysctlName
func (t Tunable) String() string {
	return t.SysctlName()
}

// CapacityTunable 返回表容量阈值（gc_thresh3）对应的参数
//
// 快照中的 Max 即该参数的当前值。
func CapacityTunable(family types.Family) (Tunable, bool) {
	switch family {
	case types.FamilyInet:
		return IPv4GCThresh3, true
	case types.FamilyInet6:
		return IPv6GCThresh3, true
	default:
		return 0, false
	}
}

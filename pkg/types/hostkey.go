package types

import (
	"fmt"
	"net/netip"
)

// HostKey 远端主机键
//
// 统一使用 16 字节表示：IPv4 地址存储为 IPv4 映射形式（::ffff:a.b.c.d），
// 同一张表即可同时服务两个协议族，协议族由地址本身隐式携带。
type HostKey [16]byte

// HostKeyFromAddr 从 netip.Addr 构造键
//
// 无效地址或带 zone 的地址返回 false。
func HostKeyFromAddr(addr netip.Addr) (HostKey, bool) {
	if !addr.IsValid() || addr.Zone() != "" {
		return HostKey{}, false
	}
	return HostKey(addr.As16()), true
}

// ParseHostKey 从 (协议族, 原始地址字节) 构造键
//
// 仪表层上报的是套接字里的原始地址：IPv4 为 4 字节，IPv6 为 16 字节。
func ParseHostKey(family Family, raw []byte) (HostKey, error) {
	switch family {
	case FamilyInet:
		if len(raw) != 4 {
			return HostKey{}, fmt.Errorf("%w: inet address of %d bytes", ErrMalformedAddress, len(raw))
		}
		return HostKey(netip.AddrFrom4([4]byte(raw)).As16()), nil
	case FamilyInet6:
		if len(raw) != 16 {
			return HostKey{}, fmt.Errorf("%w: inet6 address of %d bytes", ErrMalformedAddress, len(raw))
		}
		return HostKey(raw), nil
	default:
		return HostKey{}, fmt.Errorf("%w: %s", ErrUnsupportedFamily, family)
	}
}

// Addr 返回对应地址，IPv4 映射地址还原为 IPv4
func (k HostKey) Addr() netip.Addr {
	return netip.AddrFrom16(k).Unmap()
}

// Family 返回地址隐含的协议族
func (k HostKey) Family() Family {
	if netip.AddrFrom16(k).Is4In6() {
		return FamilyInet
	}
	return FamilyInet6
}

// String 返回地址字符串
func (k HostKey) String() string {
	return k.Addr().String()
}

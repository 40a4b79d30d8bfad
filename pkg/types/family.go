package types

import "strconv"

// Family 协议族，取值与 Linux AF_* 一致
type Family uint16

const (
	// FamilyUnspec 未指定
	FamilyUnspec Family = 0
	// FamilyInet IPv4 (AF_INET)
	FamilyInet Family = 2
	// FamilyInet6 IPv6 (AF_INET6)
	FamilyInet6 Family = 10
)

// String 返回协议族名称
func (f Family) String() string {
	switch f {
	case FamilyInet:
		return "inet"
	case FamilyInet6:
		return "inet6"
	case FamilyUnspec:
		return "unspec"
	default:
		return "family(" + strconv.Itoa(int(f)) + ")"
	}
}

package types

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHostKey_IPv4Mapped IPv4 与其映射形式得到同一个键
func TestHostKey_IPv4Mapped(t *testing.T) {
	v4, ok := HostKeyFromAddr(netip.MustParseAddr("192.0.2.7"))
	require.True(t, ok)
	mapped, ok := HostKeyFromAddr(netip.MustParseAddr("::ffff:192.0.2.7"))
	require.True(t, ok)

	assert.Equal(t, v4, mapped)
	assert.Equal(t, FamilyInet, v4.Family())
	assert.Equal(t, "192.0.2.7", v4.String())

	raw, err := ParseHostKey(FamilyInet, []byte{192, 0, 2, 7})
	require.NoError(t, err)
	assert.Equal(t, v4, raw)
}

func TestHostKey_IPv6(t *testing.T) {
	addr := netip.MustParseAddr("2001:db8::1")
	k, ok := HostKeyFromAddr(addr)
	require.True(t, ok)
	assert.Equal(t, FamilyInet6, k.Family())
	assert.Equal(t, addr, k.Addr())

	b := addr.As16()
	raw, err := ParseHostKey(FamilyInet6, b[:])
	require.NoError(t, err)
	assert.Equal(t, k, raw)
}

func TestHostKey_Invalid(t *testing.T) {
	_, ok := HostKeyFromAddr(netip.Addr{})
	assert.False(t, ok)

	_, ok = HostKeyFromAddr(netip.MustParseAddr("fe80::1%eth0"))
	assert.False(t, ok)

	_, err := ParseHostKey(FamilyInet, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformedAddress)

	_, err = ParseHostKey(FamilyInet6, make([]byte, 4))
	assert.ErrorIs(t, err, ErrMalformedAddress)

	_, err = ParseHostKey(Family(1), make([]byte, 16))
	assert.ErrorIs(t, err, ErrUnsupportedFamily)
}

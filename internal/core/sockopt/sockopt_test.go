package sockopt

import (
	"errors"
	"net"
	"net/netip"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-nettune/pkg/types"
)

func loopbackConn(t *testing.T) *net.TCPConn {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		c, err := ln.Accept()
		if err == nil {
			t.Cleanup(func() { c.Close() })
		}
	}()

	c, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c.(*net.TCPConn)
}

func TestApply_UnsupportedAction(t *testing.T) {
	conn := loopbackConn(t)
	err := Applier{}.Apply(conn, types.TuningAction{Kind: types.ActionNone})
	assert.ErrorIs(t, err, ErrUnsupportedAction)
}

// TestApply_SetCongestion 在回环连接上切换到 reno（非特权用户也允许）
func TestApply_SetCongestion(t *testing.T) {
	conn := loopbackConn(t)

	err := Applier{}.Apply(conn, types.TuningAction{
		Kind:      types.ActionSetCongestion,
		Algorithm: "reno",
		Addr:      netip.MustParseAddr("127.0.0.1"),
	})
	if errors.Is(err, ErrUnsupported) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.ENOENT) {
		t.Skipf("congestion control not settable here: %v", err)
	}
	require.NoError(t, err)

	name, err := CurrentCongestion(conn)
	require.NoError(t, err)
	assert.Equal(t, "reno", name)
}

func TestApply_UnknownAlgorithm(t *testing.T) {
	conn := loopbackConn(t)

	err := Applier{}.Apply(conn, types.TuningAction{Kind: types.ActionSetCongestion, Algorithm: "no-such-cc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrApplyFailed)
}

func TestCachedNetns_Stable(t *testing.T) {
	fn := CachedNetns()
	first := fn()
	assert.Equal(t, first, fn())

	c, err := NetnsCookie()
	if err != nil {
		t.Skipf("SO_NETNS_COOKIE unavailable: %v", err)
	}
	assert.Equal(t, c, first)
	assert.NotZero(t, c)
}

package consumer

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-nettune/internal/core/emitter"
	"github.com/dep2p/go-nettune/pkg/types"
)

func hostEvent(t *testing.T, addr string, n uint64) types.TuningEvent {
	t.Helper()
	k, ok := types.HostKeyFromAddr(netip.MustParseAddr(addr))
	require.True(t, ok)
	ev := types.TuningEvent{Tuner: types.TunerCong, Scenario: types.ScenarioRetransmitThreshold, Context: 1}
	types.HostSummary{Host: k, Retransmits: n}.PutPayload(&ev.Payload)
	return ev
}

func tableEvent(entries, max int32) types.TuningEvent {
	s := types.TableStats{Family: int32(types.FamilyInet), Entries: entries, Max: max}
	s.SetDevice("eth0", 2)
	ev := types.TuningEvent{Tuner: types.TunerNeighTable}
	s.PutPayload(&ev.Payload)
	return ev
}

func TestDecode(t *testing.T) {
	d, err := Decode(hostEvent(t, "2001:db8::1", 500))
	require.NoError(t, err)
	require.NotNil(t, d.Host)
	assert.Nil(t, d.Table)
	assert.Equal(t, uint64(500), d.Host.Retransmits)

	d, err = Decode(tableEvent(10, 1024))
	require.NoError(t, err)
	require.NotNil(t, d.Table)
	assert.Nil(t, d.Host)
	assert.Equal(t, "eth0", d.Table.DeviceName())

	_, err = Decode(types.TuningEvent{Tuner: 42})
	assert.ErrorIs(t, err, ErrUnknownTuner)
}

// TestRun_DrainsUntilClosed 通道关闭后 Run 返回 nil
func TestRun_DrainsUntilClosed(t *testing.T) {
	em := emitter.New(emitter.Config{Capacity: 8})
	em.Emit(hostEvent(t, "192.0.2.1", 600))
	em.Emit(tableEvent(900, 1024))
	em.Emit(tableEvent(1, 1024))
	em.Emit(types.TuningEvent{Tuner: 9})
	require.NoError(t, em.Close())

	var got []Decoded
	c := New(em, func(d Decoded) { got = append(got, d) })
	require.NoError(t, c.Run(context.Background()))

	require.Len(t, got, 3)
	assert.NotNil(t, got[0].Host)
	assert.NotNil(t, got[1].Table)
	assert.Equal(t, Stats{Decoded: 3, Undecodable: 1}, c.Snapshot())
}

func TestRun_StopsOnCancel(t *testing.T) {
	em := emitter.New(emitter.DefaultConfig())
	c := New(em, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	em.Emit(tableEvent(1, 2))
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

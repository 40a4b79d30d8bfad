package trace

import (
	"context"
	"io"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-nettune/pkg/interfaces"
	"github.com/dep2p/go-nettune/pkg/types"
)

type call struct {
	kind Kind
	at   time.Time
	re   interfaces.RetransmitEvent
	es   interfaces.EstablishedEvent
	nc   interfaces.NeighCreateEvent
}

type fakeHooks struct {
	clock  clock.Clock
	calls  []call
	action bool
}

func (f *fakeHooks) now() time.Time {
	if f.clock == nil {
		return time.Time{}
	}
	return f.clock.Now()
}

func (f *fakeHooks) Retransmit(ev interfaces.RetransmitEvent) {
	f.calls = append(f.calls, call{kind: KindRetransmit, at: f.now(), re: ev})
}

func (f *fakeHooks) Established(ev interfaces.EstablishedEvent) (types.TuningAction, bool) {
	f.calls = append(f.calls, call{kind: KindEstablished, at: f.now(), es: ev})
	if !f.action {
		return types.TuningAction{}, false
	}
	return types.TuningAction{Kind: types.ActionSetCongestion, Algorithm: "bbr"}, true
}

func (f *fakeHooks) NeighCreate(ev interfaces.NeighCreateEvent) {
	f.calls = append(f.calls, call{kind: KindNeighCreate, at: f.now(), nc: ev})
}

func TestParse(t *testing.T) {
	rec, err := Parse([]byte(`{"kind":"established","addr":"10.0.0.1","netns":4026531840}`))
	require.NoError(t, err)
	assert.Equal(t, KindEstablished, rec.Kind)
	assert.Equal(t, uint64(4026531840), rec.Netns)
	assert.Nil(t, rec.At)

	rec, err = Parse([]byte(`{"kind":"retransmit","addr":"2001:db8::1","at":"2024-05-01T10:00:00Z"}`))
	require.NoError(t, err)
	require.NotNil(t, rec.At)
	assert.Equal(t, 10, rec.At.Hour())

	_, err = Parse([]byte(`{"kind":"reboot"}`))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Parse([]byte(`{"kind":"retransmit","addr":"not-an-ip"}`))
	assert.ErrorIs(t, err, ErrBadAddress)

	_, err = Parse([]byte(`{"kind":`))
	assert.Error(t, err)
}

func TestRecord_Apply(t *testing.T) {
	h := &fakeHooks{action: true}

	_, ok, err := Record{Kind: KindRetransmit, Addr: "10.0.0.1"}.Apply(h)
	require.NoError(t, err)
	assert.False(t, ok)

	action, ok, err := Record{Kind: KindEstablished, Addr: "2001:db8::1", Netns: 9}.Apply(h)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bbr", action.Algorithm)

	_, _, err = Record{Kind: KindNeighCreate, Table: 3, Family: 10, Entries: 5, Max: 64, Dev: "eth1", IfIndex: 4}.Apply(h)
	require.NoError(t, err)
	_, _, err = Record{Kind: KindNeighCreate, Table: 4, Family: 2}.Apply(h)
	require.NoError(t, err)

	require.Len(t, h.calls, 4)
	assert.Equal(t, types.FamilyInet, h.calls[0].re.Family)
	assert.Equal(t, netip.MustParseAddr("10.0.0.1").AsSlice(), h.calls[0].re.Addr)
	assert.Equal(t, types.FamilyInet6, h.calls[1].es.Family)
	assert.Len(t, h.calls[1].es.Addr, 16)
	assert.Equal(t, uint64(9), h.calls[1].es.Netns)
	assert.Equal(t, types.TableID(3), h.calls[2].nc.Table)
	assert.Equal(t, &interfaces.Device{Name: "eth1", Index: 4}, h.calls[2].nc.Device)
	assert.Nil(t, h.calls[3].nc.Device)

	_, _, err = Record{Kind: "bogus"}.Apply(h)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestReader_SkipsBlankAndComments(t *testing.T) {
	input := `
# warm-up
{"kind":"retransmit","addr":"10.0.0.1"}

  {"kind":"retransmit","addr":"10.0.0.2"}
{"kind":"nope"}
`
	r := NewReader(strings.NewReader(input))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", rec.Addr)
	assert.Equal(t, 3, r.Line())

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", rec.Addr)

	_, err = r.Next()
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Contains(t, err.Error(), "line 6")

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestPlayer_AdvancesMockClock(t *testing.T) {
	mock := clock.NewMock()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.Set(start)

	h := &fakeHooks{clock: mock, action: true}
	p := NewPlayer(h)
	p.Clock = mock

	var actions []Record
	p.OnAction = func(rec Record, _ types.TuningAction) { actions = append(actions, rec) }

	input := strings.Join([]string{
		`{"kind":"retransmit","addr":"10.0.0.1","at":"2024-05-01T01:00:00Z"}`,
		`{"kind":"retransmit","addr":"10.0.0.1","at":"2024-05-01T00:30:00Z"}`,
		`{"kind":"established","addr":"10.0.0.1"}`,
		`{"kind":"neigh_create","table":1,"family":2,"entries":1,"max":8,"at":"2024-05-01T02:30:00Z"}`,
	}, "\n")

	sum, err := p.Play(context.Background(), NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, Summary{Records: 4, Retransmits: 2, Established: 1, Actions: 1, NeighCreates: 1}, sum)
	require.Len(t, actions, 1)
	assert.Equal(t, "10.0.0.1", actions[0].Addr)

	require.Len(t, h.calls, 4)
	assert.Equal(t, start.Add(time.Hour), h.calls[0].at)
	// 更早的时间戳不回拨
	assert.Equal(t, start.Add(time.Hour), h.calls[1].at)
	assert.Equal(t, start.Add(time.Hour), h.calls[2].at)
	assert.Equal(t, start.Add(150*time.Minute), h.calls[3].at)
}

func TestPlayer_StopsOnErrorAndCancel(t *testing.T) {
	h := &fakeHooks{}
	p := NewPlayer(h)

	sum, err := p.Play(context.Background(), NewReader(strings.NewReader(
		"{\"kind\":\"retransmit\",\"addr\":\"10.0.0.1\"}\n{\"kind\":\"retransmit\",\"addr\":\"x\"}\n")))
	assert.ErrorIs(t, err, ErrBadAddress)
	assert.Equal(t, 1, sum.Records)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Play(ctx, NewReader(strings.NewReader(`{"kind":"retransmit","addr":"10.0.0.1"}`)))
	assert.ErrorIs(t, err, context.Canceled)
}

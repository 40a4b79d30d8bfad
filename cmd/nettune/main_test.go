package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-nettune/config"
	"github.com/dep2p/go-nettune/internal/core/cong"
	"github.com/dep2p/go-nettune/pkg/interfaces"
	"github.com/dep2p/go-nettune/pkg/types"
)

func buildTrace(retransmits int) string {
	var b strings.Builder
	b.WriteString("# host 10.0.0.1 retransmits heavily\n")
	for i := 0; i < retransmits; i++ {
		b.WriteString(`{"kind":"retransmit","addr":"10.0.0.1","at":"2024-05-01T10:00:00Z"}` + "\n")
	}
	b.WriteString(`{"kind":"established","addr":"10.0.0.1","netns":4026531840,"at":"2024-05-01T10:30:00Z"}` + "\n")
	b.WriteString(`{"kind":"established","addr":"10.0.0.2"}` + "\n")
	b.WriteString(`{"kind":"neigh_create","table":1,"family":2,"entries":10,"gc_entries":8,"max":1024,"dev":"eth0","ifindex":2}` + "\n")
	return b.String()
}

func decodeViews(t *testing.T, out []byte) []eventView {
	t.Helper()
	var views []eventView
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		var v eventView
		require.NoError(t, json.Unmarshal(sc.Bytes(), &v))
		views = append(views, v)
	}
	return views
}

func TestReplay_EmitsEvents(t *testing.T) {
	var out bytes.Buffer
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	sum, stats, err := replay(context.Background(), config.NewConfig(), strings.NewReader(buildTrace(501)), &out, start, 7)
	require.NoError(t, err)
	assert.Equal(t, 501, sum.Retransmits)
	assert.Equal(t, 2, sum.Established)
	assert.Equal(t, 1, sum.Actions)
	assert.Equal(t, uint64(2), stats.Emitter.Emitted)

	views := decodeViews(t, out.Bytes())
	require.Len(t, views, 2)

	assert.Equal(t, "cong", views[0].Tuner)
	assert.Equal(t, uint64(4026531840), views[0].Context)
	require.NotNil(t, views[0].Host)
	assert.Equal(t, "10.0.0.1", views[0].Host.Addr)
	assert.Equal(t, uint64(501), views[0].Host.Retransmits)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), views[0].Host.LastRetransmit)

	assert.Equal(t, "neigh_table", views[1].Tuner)
	assert.Equal(t, uint64(0), views[1].Context)
	require.NotNil(t, views[1].Table)
	assert.Equal(t, "inet", views[1].Table.Family)
	assert.Equal(t, "eth0", views[1].Table.Dev)
	assert.Equal(t, int32(1024), views[1].Table.Max)
}

func TestReplay_BelowThreshold(t *testing.T) {
	var out bytes.Buffer
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sum, _, err := replay(context.Background(), config.NewConfig(),
		strings.NewReader(buildTrace(cong.DefaultThreshold-1)), &out, start, 0)
	require.NoError(t, err)
	assert.Zero(t, sum.Actions)

	views := decodeViews(t, out.Bytes())
	require.Len(t, views, 1)
	assert.Equal(t, "neigh_table", views[0].Tuner)
}

// TestReplay_AtThreshold 恰好达到阈值即切换
func TestReplay_AtThreshold(t *testing.T) {
	var out bytes.Buffer
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sum, stats, err := replay(context.Background(), config.NewConfig(),
		strings.NewReader(buildTrace(cong.DefaultThreshold)), &out, start, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Actions)
	assert.Equal(t, uint64(2), stats.Emitter.Emitted)

	views := decodeViews(t, out.Bytes())
	require.Len(t, views, 2)
	assert.Equal(t, "cong", views[0].Tuner)
	require.NotNil(t, views[0].Host)
	assert.Equal(t, uint64(cong.DefaultThreshold), views[0].Host.Retransmits)
	assert.Equal(t, "neigh_table", views[1].Tuner)
}

func TestReplay_StaleWindow(t *testing.T) {
	trace := buildTrace(501)
	trace = strings.Replace(trace, `"at":"2024-05-01T10:30:00Z"`, `"at":"2024-05-01T11:00:00Z"`, 1)

	var out bytes.Buffer
	sum, _, err := replay(context.Background(), config.NewConfig(), strings.NewReader(trace), &out,
		time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), 0)
	require.NoError(t, err)
	assert.Zero(t, sum.Actions)
}

func TestReplay_BadTrace(t *testing.T) {
	var out bytes.Buffer
	sum, _, err := replay(context.Background(), config.NewConfig(),
		strings.NewReader("{\"kind\":\"retransmit\",\"addr\":\"10.0.0.1\"}\n{\"kind\":\"explode\"}\n"), &out, time.Now(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, sum.Records)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommand_Replay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(buildTrace(501)), 0o600))

	out, err := execute(t, "replay", path, "--start", "2024-05-01T09:00:00Z", "--log-level", "error")
	require.NoError(t, err)
	views := decodeViews(t, []byte(out))
	require.Len(t, views, 2)
	assert.Equal(t, "cong", views[0].Tuner)
}

func TestCommand_ReplayInvalidStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := execute(t, "replay", path, "--start", "yesterday")
	assert.Error(t, err)
}

func TestCommand_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nettune.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cong:\n  threshold: 900\n"), 0o600))

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "threshold: 900")
	assert.Contains(t, out, "window: 1h0m0s")

	out, err = execute(t, "config", "--env")
	require.NoError(t, err)
	assert.Contains(t, out, "NETTUNE_CONG_WINDOW")
}

type failingConn struct{}

func (failingConn) SyscallConn() (syscall.RawConn, error) {
	return nil, errors.New("no raw conn")
}

// TestRunEngine_NoApplier run 只做决策，不尝试修改套接字
func TestRunEngine_NoApplier(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Cong.Threshold = 1
	cfg.Metrics.Enable = false

	engine, err := newRunEngine(cfg)
	require.NoError(t, err)
	require.NoError(t, engine.Start(context.Background()))
	t.Cleanup(func() { engine.Close() })

	addr := netip.MustParseAddr("10.0.0.1")
	ev := interfaces.RetransmitEvent{Family: types.FamilyInet, Addr: addr.AsSlice()}
	engine.Retransmit(ev)

	action, ok := engine.EstablishedConn(interfaces.EstablishedEvent{Family: ev.Family, Addr: ev.Addr}, failingConn{})
	require.True(t, ok)
	assert.Equal(t, "bbr", action.Algorithm)

	stats := engine.Snapshot()
	assert.Zero(t, stats.Applied)
	assert.Zero(t, stats.ApplyFailures)
}

func TestCommand_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, fmt.Sprintf("nettune %s", Version)))
}

func TestCommand_ApplyDialFailure(t *testing.T) {
	_, err := execute(t, "apply", "127.0.0.1:1", "--timeout", "200ms")
	assert.Error(t, err)
}

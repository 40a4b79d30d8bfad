package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dep2p/go-nettune/internal/core/cong"
	"github.com/dep2p/go-nettune/internal/core/neigh"
	"github.com/dep2p/go-nettune/internal/core/store"
)

// TestNewConfig 测试默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(500), cfg.Cong.Threshold)
	assert.Equal(t, time.Hour, cfg.Cong.Window.Duration())
	assert.Equal(t, "bbr", cfg.Cong.Algorithm)
	assert.False(t, cfg.Cong.ResetStaleOnRetransmit)
	assert.Equal(t, 1024, cfg.Cong.Store.Capacity)
	assert.Equal(t, 1024, cfg.Neigh.Store.Capacity)
	assert.Equal(t, "always", cfg.Neigh.Policy)
	assert.Equal(t, int32(3), cfg.Neigh.HighWaterNum)
	assert.Equal(t, int32(4), cfg.Neigh.HighWaterDen)
	assert.Equal(t, 4096, cfg.Emitter.Capacity)
	assert.False(t, cfg.Introspect.Enable)
	assert.Equal(t, "127.0.0.1:6060", cfg.Introspect.Addr)
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero threshold", func(c *Config) { c.Cong.Threshold = 0 }, cong.ErrInvalidThreshold},
		{"zero window", func(c *Config) { c.Cong.Window = 0 }, cong.ErrInvalidWindow},
		{"long algorithm", func(c *Config) { c.Cong.Algorithm = "a-very-long-algorithm" }, cong.ErrInvalidAlgorithm},
		{"store policy", func(c *Config) { c.Cong.Store.Policy = "random" }, store.ErrUnknownPolicy},
		{"store capacity", func(c *Config) { c.Neigh.Store.Capacity = 0 }, store.ErrInvalidCapacity},
		{"neigh policy", func(c *Config) { c.Neigh.Policy = "sometimes" }, neigh.ErrUnknownPolicy},
		{"high water", func(c *Config) { c.Neigh.HighWaterNum = 5 }, neigh.ErrInvalidHighWater},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.target)
		})
	}

	t.Run("metrics path", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Metrics.Path = "metrics"
		assert.Error(t, cfg.Validate())
	})
	t.Run("introspect addr", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Introspect = IntrospectConfig{Enable: true}
		assert.Error(t, cfg.Validate())
	})
	t.Run("nil", func(t *testing.T) {
		var cfg *Config
		assert.Error(t, cfg.Validate())
	})
}

func TestValidateAndFix(t *testing.T) {
	cfg := &Config{
		Neigh:      NeighConfig{HighWaterNum: 4, HighWaterDen: 3},
		Metrics:    MetricsConfig{Enable: false},
		Introspect: IntrospectConfig{Enable: true},
	}
	cfg.Cong.Store.Shards = 64
	cfg.Cong.Store.Capacity = 8

	fixed, err := ValidateAndFix(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), fixed.Cong.Threshold)
	assert.Equal(t, time.Hour, fixed.Cong.Window.Duration())
	assert.Equal(t, "bbr", fixed.Cong.Algorithm)
	assert.Equal(t, 8, fixed.Cong.Store.Shards)
	assert.Equal(t, 1024, fixed.Neigh.Store.Capacity)
	assert.Equal(t, int32(3), fixed.Neigh.HighWaterNum)
	assert.Equal(t, int32(4), fixed.Neigh.HighWaterDen)
	assert.Equal(t, 4096, fixed.Emitter.Capacity)
	assert.Equal(t, "127.0.0.1:6060", fixed.Introspect.Addr)

	fresh, err := ValidateAndFix(nil)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), fresh)
}

func TestConversions(t *testing.T) {
	cfg := NewConfig()
	cfg.Cong.ResetStaleOnRetransmit = true
	cfg.Neigh.Policy = "nearly-full"
	cfg.Neigh.Store.Policy = "evict-lru"

	tc := cfg.Cong.TrackerConfig()
	assert.Equal(t, cong.Config{Threshold: 500, Window: time.Hour, Algorithm: "bbr", ResetStaleOnRetransmit: true}, tc)

	nc, err := cfg.Neigh.TrackerConfig()
	require.NoError(t, err)
	assert.Equal(t, neigh.EmitNearlyFull, nc.Policy)

	sc, err := cfg.Neigh.Store.StoreConfig()
	require.NoError(t, err)
	assert.Equal(t, store.EvictLRU, sc.Policy)

	ec := cfg.Emitter.EmitterConfig()
	assert.Equal(t, 4096, ec.Capacity)
	assert.Equal(t, time.Second, ec.WarnInterval)
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"90m"`), &d))
	assert.Equal(t, 90*time.Minute, d.Duration())

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, d.Duration())

	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))

	out, err := json.Marshal(Duration(30 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"30s"`, string(out))
}

func TestDuration_YAML(t *testing.T) {
	var v struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 2h\nb: 500\n"), &v))
	assert.Equal(t, 2*time.Hour, v.A.Duration())
	assert.Equal(t, Duration(500), v.B)

	assert.Error(t, yaml.Unmarshal([]byte("a: [1, 2]\n"), &v))

	out, err := yaml.Marshal(struct {
		A Duration `yaml:"a"`
	}{A: Duration(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, "a: 1m0s\n", string(out))
}

func TestFromJSON_KeepsDefaults(t *testing.T) {
	cfg, err := FromJSON([]byte(`{"cong":{"threshold":10,"window":"5m"}}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(10), cfg.Cong.Threshold)
	assert.Equal(t, 5*time.Minute, cfg.Cong.Window.Duration())
	assert.Equal(t, "bbr", cfg.Cong.Algorithm)
	assert.Equal(t, 4096, cfg.Emitter.Capacity)

	_, err = FromJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nettune.yaml")
	content := `
cong:
  threshold: 800
  window: 30m
  algorithm: cubic
  store:
    capacity: 64
    shards: 4
    policy: evict-lru
neigh:
  policy: nearly-full
emitter:
  capacity: 128
metrics:
  enable: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(800), cfg.Cong.Threshold)
	assert.Equal(t, 30*time.Minute, cfg.Cong.Window.Duration())
	assert.Equal(t, "cubic", cfg.Cong.Algorithm)
	assert.Equal(t, StoreConfig{Capacity: 64, Shards: 4, Policy: "evict-lru"}, cfg.Cong.Store)
	assert.Equal(t, "nearly-full", cfg.Neigh.Policy)
	assert.Equal(t, int32(3), cfg.Neigh.HighWaterNum)
	assert.Equal(t, 128, cfg.Emitter.Capacity)
	assert.False(t, cfg.Metrics.Enable)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NETTUNE_CONG_THRESHOLD", "42")
	t.Setenv("NETTUNE_CONG_WINDOW", "15m")
	t.Setenv("NETTUNE_NEIGH_STORE_CAPACITY", "2048")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.Cong.Threshold)
	assert.Equal(t, 15*time.Minute, cfg.Cong.Window.Duration())
	assert.Equal(t, 2048, cfg.Neigh.Store.Capacity)
	assert.Equal(t, 1024, cfg.Cong.Store.Capacity)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nettune.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cong":{"threshold":800}}`), 0o600))
	t.Setenv("NETTUNE_CONG_THRESHOLD", "900")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), cfg.Cong.Threshold)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("NETTUNE_CONG_WINDOW", "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestUsage(t *testing.T) {
	text, err := Usage()
	require.NoError(t, err)
	assert.Contains(t, text, "NETTUNE_CONG_THRESHOLD")
	assert.Contains(t, text, "NETTUNE_NEIGH_STORE_POLICY")
	assert.Contains(t, text, "NETTUNE_INTROSPECT_ADDR")
}

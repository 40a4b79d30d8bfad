package nettune

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-nettune/config"
	"github.com/dep2p/go-nettune/internal/core/cong"
	"github.com/dep2p/go-nettune/internal/core/emitter"
	"github.com/dep2p/go-nettune/internal/core/introspect"
	"github.com/dep2p/go-nettune/internal/core/metrics"
	"github.com/dep2p/go-nettune/internal/core/neigh"
	"github.com/dep2p/go-nettune/pkg/interfaces"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置、时间源、netns 来源
//  2. Emitter
//  3. Cong / Neigh 跟踪器及各自的状态表
//  4. Metrics、Introspect（条件加载）
//  5. 用户扩展、Engine 组件注入
func buildFxApp(o *options, e *Engine) (*fx.App, error) {
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(o.config),
		fx.Provide(func() clock.Clock { return o.clock }),
		fx.Provide(fx.Annotate(
			func() func() uint64 { return o.netns },
			fx.ResultTags(`name:"netns"`),
		)),

		emitterModule,
		congModule,
		neighModule,
	}

	if o.config.Metrics.Enable {
		modules = append(modules,
			fx.Provide(func() prometheus.Registerer { return o.registerer }),
			metrics.Module,
		)
	}

	if o.config.Introspect.Enable {
		modules = append(modules, introspect.Module())
	}

	if len(o.fxOptions) > 0 {
		modules = append(modules, o.fxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectEngineComponents(e)),
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return app, nil
}

// ════════════════════════════════════════════════════════════════════════════
// 模块
// ════════════════════════════════════════════════════════════════════════════

var emitterModule = fx.Module("emitter",
	fx.Provide(
		provideEmitter,
		func(em *emitter.Emitter) interfaces.Emitter { return em },
	),
)

func provideEmitter(lc fx.Lifecycle, cfg *config.Config) *emitter.Emitter {
	em := emitter.New(cfg.Emitter.EmitterConfig())
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return em.Close()
		},
	})
	return em
}

var congModule = fx.Module("cong",
	fx.Provide(
		provideHostStore,
		provideCongTracker,
	),
)

func provideHostStore(cfg *config.Config) (*cong.HostStore, error) {
	sc, err := cfg.Cong.Store.StoreConfig()
	if err != nil {
		return nil, err
	}
	return cong.NewHostStore(sc)
}

type congParams struct {
	fx.In

	Config  *config.Config
	Hosts   *cong.HostStore
	Emitter interfaces.Emitter
	Clock   clock.Clock
	Netns   func() uint64 `name:"netns"`
}

func provideCongTracker(p congParams) (*cong.Tracker, error) {
	return cong.New(p.Config.Cong.TrackerConfig(), p.Hosts, p.Emitter,
		cong.WithClock(p.Clock),
		cong.WithNetns(p.Netns),
	)
}

var neighModule = fx.Module("neigh",
	fx.Provide(
		provideTableStore,
		provideNeighTracker,
	),
)

func provideTableStore(cfg *config.Config) (*neigh.TableStore, error) {
	sc, err := cfg.Neigh.Store.StoreConfig()
	if err != nil {
		return nil, err
	}
	return neigh.NewTableStore(sc)
}

func provideNeighTracker(cfg *config.Config, tables *neigh.TableStore, em interfaces.Emitter) (*neigh.Tracker, error) {
	tc, err := cfg.Neigh.TrackerConfig()
	if err != nil {
		return nil, err
	}
	return neigh.New(tc, tables, em)
}

// ════════════════════════════════════════════════════════════════════════════
// 组件注入
// ════════════════════════════════════════════════════════════════════════════

// engineInjectParams Engine 组件注入参数
type engineInjectParams struct {
	fx.In

	Cong       *cong.Tracker
	Neigh      *neigh.Tracker
	Emitter    *emitter.Emitter
	Collector  *metrics.Collector `optional:"true"`
	Introspect *introspect.Server `optional:"true"`
}

func injectEngineComponents(e *Engine) func(engineInjectParams) {
	return func(p engineInjectParams) {
		e.cong = p.Cong
		e.neigh = p.Neigh
		e.emitter = p.Emitter
		e.collector = p.Collector
		e.introspect = p.Introspect
	}
}

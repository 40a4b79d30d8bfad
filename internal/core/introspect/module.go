package introspect

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-nettune/config"
	"github.com/dep2p/go-nettune/internal/core/cong"
	"github.com/dep2p/go-nettune/internal/core/emitter"
	"github.com/dep2p/go-nettune/internal/core/neigh"
)

// ModuleInput 模块输入
type ModuleInput struct {
	fx.In

	Config  *config.Config   `optional:"true"`
	Cong    *cong.Tracker    `optional:"true"`
	Neigh   *neigh.Tracker   `optional:"true"`
	Emitter *emitter.Emitter `optional:"true"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Server *Server
}

// ProvideServer 提供自省服务
func ProvideServer(in ModuleInput) ModuleOutput {
	cfg := Config{
		Cong:    in.Cong,
		Neigh:   in.Neigh,
		Emitter: in.Emitter,
	}
	if in.Config != nil {
		cfg.Addr = in.Config.Introspect.Addr
	}
	return ModuleOutput{
		Server: New(cfg),
	}
}

// Module 返回 introspect fx 模块
func Module() fx.Option {
	return fx.Module("introspect",
		fx.Provide(ProvideServer),
		fx.Invoke(func(lc fx.Lifecycle, s *Server) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return s.Start(ctx)
				},
				OnStop: func(ctx context.Context) error {
					return s.Stop(ctx)
				},
			})
		}),
	)
}

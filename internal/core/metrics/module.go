package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-nettune/internal/core/cong"
	"github.com/dep2p/go-nettune/internal/core/emitter"
	"github.com/dep2p/go-nettune/internal/core/neigh"
	"github.com/dep2p/go-nettune/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// Params Collector 依赖参数
type Params struct {
	fx.In

	LC         fx.Lifecycle
	Cong       *cong.Tracker         `optional:"true"`
	Neigh      *neigh.Tracker        `optional:"true"`
	Emitter    *emitter.Emitter      `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Module 是 metrics 的 Fx 模块
//
// 提供了 Registerer 时，收集器在启动时注册、停止时注销。
var Module = fx.Module("metrics",
	fx.Provide(NewFromParams),
	fx.Invoke(func(*Collector) {}),
)

// NewFromParams 从参数创建 Collector
func NewFromParams(p Params) *Collector {
	c := NewCollector(p.Cong, p.Neigh, p.Emitter)
	if p.Registerer == nil {
		return c
	}
	reg := p.Registerer
	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := reg.Register(c); err != nil {
				var are prometheus.AlreadyRegisteredError
				if errors.As(err, &are) {
					logger.Warn("指标收集器已注册，沿用已有实例")
					return nil
				}
				return err
			}
			return nil
		},
		OnStop: func(context.Context) error {
			reg.Unregister(c)
			return nil
		},
	})
	return c
}

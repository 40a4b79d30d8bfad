package nettune

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-nettune/config"
	"github.com/dep2p/go-nettune/pkg/interfaces"
)

// Option 引擎配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config     *config.Config
	clock      clock.Clock
	applier    interfaces.Applier
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	netns      func() uint64
	fxOptions  []fx.Option
}

func defaultOptions() *options {
	return &options{
		config: config.NewConfig(),
		clock:  clock.New(),
	}
}

// WithConfig 使用完整配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: config", ErrNilOption)
		}
		o.config = cfg
		return nil
	}
}

// WithClock 设置时间源
//
// 测试与轨迹回放使用 clock.NewMock()。
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		if c == nil {
			return fmt.Errorf("%w: clock", ErrNilOption)
		}
		o.clock = c
		return nil
	}
}

// WithApplier 设置调优动作的应用器
//
// 未设置时 EstablishedConn 只返回动作，不做任何套接字操作。
func WithApplier(a interfaces.Applier) Option {
	return func(o *options) error {
		o.applier = a
		return nil
	}
}

// WithRegisterer 设置指标注册器
//
// 未设置且启用指标时，引擎使用独立的 prometheus.Registry。
// r 同时实现 prometheus.Gatherer 时，Engine.Registry 返回它。
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) error {
		if r == nil {
			return fmt.Errorf("%w: registerer", ErrNilOption)
		}
		o.registerer = r
		if g, ok := r.(prometheus.Gatherer); ok {
			o.gatherer = g
		}
		return nil
	}
}

// WithNetns 设置网络命名空间 cookie 的默认来源
//
// 通知未携带 netns 时使用。未设置时读取当前进程的 SO_NETNS_COOKIE。
func WithNetns(fn func() uint64) Option {
	return func(o *options) error {
		if fn == nil {
			return fmt.Errorf("%w: netns", ErrNilOption)
		}
		o.netns = fn
		return nil
	}
}

// WithFxOptions 追加用户自定义的 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	nettune "github.com/dep2p/go-nettune"
	"github.com/dep2p/go-nettune/config"
	"github.com/dep2p/go-nettune/internal/core/consumer"
	"github.com/dep2p/go-nettune/internal/core/trace"
	"github.com/dep2p/go-nettune/pkg/types"
)

const shutdownTimeout = 5 * time.Second

func newRunCmd(flags *rootFlags) *cobra.Command {
	var (
		input          string
		metricsAddr    string
		introspectAddr string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Consume a live notification stream and serve metrics",
		Long: `读取 JSON lines 通知流（默认标准输入），驱动决策核心，
记录产生的调优事件，并在配置的地址上提供 Prometheus /metrics。
输入结束后继续提供指标，直到收到 SIGINT / SIGTERM。`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configFile)
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				cfg.Metrics.ListenAddr = metricsAddr
			}
			if introspectAddr != "" {
				cfg.Introspect.Enable = true
				cfg.Introspect.Addr = introspectAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src, closeSrc, err := openInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeSrc()

			return runEngine(ctx, cfg, src)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "通知流文件，- 表示标准输入")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "覆盖 metrics.listen_addr")
	cmd.Flags().StringVar(&introspectAddr, "introspect-addr", "", "启用自省服务并监听该地址")
	return cmd
}

// newRunEngine 创建 run 使用的引擎
//
// 通知流只携带地址，没有可操作的连接，因此不配置 Applier；
// 真正修改套接字由嵌入方通过 Engine.EstablishedConn 完成（见 apply 子命令）。
func newRunEngine(cfg *config.Config) (*nettune.Engine, error) {
	return nettune.New(nettune.WithConfig(cfg))
}

func runEngine(ctx context.Context, cfg *config.Config, src io.Reader) error {
	engine, err := newRunEngine(cfg)
	if err != nil {
		return err
	}
	if err := engine.Start(ctx); err != nil {
		return err
	}

	if addr := engine.IntrospectAddr(); addr != "" {
		cmdLogger.Info("自省服务地址", "url", "http://"+addr+"/debug/nettune")
	}

	g, gctx := errgroup.WithContext(ctx)

	c := consumer.New(engine, nil)
	g.Go(func() error {
		return c.Run(gctx)
	})

	if cfg.Metrics.Enable {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(engine.Registry(), promhttp.HandlerOpts{}))
		srv := &http.Server{
			Addr:              cfg.Metrics.ListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			cmdLogger.Info("指标服务已启动", "addr", cfg.Metrics.ListenAddr, "path", cfg.Metrics.Path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		p := trace.NewPlayer(engine.Hooks())
		p.OnAction = func(rec trace.Record, action types.TuningAction) {
			cmdLogger.Info("调优动作", "addr", rec.Addr, "algorithm", action.Algorithm)
		}
		sum, err := p.Play(gctx, trace.NewReader(src))
		cmdLogger.Info("输入结束", "records", sum.Records, "actions", sum.Actions)
		return err
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stopErr := engine.Stop(stopCtx)

	stats := engine.Snapshot()
	cmdLogger.Info("退出",
		"hosts", stats.Hosts.Len,
		"tables", stats.Tables.Len,
		"actions", stats.Cong.Actions,
		"emitted", stats.Emitter.Emitted,
		"dropped", stats.Emitter.Dropped)

	return multierr.Append(err, stopErr)
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

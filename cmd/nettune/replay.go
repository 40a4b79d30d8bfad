package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	nettune "github.com/dep2p/go-nettune"
	"github.com/dep2p/go-nettune/config"
	"github.com/dep2p/go-nettune/internal/core/consumer"
	"github.com/dep2p/go-nettune/internal/core/trace"
)

func newReplayCmd(flags *rootFlags) *cobra.Command {
	var (
		start string
		netns uint64
	)
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay a notification trace on a simulated clock",
		Long: `按记录中的 "at" 时间戳推进模拟时钟回放通知轨迹，
把决策核心产生的调优事件以 JSON lines 写到标准输出，摘要写到标准错误。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configFile)
			if err != nil {
				return err
			}
			cfg.Metrics.Enable = false
			cfg.Introspect.Enable = false

			at := time.Now().UTC()
			if start != "" {
				if at, err = time.Parse(time.RFC3339, start); err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}

			src, closeSrc, err := openInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeSrc()

			sum, stats, err := replay(cmd.Context(), cfg, src, cmd.OutOrStdout(), at, netns)
			fmt.Fprintf(cmd.ErrOrStderr(),
				"records=%d retransmits=%d established=%d neigh_creates=%d actions=%d emitted=%d dropped=%d\n",
				sum.Records, sum.Retransmits, sum.Established, sum.NeighCreates, sum.Actions,
				stats.Emitter.Emitted, stats.Emitter.Dropped)
			return err
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "模拟时钟起点（RFC3339），默认当前时间")
	cmd.Flags().Uint64Var(&netns, "netns", 0, "通知未携带 netns 时使用的 cookie")
	return cmd
}

func replay(ctx context.Context, cfg *config.Config, src io.Reader, out io.Writer, start time.Time, netns uint64) (trace.Summary, nettune.Stats, error) {
	mock := clock.NewMock()
	mock.Set(start)

	engine, err := nettune.New(
		nettune.WithConfig(cfg),
		nettune.WithClock(mock),
		nettune.WithNetns(func() uint64 { return netns }),
	)
	if err != nil {
		return trace.Summary{}, nettune.Stats{}, err
	}
	if err := engine.Start(ctx); err != nil {
		return trace.Summary{}, nettune.Stats{}, err
	}

	enc := json.NewEncoder(out)
	var encErr error
	c := consumer.New(engine, func(d consumer.Decoded) {
		if encErr == nil {
			encErr = enc.Encode(newEventView(d))
		}
	})

	var sum trace.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := c.Run(gctx); err != nil {
			return err
		}
		return encErr
	})
	g.Go(func() error {
		p := trace.NewPlayer(engine.Hooks())
		p.Clock = mock
		var err error
		sum, err = p.Play(gctx, trace.NewReader(src))

		// 关闭事件通道，消费者读完剩余事件后退出
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return multierr.Append(err, engine.Stop(stopCtx))
	})

	err = g.Wait()
	return sum, engine.Snapshot(), err
}

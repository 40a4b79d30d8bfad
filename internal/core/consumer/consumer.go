// Package consumer 提供事件通道的参考消费者
//
// 按 tuner 选择 payload 模式解码定长记录，交给 Handler 处理。
// 供 cmd/nettune 与测试使用；真正的调优策略不在决策核心之内。
package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dep2p/go-nettune/internal/core/neigh"
	"github.com/dep2p/go-nettune/pkg/interfaces"
	"github.com/dep2p/go-nettune/pkg/lib/log"
	"github.com/dep2p/go-nettune/pkg/types"
)

var logger = log.Logger("core/consumer")

// ErrUnknownTuner 无法识别的 tuner
var ErrUnknownTuner = errors.New("consumer: unknown tuner")

// Decoded 解码后的事件
//
// Host 与 Table 二者恰有其一非 nil。
type Decoded struct {
	Event types.TuningEvent
	Host  *types.HostSummary
	Table *types.TableStats
}

// Decode 按 tuner 解码 payload
func Decode(ev types.TuningEvent) (Decoded, error) {
	d := Decoded{Event: ev}
	switch ev.Tuner {
	case types.TunerCong:
		h, err := types.HostSummaryFromPayload(ev.Payload)
		if err != nil {
			return d, err
		}
		d.Host = &h
	case types.TunerNeighTable:
		s := types.TableStatsFromPayload(ev.Payload)
		d.Table = &s
	default:
		return d, fmt.Errorf("%w: %s", ErrUnknownTuner, ev.Tuner)
	}
	return d, nil
}

// Handler 事件处理函数
type Handler func(Decoded)

// Stats 消费统计
type Stats struct {
	// Decoded 成功解码的事件数
	Decoded uint64

	// Undecodable 解码失败的事件数
	Undecodable uint64
}

// Consumer 事件消费者
type Consumer struct {
	src     interfaces.EventSource
	handler Handler
	neigh   neigh.Config

	decoded     atomic.Uint64
	undecodable atomic.Uint64
}

// New 创建消费者，handler 可为 nil（只记录日志）
func New(src interfaces.EventSource, handler Handler) *Consumer {
	return &Consumer{
		src:     src,
		handler: handler,
		neigh:   neigh.DefaultConfig(),
	}
}

// Run 持续消费直到 ctx 取消或事件通道关闭
//
// 通道关闭时返回 nil，ctx 取消时返回 ctx.Err()。
func (c *Consumer) Run(ctx context.Context) error {
	out := c.src.Out()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-out:
			if !ok {
				return nil
			}
			c.handle(ev)
		}
	}
}

func (c *Consumer) handle(ev types.TuningEvent) {
	d, err := Decode(ev)
	if err != nil {
		c.undecodable.Add(1)
		logger.Warn("无法解码事件", "tuner", ev.Tuner.String(), "error", err)
		return
	}
	c.decoded.Add(1)
	c.report(d)
	if c.handler != nil {
		c.handler(d)
	}
}

func (c *Consumer) report(d Decoded) {
	switch {
	case d.Host != nil:
		logger.Info("远端主机重传超过阈值",
			"addr", d.Host.Host.String(),
			"retransmits", d.Host.Retransmits,
			"netns", d.Event.Context)
	case d.Table != nil:
		s := d.Table
		if !c.neigh.NearlyFull(s.Entries, s.Max) {
			logger.Debug("邻居表快照", "stats", s.String())
			return
		}
		tun, _ := neigh.CapacityTunable(types.Family(s.Family))
		logger.Info("邻居表接近容量上限",
			"dev", s.DeviceName(),
			"entries", s.Entries,
			"max", s.Max,
			"sysctl", tun.SysctlName())
	}
}

// Snapshot 返回统计快照
func (c *Consumer) Snapshot() Stats {
	return Stats{
		Decoded:     c.decoded.Load(),
		Undecodable: c.undecodable.Load(),
	}
}

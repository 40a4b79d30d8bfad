package nettune

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// stopTimeout Close 使用的停止超时
const stopTimeout = 10 * time.Second

// Start 启动引擎
//
// 启动 Fx 应用（注册指标收集器等）。引擎只能启动一次。
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.started {
		return ErrAlreadyStarted
	}

	if err := e.app.Start(ctx); err != nil {
		logger.Error("决策引擎启动失败", "error", err)
		return fmt.Errorf("start failed: %w", err)
	}
	e.started = true

	logger.Info("决策引擎已启动",
		"id", e.id.String(),
		"threshold", e.cfg.Cong.Threshold,
		"window", e.cfg.Cong.Window.String(),
		"algorithm", e.cfg.Cong.Algorithm,
		"neighPolicy", e.cfg.Neigh.Policy)
	return nil
}

// Stop 停止引擎
//
// 关闭事件通道并注销指标收集器。停止后的引擎不能再次启动，
// 之后到达的通知仍会更新状态，但事件被丢弃。
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if !e.started {
		return ErrNotStarted
	}

	err := multierr.Combine(
		e.app.Stop(ctx),
		e.emitter.Close(),
	)
	e.started = false
	e.closed = true

	stats := e.emitter.Snapshot()
	logger.Info("决策引擎已停止",
		"id", e.id.String(),
		"emitted", stats.Emitted,
		"dropped", stats.Dropped)

	if err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	return nil
}

// Close 关闭引擎
//
// 已启动时等价于带超时的 Stop；未启动时只关闭事件通道。可重复调用。
func (e *Engine) Close() error {
	e.mu.Lock()
	started, closed := e.started, e.closed
	if !started && !closed {
		e.closed = true
		e.mu.Unlock()
		return e.emitter.Close()
	}
	e.mu.Unlock()

	if closed {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return e.Stop(ctx)
}

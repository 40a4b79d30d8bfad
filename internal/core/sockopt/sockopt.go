// Package sockopt 实现调优动作的特权应用步骤
//
// 决策核心只产生 TuningAction；本包把动作落到套接字上：
//   - ActionSetCongestion -> setsockopt(IPPROTO_TCP, TCP_CONGESTION, algo)
//
// 另外提供当前进程网络命名空间的 cookie（SO_NETNS_COOKIE），
// 作为事件 context 标识的默认来源。
//
// 仅 Linux 支持，其他平台返回 ErrUnsupported。
package sockopt

import (
	"errors"
	"fmt"
	"sync"
	"syscall"

	"github.com/dep2p/go-nettune/pkg/interfaces"
	"github.com/dep2p/go-nettune/pkg/lib/log"
	"github.com/dep2p/go-nettune/pkg/types"
)

var logger = log.Logger("core/sockopt")

var (
	// ErrUnsupported 当前平台不支持
	ErrUnsupported = errors.New("sockopt: unsupported on this platform")

	// ErrUnsupportedAction 不支持的动作类型
	ErrUnsupportedAction = errors.New("sockopt: unsupported action")

	// ErrApplyFailed 应用动作失败
	ErrApplyFailed = errors.New("sockopt: apply failed")
)

// Applier 基于 setsockopt 的动作应用器
type Applier struct{}

var _ interfaces.Applier = Applier{}

// Apply 将动作应用到连接
func (Applier) Apply(conn syscall.Conn, action types.TuningAction) error {
	if action.Kind != types.ActionSetCongestion {
		return fmt.Errorf("%w: %s", ErrUnsupportedAction, action.Kind)
	}
	raw, err := conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrApplyFailed, err)
	}
	var serr error
	if err := raw.Control(func(fd uintptr) {
		serr = setCongestion(fd, action.Algorithm)
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrApplyFailed, err)
	}
	if serr != nil {
		return fmt.Errorf("%w: congestion %q: %w", ErrApplyFailed, action.Algorithm, serr)
	}
	return nil
}

// CurrentCongestion 返回连接当前的拥塞控制算法
func CurrentCongestion(conn syscall.Conn) (string, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return "", err
	}
	var (
		name string
		gerr error
	)
	if err := raw.Control(func(fd uintptr) {
		name, gerr = getCongestion(fd)
	}); err != nil {
		return "", err
	}
	return name, gerr
}

// NetnsCookie 返回当前进程所在网络命名空间的 cookie
func NetnsCookie() (uint64, error) {
	return netnsCookie()
}

// CachedNetns 返回只查询一次 netns cookie 的函数
//
// 查询失败时返回 0（事件仍然发射，只是不带 context）。
func CachedNetns() func() uint64 {
	return sync.OnceValue(func() uint64 {
		c, err := netnsCookie()
		if err != nil {
			logger.Debug("无法获取 netns cookie", "error", err)
			return 0
		}
		return c
	})
}

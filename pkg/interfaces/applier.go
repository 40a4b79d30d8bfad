package interfaces

import (
	"syscall"

	"github.com/dep2p/go-nettune/pkg/types"
)

// Applier 特权应用步骤
//
// 决策核心只产生 TuningAction，修改套接字配置由 Applier 完成。
type Applier interface {
	// Apply 将动作应用到连接
	Apply(conn syscall.Conn, action types.TuningAction) error
}

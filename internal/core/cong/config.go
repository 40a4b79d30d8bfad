package cong

import (
	"errors"
	"fmt"
	"time"
)

// 默认参数
const (
	// DefaultThreshold 重传阈值
	DefaultThreshold = 500

	// DefaultWindow 过期窗口
	DefaultWindow = time.Hour

	// DefaultAlgorithm 目标拥塞控制算法
	DefaultAlgorithm = "bbr"

	// algNameMax 算法名最大长度（TCP_CA_NAME_MAX - 1）
	algNameMax = 15
)

var (
	// ErrInvalidThreshold 阈值必须为正
	ErrInvalidThreshold = errors.New("cong: threshold must be positive")

	// ErrInvalidWindow 窗口必须为正
	ErrInvalidWindow = errors.New("cong: window must be positive")

	// ErrInvalidAlgorithm 算法名无效
	ErrInvalidAlgorithm = errors.New("cong: invalid congestion algorithm name")
)

// Config 跟踪器配置
type Config struct {
	// Threshold 触发动作所需的重传次数
	Threshold uint64

	// Window 最近一次重传距今超过该时长即视为过期
	Window time.Duration

	// Algorithm 切换到的拥塞控制算法
	Algorithm string

	// ResetStaleOnRetransmit 重传时若上一次重传已过期，计数从 1 重新开始
	ResetStaleOnRetransmit bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Threshold: DefaultThreshold,
		Window:    DefaultWindow,
		Algorithm: DefaultAlgorithm,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Threshold == 0 {
		return ErrInvalidThreshold
	}
	if c.Window <= 0 {
		return ErrInvalidWindow
	}
	if c.Algorithm == "" || len(c.Algorithm) > algNameMax {
		return fmt.Errorf("%w: %q", ErrInvalidAlgorithm, c.Algorithm)
	}
	return nil
}

// ErrNilStore 未提供状态表
var ErrNilStore = errors.New("cong: nil host store")

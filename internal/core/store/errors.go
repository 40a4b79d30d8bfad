package store

import "errors"

var (
	// ErrInvalidCapacity 容量必须为正
	ErrInvalidCapacity = errors.New("store: capacity must be positive")

	// ErrInvalidShards 分片数必须为正
	ErrInvalidShards = errors.New("store: shard count must be positive")

	// ErrUnknownPolicy 未知的淘汰策略
	ErrUnknownPolicy = errors.New("store: unknown eviction policy")

	// ErrNilHash 未提供哈希函数
	ErrNilHash = errors.New("store: nil hash function")
)

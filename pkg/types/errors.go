package types

import "errors"

var (
	// ErrUnsupportedFamily 不支持的协议族
	ErrUnsupportedFamily = errors.New("unsupported address family")

	// ErrMalformedAddress 地址长度与协议族不符
	ErrMalformedAddress = errors.New("malformed address")

	// ErrShortRecord 事件记录长度错误
	ErrShortRecord = errors.New("event record has wrong size")

	// ErrPayloadSchema payload 与 tuner/scenario 不匹配
	ErrPayloadSchema = errors.New("payload does not match event schema")
)

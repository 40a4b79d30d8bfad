package store

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// HashBytes 计算字节序列的分片哈希
func HashBytes(b []byte) uint64 {
	return murmur3.Sum64(b)
}

// HashUint64 计算整数键的分片哈希
func HashUint64(v uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return murmur3.Sum64(b[:])
}

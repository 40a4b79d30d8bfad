package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// DevNameLen 设备名字段长度（含结尾 NUL，对应 IFNAMSIZ）
const DevNameLen = 16

// tableStatsSize TableStats 编码长度
const tableStatsSize = 5*4 + DevNameLen

// TableID 资源表标识（不透明句柄）
type TableID uint64

// TableStats 邻居表统计快照
type TableStats struct {
	// Family 表所属协议族
	Family int32

	// Entries 当前表项数
	Entries int32

	// GCEntries 参与垃圾回收的表项数
	GCEntries int32

	// Max 容量阈值（gc_thresh3）
	Max int32

	// IfIndex 关联设备索引
	IfIndex int32

	// Dev 关联设备名，NUL 结尾
	Dev [DevNameLen]byte
}

// SetDevice 记录关联设备，名称超长时截断并保留结尾 NUL
func (s *TableStats) SetDevice(name string, index int32) {
	s.Dev = [DevNameLen]byte{}
	copy(s.Dev[:DevNameLen-1], name)
	s.IfIndex = index
}

// DeviceName 返回设备名
func (s TableStats) DeviceName() string {
	if i := bytes.IndexByte(s.Dev[:], 0); i >= 0 {
		return string(s.Dev[:i])
	}
	return string(s.Dev[:])
}

// String 返回可读描述
func (s TableStats) String() string {
	return fmt.Sprintf("family=%d entries=%d gc_entries=%d max=%d dev=%s ifindex=%d",
		s.Family, s.Entries, s.GCEntries, s.Max, s.DeviceName(), s.IfIndex)
}

// PutPayload 将快照写入事件 payload
func (s TableStats) PutPayload(p *[PayloadSize]byte) {
	*p = [PayloadSize]byte{}
	binary.LittleEndian.PutUint32(p[0:], uint32(s.Family))
	binary.LittleEndian.PutUint32(p[4:], uint32(s.Entries))
	binary.LittleEndian.PutUint32(p[8:], uint32(s.GCEntries))
	binary.LittleEndian.PutUint32(p[12:], uint32(s.Max))
	binary.LittleEndian.PutUint32(p[16:], uint32(s.IfIndex))
	copy(p[20:tableStatsSize], s.Dev[:])
}

// TableStatsFromPayload 从事件 payload 解析快照
func TableStatsFromPayload(p [PayloadSize]byte) TableStats {
	var s TableStats
	s.Family = int32(binary.LittleEndian.Uint32(p[0:]))
	s.Entries = int32(binary.LittleEndian.Uint32(p[4:]))
	s.GCEntries = int32(binary.LittleEndian.Uint32(p[8:]))
	s.Max = int32(binary.LittleEndian.Uint32(p[12:]))
	s.IfIndex = int32(binary.LittleEndian.Uint32(p[16:]))
	copy(s.Dev[:], p[20:tableStatsSize])
	return s
}

package types

import (
	"encoding/binary"
	"fmt"
	"time"
)

// 事件记录尺寸
const (
	// PayloadSize payload 固定长度
	PayloadSize = 64

	// RecordSize 整条记录固定长度
	RecordSize = 4 + 4 + 8 + PayloadSize
)

// TunerID 产生事件的跟踪器
type TunerID uint32

const (
	// TunerCong 远端主机拥塞控制跟踪器
	TunerCong TunerID = iota
	// TunerNeighTable 邻居表增长跟踪器
	TunerNeighTable
)

// String 返回跟踪器名称
func (t TunerID) String() string {
	switch t {
	case TunerCong:
		return "cong"
	case TunerNeighTable:
		return "neigh_table"
	default:
		return fmt.Sprintf("tuner(%d)", uint32(t))
	}
}

// ScenarioID 触发的具体场景
type ScenarioID uint32

const (
	// ScenarioRetransmitThreshold 重传次数在窗口内超过阈值（TunerCong）
	ScenarioRetransmitThreshold ScenarioID = 0

	// ScenarioTableGrowth 邻居表新增表项（TunerNeighTable）
	ScenarioTableGrowth ScenarioID = 0
)

// TuningEvent 定长事件记录
type TuningEvent struct {
	// Tuner 产生事件的跟踪器
	Tuner TunerID

	// Scenario 触发的场景
	Scenario ScenarioID

	// Context 网络命名空间标识（netns cookie）
	Context uint64

	// Payload 按 tuner/scenario 解释的定长数据
	Payload [PayloadSize]byte
}

// MarshalBinary 编码为 RecordSize 字节
func (e TuningEvent) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RecordSize)
	e.put(buf)
	return buf, nil
}

// AppendBinary 追加编码结果
func (e TuningEvent) AppendBinary(b []byte) []byte {
	var rec [RecordSize]byte
	e.put(rec[:])
	return append(b, rec[:]...)
}

func (e TuningEvent) put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], uint32(e.Tuner))
	binary.LittleEndian.PutUint32(buf[4:], uint32(e.Scenario))
	binary.LittleEndian.PutUint64(buf[8:], e.Context)
	copy(buf[16:], e.Payload[:])
}

// UnmarshalBinary 解码，长度必须恰好为 RecordSize
func (e *TuningEvent) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrShortRecord, len(data), RecordSize)
	}
	e.Tuner = TunerID(binary.LittleEndian.Uint32(data[0:]))
	e.Scenario = ScenarioID(binary.LittleEndian.Uint32(data[4:]))
	e.Context = binary.LittleEndian.Uint64(data[8:])
	copy(e.Payload[:], data[16:])
	return nil
}

// ============================================================================
//                              HostSummary
// ============================================================================

// HostSummary 重传阈值事件的 payload
//
// 布局：family(2) | pad(2) | addr(16) | pad(4) | retransmits(8) | last_retransmit_unix_ns(8)
type HostSummary struct {
	// Host 远端主机
	Host HostKey

	// Retransmits 决策时的重传计数
	Retransmits uint64

	// LastRetransmit 最近一次重传时间
	LastRetransmit time.Time
}

// PutPayload 写入事件 payload
func (h HostSummary) PutPayload(p *[PayloadSize]byte) {
	*p = [PayloadSize]byte{}
	binary.LittleEndian.PutUint16(p[0:], uint16(h.Host.Family()))
	copy(p[4:20], h.Host[:])
	binary.LittleEndian.PutUint64(p[24:], h.Retransmits)
	if !h.LastRetransmit.IsZero() {
		binary.LittleEndian.PutUint64(p[32:], uint64(h.LastRetransmit.UnixNano()))
	}
}

// HostSummaryFromPayload 从事件 payload 解析
func HostSummaryFromPayload(p [PayloadSize]byte) (HostSummary, error) {
	var h HostSummary
	copy(h.Host[:], p[4:20])
	family := Family(binary.LittleEndian.Uint16(p[0:]))
	if family != h.Host.Family() {
		return HostSummary{}, fmt.Errorf("%w: family %s does not match address %s", ErrPayloadSchema, family, h.Host)
	}
	h.Retransmits = binary.LittleEndian.Uint64(p[24:])
	if ns := int64(binary.LittleEndian.Uint64(p[32:])); ns != 0 {
		h.LastRetransmit = time.Unix(0, ns)
	}
	return h, nil
}

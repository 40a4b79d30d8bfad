// Package trace 读取并回放入站通知轨迹
//
// 轨迹为 JSON lines，每行一条通知：
//
//	{"kind":"retransmit","addr":"2001:db8::1"}
//	{"kind":"established","addr":"10.0.0.1","netns":4026531840}
//	{"kind":"neigh_create","table":1,"family":2,"entries":10,"gc_entries":8,"max":1024,"dev":"eth0","ifindex":2}
//
// 可选的 "at"（RFC3339）驱动 mock 时钟，数小时的轨迹可以瞬间回放。
// 空行与以 # 开头的行被忽略。
package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"time"

	"github.com/dep2p/go-nettune/pkg/interfaces"
	"github.com/dep2p/go-nettune/pkg/types"
)

var (
	// ErrUnknownKind 未知的通知类型
	ErrUnknownKind = errors.New("trace: unknown kind")

	// ErrBadAddress 地址无法解析
	ErrBadAddress = errors.New("trace: bad address")
)

// Kind 通知类型
type Kind string

const (
	KindRetransmit  Kind = "retransmit"
	KindEstablished Kind = "established"
	KindNeighCreate Kind = "neigh_create"
)

// Record 一条轨迹记录
type Record struct {
	Kind Kind       `json:"kind"`
	At   *time.Time `json:"at,omitempty"`

	// retransmit / established
	Addr  string `json:"addr,omitempty"`
	Netns uint64 `json:"netns,omitempty"`

	// neigh_create
	Table     uint64 `json:"table,omitempty"`
	Family    uint16 `json:"family,omitempty"`
	Entries   int32  `json:"entries,omitempty"`
	GCEntries int32  `json:"gc_entries,omitempty"`
	Max       int32  `json:"max,omitempty"`
	Dev       string `json:"dev,omitempty"`
	IfIndex   int32  `json:"ifindex,omitempty"`
}

// Parse 解析一行
func Parse(line []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return Record{}, err
	}
	switch rec.Kind {
	case KindRetransmit, KindEstablished:
		if _, err := netip.ParseAddr(rec.Addr); err != nil {
			return Record{}, fmt.Errorf("%w: %q", ErrBadAddress, rec.Addr)
		}
	case KindNeighCreate:
	default:
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownKind, rec.Kind)
	}
	return rec, nil
}

// rawAddr 地址转换为协议族与原始字节
func rawAddr(s string) (types.Family, []byte, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return types.FamilyUnspec, nil, fmt.Errorf("%w: %q", ErrBadAddress, s)
	}
	if addr.Is4() {
		return types.FamilyInet, addr.AsSlice(), nil
	}
	return types.FamilyInet6, addr.AsSlice(), nil
}

// Apply 把记录送入 hooks
//
// established 返回 hooks 给出的动作。
func (r Record) Apply(h interfaces.Hooks) (types.TuningAction, bool, error) {
	switch r.Kind {
	case KindRetransmit:
		fam, raw, err := rawAddr(r.Addr)
		if err != nil {
			return types.TuningAction{}, false, err
		}
		h.Retransmit(interfaces.RetransmitEvent{Family: fam, Addr: raw})
		return types.TuningAction{}, false, nil

	case KindEstablished:
		fam, raw, err := rawAddr(r.Addr)
		if err != nil {
			return types.TuningAction{}, false, err
		}
		action, ok := h.Established(interfaces.EstablishedEvent{Family: fam, Addr: raw, Netns: r.Netns})
		return action, ok, nil

	case KindNeighCreate:
		ev := interfaces.NeighCreateEvent{
			Table:     types.TableID(r.Table),
			Family:    types.Family(r.Family),
			Entries:   r.Entries,
			GCEntries: r.GCEntries,
			Max:       r.Max,
			Netns:     r.Netns,
		}
		if r.Dev != "" || r.IfIndex != 0 {
			ev.Device = &interfaces.Device{Name: r.Dev, Index: r.IfIndex}
		}
		h.NeighCreate(ev)
		return types.TuningAction{}, false, nil

	default:
		return types.TuningAction{}, false, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
}

// Reader 逐行读取轨迹
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader 创建读取器
func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r)}
}

// Next 返回下一条记录，读完时返回 io.EOF
func (r *Reader) Next() (Record, error) {
	for r.sc.Scan() {
		r.line++
		b := bytes.TrimSpace(r.sc.Bytes())
		if len(b) == 0 || b[0] == '#' {
			continue
		}
		rec, err := Parse(b)
		if err != nil {
			return Record{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return Record{}, err
	}
	return Record{}, io.EOF
}

// Line 返回最近读取的行号
func (r *Reader) Line() int {
	return r.line
}

package main

import (
	"time"

	"github.com/dep2p/go-nettune/internal/core/consumer"
	"github.com/dep2p/go-nettune/pkg/types"
)

// eventView 调优事件的 JSON 表示
type eventView struct {
	Tuner    string     `json:"tuner"`
	Scenario uint32     `json:"scenario"`
	Context  uint64     `json:"context"`
	Host     *hostView  `json:"host,omitempty"`
	Table    *tableView `json:"table,omitempty"`
}

type hostView struct {
	Addr           string    `json:"addr"`
	Retransmits    uint64    `json:"retransmits"`
	LastRetransmit time.Time `json:"last_retransmit"`
}

type tableView struct {
	Family    string `json:"family"`
	Entries   int32  `json:"entries"`
	GCEntries int32  `json:"gc_entries"`
	Max       int32  `json:"max"`
	Dev       string `json:"dev,omitempty"`
	IfIndex   int32  `json:"ifindex"`
}

func newEventView(d consumer.Decoded) eventView {
	v := eventView{
		Tuner:    d.Event.Tuner.String(),
		Scenario: uint32(d.Event.Scenario),
		Context:  d.Event.Context,
	}
	if h := d.Host; h != nil {
		v.Host = &hostView{
			Addr:           h.Host.String(),
			Retransmits:    h.Retransmits,
			LastRetransmit: h.LastRetransmit.UTC(),
		}
	}
	if s := d.Table; s != nil {
		v.Table = &tableView{
			Family:    types.Family(s.Family).String(),
			Entries:   s.Entries,
			GCEntries: s.GCEntries,
			Max:       s.Max,
			Dev:       s.DeviceName(),
			IfIndex:   s.IfIndex,
		}
	}
	return v
}

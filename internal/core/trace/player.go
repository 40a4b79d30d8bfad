package trace

import (
	"context"
	"errors"
	"io"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-nettune/pkg/interfaces"
	"github.com/dep2p/go-nettune/pkg/lib/log"
	"github.com/dep2p/go-nettune/pkg/types"
)

var logger = log.Logger("core/trace")

// Summary 回放统计
type Summary struct {
	Records      int
	Retransmits  int
	Established  int
	Actions      int
	NeighCreates int
}

// Player 把轨迹回放到 hooks
type Player struct {
	hooks interfaces.Hooks

	// Clock 非 nil 时按记录的 at 推进
	Clock *clock.Mock

	// OnAction 每次 established 给出动作时调用
	OnAction func(Record, types.TuningAction)
}

// NewPlayer 创建回放器
func NewPlayer(hooks interfaces.Hooks) *Player {
	return &Player{hooks: hooks}
}

// Play 回放直到读完或 ctx 取消
//
// 时间戳早于当前 mock 时间的记录不回拨时钟。
func (p *Player) Play(ctx context.Context, r *Reader) (Summary, error) {
	var sum Summary
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return sum, nil
		}
		if err != nil {
			return sum, err
		}

		if p.Clock != nil && rec.At != nil && rec.At.After(p.Clock.Now()) {
			p.Clock.Set(*rec.At)
		}

		action, ok, err := rec.Apply(p.hooks)
		if err != nil {
			return sum, err
		}
		sum.Records++
		switch rec.Kind {
		case KindRetransmit:
			sum.Retransmits++
		case KindEstablished:
			sum.Established++
		case KindNeighCreate:
			sum.NeighCreates++
		}
		if ok {
			sum.Actions++
			logger.Debug("轨迹产生调优动作", "line", r.Line(), "addr", rec.Addr, "algorithm", action.Algorithm)
			if p.OnAction != nil {
				p.OnAction(rec, action)
			}
		}
	}
}

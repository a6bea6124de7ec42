package website

import (
	"fmt"

	"website-cli/internal/events"
)

// drain 反复取出通道中的全部事件直到为空，逐个应用。
// 更新信号可能被合并，因此一次调用必须处理所有已缓冲的事件。
func (c *Controller) drain() int {
	applied := 0
	for {
		batch := c.receiver.TryReceiveAll()
		if len(batch) == 0 {
			return applied
		}
		for _, ev := range batch {
			c.apply(ev)
			applied++
		}
	}
}

func (c *Controller) apply(ev events.Event) {
	switch ev.Kind {
	case events.KindTitleArrived:
		c.setTitle(ev.Title)
	default:
		panic(fmt.Sprintf("website: unexpected event kind %q", ev.Kind))
	}

	// 终止事件应用之后才释放，保证下一次抓取不会与本次的状态写入重叠。
	if ev.Terminal() {
		if err := c.guard.Release(); err != nil {
			c.log.WithError(err).WithField("fetch_id", ev.FetchID).Warn("terminal event without admission")
			return
		}
		c.log.WithField("fetch_id", ev.FetchID).Debug("released in-flight guard")
	}
}

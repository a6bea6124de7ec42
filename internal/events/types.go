package events

import "time"

// Kind 区分 Event 的变体。
type Kind string

const (
	// KindTitleArrived 携带一次抓取得到的标题，是一次抓取的终止事件。
	KindTitleArrived Kind = "title_arrived"
)

// Event 是 worker 发往 UI 的唯一消息格式。构造后不可修改。
// FetchID 与 Timestamp 仅用于日志关联，不参与分发。
type Event struct {
	Kind      Kind
	Title     string
	FetchID   string
	Timestamp time.Time
}

// TitleArrived 构造 KindTitleArrived 事件。
func TitleArrived(fetchID, title string) Event {
	return Event{
		Kind:      KindTitleArrived,
		Title:     title,
		FetchID:   fetchID,
		Timestamp: time.Now(),
	}
}

// Terminal 报告事件是否结束一次抓取（需要释放 in-flight 标志）。
func (e Event) Terminal() bool {
	return e.Kind == KindTitleArrived
}

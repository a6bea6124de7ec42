package events

import (
	"errors"
	"sync"

	"website-cli/internal/logger"
)

// ErrChannelClosed 表示接收端已关闭，事件无人消费。
var ErrChannelClosed = errors.New("event channel closed")

// queue 是无界 FIFO，多生产者单消费者。
type queue struct {
	mu     sync.Mutex
	buf    []Event
	closed bool
	log    *logger.LogEntry
}

// Sender 是可共享的发送端，任意 goroutine 均可并发调用 Send。
type Sender struct {
	q *queue
}

// Receiver 是唯一的接收端，只应由 UI goroutine 持有。
type Receiver struct {
	q *queue
}

// NewChannel 创建一对收发端。
func NewChannel() (*Sender, *Receiver) {
	q := &queue{log: log}
	return &Sender{q: q}, &Receiver{q: q}
}

// SetLogger 覆盖队列日志。
func (r *Receiver) SetLogger(entry *logger.LogEntry) {
	if entry == nil {
		return
	}
	r.q.mu.Lock()
	r.q.log = entry
	r.q.mu.Unlock()
}

// Clone 返回指向同一队列的新发送端。
func (s *Sender) Clone() *Sender {
	return &Sender{q: s.q}
}

// Send 追加事件，从不阻塞。接收端关闭后返回 ErrChannelClosed。
func (s *Sender) Send(event Event) error {
	q := s.q
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrChannelClosed
	}
	q.buf = append(q.buf, event)
	depth := len(q.buf)
	entry := q.log
	q.mu.Unlock()

	logEvent(entry, event).WithField("depth", depth).Debug("enqueued event")
	return nil
}

// TryReceiveAll 取出当前缓冲的全部事件（可能为空），按发送顺序返回，从不阻塞。
func (r *Receiver) TryReceiveAll() []Event {
	q := r.q
	q.mu.Lock()
	if len(q.buf) == 0 {
		q.mu.Unlock()
		return nil
	}
	out := q.buf
	q.buf = nil
	entry := q.log
	q.mu.Unlock()

	entry.WithField("count", len(out)).Debug("drained events")
	return out
}

// Len 返回当前缓冲的事件数。
func (r *Receiver) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return len(r.q.buf)
}

// Close 关闭接收端并丢弃缓冲事件；之后的 Send 返回 ErrChannelClosed。可重复调用。
func (r *Receiver) Close() {
	q := r.q
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	dropped := len(q.buf)
	q.buf = nil
	entry := q.log
	q.mu.Unlock()

	if dropped > 0 {
		entry.WithField("dropped", dropped).Warn("closed event channel with pending events")
	}
}

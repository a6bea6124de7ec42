package fetch

import (
	"errors"
	"sync"
	"time"

	"website-cli/internal/events"
	"website-cli/internal/logger"

	"github.com/google/uuid"
)

var log = logger.Named("fetch")

// UpdateRequester 请求 UI 线程尽快调度一次更新。
// 必须可以从任意 goroutine 调用；允许合并多次请求，但至少投递一次。
type UpdateRequester interface {
	RequestUpdate()
}

// RequesterFunc 让函数实现 UpdateRequester。
type RequesterFunc func()

func (f RequesterFunc) RequestUpdate() { f() }

// Task 是一次抓取。URL 在准入时快照，之后不再读取 UI 状态。
type Task struct {
	ID        string
	URL       string
	Delay     time.Duration
	Sender    *events.Sender
	Requester UpdateRequester
	// Log 为空时使用包级 logger。
	Log *logger.LogEntry
}

// NewTask 为 url 快照创建抓取任务并分配 ID。
func NewTask(url string, delay time.Duration, sender *events.Sender, requester UpdateRequester) *Task {
	return &Task{
		ID:        uuid.NewString(),
		URL:       url,
		Delay:     delay,
		Sender:    sender,
		Requester: requester,
	}
}

// Run 在当前 goroutine 上执行抓取：等待 Delay、计算标题、入队事件、通知 UI。
// 一旦开始就一定完成，没有取消路径。接收端已关闭时只记录日志并返回。
func (t *Task) Run() {
	base := t.Log
	if base == nil {
		base = log
	}
	entry := base.WithFields(logger.Fields{"fetch_id": t.ID, "url": t.URL})
	entry.Debug("fetch started")

	if t.Delay > 0 {
		timer := time.NewTimer(t.Delay)
		<-timer.C
	}

	title := TitleFor(t.URL)
	if err := t.Sender.Send(events.TitleArrived(t.ID, title)); err != nil {
		if errors.Is(err, events.ErrChannelClosed) {
			entry.Warn("receiver gone, dropping fetched title")
			return
		}
		entry.WithError(err).Error("failed to enqueue fetched title")
		return
	}
	if t.Requester != nil {
		t.Requester.RequestUpdate()
	}
	entry.WithField("title", title).Debug("fetch finished")
}

// Spawner 为每个任务启动一个专用 goroutine，不复用、不池化。
type Spawner struct {
	wg sync.WaitGroup
}

// Spawn 在新 goroutine 上运行任务并立即返回。
func (s *Spawner) Spawn(t *Task) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t.Run()
	}()
}

// Wait 阻塞直到所有已启动的任务返回。
func (s *Spawner) Wait() {
	s.wg.Wait()
}

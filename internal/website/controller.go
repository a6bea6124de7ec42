package website

import (
	"fmt"
	"time"

	"website-cli/internal/events"
	"website-cli/internal/fetch"
	"website-cli/internal/inflight"
	"website-cli/internal/logger"
)

var log = logger.Named("website")

// Options 配置 Controller。
type Options struct {
	// Requester 在事件入队后被 worker 调用，要求 UI 线程执行 OnUpdateRequested。
	Requester fetch.UpdateRequester
	// Delay 为模拟抓取耗时，按原值使用：零表示立即完成，默认值由配置层给出。
	Delay      time.Duration
	InitialURL string
	Observer   Observer
	// Log 用于控制器与 worker 日志，为空时使用包级 logger。
	Log *logger.LogEntry
	// EventLog 覆盖事件队列的日志，通常指向独立的 eq 日志文件。
	EventLog *logger.LogEntry
}

// Controller 持有 UI 状态，把属性变化桥接到后台抓取。
// 除 Close 外的所有方法只能在 UI goroutine 上调用，且不会阻塞。
type Controller struct {
	state     State
	guard     inflight.Guard
	sender    *events.Sender
	receiver  *events.Receiver
	spawner   fetch.Spawner
	requester fetch.UpdateRequester
	delay     time.Duration
	observer  Observer
	log       *logger.LogEntry
	closed    bool
}

// New 创建 Controller 及其事件通道。
func New(opts Options) *Controller {
	state := DefaultState()
	if opts.InitialURL != "" {
		state.URL = opts.InitialURL
	}
	delay := opts.Delay
	if delay < 0 {
		delay = 0
	}
	entry := opts.Log
	if entry == nil {
		entry = log
	}
	sender, receiver := events.NewChannel()
	receiver.SetLogger(opts.EventLog)
	return &Controller{
		state:     state,
		sender:    sender,
		receiver:  receiver,
		requester: opts.Requester,
		delay:     delay,
		observer:  opts.Observer,
		log:       entry,
	}
}

// SetRequester 替换更新请求器，必须在第一次抓取前调用。
func (c *Controller) SetRequester(r fetch.UpdateRequester) {
	c.requester = r
}

// State 返回当前状态的副本。
func (c *Controller) State() State {
	return c.state
}

// Loading 报告是否有抓取在途。
func (c *Controller) Loading() bool {
	return c.guard.InFlight()
}

// ToggleURL 在 known/unknown 之间切换 url，写入本身会触发抓取。
func (c *Controller) ToggleURL() {
	next := KnownURL
	if c.state.URL == KnownURL {
		next = UnknownURL
	}
	c.SetURL(next)
}

// SetURL 写入 url；值未变化时不发出通知。
func (c *Controller) SetURL(url string) {
	if c.state.URL == url {
		return
	}
	c.state.URL = url
	c.notify(PropertyURL)
}

// RefreshTitle 请求为当前 url 抓取标题，返回是否被准入。
// 已有抓取在途时跳过本次请求，保留原标题；不会自动重试。
func (c *Controller) RefreshTitle() bool {
	if c.closed {
		c.log.Info("skipped refresh_title request, controller closed")
		return false
	}
	if !c.guard.TryAdmit() {
		c.log.WithField("url", c.state.URL).Info("skipped refresh_title request, because already in progress")
		return false
	}

	c.setTitle(LoadingTitle)

	task := fetch.NewTask(c.state.URL, c.delay, c.sender.Clone(), c.requester)
	task.Log = c.log
	c.log.WithFields(logger.Fields{"fetch_id": task.ID, "url": task.URL}).Info("admitted fetch")
	c.spawner.Spawn(task)
	return true
}

// OnPropertyChanged 处理属性变更通知。只有 url 会触发抓取；
// 未识别的属性说明 UI 绑定与此处不一致，直接 panic。
func (c *Controller) OnPropertyChanged(p Property) {
	switch p {
	case PropertyURL:
		c.RefreshTitle()
	case PropertyTitle:
		c.log.WithField("title", c.state.Title).Debug("title changed")
	default:
		panic(fmt.Sprintf("website: unexpected property change notification %v", p))
	}
}

// OnUpdateRequested 处理 worker 发来的更新请求：排空事件通道并应用到状态。
// 返回应用的事件数。
func (c *Controller) OnUpdateRequested() int {
	return c.drain()
}

// Close 关闭事件接收端并等待已启动的 worker 退出。
// 未送达的结果被丢弃，之后的 RefreshTitle 均被跳过。
func (c *Controller) Close() {
	if !c.closed {
		c.closed = true
		c.receiver.Close()
	}
	c.spawner.Wait()
}

func (c *Controller) setTitle(title string) {
	if c.state.Title == title {
		return
	}
	c.state.Title = title
	c.notify(PropertyTitle)
}

func (c *Controller) notify(p Property) {
	if c.observer != nil {
		c.observer(p, c.state)
	}
	c.OnPropertyChanged(p)
}

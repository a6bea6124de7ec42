// Package uiloop 是无界面模式下的"UI 线程"：单个 goroutine 串行执行投递的任务，
// 并提供可合并的更新信号。
package uiloop

import (
	"context"
	"errors"
	"sync"

	"website-cli/internal/logger"
)

// ErrLoopStopped 表示循环已退出，任务不会再被执行。
var ErrLoopStopped = errors.New("ui loop stopped")

var log = logger.Named("uiloop")

// Loop 在 Run 所在的 goroutine 上执行所有任务与更新回调。
type Loop struct {
	mu       sync.Mutex
	tasks    []func()
	wake     chan struct{}
	update   chan struct{}
	onUpdate func()
	done     chan struct{}
	stopped  bool
}

// New 创建循环。onUpdate 在 RequestUpdate 之后于循环 goroutine 上调用。
func New(onUpdate func()) *Loop {
	return &Loop{
		wake:     make(chan struct{}, 1),
		update:   make(chan struct{}, 1),
		onUpdate: onUpdate,
		done:     make(chan struct{}),
	}
}

// SetOnUpdate 替换更新回调，必须在 Run 之前调用。
func (l *Loop) SetOnUpdate(fn func()) {
	l.onUpdate = fn
}

// Post 把 fn 排入循环，按投递顺序执行，从不阻塞。
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrLoopStopped
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	signal(l.wake)
	return nil
}

// RequestUpdate 可从任意 goroutine 调用。连续多次请求可能合并为一次回调，
// 但请求之后至少会有一次回调。
func (l *Loop) RequestUpdate() {
	signal(l.update)
}

// Done 在 Run 返回后关闭。
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run 阻塞执行循环直到 ctx 结束。返回前会执行完已投递的任务。
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.stopped = true
			l.mu.Unlock()
			l.runTasks()
			return ctx.Err()
		case <-l.wake:
			l.runTasks()
		case <-l.update:
			// 先执行已投递的任务，保证请求更新之前的写入先生效。
			l.runTasks()
			if l.onUpdate != nil {
				l.onUpdate()
			}
		}
	}
}

func (l *Loop) runTasks() {
	for {
		l.mu.Lock()
		batch := l.tasks
		l.tasks = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		log.WithField("count", len(batch)).Debug("running posted tasks")
		for _, fn := range batch {
			fn()
		}
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Package inflight 提供"同一时刻至多一次抓取"的准入标志。
package inflight

import (
	"errors"
	"sync/atomic"
)

// ErrNotInFlight 表示在没有成功准入的情况下调用了 Release。
var ErrNotInFlight = errors.New("release without outstanding admission")

// Guard 是跨 goroutine 共享的原子布尔标志，零值可用（未占用）。
// 准入与释放都是单次 CAS；Go 的原子操作是顺序一致的，两侧使用相同的强序。
type Guard struct {
	busy atomic.Bool
}

// TryAdmit 尝试从空闲切换到占用，成功返回 true；已占用时返回 false，调用方应跳过本次请求。
func (g *Guard) TryAdmit() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release 清除占用。每次成功准入恰好调用一次，且只在终止事件被应用之后调用。
func (g *Guard) Release() error {
	if !g.busy.CompareAndSwap(true, false) {
		return ErrNotInFlight
	}
	return nil
}

// InFlight 报告当前是否有抓取在途。
func (g *Guard) InFlight() bool {
	return g.busy.Load()
}

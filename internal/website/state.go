package website

import (
	"fmt"

	"website-cli/internal/fetch"
)

// url 的两个哨兵值，ToggleURL 在两者之间切换。
const (
	KnownURL   = fetch.KnownURL
	UnknownURL = "unknown"
)

const (
	DefaultTitle = "Press refresh to get a title..."
	LoadingTitle = "Loading..."
)

// State 是 UI 可见的状态，只由 UI goroutine 读写。
type State struct {
	URL   string
	Title string
}

// DefaultState 返回初始状态。
func DefaultState() State {
	return State{URL: KnownURL, Title: DefaultTitle}
}

// Property 标识发生变化的属性。
type Property int

const (
	PropertyURL Property = iota + 1
	PropertyTitle
)

func (p Property) String() string {
	switch p {
	case PropertyURL:
		return "url"
	case PropertyTitle:
		return "title"
	default:
		return fmt.Sprintf("property(%d)", int(p))
	}
}

// Observer 接收属性写入通知，相当于 UI 框架对字段的变更侦测。
type Observer func(changed Property, state State)
